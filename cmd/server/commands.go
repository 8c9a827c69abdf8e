package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"larsbees/config"
	"larsbees/database"
)

var (
	setupForce bool
	seedSample bool
	envFile    string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Patch legacy columns, auto-migrate the schema and backfill derived data",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg.SQLitePath())
		if err != nil {
			return err
		}
		res, err := database.Migrate(cmd.Context(), db, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "database: %s\n", cfg.SQLitePath())
		fmt.Fprintf(cmd.OutOrStdout(), "columns added:      %d\n", res.ColumnsAdded)
		fmt.Fprintf(cmd.OutOrStdout(), "rows defaulted:     %d\n", res.RowsDefaulted)
		fmt.Fprintf(cmd.OutOrStdout(), "actions classified: %d\n", res.ActionsClassified)
		fmt.Fprintf(cmd.OutOrStdout(), "calendar tokens:    %d\n", res.CalendarTokens)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert task types and system templates (and optionally demo data)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath(), logger)
		if err != nil {
			return err
		}
		if !seedSample {
			fmt.Fprintln(cmd.OutOrStdout(), "task types and system templates are up to date")
			return nil
		}
		created, err := database.SeedSample(ctx, db)
		if err != nil {
			return err
		}
		if !created {
			fmt.Fprintf(cmd.OutOrStdout(), "sample user %q already exists\n", database.SampleUser)
			return nil
		}
		logger.Info("sample data created", zap.String("username", database.SampleUser))
		fmt.Fprintf(cmd.OutOrStdout(), "sample user %s / %s created with 3 sites\n", database.SampleUser, database.SamplePassword)
		return nil
	},
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Write a .env file with a fresh secret key",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(envFile); err == nil && !setupForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", envFile)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		secret, err := randomSecret()
		if err != nil {
			return err
		}
		env := map[string]string{
			"SECRET_KEY":        secret,
			"DATABASE_URL":      "sqlite:///larsbees.db",
			"PORT":              "8080",
			"DEBUG":             "false",
			"LOG_LEVEL":         "info",
			"ACTIONS_PER_PAGE":  "50",
			"SESSION_TTL_HOURS": "24",
		}
		if err := godotenv.Write(env, envFile); err != nil {
			return fmt.Errorf("write %s: %w", envFile, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", envFile)
		printVersions(cmd)
		return nil
	},
}

func init() {
	setupCmd.Flags().BoolVar(&setupForce, "force", false, "overwrite an existing env file")
	setupCmd.Flags().StringVar(&envFile, "env-file", ".env", "path of the env file to write")
	seedCmd.Flags().BoolVar(&seedSample, "sample", false, "also create the demo user with three sites")
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func printVersions(cmd *cobra.Command) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "go %s\n", info.GoVersion)
	for _, d := range info.Deps {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", d.Path, d.Version)
	}
	if cfg.SecretKey == config.DefaultSecret {
		fmt.Fprintln(cmd.OutOrStdout(), "restart the server to pick up the new secret")
	}
}
