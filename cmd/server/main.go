package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"larsbees/config"
	"larsbees/database"
	"larsbees/pkg/access"
	"larsbees/pkg/logging"
	"larsbees/pkg/metrics"
	"larsbees/pkg/middleware"
	"larsbees/router"

	actionCtrlImp "larsbees/pkg/action/controllerImp"
	actionRepoImp "larsbees/pkg/action/repositoryImp"
	actionSvcImp "larsbees/pkg/action/serviceImp"

	adminCtrlImp "larsbees/pkg/admin/controllerImp"
	adminSvcImp "larsbees/pkg/admin/serviceImp"

	authCtrlImp "larsbees/pkg/auth/controllerImp"
	authRepoImp "larsbees/pkg/auth/repositoryImp"
	authSvcImp "larsbees/pkg/auth/serviceImp"

	calendarCtrlImp "larsbees/pkg/calendar/controllerImp"

	diseaseCtrlImp "larsbees/pkg/disease/controllerImp"
	diseaseRepoImp "larsbees/pkg/disease/repositoryImp"

	exportCtrlImp "larsbees/pkg/export/controllerImp"
	exportSvcImp "larsbees/pkg/export/serviceImp"

	healthCtrlImp "larsbees/pkg/health/controllerImp"

	hiveCtrlImp "larsbees/pkg/hive/controllerImp"
	hiveRepoImp "larsbees/pkg/hive/repositoryImp"

	reportCtrlImp "larsbees/pkg/report/controllerImp"
	reportSvcImp "larsbees/pkg/report/serviceImp"

	scheduleCtrlImp "larsbees/pkg/schedule/controllerImp"
	scheduleSvcImp "larsbees/pkg/schedule/serviceImp"

	siteCtrlImp "larsbees/pkg/site/controllerImp"
	siteSvcImp "larsbees/pkg/site/serviceImp"

	taskTypeCtrlImp "larsbees/pkg/tasktype/controllerImp"
	taskTypeRepoImp "larsbees/pkg/tasktype/repositoryImp"
)

var (
	cfg    config.AppConfig
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "larsbees",
	Short: "LarsBees apiary management server",
	Long: `LarsBees tracks apiary sites, hives, hive actions and disease reports,
and schedules recurring beekeeping work.

Run without a subcommand to start the HTTP server.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		logger, err = logging.New(cfg.LogLevel, cfg.Debug)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error { return serve(cmd.Context()) },
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  func(cmd *cobra.Command, args []string) error { return serve(cmd.Context()) },
}

func main() {
	rootCmd.AddCommand(serveCmd, migrateCmd, setupCmd, seedCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	if cfg.InsecureSecret() {
		logger.Warn("SECRET_KEY is the development default; run `larsbees setup` before deploying")
	}
	db, err := database.OpenSQLite(ctx, cfg.SQLitePath(), logger)
	if err != nil {
		return err
	}
	if cfg.Debug {
		created, err := database.EnsureAdmin(ctx, db, cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			return err
		}
		if created {
			logger.Info("created default admin user", zap.String("username", cfg.AdminUsername))
		}
	}

	m := metrics.New()
	guard := access.NewGuard(db)

	users := authRepoImp.New(db)
	authSvc := authSvcImp.New(users, cfg.SecretKey, cfg.SessionTTL, cfg.RememberTTL)
	types := taskTypeRepoImp.New(db)
	schedSvc := scheduleSvcImp.New(db, guard, m, logger)

	h := router.Controllers{
		Auth:     authCtrlImp.NewAuthController(authSvc, logger, !cfg.Debug),
		Sites:    siteCtrlImp.New(siteSvcImp.New(db, guard, m, logger)),
		Hives:    hiveCtrlImp.New(hiveRepoImp.New(db), guard),
		Types:    taskTypeCtrlImp.New(types),
		Actions:  actionCtrlImp.New(actionSvcImp.New(actionRepoImp.New(db), types, guard, cfg.ActionsPerPage, m, logger)),
		Disease:  diseaseCtrlImp.New(diseaseRepoImp.New(db), guard),
		Schedule: scheduleCtrlImp.New(schedSvc),
		Feed:     calendarCtrlImp.New(users, schedSvc),
		Reports:  reportCtrlImp.New(reportSvcImp.New(db)),
		Exports:  exportCtrlImp.New(exportSvcImp.New(db, m), logger),
		Admin:    adminCtrlImp.New(adminSvcImp.New(users, authSvc, logger)),
		Health:   healthCtrlImp.NewHealthCtrl(db, cfg.SQLitePath()),
	}

	e := echo.New()
	e.HideBanner = true
	router.New(e, h, router.Options{
		Log:     logger,
		Metrics: m,
		Session: middleware.Session(authSvc, users),
		Debug:   cfg.Debug,
	})

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("port", cfg.Port), zap.Bool("debug", cfg.Debug))
		errc <- e.Start(":" + cfg.Port)
	}()
	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}
