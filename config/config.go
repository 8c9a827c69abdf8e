package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultSecret = "dev-secret-key-change-in-production"

type AppConfig struct {
	Port           string
	DatabaseURL    string
	SecretKey      string
	MapsAPIKey     string
	Debug          bool
	LogLevel       string
	ActionsPerPage int
	SessionTTL     time.Duration
	RememberTTL    time.Duration
	AdminUsername  string
	AdminPassword  string
}

// Load reads the given env files (default .env) and the process environment.
// Variables already set in the environment win. A missing file is not an error.
func Load(files ...string) (AppConfig, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return AppConfig{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	atoi := func(k string, def int) int {
		n, err := strconv.Atoi(get(k, ""))
		if err != nil || n <= 0 {
			return def
		}
		return n
	}
	return AppConfig{
		Port:           get("PORT", "8080"),
		DatabaseURL:    get("DATABASE_URL", "sqlite:///larsbees.db"),
		SecretKey:      get("SECRET_KEY", DefaultSecret),
		MapsAPIKey:     get("GOOGLE_MAPS_API_KEY", ""),
		Debug:          parseBool(get("DEBUG", "true")),
		LogLevel:       get("LOG_LEVEL", "info"),
		ActionsPerPage: atoi("ACTIONS_PER_PAGE", 50),
		SessionTTL:     time.Duration(atoi("SESSION_TTL_HOURS", 24)) * time.Hour,
		RememberTTL:    30 * 24 * time.Hour,
		AdminUsername:  get("ADMIN_USERNAME", "admin"),
		AdminPassword:  get("ADMIN_PASSWORD", "admin123"),
	}, nil
}

// SQLitePath strips the sqlite:/// scheme from DatabaseURL.
func (c AppConfig) SQLitePath() string {
	for _, p := range []string{"sqlite:///", "sqlite://", "sqlite:"} {
		if strings.HasPrefix(c.DatabaseURL, p) {
			return strings.TrimPrefix(c.DatabaseURL, p)
		}
	}
	return c.DatabaseURL
}

// InsecureSecret is true while the shipped development secret is in use.
func (c AppConfig) InsecureSecret() bool { return c.SecretKey == DefaultSecret }

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
