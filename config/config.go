package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hmeyer/daypeak/internal/domain/models"
)

// Config holds the full application configuration loaded from environment
// variables or a .env file.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	TRACKER_KIND=max
//	TRACKER_ENTITY_IDS=sensor.kitchen,sensor.bedroom
//	TRACKER_ROUND_DIGITS=2
//	TRACKER_RESET_TIME=00:00:00
//	TRACKER_MANUAL_RESET_ONLY=false
//	POSTGRES_HOST=localhost
//	POSTGRES_PORT=5432
//	POSTGRES_USER=admin
//	POSTGRES_PASSWORD=secret
//	POSTGRES_DB=daypeak
//	POSTGRES_SSLMODE=disable
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Tracker  TrackerConfig  // min/max tracker configuration
	Postgres PostgresConfig // PostgreSQL connection settings
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port string // The TCP port the HTTP server will listen on (e.g., "8080")
}

// TrackerConfig defines the tracked entities and the reset/rounding policy.
//
// Fields:
//   - Kind: "min" or "max"; selects the primary exposed value.
//   - Name: optional display name; derived from Kind when empty.
//   - EntityIDs: ordered, unique list of tracked entity identifiers.
//   - RoundDigits: precision applied to every ingested reading.
//   - ResetTime: "HH:MM:SS" time-of-day for the daily reset.
//   - ManualResetOnly: suppresses the scheduled daily reset.
type TrackerConfig struct {
	Kind            models.TrackerKind
	Name            string
	EntityIDs       []string
	RoundDigits     int
	ResetTime       string
	ManualResetOnly bool
}

// PostgresConfig defines connection details for PostgreSQL.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string // computed DSN used by database/sql to connect
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and read throughout the application
// instead of reloading environment variables directly.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from a .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or invalid, validateConfig()
//     terminates the app with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")

	viper.SetDefault("TRACKER_KIND", string(models.KindMax))
	viper.SetDefault("TRACKER_NAME", "")
	viper.SetDefault("TRACKER_ENTITY_IDS", "")
	viper.SetDefault("TRACKER_ROUND_DIGITS", 2)
	viper.SetDefault("TRACKER_RESET_TIME", "00:00:00")
	viper.SetDefault("TRACKER_MANUAL_RESET_ONLY", false)

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "daypeak")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	// Populate global config instance
	AppConfig = Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Tracker: TrackerConfig{
			Kind:            models.TrackerKind(strings.ToLower(viper.GetString("TRACKER_KIND"))),
			Name:            viper.GetString("TRACKER_NAME"),
			EntityIDs:       splitEntityIDs(viper.GetString("TRACKER_ENTITY_IDS")),
			RoundDigits:     viper.GetInt("TRACKER_ROUND_DIGITS"),
			ResetTime:       viper.GetString("TRACKER_RESET_TIME"),
			ManualResetOnly: viper.GetBool("TRACKER_MANUAL_RESET_ONLY"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	// Validate critical fields
	validateConfig()
}

// splitEntityIDs parses the comma-separated TRACKER_ENTITY_IDS value,
// trimming whitespace and dropping empty entries.
func splitEntityIDs(raw string) []string {
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// validateConfig ensures required variables are present and well-formed, and
// terminates the application if they are not.
func validateConfig() {
	var problems []string

	if AppConfig.Server.Port == "" {
		problems = append(problems, "SERVER_PORT is required")
	}
	if !AppConfig.Tracker.Kind.Valid() {
		problems = append(problems, fmt.Sprintf("TRACKER_KIND must be %q or %q", models.KindMin, models.KindMax))
	}
	if len(AppConfig.Tracker.EntityIDs) == 0 {
		problems = append(problems, "TRACKER_ENTITY_IDS must list at least one entity id")
	}
	seen := make(map[string]struct{}, len(AppConfig.Tracker.EntityIDs))
	for _, id := range AppConfig.Tracker.EntityIDs {
		if _, dup := seen[id]; dup {
			problems = append(problems, fmt.Sprintf("TRACKER_ENTITY_IDS contains duplicate %q", id))
		}
		seen[id] = struct{}{}
	}
	if AppConfig.Tracker.RoundDigits < 0 {
		problems = append(problems, "TRACKER_ROUND_DIGITS must be >= 0")
	}
	if _, err := time.Parse("15:04:05", AppConfig.Tracker.ResetTime); err != nil {
		problems = append(problems, fmt.Sprintf("TRACKER_RESET_TIME %q is not a valid HH:MM:SS time", AppConfig.Tracker.ResetTime))
	}
	if AppConfig.Postgres.Host == "" {
		problems = append(problems, "POSTGRES_HOST is required")
	}
	if AppConfig.Postgres.Port == 0 {
		problems = append(problems, "POSTGRES_PORT is required")
	}
	if AppConfig.Postgres.User == "" {
		problems = append(problems, "POSTGRES_USER is required")
	}
	if AppConfig.Postgres.Password == "" {
		problems = append(problems, "POSTGRES_PASSWORD is required")
	}
	if AppConfig.Postgres.DBName == "" {
		problems = append(problems, "POSTGRES_DB is required")
	}

	if len(problems) > 0 {
		log.Fatalf("invalid configuration: %s\n", strings.Join(problems, "; "))
	}
}
