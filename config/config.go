package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// EnvPrefix is prepended to every environment variable the service reads
const EnvPrefix = "CARDEXPORT"

// SpreadsheetIDEnvVar is the variable that supplies the default spreadsheet
const SpreadsheetIDEnvVar = EnvPrefix + "_SHEETS_SPREADSHEET_ID"

// CredentialsFileEnvVar points at a service account key file
const CredentialsFileEnvVar = EnvPrefix + "_SHEETS_CREDENTIALS_FILE"

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Sheets    SheetsConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// IsProduction reports whether error details must be hidden from clients
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// StoreConfig holds card store configuration
type StoreConfig struct {
	Type       string `mapstructure:"type"` // "memory" or "sqlite"
	SQLitePath string `mapstructure:"sqlite_path"`
}

// SheetsConfig holds Google Sheets configuration
type SheetsConfig struct {
	SpreadsheetID     string        `mapstructure:"spreadsheet_id"`
	SheetName         string        `mapstructure:"sheet_name"`
	CredentialsFile   string        `mapstructure:"credentials_file"`
	CredentialsJSON   string        `mapstructure:"credentials_json"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	SerializeWrites   bool          `mapstructure:"serialize_writes"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// HasCredentials reports whether a service account was configured
func (s SheetsConfig) HasCredentials() bool {
	return s.CredentialsFile != "" || s.CredentialsJSON != ""
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/cardexport/")

	// server.port -> CARDEXPORT_SERVER_PORT
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults are enough
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env if present. Variables already set in the
// environment win over the file.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return gotenv.Load(".env")
}

// setDefaults sets default configuration values. Every key needs a default
// so that viper binds its environment variable during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	v.SetDefault("store.type", "memory")
	v.SetDefault("store.sqlite_path", "cards.db")

	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.sheet_name", "Sheet1")
	v.SetDefault("sheets.credentials_file", "")
	v.SetDefault("sheets.credentials_json", "")
	v.SetDefault("sheets.requests_per_minute", 60)
	v.SetDefault("sheets.serialize_writes", true)
	v.SetDefault("sheets.timeout", "30s")

	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required (set %s_SERVER_PORT)", EnvPrefix)
	}

	if config.Store.Type != "memory" && config.Store.Type != "sqlite" {
		return fmt.Errorf("store type must be 'memory' or 'sqlite', got: %s", config.Store.Type)
	}

	if config.Store.Type == "sqlite" && config.Store.SQLitePath == "" {
		return fmt.Errorf("SQLite path is required when store type is 'sqlite' (set %s_STORE_SQLITE_PATH)", EnvPrefix)
	}

	if config.Sheets.RequestsPerMinute <= 0 {
		return fmt.Errorf("sheets requests per minute must be positive, got: %d", config.Sheets.RequestsPerMinute)
	}

	if config.Sheets.SheetName == "" {
		return fmt.Errorf("sheet name cannot be empty (set %s_SHEETS_SHEET_NAME)", EnvPrefix)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("per-IP rate limit cannot be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
