package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Azure    AzureConfig
	Dosing   DosingConfig
	Reminder ReminderConfig
	Logging  LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// AzureConfig holds Azure service configuration
type AzureConfig struct {
	Storage StorageConfig
}

// StorageConfig holds Azure Blob Storage configuration
type StorageConfig struct {
	AccountName      string
	AccountKey       string
	ConnectionString string
	BlobEndpoint     string
	PhotoContainer   string
	ReportContainer  string
}

// DosingConfig holds dosing engine configuration
type DosingConfig struct {
	ThresholdPolicy string // standard or conservative
	StreakMode      string // relative-to-now or relative-to-schedule
}

// ReminderConfig holds reminder sweep configuration
type ReminderConfig struct {
	Enabled       bool
	SweepInterval time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	// Bind specific environment variables
	bindEnvVars(v)

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)

	// Database defaults
	v.SetDefault("database.maxopenconns", 25)
	v.SetDefault("database.maxidleconns", 5)
	v.SetDefault("database.connmaxlifetime", 5*time.Minute)

	// Azure Storage defaults
	v.SetDefault("azure.storage.photocontainer", "injection-photos")
	v.SetDefault("azure.storage.reportcontainer", "progress-reports")

	// Dosing defaults
	v.SetDefault("dosing.thresholdpolicy", "standard")
	v.SetDefault("dosing.streakmode", "relative-to-now")

	// Reminder defaults
	v.SetDefault("reminder.enabled", true)
	v.SetDefault("reminder.sweepinterval", 15*time.Minute)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")

	// Database
	v.BindEnv("database.url", "DATABASE_URL")

	// Azure Storage
	v.BindEnv("azure.storage.accountname", "AZURE_STORAGE_ACCOUNT_NAME")
	v.BindEnv("azure.storage.accountkey", "AZURE_STORAGE_ACCOUNT_KEY")
	v.BindEnv("azure.storage.connectionstring", "AZURE_STORAGE_CONNECTION_STRING")
	v.BindEnv("azure.storage.blobendpoint", "AZURE_STORAGE_BLOB_ENDPOINT")
	v.BindEnv("azure.storage.photocontainer", "AZURE_STORAGE_PHOTO_CONTAINER")
	v.BindEnv("azure.storage.reportcontainer", "AZURE_STORAGE_REPORT_CONTAINER")

	// Dosing
	v.BindEnv("dosing.thresholdpolicy", "DOSING_THRESHOLD_POLICY")
	v.BindEnv("dosing.streakmode", "DOSING_STREAK_MODE")

	// Reminders
	v.BindEnv("reminder.enabled", "REMINDER_ENABLED")
	v.BindEnv("reminder.sweepinterval", "REMINDER_SWEEP_INTERVAL")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate required fields
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required")
	}

	if c.Azure.Storage.ConnectionString == "" && (c.Azure.Storage.AccountName == "" || c.Azure.Storage.AccountKey == "") {
		return fmt.Errorf("azure storage credentials are required (either connection string or account name + key)")
	}

	switch c.Dosing.ThresholdPolicy {
	case "standard", "conservative":
	default:
		return fmt.Errorf("dosing.thresholdpolicy must be standard or conservative, got %q", c.Dosing.ThresholdPolicy)
	}

	switch c.Dosing.StreakMode {
	case "relative-to-now", "relative-to-schedule":
	default:
		return fmt.Errorf("dosing.streakmode must be relative-to-now or relative-to-schedule, got %q", c.Dosing.StreakMode)
	}

	if c.Reminder.SweepInterval <= 0 {
		return fmt.Errorf("reminder.sweepinterval must be positive")
	}

	return nil
}
