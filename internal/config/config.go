package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Storage driver names accepted by Validate
const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Azure    AzureConfig
	Logging  LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ShutdownTimeout time.Duration
}

// StorageConfig selects and configures the key-value store backing the
// medication collections
type StorageConfig struct {
	Driver        string // file or postgres
	DataDir       string
	EncryptionKey string // 32 bytes enables at-rest encryption of the file store
}

// DatabaseConfig holds database connection configuration for the postgres
// storage driver
type DatabaseConfig struct {
	URL string
}

// AzureConfig holds Azure service configuration
type AzureConfig struct {
	Storage BlobConfig
}

// BlobConfig holds Azure Blob Storage configuration. Report and backup
// uploads are disabled when the account is not configured.
type BlobConfig struct {
	AccountName     string
	AccountKey      string
	ReportContainer string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)

	v.SetDefault("storage.driver", DriverFile)
	v.SetDefault("storage.datadir", "./data")

	v.SetDefault("azure.storage.reportcontainer", "adherence-reports")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")

	v.BindEnv("storage.driver", "STORAGE_DRIVER")
	v.BindEnv("storage.datadir", "STORAGE_DATA_DIR")
	v.BindEnv("storage.encryptionkey", "STORAGE_ENCRYPTION_KEY")

	v.BindEnv("database.url", "DATABASE_URL")

	v.BindEnv("azure.storage.accountname", "AZURE_STORAGE_ACCOUNT_NAME")
	v.BindEnv("azure.storage.accountkey", "AZURE_STORAGE_ACCOUNT_KEY")
	v.BindEnv("azure.storage.reportcontainer", "AZURE_STORAGE_REPORT_CONTAINER")

	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverFile:
		if c.Storage.DataDir == "" {
			return fmt.Errorf("storage.datadir is required for the file driver")
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Storage.EncryptionKey != "" && len(c.Storage.EncryptionKey) != 32 {
		return fmt.Errorf("storage.encryptionkey must be exactly 32 bytes, got %d", len(c.Storage.EncryptionKey))
	}

	if c.Azure.Storage.AccountName != "" && c.Azure.Storage.AccountKey == "" {
		return fmt.Errorf("azure.storage.accountkey is required when an account name is set")
	}

	return nil
}

// BlobEnabled reports whether report and backup uploads are configured.
func (c *Config) BlobEnabled() bool {
	return c.Azure.Storage.AccountName != "" && c.Azure.Storage.AccountKey != ""
}
