package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mytheresa/storefront/internal/logger"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Auth     AuthConfig     `yaml:"auth"`
}

// ServerConfig represents HTTP server settings
type ServerConfig struct {
	Address         string        `yaml:"address"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig represents database and pool settings
type DatabaseConfig struct {
	URL string `yaml:"url"`
	// Driver is "pgx" or "postgres" (lib/pq).
	Driver             string        `yaml:"driver"`
	RequireTLS         bool          `yaml:"require_tls"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify"`
	MaxOpenConns       int           `yaml:"max_open_conns"`
	MaxIdleConns       int           `yaml:"max_idle_conns"`
	ConnMaxLifetime    time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime    time.Duration `yaml:"conn_max_idle_time"`
}

// LoggingConfig represents logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AuthConfig holds the admin credentials and token signing settings.
type AuthConfig struct {
	AdminEmail    string        `yaml:"admin_email"`
	AdminPassword string        `yaml:"admin_password"`
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:         ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:             "pgx",
			RequireTLS:         true,
			InsecureSkipVerify: true,
			MaxOpenConns:       25,
			MaxIdleConns:       25,
			ConnMaxLifetime:    5 * time.Minute,
			ConnMaxIdleTime:    time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Auth: AuthConfig{
			AdminEmail: "admin@example.com",
			TokenTTL:   72 * time.Hour,
		},
	}
}

// Load reads an optional .env file, an optional YAML file, then applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	// A missing .env is fine; the process environment is used as-is.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	if addr := os.Getenv("SERVER_ADDR"); addr != "" {
		cfg.Server.Address = addr
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Database.URL = url
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		cfg.Database.Driver = driver
	}
	if v := os.Getenv("DB_REQUIRE_TLS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Database.RequireTLS = b
		}
	}
	if v := os.Getenv("DB_MAX_OPEN_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Database.MaxOpenConns = n
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Logging.Format = format
	}
	if email := os.Getenv("ADMIN_EMAIL"); email != "" {
		cfg.Auth.AdminEmail = email
	}
	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		cfg.Auth.AdminPassword = password
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}
	switch c.Database.Driver {
	case "pgx", "postgres":
	default:
		return fmt.Errorf("unknown database driver: %q", c.Database.Driver)
	}
	if c.Database.MaxOpenConns < 1 {
		return fmt.Errorf("database max open connections must be at least 1")
	}
	if !logger.IsValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Auth.JWTSecret == "" || c.Auth.AdminPassword == "" {
		return fmt.Errorf("admin password and jwt secret must be set")
	}
	return nil
}

// String returns a representation safe for logging; credentials are omitted.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Address: %s, Driver: %s, TLS: %v, LogLevel: %s}",
		c.Server.Address, c.Database.Driver, c.Database.RequireTLS, c.Logging.Level)
}
