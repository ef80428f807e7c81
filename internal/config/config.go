// Package config loads taskdesk settings from TOML files and the
// environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/taskdesk/taskdesk/internal/logger"
	"github.com/taskdesk/taskdesk/internal/store"
)

const (
	// DefaultServerHost is the default server host
	DefaultServerHost = "localhost"

	// DefaultServerPort is the default server port
	DefaultServerPort = 8080

	// DefaultDatabasePath is the database file used when none is configured
	DefaultDatabasePath = "taskdesk.db"

	// DefaultAuthRatePerMinute is the default register/login rate per client
	DefaultAuthRatePerMinute = 30

	// DefaultAuthBurst is the default register/login burst per client
	DefaultAuthBurst = 15
)

// Config is the resolved configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Log      LogConfig
}

// ServerConfig is the [server] section.
type ServerConfig struct {
	Host string
	Port int
	// AuthRatePerMinute limits register and login per client; 0 disables.
	AuthRatePerMinute int
	AuthBurst         int
}

// DatabaseConfig is the [database] section.
type DatabaseConfig struct {
	Path               string
	StatementCacheSize int
}

// LogConfig is the [log] section.
type LogConfig struct {
	Level  string
	Format string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              DefaultServerHost,
			Port:              DefaultServerPort,
			AuthRatePerMinute: DefaultAuthRatePerMinute,
			AuthBurst:         DefaultAuthBurst,
		},
		Database: DatabaseConfig{
			Path:               DefaultDatabasePath,
			StatementCacheSize: store.DefaultStatementCacheSize,
		},
		Log: LogConfig{Level: "INFO", Format: "text"},
	}
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Logger returns the logger configuration for the log section.
func (c *Config) Logger() logger.Config {
	return logger.Config{Level: c.Log.Level, Format: c.Log.Format}
}

// Validate checks the configuration for values the server cannot use.
func (c *Config) Validate() error {
	var errs []error
	if err := validatePort(c.Server.Port); err != nil {
		errs = append(errs, err)
	}
	if c.Server.AuthRatePerMinute < 0 || c.Server.AuthBurst < 0 {
		errs = append(errs, errors.New("auth rate limit settings must not be negative"))
	}
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database path cannot be empty"))
	}
	if c.Database.StatementCacheSize < 0 {
		errs = append(errs, fmt.Errorf("invalid statement cache size %d: must not be negative", c.Database.StatementCacheSize))
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// validatePort checks if the port is in the valid range (1-65535)
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	return nil
}
