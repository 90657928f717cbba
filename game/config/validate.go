package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks the configuration for invalid or missing values.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, fmt.Errorf("server.addr is required"))
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout < 0 {
		errs = append(errs, fmt.Errorf("server timeouts must not be negative"))
	}

	switch c.Storage.Type {
	case StorageMemory:
	case StorageFile:
		if c.Storage.Path == "" {
			errs = append(errs, fmt.Errorf("storage.path is required when storage.type is %q", StorageFile))
		}
	case StoragePostgres:
		if c.Storage.DSN == "" {
			errs = append(errs, fmt.Errorf("storage.dsn is required when storage.type is %q", StoragePostgres))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.type must be %q, %q or %q, got %q",
			StorageMemory, StorageFile, StoragePostgres, c.Storage.Type))
	}
	if strings.ContainsAny(c.Storage.Key, `/\`) {
		errs = append(errs, fmt.Errorf("storage.key must not contain path separators, got %q", c.Storage.Key))
	}
	if c.Storage.MaxConns < 0 {
		errs = append(errs, fmt.Errorf("storage.max_conns must be >= 0, got %d", c.Storage.MaxConns))
	}

	if c.Sessions.TTL <= 0 {
		errs = append(errs, fmt.Errorf("sessions.ttl must be > 0, got %s", c.Sessions.TTL))
	}
	if c.Sessions.CleanupInterval <= 0 {
		errs = append(errs, fmt.Errorf("sessions.cleanup_interval must be > 0, got %s", c.Sessions.CleanupInterval))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level))
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format))
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("metrics.path must start with \"/\", got %q", c.Metrics.Path))
	}

	if c.Ngrok.Enabled && c.Ngrok.AuthToken == "" {
		errs = append(errs, fmt.Errorf("ngrok.authtoken is required when ngrok is enabled"))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
