package config

import "time"

// Storage backends for the best score
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// Config holds all configuration for the 2048 server.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Auth     AuthConfig     `yaml:"auth"`
	Sessions SessionsConfig `yaml:"sessions"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	MCP      MCPConfig      `yaml:"mcp"`
	Ngrok    NgrokConfig    `yaml:"ngrok"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`          // default: ":8080"
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // default: 15s
	WriteTimeout time.Duration `yaml:"write_timeout"` // default: 15s
	IdleTimeout  time.Duration `yaml:"idle_timeout"`  // default: 60s
}

// StorageConfig selects where the best score is kept.
type StorageConfig struct {
	Type     string `yaml:"type"`      // "memory", "file" or "postgres", default: "memory"
	Path     string `yaml:"path"`      // directory for type=file, default: "./data"
	Key      string `yaml:"key"`       // best score identifier, default: "best2048"
	DSN      string `yaml:"dsn"`       // required for type=postgres
	MaxConns int32  `yaml:"max_conns"` // default: 4
}

// AuthConfig enables bearer-token auth on the REST API when JWTSecret is set.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	Issuer    string `yaml:"issuer"` // default: "game2048"
}

// Enabled reports whether API requests must carry a token
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != ""
}

// SessionsConfig controls idle session expiry.
type SessionsConfig struct {
	TTL             time.Duration `yaml:"ttl"`              // default: 24h
	CleanupInterval time.Duration `yaml:"cleanup_interval"` // default: 1h
}

// LoggingConfig holds slog settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error", default: "info"
	Format string `yaml:"format"` // "text" or "json", default: "text"
}

// MetricsConfig holds Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// MCPConfig holds settings for the stdio MCP client.
type MCPConfig struct {
	ServerURL string `yaml:"server_url"` // REST API the tools call, default: "http://localhost:8080"
}

// NgrokConfig holds the optional public tunnel settings.
type NgrokConfig struct {
	Enabled   bool   `yaml:"enabled"`
	AuthToken string `yaml:"authtoken"`
	Domain    string `yaml:"domain"`
}

// Defaults returns a Config populated with built-in defaults.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Storage: StorageConfig{
			Type:     StorageMemory,
			Path:     "./data",
			Key:      "best2048",
			MaxConns: 4,
		},
		Auth: AuthConfig{
			Issuer: "game2048",
		},
		Sessions: SessionsConfig{
			TTL:             24 * time.Hour,
			CleanupInterval: time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		MCP: MCPConfig{
			ServerURL: "http://localhost:8080",
		},
	}
}
