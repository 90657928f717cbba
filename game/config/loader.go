package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. Config file (explicit path, GAME2048_CONFIG env, ./config.yaml, ./config.yml, ./config.hcl)
//  3. Environment variable overrides
//  4. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile returns the config file to read, or "" when there is none.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}

	if envPath := os.Getenv("GAME2048_CONFIG"); envPath != "" {
		return envPath
	}

	for _, path := range []string{"config.yaml", "config.yml", "config.hcl"} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadFile decodes path onto cfg based on its extension.
// Fields not present in the file retain their current (default) values.
func loadFile(path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadYAMLFile(path, cfg)
	case ".hcl":
		return loadHCLFile(path, cfg)
	default:
		return fmt.Errorf("unsupported config file extension %q (want .yaml, .yml or .hcl)", filepath.Ext(path))
	}
}

func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps environment variables to config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GAME2048_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("GAME2048_STORAGE"); v != "" {
		cfg.Storage.Type = v
	}
	if v := os.Getenv("GAME2048_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("GAME2048_DATABASE_URL"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("GAME2048_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("GAME2048_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("GAME2048_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv("GAME2048_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Sessions.TTL = d
		}
	}
	if v := os.Getenv("GAME2048_MCP_SERVER_URL"); v != "" {
		cfg.MCP.ServerURL = v
	}

	if v := os.Getenv("NGROK_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			cfg.Ngrok.Enabled = enabled
		}
	}
	// Both spellings are in common use
	for _, name := range []string{"NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"} {
		if v := os.Getenv(name); v != "" && cfg.Ngrok.AuthToken == "" {
			cfg.Ngrok.AuthToken = v
		}
	}
	if v := os.Getenv("NGROK_DOMAIN"); v != "" {
		cfg.Ngrok.Domain = v
	}
}
