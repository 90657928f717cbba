package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// hclFile mirrors Config for HCL decoding. Every block and attribute is
// optional so an HCL file only overrides what it mentions.
type hclFile struct {
	Server   *hclServer   `hcl:"server,block"`
	Storage  *hclStorage  `hcl:"storage,block"`
	Auth     *hclAuth     `hcl:"auth,block"`
	Sessions *hclSessions `hcl:"sessions,block"`
	Logging  *hclLogging  `hcl:"logging,block"`
	Metrics  *hclMetrics  `hcl:"metrics,block"`
	MCP      *hclMCP      `hcl:"mcp,block"`
	Ngrok    *hclNgrok    `hcl:"ngrok,block"`
}

type hclServer struct {
	Addr         string `hcl:"addr,optional"`
	ReadTimeout  string `hcl:"read_timeout,optional"`
	WriteTimeout string `hcl:"write_timeout,optional"`
	IdleTimeout  string `hcl:"idle_timeout,optional"`
}

type hclStorage struct {
	Type     string `hcl:"type,optional"`
	Path     string `hcl:"path,optional"`
	Key      string `hcl:"key,optional"`
	DSN      string `hcl:"dsn,optional"`
	MaxConns int32  `hcl:"max_conns,optional"`
}

type hclAuth struct {
	JWTSecret string `hcl:"jwt_secret,optional"`
	Issuer    string `hcl:"issuer,optional"`
}

type hclSessions struct {
	TTL             string `hcl:"ttl,optional"`
	CleanupInterval string `hcl:"cleanup_interval,optional"`
}

type hclLogging struct {
	Level  string `hcl:"level,optional"`
	Format string `hcl:"format,optional"`
}

type hclMetrics struct {
	Enabled *bool  `hcl:"enabled,optional"`
	Path    string `hcl:"path,optional"`
}

type hclMCP struct {
	ServerURL string `hcl:"server_url,optional"`
}

type hclNgrok struct {
	Enabled   *bool  `hcl:"enabled,optional"`
	AuthToken string `hcl:"authtoken,optional"`
	Domain    string `hcl:"domain,optional"`
}

func loadHCLFile(path string, cfg *Config) error {
	var f hclFile
	if err := hclsimple.DecodeFile(path, nil, &f); err != nil {
		return err
	}
	return f.apply(cfg)
}

// apply copies every attribute set in the file onto cfg
func (f *hclFile) apply(cfg *Config) error {
	if s := f.Server; s != nil {
		setString(&cfg.Server.Addr, s.Addr)
		if err := setDuration(&cfg.Server.ReadTimeout, s.ReadTimeout, "server.read_timeout"); err != nil {
			return err
		}
		if err := setDuration(&cfg.Server.WriteTimeout, s.WriteTimeout, "server.write_timeout"); err != nil {
			return err
		}
		if err := setDuration(&cfg.Server.IdleTimeout, s.IdleTimeout, "server.idle_timeout"); err != nil {
			return err
		}
	}

	if s := f.Storage; s != nil {
		setString(&cfg.Storage.Type, s.Type)
		setString(&cfg.Storage.Path, s.Path)
		setString(&cfg.Storage.Key, s.Key)
		setString(&cfg.Storage.DSN, s.DSN)
		if s.MaxConns != 0 {
			cfg.Storage.MaxConns = s.MaxConns
		}
	}

	if a := f.Auth; a != nil {
		setString(&cfg.Auth.JWTSecret, a.JWTSecret)
		setString(&cfg.Auth.Issuer, a.Issuer)
	}

	if s := f.Sessions; s != nil {
		if err := setDuration(&cfg.Sessions.TTL, s.TTL, "sessions.ttl"); err != nil {
			return err
		}
		if err := setDuration(&cfg.Sessions.CleanupInterval, s.CleanupInterval, "sessions.cleanup_interval"); err != nil {
			return err
		}
	}

	if l := f.Logging; l != nil {
		setString(&cfg.Logging.Level, l.Level)
		setString(&cfg.Logging.Format, l.Format)
	}

	if m := f.Metrics; m != nil {
		if m.Enabled != nil {
			cfg.Metrics.Enabled = *m.Enabled
		}
		setString(&cfg.Metrics.Path, m.Path)
	}

	if m := f.MCP; m != nil {
		setString(&cfg.MCP.ServerURL, m.ServerURL)
	}

	if n := f.Ngrok; n != nil {
		if n.Enabled != nil {
			cfg.Ngrok.Enabled = *n.Enabled
		}
		setString(&cfg.Ngrok.AuthToken, n.AuthToken)
		setString(&cfg.Ngrok.Domain, n.Domain)
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v, field string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = d
	return nil
}
