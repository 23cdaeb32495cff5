package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Database struct {
		// Driver selects the storage backend: "sqlite" or "postgres".
		Driver string `yaml:"driver"`
		// Path is the database file location for sqlite.
		Path string `yaml:"path"`
		// DSN is the connection string for postgres.
		DSN string `yaml:"dsn"`
	} `yaml:"database"`

	Auth struct {
		JWTSecret           string `yaml:"jwt_secret"`
		JWTRefreshSecret    string `yaml:"jwt_refresh_secret"`
		AccessTokenTTLMin   int    `yaml:"access_token_ttl_min"`
		RefreshTokenTTLHour int    `yaml:"refresh_token_ttl_hours"`
	} `yaml:"auth"`

	Log struct {
		Debug bool   `yaml:"debug"`
		Dir   string `yaml:"dir"`
	} `yaml:"log"`

	// DefaultTimezone is used for users that have not set their own.
	DefaultTimezone string `yaml:"default_timezone"`
}

// Load reads the YAML config at path, expanding ${VAR} references from the
// environment before parsing so secrets never live in the file itself.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	content := string(data)
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 {
			continue
		}
		placeholder := "${" + pair[0] + "}"
		content = strings.ReplaceAll(content, placeholder, pair[1])
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a config populated with development defaults. The JWT
// secrets have no defaults and must always be provided.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Addr = ":8080"
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = "focusday.db"
	cfg.Auth.AccessTokenTTLMin = 15
	cfg.Auth.RefreshTokenTTLHour = 7 * 24
	cfg.Log.Dir = "logs"
	cfg.DefaultTimezone = "UTC"
	return cfg
}

// AccessTTL returns the access token lifetime.
func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.Auth.AccessTokenTTLMin) * time.Minute
}

// RefreshTTL returns the refresh token lifetime.
func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.Auth.RefreshTokenTTLHour) * time.Hour
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.JWTRefreshSecret == "" {
		return fmt.Errorf("auth.jwt_refresh_secret is required")
	}
	return nil
}
