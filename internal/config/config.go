// Package config loads shoplist settings: defaults, then an optional YAML
// file, then SHOPLIST_* environment variables. Command-line flags are
// applied last by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig `yaml:"server"`
	Store   StoreConfig  `yaml:"store"`
	Log     LogConfig    `yaml:"log"`
	Profile string       `yaml:"profile"` // list used by the terminal commands
}

type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	CookieName     string        `yaml:"cookie_name"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

type StoreConfig struct {
	Driver string `yaml:"driver"` // json | sqlite | memory
	Path   string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			CookieName:     "shoplist_profile",
			AllowedOrigins: []string{"*"},
		},
		Store: StoreConfig{
			Driver: "json",
			Path:   ".shoplist",
		},
		Log: LogConfig{
			Level: "info",
		},
		Profile: "local",
	}
}

// Load returns defaults overlaid with the YAML file at path and then the
// environment. An empty path skips the file; a path that does not exist is
// an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overlays SHOPLIST_* variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str("SHOPLIST_ADDR", &c.Server.Addr)
	str("SHOPLIST_STORE", &c.Store.Driver)
	str("SHOPLIST_DATA", &c.Store.Path)
	str("SHOPLIST_LOG_LEVEL", &c.Log.Level)
	str("SHOPLIST_PROFILE", &c.Profile)

	if v, ok := lookup("SHOPLIST_LOG_JSON"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SHOPLIST_LOG_JSON: %w", err)
		}
		c.Log.JSON = b
	}
	if v, ok := lookup("SHOPLIST_ALLOWED_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.AllowedOrigins = origins
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case "json", "sqlite", "memory":
	default:
		return fmt.Errorf("store.driver: unsupported %q", c.Store.Driver)
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr: empty")
	}
	if strings.TrimSpace(c.Profile) == "" {
		return errors.New("profile: empty")
	}
	return nil
}
