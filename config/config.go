// Package config loads tgkit settings from standard locations.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"

	"github.com/BurntSushi/toml"
)

// ErrInsecurePermissions is returned when the config file holding the API
// hash is readable by group or others.
var ErrInsecurePermissions = fmt.Errorf("config file has insecure permissions")

// ErrNoAPIKey is returned by Validate when no API key is configured.
var ErrNoAPIKey = fmt.Errorf("api id and api hash are not configured")

// Config holds the client settings loaded from tgkit.toml.
type Config struct {
	// API is the Telegram API key, obtained from my.telegram.org.
	API APIConfig `toml:"api"`

	// Proxy is the optional SOCKS5 proxy to reach Telegram through.
	Proxy ProxyConfig `toml:"proxy"`

	// Errors configures unknown-error collection.
	Errors ErrorsConfig `toml:"errors"`
}

// APIConfig is the api_id/api_hash pair identifying the application.
type APIConfig struct {
	ID   int    `toml:"id"`
	Hash string `toml:"hash"`
}

// ProxyConfig describes a SOCKS5 proxy.
type ProxyConfig struct {
	Enabled  bool   `toml:"enabled"`
	Hostname string `toml:"hostname"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// ErrorsConfig configures the unknown-error log and optional reporting.
type ErrorsConfig struct {
	// UnknownLog is the path of the append-only unknown error log.
	// Empty selects unknownlog.DefaultPath.
	UnknownLog string `toml:"unknown_log"`

	// ReportEndpoint, when set, enables batched HTTP reporting of unknown
	// errors (see package telemetry).
	ReportEndpoint string `toml:"report_endpoint"`
}

// StandardPaths returns the standard config file locations in order of
// priority.
func StandardPaths() []string {
	paths := []string{"tgkit.toml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tgkit", "tgkit.toml"))
		paths = append(paths, filepath.Join(home, ".tgkit", "tgkit.toml"))
	}

	return paths
}

// Load loads the config from the first available standard location. A
// missing file is not an error: the zero config is returned with an empty
// path, and the API key may still come from the environment.
func Load() (*Config, string, error) {
	for _, path := range StandardPaths() {
		if _, err := os.Stat(path); err == nil {
			cfg, err := LoadFile(path)
			if err != nil {
				return nil, path, err
			}
			return cfg, path, nil
		}
	}
	return FromEnv(), "", nil
}

// LoadFile loads the config from a specific file.
// Returns ErrInsecurePermissions if the file carries an api hash and is
// readable by group or others.
func LoadFile(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// The api hash is a secret; require owner-only access (Unix only).
	if cfg.API.Hash != "" && runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if mode := info.Mode().Perm(); mode&0o077 != 0 {
			return nil, fmt.Errorf("%w: %s has mode %04o (must not be group/other accessible)",
				ErrInsecurePermissions, path, mode)
		}
	}

	cfg.applyEnv()
	return &cfg, nil
}

// FromEnv builds a config from environment variables alone.
func FromEnv() *Config {
	cfg := &Config{}
	cfg.applyEnv()
	return cfg
}

// applyEnv fills unset fields from TGKIT_API_ID / TGKIT_API_HASH.
func (c *Config) applyEnv() {
	if c.API.ID == 0 {
		if id, err := strconv.Atoi(os.Getenv("TGKIT_API_ID")); err == nil {
			c.API.ID = id
		}
	}
	if c.API.Hash == "" {
		c.API.Hash = os.Getenv("TGKIT_API_HASH")
	}
}

// apiHashFormat is the shape of a Telegram api_hash: 32 hex characters.
var apiHashFormat = regexp.MustCompile(`^[0-9a-f]{32}$`)

// Validate checks that the config is usable for opening a session.
func (c *Config) Validate() error {
	if c.API.ID == 0 && c.API.Hash == "" {
		return ErrNoAPIKey
	}
	if c.API.ID <= 0 {
		return fmt.Errorf("api id must be a positive integer, got %d", c.API.ID)
	}
	if !apiHashFormat.MatchString(c.API.Hash) {
		return fmt.Errorf("api hash must be 32 lowercase hex characters")
	}
	if c.Proxy.Enabled {
		if c.Proxy.Hostname == "" {
			return fmt.Errorf("proxy enabled but hostname is empty")
		}
		if c.Proxy.Port <= 0 || c.Proxy.Port > 65535 {
			return fmt.Errorf("proxy port %d out of range", c.Proxy.Port)
		}
	}
	return nil
}
