package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk CLI configuration, read from
// ~/.config/nodewire/config.toml when present.
type Config struct {
	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
	Report ReportConfig `toml:"report"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	// Addr is the listen address, host:port.
	Addr string `toml:"addr"`
}

// StoreConfig selects and configures the document store backend.
type StoreConfig struct {
	// Backend is one of "memory", "file", "redis".
	Backend string `toml:"backend"`

	// Dir is the file backend's directory. Empty uses the default
	// config location.
	Dir string `toml:"dir"`

	// TTLHours ages out stored documents. Zero keeps them forever.
	TTLHours int `toml:"ttl_hours"`

	Redis RedisConfig `toml:"redis"`
}

// RedisConfig configures the redis store backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// ReportConfig tunes rebuild report output.
type ReportConfig struct {
	// MaxItems caps warnings shown per category. Zero shows all.
	MaxItems int `toml:"max_items"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: "127.0.0.1:8420"},
		Store:  StoreConfig{Backend: "memory", Redis: RedisConfig{Addr: "127.0.0.1:6379"}},
		Report: ReportConfig{MaxItems: 5},
	}
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, "config.toml")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	switch cfg.Store.Backend {
	case "memory", "file", "redis":
	default:
		return cfg, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	return cfg, nil
}

// TTL returns the configured store entry lifetime.
func (c StoreConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}
