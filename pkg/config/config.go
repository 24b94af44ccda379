// Package config loads storyboard's application settings.
//
// Settings are layered, lowest precedence first:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/storyboard/config.toml
//  3. STORYBOARD_* environment variables
//
// Command-line flags are applied by the CLI on top of the loaded value.
//
// A config file looks like:
//
//	log_level = "debug"
//
//	[cache]
//	backend = "redis"
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//
//	[templates]
//	files = ["~/storyboard/templates/neon.toml"]
//	preview = true
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/storyboard/pkg/errors"
)

// AppName names the XDG directories and the environment prefix.
const AppName = "storyboard"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STORYBOARD_"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config is the complete application configuration.
type Config struct {
	LogLevel  string    `toml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	Cache     Cache     `toml:"cache"`
	Store     Store     `toml:"store"`
	Uploads   Uploads   `toml:"uploads"`
	Fonts     Fonts     `toml:"fonts"`
	Templates Templates `toml:"templates"`
	Server    Server    `toml:"server"`
}

// Cache selects the render cache backend.
type Cache struct {
	Backend string `toml:"backend" validate:"oneof=file redis none"`
	Dir     string `toml:"dir"`
	Redis   Redis  `toml:"redis"`
}

// Redis holds the redis connection used when Cache.Backend is "redis".
type Redis struct {
	Addr     string `toml:"addr" validate:"required_if=Enabled true"`
	Password string `toml:"password"`
	DB       int    `toml:"db" validate:"gte=0"`
	Prefix   string `toml:"prefix"`

	// Enabled is derived from Cache.Backend during validation.
	Enabled bool `toml:"-"`
}

// Store selects where editor documents are persisted.
type Store struct {
	Backend    string `toml:"backend" validate:"oneof=file memory mongo"`
	Dir        string `toml:"dir"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Uploads configures the local image uploader.
type Uploads struct {
	Dir string `toml:"dir"`
}

// Fonts points at TrueType files replacing the bundled Go fonts.
// All three are required once any is set.
type Fonts struct {
	Regular string `toml:"regular"`
	Medium  string `toml:"medium"`
	Bold    string `toml:"bold"`
}

// Set reports whether custom fonts are configured.
func (f Fonts) Set() bool {
	return f.Regular != "" || f.Medium != "" || f.Bold != ""
}

// Templates configures the template registry.
type Templates struct {
	Files    []string `toml:"files"`
	Fallback string   `toml:"fallback"`
	Preview  bool     `toml:"preview"`
}

// Server configures `storyboard serve`.
type Server struct {
	Addr    string `toml:"addr" validate:"required"`
	Metrics bool   `toml:"metrics"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Cache:    Cache{Backend: CacheFile, Redis: Redis{Prefix: AppName}},
		Store:    Store{Backend: StoreFile},
		Server:   Server{Addr: ":8080", Metrics: true},
	}
}

// Load reads the config file at path over the defaults, then applies
// environment overrides. An empty path uses [Path] and tolerates a missing
// file; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if p, err := Path(); err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !explicit && os.IsNotExist(err) {
				path = ""
			} else {
				return Config{}, errors.Wrap(errors.ErrCodeConfig, err, "read config %s", path)
			}
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerations and cross-field requirements.
func (c *Config) Validate() error {
	c.Cache.Redis.Enabled = c.Cache.Backend == CacheRedis
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeConfig, err, "invalid config")
	}
	if c.Store.Backend == StoreMongo && c.Store.MongoURI == "" {
		return errors.New(errors.ErrCodeConfig, "store.mongo_uri is required for the mongo backend")
	}
	if c.Fonts.Set() && (c.Fonts.Regular == "" || c.Fonts.Medium == "" || c.Fonts.Bold == "") {
		return errors.New(errors.ErrCodeConfig, "fonts.regular, fonts.medium and fonts.bold must be set together")
	}
	return nil
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := Dir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// CacheDir returns the default cache directory (~/.cache/storyboard).
func CacheDir() (string, error) {
	return Dir("XDG_CACHE_HOME", ".cache")
}

// DataDir returns the default data directory (~/.local/share/storyboard).
func DataDir() (string, error) {
	return Dir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// Dir resolves the storyboard directory under the XDG variable env,
// falling back to fallback below the home directory.
func Dir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
