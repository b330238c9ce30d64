// Package config loads the roomgrid TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/roomgrid/config.toml (or
// ~/.config/roomgrid/config.toml) unless --config or $ROOMGRID_CONFIG names
// another path. A missing default file is not an error; every field falls
// back to [Default].
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/roomgrid/pkg/cellgen"
	apperr "github.com/matzehuels/roomgrid/pkg/errors"
	"github.com/matzehuels/roomgrid/pkg/pipeline"
)

const appName = "roomgrid"

// Backend names.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"

	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config is the full configuration file.
type Config struct {
	Defaults Defaults `toml:"defaults"`
	Server   Server   `toml:"server"`
	Cache    Cache    `toml:"cache"`
	Store    Store    `toml:"store"`
	Log      Log      `toml:"log"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
	// Unknown lists keys present in the file that no field consumed.
	Unknown []string `toml:"-"`
}

// Defaults are applied to generation requests that leave a field unset.
type Defaults struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	RoomCount  int    `toml:"room_count"`
	PickMethod string `toml:"pick_method"`
	Method     string `toml:"method"`
	Padding    string `toml:"padding"`
}

// Server configures the HTTP server.
type Server struct {
	Addr     string `toml:"addr"`
	MaxCells int    `toml:"max_cells"`
}

// Cache selects and configures the cache backend.
type Cache struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	TTL      string `toml:"ttl"`
}

// Store selects and configures the map archive.
type Store struct {
	Backend    string `toml:"backend"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Defaults: Defaults{
			Width:      pipeline.DefaultWidth,
			Height:     pipeline.DefaultHeight,
			RoomCount:  pipeline.DefaultRoomCount,
			PickMethod: cellgen.DefaultPickMethod.String(),
			Method:     cellgen.DefaultMethod.String(),
			Padding:    pipeline.DefaultPadding,
		},
		Server: Server{
			Addr:     ":3000",
			MaxCells: 10000,
		},
		Cache: Cache{
			Backend:  CacheFile,
			RedisURL: "redis://localhost:6379/0",
			TTL:      "24h",
		},
		Store: Store{
			Backend:    StoreMemory,
			MongoURI:   "mongodb://localhost:27017",
			Database:   "roomgrid",
			Collection: "maps",
		},
		Log: Log{Level: "info"},
	}
}

// DefaultPath returns the XDG location of the configuration file.
func DefaultPath() (string, error) {
	if p := os.Getenv("ROOMGRID_CONFIG"); p != "" {
		return p, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path over the defaults and validates the result.
// An empty path means [DefaultPath], which may be missing.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.decode(string(data)); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path
	return cfg, nil
}

// Parse decodes TOML text over the defaults and validates the result.
func Parse(text string) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(text); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(text string) error {
	md, err := toml.Decode(text, c)
	if err != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidInput, err, "parse config")
	}
	for _, key := range md.Undecoded() {
		c.Unknown = append(c.Unknown, key.String())
	}
	return c.Validate()
}

// Validate checks enum values, dimensions and durations.
func (c *Config) Validate() error {
	d := c.Defaults
	if err := apperr.ValidateDimensions(d.Width, d.Height, d.RoomCount); err != nil {
		return fmt.Errorf("[defaults]: %w", err)
	}
	if _, err := cellgen.ParsePickMethod(d.PickMethod); err != nil {
		return fmt.Errorf("[defaults]: %w", err)
	}
	if _, err := cellgen.ParseMethod(d.Method); err != nil {
		return fmt.Errorf("[defaults]: %w", err)
	}
	if err := apperr.ValidatePadding(d.Padding); err != nil {
		return fmt.Errorf("[defaults]: %w", err)
	}
	if c.Server.MaxCells <= 0 {
		return apperr.New(apperr.ErrCodeInvalidInput, "[server] max_cells must be positive, got %d", c.Server.MaxCells)
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if err := apperr.ValidateURI(c.Cache.RedisURL, "redis", "rediss"); err != nil {
			return fmt.Errorf("[cache] redis_url: %w", err)
		}
	default:
		return apperr.New(apperr.ErrCodeInvalidInput,
			"[cache] unknown backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if _, err := c.CacheTTL(); err != nil {
		return err
	}

	switch c.Store.Backend {
	case StoreMemory:
	case StoreMongo:
		if err := apperr.ValidateURI(c.Store.MongoURI, "mongodb", "mongodb+srv"); err != nil {
			return fmt.Errorf("[store] mongo_uri: %w", err)
		}
	default:
		return apperr.New(apperr.ErrCodeInvalidInput,
			"[store] unknown backend %q (want memory or mongo)", c.Store.Backend)
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// CacheTTL parses the cache TTL. An empty value means no expiry.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || ttl < 0 {
		return 0, apperr.New(apperr.ErrCodeInvalidInput, "[cache] invalid ttl %q", c.Cache.TTL)
	}
	return ttl, nil
}

// CacheDir returns the file cache directory, defaulting to
// $XDG_CACHE_HOME/roomgrid or ~/.cache/roomgrid.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// LogLevel parses the configured log level.
func (c *Config) LogLevel() (log.Level, error) {
	lvl, err := log.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil {
		return log.InfoLevel, apperr.New(apperr.ErrCodeInvalidInput, "[log] unknown level %q", c.Log.Level)
	}
	return lvl, nil
}

// Request returns a generation request filled from the defaults.
func (c *Config) Request() pipeline.Request {
	pick, _ := cellgen.ParsePickMethod(c.Defaults.PickMethod)
	method, _ := cellgen.ParseMethod(c.Defaults.Method)
	return pipeline.Request{
		Width:      c.Defaults.Width,
		Height:     c.Defaults.Height,
		RoomCount:  c.Defaults.RoomCount,
		PickMethod: pick,
		Method:     method,
	}
}
