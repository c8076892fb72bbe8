package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"cityeats/internal/domain"
)

const (
	appName        = "cityeats"
	configFileName = "config.toml"
	envPrefix      = "CITYEATS"

	DefaultBaseURL           = "https://cityeatsinsight-backend.vercel.app"
	DefaultReverseGeocodeURL = "https://api.bigdatacloud.net/data/reverse-geocode-client"
)

// Duration is a time.Duration written as "400ms" in the config file
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config represents the application configuration
type Config struct {
	Version  int              `toml:"version"`
	API      APISettings      `toml:"api"`
	Search   SearchSettings   `toml:"search"`
	Location LocationSettings `toml:"location"`
	Storage  StorageSettings  `toml:"storage"`
	Log      LogSettings      `toml:"log"`
}

// APISettings configures the remote suggestion and insights endpoints
type APISettings struct {
	BaseURL            string   `toml:"base_url"`
	Timeout            Duration `toml:"timeout"`
	SuggestionCacheTTL Duration `toml:"suggestion_cache_ttl"`
}

// SearchSettings tunes the interactive controller
type SearchSettings struct {
	Debounce       Duration `toml:"debounce"`
	MinQueryLength int      `toml:"min_query_length"`
	HistoryLimit   int      `toml:"history_limit"`
	Trending       []string `toml:"trending"`
}

// LocationSettings configures city detection
type LocationSettings struct {
	ReverseGeocodeURL string   `toml:"reverse_geocode_url"`
	IPLookupURL       string   `toml:"ip_lookup_url,omitempty"`
	Latitude          *float64 `toml:"latitude,omitempty"`
	Longitude         *float64 `toml:"longitude,omitempty"`
	Timeout           Duration `toml:"timeout"`
	Language          string   `toml:"language"`
}

// StorageSettings points at the durable key/value state file
type StorageSettings struct {
	Path string `toml:"path"`
}

// LogSettings configures the log sink
type LogSettings struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
	Mode  string `toml:"mode"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a new config service rooted at the user config directory
func NewConfigService() ConfigService {
	return &configService{
		filePath: filepath.Join(defaultDir(), configFileName),
	}
}

// Path is the default config file location
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from the default file, writing defaults on first run
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		if err := cs.SaveToPath(cfg, cs.filePath); err != nil {
			return nil, err
		}
		ApplyEnv(cfg)
		return cfg, nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// LoadFromPath loads configuration from a specific path.
// Missing keys keep their defaults; environment overrides are applied last.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()
	ApplyEnv(cfg)

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays CITYEATS_* environment variables (and values loaded from .env) on cfg
func ApplyEnv(cfg *Config) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.IsSet("api.base_url") {
		cfg.API.BaseURL = v.GetString("api.base_url")
	}
	if v.IsSet("api.timeout") {
		cfg.API.Timeout = Duration(v.GetDuration("api.timeout"))
	}
	if v.IsSet("api.suggestion_cache_ttl") {
		cfg.API.SuggestionCacheTTL = Duration(v.GetDuration("api.suggestion_cache_ttl"))
	}
	if v.IsSet("search.debounce") {
		cfg.Search.Debounce = Duration(v.GetDuration("search.debounce"))
	}
	if v.IsSet("location.reverse_geocode_url") {
		cfg.Location.ReverseGeocodeURL = v.GetString("location.reverse_geocode_url")
	}
	if v.IsSet("location.ip_lookup_url") {
		cfg.Location.IPLookupURL = v.GetString("location.ip_lookup_url")
	}
	if v.IsSet("location.latitude") && v.IsSet("location.longitude") {
		lat, lon := v.GetFloat64("location.latitude"), v.GetFloat64("location.longitude")
		cfg.Location.Latitude, cfg.Location.Longitude = &lat, &lon
	}
	if v.IsSet("storage.path") {
		cfg.Storage.Path = v.GetString("storage.path")
	}
	if v.IsSet("log.file") {
		cfg.Log.File = v.GetString("log.file")
	}
	if v.IsSet("log.level") {
		cfg.Log.Level = v.GetString("log.level")
	}
	if v.IsSet("log.mode") {
		cfg.Log.Mode = v.GetString("log.mode")
	}
	cfg.normalize()
}

// normalize restores defaults for zero or out-of-range values
func (c *Config) normalize() {
	def := DefaultConfig()
	if strings.TrimSpace(c.API.BaseURL) == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.API.Timeout <= 0 {
		c.API.Timeout = def.API.Timeout
	}
	if c.API.SuggestionCacheTTL < 0 {
		c.API.SuggestionCacheTTL = 0
	}
	if c.Search.Debounce <= 0 {
		c.Search.Debounce = def.Search.Debounce
	}
	if c.Search.MinQueryLength <= 0 {
		c.Search.MinQueryLength = def.Search.MinQueryLength
	}
	if c.Search.HistoryLimit <= 0 {
		c.Search.HistoryLimit = def.Search.HistoryLimit
	}
	c.Search.HistoryLimit = min(c.Search.HistoryLimit, domain.MaxRecentCities)
	if len(c.Search.Trending) == 0 {
		c.Search.Trending = def.Search.Trending
	}
	if c.Location.ReverseGeocodeURL == "" {
		c.Location.ReverseGeocodeURL = def.Location.ReverseGeocodeURL
	}
	if c.Location.Timeout <= 0 {
		c.Location.Timeout = def.Location.Timeout
	}
	if c.Location.Language == "" {
		c.Location.Language = def.Location.Language
	}
	if c.Storage.Path == "" {
		c.Storage.Path = def.Storage.Path
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dir := defaultDir()
	trending := make([]string, len(domain.DefaultTrendingCities))
	copy(trending, domain.DefaultTrendingCities)

	return &Config{
		Version: 1,
		API: APISettings{
			BaseURL:            DefaultBaseURL,
			Timeout:            Duration(10 * time.Second),
			SuggestionCacheTTL: Duration(5 * time.Minute),
		},
		Search: SearchSettings{
			Debounce:       Duration(400 * time.Millisecond),
			MinQueryLength: 2,
			HistoryLimit:   domain.MaxRecentCities,
			Trending:       trending,
		},
		Location: LocationSettings{
			ReverseGeocodeURL: DefaultReverseGeocodeURL,
			Timeout:           Duration(10 * time.Second),
			Language:          "en",
		},
		Storage: StorageSettings{
			Path: filepath.Join(dir, "state.json"),
		},
		Log: LogSettings{
			File:  filepath.Join(dir, appName+".log"),
			Level: "info",
			Mode:  "development",
		},
	}
}

func defaultDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, appName)
}
