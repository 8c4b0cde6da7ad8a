package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the contenthub configuration.
type Config struct {
	HTTP     HTTPConfig              `yaml:"http"`
	Content  ContentConfig           `yaml:"content"`
	Database DatabaseConfig          `yaml:"database"`
	Search   map[string]SearchConfig `yaml:"search"`
	Cache    CacheConfig             `yaml:"cache"`
	Sessions SessionsConfig          `yaml:"sessions"`
	Auth     AuthConfig              `yaml:"auth"`
	Logging  LoggingConfig           `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"` // debug, info, warn, error (default: determined by env)
	File       string `yaml:"file"`  // optional rotated JSON log file
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// Content source drivers.
const (
	DriverFile  = "file"
	DriverRedis = "redis"
)

// ContentConfig selects where collections are read from.
type ContentConfig struct {
	Driver             string `yaml:"driver"` // file, redis (default: file)
	Dir                string `yaml:"dir"`
	KeyPrefix          string `yaml:"key_prefix"`
	Format             string `yaml:"format"` // string, json (redis only)
	Watch              bool   `yaml:"watch"`
	ReloadDebounceMs   int    `yaml:"reload_debounce_ms"`
	LoadTimeoutSec     int    `yaml:"load_timeout_sec"`
	RefreshIntervalSec int    `yaml:"refresh_interval_sec"` // 0 = no periodic refresh
}

// DatabaseConfig holds Redis connection settings for the redis driver.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	DialTimeout      int      `yaml:"dial_timeout_sec"`
}

// SearchConfig overrides the built-in search settings of one content type.
// Zero values keep the built-in setting.
type SearchConfig struct {
	Fields         []string `yaml:"fields"`
	CategoryField  string   `yaml:"category_field"`
	Placeholder    string   `yaml:"placeholder"`
	DebounceMs     int      `yaml:"debounce_ms"`
	MinQueryLength int      `yaml:"min_query_length"`
	MaxResults     int      `yaml:"max_results"`
}

// CacheConfig holds processed-tab memoization settings.
type CacheConfig struct {
	TTLSec     int `yaml:"ttl_sec"` // 0 disables the cache
	CleanupSec int `yaml:"cleanup_sec"`
}

// SessionsConfig holds search session settings.
type SessionsConfig struct {
	TTLSec     int `yaml:"ttl_sec"`
	DebounceMs int `yaml:"debounce_ms"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Content.Driver == "" {
		c.Content.Driver = DriverFile
	}
	if c.Content.Dir == "" {
		c.Content.Dir = "public/data"
	}
	if c.Content.KeyPrefix == "" {
		c.Content.KeyPrefix = "contenthub:"
	}
	if c.Content.Format == "" {
		c.Content.Format = "string"
	}
	if c.Content.ReloadDebounceMs <= 0 {
		c.Content.ReloadDebounceMs = 300
	}
	if c.Content.LoadTimeoutSec <= 0 {
		c.Content.LoadTimeoutSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.DialTimeout <= 0 {
		c.Database.DialTimeout = 5
	}
	if c.Cache.CleanupSec <= 0 {
		c.Cache.CleanupSec = 600
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = 10
	}
	if c.Logging.MaxBackups <= 0 {
		c.Logging.MaxBackups = 5
	}
	if c.Logging.MaxAgeDays <= 0 {
		c.Logging.MaxAgeDays = 30
	}
	if c.Sessions.TTLSec <= 0 {
		c.Sessions.TTLSec = 1800
	}
	if c.Sessions.DebounceMs <= 0 {
		c.Sessions.DebounceMs = 300
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Content.Driver {
	case DriverFile:
		if c.Content.Watch && c.Content.Dir == "" {
			return fmt.Errorf("content.dir is required when content.watch is enabled")
		}
	case DriverRedis:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for the redis content driver")
		}
		if c.Content.Watch {
			return fmt.Errorf("content.watch is only supported by the file driver")
		}
	default:
		return fmt.Errorf("content.driver must be \"file\" or \"redis\", got %q", c.Content.Driver)
	}
	switch c.Content.Format {
	case "string", "json":
	default:
		return fmt.Errorf("content.format must be \"string\" or \"json\", got %q", c.Content.Format)
	}
	if c.Cache.TTLSec < 0 {
		return fmt.Errorf("cache.ttl_sec must not be negative, got %d", c.Cache.TTLSec)
	}
	for name, sc := range c.Search {
		switch name {
		case "agents", "tasks", "data", "templates":
		default:
			return fmt.Errorf("search.%s: unknown content type", name)
		}
		if sc.MinQueryLength < 0 || sc.MaxResults < 0 || sc.DebounceMs < 0 {
			return fmt.Errorf("search.%s: values must not be negative", name)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
