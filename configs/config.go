package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// envPrefix is the prefix of every environment variable, e.g. FRESHSERVICE_DOMAIN.
const envPrefix = "freshservice"

// TTL is a duration given either as whole seconds ("3600") or as a Go
// duration string ("1h").
type TTL time.Duration

// Decode implements envconfig.Decoder.
func (t *TTL) Decode(value string) error {
	d, err := ParseTTL(value)
	if err != nil {
		return err
	}
	*t = TTL(d)
	return nil
}

// Duration returns t as a time.Duration.
func (t TTL) Duration() time.Duration { return time.Duration(t) }

// ParseTTL parses seconds or a Go duration. The result must be positive.
func ParseTTL(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	var d time.Duration
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		d = time.Duration(secs) * time.Second
	} else {
		d, err = time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid TTL %q: want seconds or a duration like 30m", value)
		}
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid TTL %q: must be positive", value)
	}
	return d, nil
}

// FileConfig defines the structure loaded from the YAML configuration file.
type FileConfig struct {
	Scopes    []string          `yaml:"scopes"`
	Headers   map[string]string `yaml:"headers,omitempty"`
	CacheTTL  string            `yaml:"cache_ttl,omitempty"`
	CacheDir  string            `yaml:"cache_dir,omitempty"`
	RateLimit *float64          `yaml:"rate_limit,omitempty"`
	RateBurst *int              `yaml:"rate_burst,omitempty"`
}

// Config holds the final application configuration, merged from file and environment variables.
// Fields are loaded from environment variables with the prefix "FRESHSERVICE_", overriding file settings.
type Config struct {
	ConfigFilePath string `envconfig:"CONFIG_FILE"`

	// Upstream
	Domain            string            `envconfig:"DOMAIN"`
	APIKey            string            `envconfig:"APIKEY"`
	HTTPClientTimeout time.Duration     `envconfig:"HTTP_CLIENT_TIMEOUT" default:"30s"`
	RateLimit         float64           `envconfig:"RATE_LIMIT" default:"0"`
	RateBurst         int               `envconfig:"RATE_BURST" default:"5"`
	Headers           map[string]string `envconfig:"HEADERS"`

	// Field cache
	CacheTTL TTL    `envconfig:"CACHE_TTL" default:"3600"`
	CacheDir string `envconfig:"CACHE_DIR"`

	// Tool selection
	Scopes []string `envconfig:"SCOPES"`

	// Servers
	ListenAddr      string        `envconfig:"LISTEN_ADDR" default:":8080"`
	AdminAddr       string        `envconfig:"ADMIN_ADDR" default:":8081"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`

	// Observability
	OtelExporterOtlpEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelExporterOtlpInsecure bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
	LogLevel                 string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile                  string `envconfig:"LOG_FILE"`
}

// ParsedLogLevel returns the slog.Level based on the configured LogLevel string.
func (c *Config) ParsedLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Domain == "" {
		errs = append(errs, errors.New("FRESHSERVICE_DOMAIN is not set"))
	}
	if c.APIKey == "" {
		errs = append(errs, errors.New("FRESHSERVICE_APIKEY is not set"))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("FRESHSERVICE_RATE_LIMIT must not be negative, got %v", c.RateLimit))
	}
	return errors.Join(errs...)
}

// Load reads a .env file if present, then environment variables (to get the
// config file path), then the optional YAML file, and finally lets explicitly
// set environment variables override file settings.
func Load() (*Config, error) {
	// 1. .env file
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	// 2. Environment
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	// 3. YAML file, for settings not set in the environment
	if cfg.ConfigFilePath != "" {
		data, err := os.ReadFile(cfg.ConfigFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", cfg.ConfigFilePath, err)
		}
		var fileCfg FileConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file '%s': %w", cfg.ConfigFilePath, err)
		}
		if err := cfg.merge(fileCfg); err != nil {
			return nil, fmt.Errorf("invalid config file '%s': %w", cfg.ConfigFilePath, err)
		}
		slog.Info("Loaded configuration from file.", "path", cfg.ConfigFilePath)
	}

	// 4. Derived defaults
	cfg.Scopes = NormalizeScopes(cfg.Scopes)
	if cfg.CacheDir == "" {
		cfg.CacheDir = defaultCacheDir()
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(os.TempDir(), "freshservice-mcp.log")
	}
	return &cfg, nil
}

func (c *Config) merge(f FileConfig) error {
	if len(f.Scopes) > 0 && !isSet("SCOPES") {
		c.Scopes = f.Scopes
	}
	if f.CacheTTL != "" && !isSet("CACHE_TTL") {
		d, err := ParseTTL(f.CacheTTL)
		if err != nil {
			return err
		}
		c.CacheTTL = TTL(d)
	}
	if f.CacheDir != "" && !isSet("CACHE_DIR") {
		c.CacheDir = f.CacheDir
	}
	if f.RateLimit != nil && !isSet("RATE_LIMIT") {
		c.RateLimit = *f.RateLimit
	}
	if f.RateBurst != nil && !isSet("RATE_BURST") {
		c.RateBurst = *f.RateBurst
	}
	if len(f.Headers) > 0 {
		merged := make(map[string]string, len(f.Headers)+len(c.Headers))
		for k, v := range f.Headers {
			merged[k] = v
		}
		for k, v := range c.Headers {
			merged[k] = v
		}
		c.Headers = merged
	}
	return nil
}

func isSet(name string) bool {
	_, ok := os.LookupEnv(strings.ToUpper(envPrefix) + "_" + name)
	return ok
}

// NormalizeScopes splits comma-separated entries, trims and lower-cases
// them, and drops blanks and duplicates. Order is preserved.
func NormalizeScopes(in []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, entry := range in {
		for _, s := range strings.Split(entry, ",") {
			s = strings.ToLower(strings.TrimSpace(s))
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "freshservice_mcp")
}
