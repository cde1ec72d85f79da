package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Calendar CalendarConfig `yaml:"calendar"`
	Bazi     BaziConfig     `yaml:"bazi"`
	Fortune  FortuneConfig  `yaml:"fortune"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Cache    CacheConfig    `yaml:"cache"`
	Tiers    TiersConfig    `yaml:"tiers"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// LogConfig selects the minimum log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// CalendarConfig bounds and parameterises the calendar converter.
type CalendarConfig struct {
	MinYear         int               `yaml:"minYear"`
	MaxYear         int               `yaml:"maxYear"`
	LateRatRollover bool              `yaml:"lateRatRollover"`
	TableSource     TableSourceConfig `yaml:"tableSource"`
}

// Table source kinds.
const (
	TableSourceEmbedded = "embedded"
	TableSourceFile     = "file"
	TableSourceR2       = "r2"
)

// TableSourceConfig tells where the lunar table document lives.
type TableSourceConfig struct {
	Kind string   `yaml:"kind"`
	Path string   `yaml:"path"`
	R2   R2Config `yaml:"r2"`
}

// R2Config locates an object in Cloudflare R2.
type R2Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Key       string `yaml:"key"`
}

// BaziConfig toggles pillars modelling options.
type BaziConfig struct {
	HiddenStems bool `yaml:"hiddenStems"`
}

// FortuneConfig carries the synthesizer weights as decimal strings.
type FortuneConfig struct {
	Weights map[string]map[string]string `yaml:"weights"`
	Overall map[string]string            `yaml:"overall"`
	Bands   BandsConfig                  `yaml:"bands"`
}

// BandsConfig holds the advice thresholds.
type BandsConfig struct {
	Caution   int `yaml:"caution"`
	Favorable int `yaml:"favorable"`
}

// AnalysisConfig controls the orchestrator.
type AnalysisConfig struct {
	CacheTTL    time.Duration `yaml:"cacheTtl"`
	CachePrefix string        `yaml:"cachePrefix"`
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	Valkey ValkeyConfig `yaml:"valkey"`
}

// ValkeyConfig contains connection information for cache storage.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// TiersConfig controls how callers map to subscription tiers.
type TiersConfig struct {
	Postgres    PostgresConfig `yaml:"postgres"`
	JWTSecret   string         `yaml:"jwtSecret"`
	DefaultTier string         `yaml:"defaultTier"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CALENDAR_LATE_RAT_ROLLOVER"); v != "" {
		cfg.Calendar.LateRatRollover = parseBool(v)
	}
	if v := os.Getenv("CALENDAR_TABLE_SOURCE"); v != "" {
		cfg.Calendar.TableSource.Kind = v
	}
	if v := os.Getenv("CALENDAR_TABLE_PATH"); v != "" {
		cfg.Calendar.TableSource.Path = v
	}
	if v := os.Getenv("R2_ENDPOINT"); v != "" {
		cfg.Calendar.TableSource.R2.Endpoint = v
	}
	if v := os.Getenv("R2_ACCESS_KEY"); v != "" {
		cfg.Calendar.TableSource.R2.AccessKey = v
	}
	if v := os.Getenv("R2_SECRET_KEY"); v != "" {
		cfg.Calendar.TableSource.R2.SecretKey = v
	}
	if v := os.Getenv("R2_BUCKET"); v != "" {
		cfg.Calendar.TableSource.R2.Bucket = v
	}
	if v := os.Getenv("R2_REGION"); v != "" {
		cfg.Calendar.TableSource.R2.Region = v
	}
	if v := os.Getenv("R2_TABLE_KEY"); v != "" {
		cfg.Calendar.TableSource.R2.Key = v
	}
	if v := os.Getenv("BAZI_HIDDEN_STEMS"); v != "" {
		cfg.Bazi.HiddenStems = parseBool(v)
	}
	if v := os.Getenv("ANALYSIS_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Analysis.CacheTTL = parsed
		}
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Cache.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Cache.Valkey.Addr = v
	}
	if v := os.Getenv("TIERS_POSTGRES_DSN"); v != "" {
		cfg.Tiers.Postgres.DSN = v
	}
	if v := os.Getenv("TIERS_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Tiers.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("TIERS_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Tiers.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Tiers.JWTSecret = v
	}
	if v := os.Getenv("DEFAULT_TIER"); v != "" {
		cfg.Tiers.DefaultTier = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 2,
				BaseBackoff: 100 * time.Millisecond,
			},
		},
		Log: LogConfig{Level: "info"},
		Calendar: CalendarConfig{
			MinYear:         1900,
			MaxYear:         2100,
			LateRatRollover: true,
			TableSource:     TableSourceConfig{Kind: TableSourceEmbedded},
		},
		Fortune: FortuneConfig{
			Weights: map[string]map[string]string{
				"career": {"element_balance": "0.1", "day_master": "0.2", "ten_gods": "0.4", "palace_stars": "0.3"},
				"wealth": {"element_balance": "0.1", "day_master": "0.2", "ten_gods": "0.4", "palace_stars": "0.3"},
				"love":   {"element_balance": "0.2", "day_master": "0.1", "ten_gods": "0.3", "palace_stars": "0.4"},
				"health": {"element_balance": "0.5", "day_master": "0.3", "ten_gods": "0", "palace_stars": "0.2"},
			},
			Overall: map[string]string{"career": "0.3", "wealth": "0.25", "love": "0.2", "health": "0.25"},
			Bands:   BandsConfig{Caution: 40, Favorable: 70},
		},
		Analysis: AnalysisConfig{
			CacheTTL:    24 * time.Hour,
			CachePrefix: "destiny",
		},
		Tiers: TiersConfig{
			Postgres:    PostgresConfig{MaxConns: 4},
			DefaultTier: "free",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	if c.Calendar.MinYear < 1900 || c.Calendar.MaxYear > 2100 || c.Calendar.MinYear > c.Calendar.MaxYear {
		return errors.New("calendar.minYear/maxYear must lie within 1900..2100 and be ordered")
	}
	switch c.Calendar.TableSource.Kind {
	case TableSourceEmbedded:
	case TableSourceFile:
		if strings.TrimSpace(c.Calendar.TableSource.Path) == "" {
			return errors.New("calendar.tableSource.path cannot be empty for file tables")
		}
	case TableSourceR2:
		r2 := c.Calendar.TableSource.R2
		if r2.Endpoint == "" || r2.Bucket == "" || r2.Key == "" {
			return errors.New("calendar.tableSource.r2 needs endpoint, bucket and key")
		}
	default:
		return fmt.Errorf("calendar.tableSource.kind %q is not embedded, file or r2", c.Calendar.TableSource.Kind)
	}
	if err := c.Fortune.validate(); err != nil {
		return err
	}
	if c.Analysis.CacheTTL < 0 {
		return errors.New("analysis.cacheTtl cannot be negative")
	}
	if c.Cache.Valkey.Enabled && strings.TrimSpace(c.Cache.Valkey.Addr) == "" {
		return errors.New("cache.valkey.addr cannot be empty when valkey is enabled")
	}
	if strings.TrimSpace(c.Tiers.DefaultTier) == "" {
		return errors.New("tiers.defaultTier cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled && c.HTTP.Retry.MaxAttempts <= 0 {
		return errors.New("http.retry.maxAttempts must be positive")
	}
	return nil
}

func (f FortuneConfig) validate() error {
	one := decimal.NewFromInt(1)
	for domain, weights := range f.Weights {
		sum, err := sumDecimals(weights)
		if err != nil {
			return fmt.Errorf("fortune.weights.%s: %w", domain, err)
		}
		if !sum.Equal(one) {
			return fmt.Errorf("fortune.weights.%s sums to %s, want 1", domain, sum)
		}
	}
	sum, err := sumDecimals(f.Overall)
	if err != nil {
		return fmt.Errorf("fortune.overall: %w", err)
	}
	if !sum.Equal(one) {
		return fmt.Errorf("fortune.overall sums to %s, want 1", sum)
	}
	if f.Bands.Caution < 0 || f.Bands.Favorable > 100 || f.Bands.Caution > f.Bands.Favorable {
		return errors.New("fortune.bands must satisfy 0 <= caution <= favorable <= 100")
	}
	return nil
}

func sumDecimals(values map[string]string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for key, raw := range values {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%s: %w", key, err)
		}
		if v.IsNegative() {
			return decimal.Zero, fmt.Errorf("%s is negative", key)
		}
		sum = sum.Add(v)
	}
	return sum, nil
}
