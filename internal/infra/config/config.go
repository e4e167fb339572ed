package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Weather    WeatherConfig    `yaml:"weather"`
	AirQuality AirQualityConfig `yaml:"airQuality"`
	Geocoding  GeocodingConfig  `yaml:"geocoding"`
	Upstream   UpstreamConfig   `yaml:"upstream"`
	Locations  LocationsConfig  `yaml:"locations"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	Retry        RetryConfig     `yaml:"retry"`
	CORS         CORSConfig      `yaml:"cors"`
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

// CORSConfig lists origins allowed to call the API. Empty means any.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// WeatherConfig points at the forecast provider.
type WeatherConfig struct {
	BaseURL      string `yaml:"baseUrl"`
	ForecastDays int    `yaml:"forecastDays"`
}

// AirQualityConfig points at the air-quality providers.
type AirQualityConfig struct {
	BaseURL     string `yaml:"baseUrl"`
	WAQIBaseURL string `yaml:"waqiBaseUrl"`
	WAQIToken   string `yaml:"waqiToken"`
	WAQIEnabled bool   `yaml:"waqiEnabled"`
}

// GeocodingConfig points at the place search provider.
type GeocodingConfig struct {
	BaseURL  string `yaml:"baseUrl"`
	Language string `yaml:"language"`
}

// UpstreamConfig bounds every outbound provider call.
type UpstreamConfig struct {
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"maxRetries"`
	InitialBackoff time.Duration `yaml:"initialBackoff"`
	MaxBackoff     time.Duration `yaml:"maxBackoff"`
	UserAgent      string        `yaml:"userAgent"`
	CardBudget     time.Duration `yaml:"cardBudget"`
	Breaker        BreakerConfig `yaml:"breaker"`
}

// BreakerConfig tunes the per-provider circuit breaker.
type BreakerConfig struct {
	ConsecutiveFailures uint32        `yaml:"consecutiveFailures"`
	HalfOpenRequests    uint32        `yaml:"halfOpenRequests"`
	Interval            time.Duration `yaml:"interval"`
	OpenTimeout         time.Duration `yaml:"openTimeout"`
}

// LocationsConfig selects and configures the location store.
type LocationsConfig struct {
	Driver   string            `yaml:"driver"`
	File     FileConfig        `yaml:"file"`
	Redis    RedisConfig       `yaml:"redis"`
	Postgres PostgresConfig    `yaml:"postgres"`
	SQLite   SQLiteConfig      `yaml:"sqlite"`
	Defaults []DefaultLocation `yaml:"defaults"`
}

// FileConfig locates the JSON store.
type FileConfig struct {
	Path string `yaml:"path"`
}

// RedisConfig contains connection information for the Valkey store.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	KeyPrefix string `yaml:"keyPrefix"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// SQLiteConfig locates the SQLite database file.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// DefaultLocation is seeded into an empty store.
type DefaultLocation struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// Location store drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverValkey   = "valkey"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Load reads configuration from a YAML file, an optional .env file and environment variables.
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

	// Variables already set in the environment win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
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
	setString("HTTP_ADDRESS", &cfg.HTTP.Address)
	setDuration("HTTP_READ_TIMEOUT", &cfg.HTTP.ReadTimeout)
	setDuration("HTTP_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout)
	setBool("HTTP_RATE_LIMIT_ENABLED", &cfg.HTTP.RateLimit.Enabled)
	setInt("HTTP_RATE_LIMIT_RPM", &cfg.HTTP.RateLimit.RequestsPerMinute)
	setInt("HTTP_RATE_LIMIT_BURST", &cfg.HTTP.RateLimit.Burst)
	setBool("HTTP_RETRY_ENABLED", &cfg.HTTP.Retry.Enabled)
	setInt("HTTP_RETRY_MAX_ATTEMPTS", &cfg.HTTP.Retry.MaxAttempts)
	setDuration("HTTP_RETRY_BASE_BACKOFF", &cfg.HTTP.Retry.BaseBackoff)
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORS.AllowedOrigins = splitList(v)
	}

	setString("WEATHER_BASE_URL", &cfg.Weather.BaseURL)
	setInt("WEATHER_FORECAST_DAYS", &cfg.Weather.ForecastDays)
	setString("AIR_QUALITY_BASE_URL", &cfg.AirQuality.BaseURL)
	setString("WAQI_BASE_URL", &cfg.AirQuality.WAQIBaseURL)
	setString("WAQI_TOKEN", &cfg.AirQuality.WAQIToken)
	setBool("WAQI_ENABLED", &cfg.AirQuality.WAQIEnabled)
	setString("GEOCODING_BASE_URL", &cfg.Geocoding.BaseURL)
	setString("GEOCODING_LANGUAGE", &cfg.Geocoding.Language)

	setDuration("UPSTREAM_TIMEOUT", &cfg.Upstream.Timeout)
	setInt("UPSTREAM_MAX_RETRIES", &cfg.Upstream.MaxRetries)
	setDuration("UPSTREAM_INITIAL_BACKOFF", &cfg.Upstream.InitialBackoff)
	setDuration("UPSTREAM_MAX_BACKOFF", &cfg.Upstream.MaxBackoff)
	setString("UPSTREAM_USER_AGENT", &cfg.Upstream.UserAgent)
	setDuration("UPSTREAM_CARD_BUDGET", &cfg.Upstream.CardBudget)
	if v := os.Getenv("UPSTREAM_BREAKER_FAILURES"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.Upstream.Breaker.ConsecutiveFailures = uint32(parsed)
		}
	}
	setDuration("UPSTREAM_BREAKER_OPEN_TIMEOUT", &cfg.Upstream.Breaker.OpenTimeout)

	setString("LOCATIONS_DRIVER", &cfg.Locations.Driver)
	setString("LOCATIONS_FILE_PATH", &cfg.Locations.File.Path)
	setString("LOCATIONS_REDIS_ADDR", &cfg.Locations.Redis.Addr)
	setString("LOCATIONS_REDIS_PREFIX", &cfg.Locations.Redis.KeyPrefix)
	setString("LOCATIONS_POSTGRES_DSN", &cfg.Locations.Postgres.DSN)
	if v := os.Getenv("LOCATIONS_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Locations.Postgres.MaxConns = int32(parsed)
		}
	}
	setString("LOCATIONS_SQLITE_PATH", &cfg.Locations.SQLite.Path)
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 2,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/locations",
				},
			},
		},
		Weather: WeatherConfig{
			BaseURL:      "https://api.open-meteo.com/v1/forecast",
			ForecastDays: 2,
		},
		AirQuality: AirQualityConfig{
			BaseURL:     "https://air-quality-api.open-meteo.com/v1/air-quality",
			WAQIBaseURL: "https://api.waqi.info",
			WAQIToken:   "demo",
			WAQIEnabled: true,
		},
		Geocoding: GeocodingConfig{
			BaseURL:  "https://geocoding-api.open-meteo.com/v1/search",
			Language: "en",
		},
		Upstream: UpstreamConfig{
			Timeout:        5 * time.Second,
			MaxRetries:     1,
			InitialBackoff: 200 * time.Millisecond,
			MaxBackoff:     2 * time.Second,
			UserAgent:      "weather-outfit/1.0",
			CardBudget:     12 * time.Second,
			Breaker: BreakerConfig{
				ConsecutiveFailures: 5,
				HalfOpenRequests:    1,
				Interval:            time.Minute,
				OpenTimeout:         30 * time.Second,
			},
		},
		Locations: LocationsConfig{
			Driver: DriverFile,
			File:   FileConfig{Path: "data/locations.json"},
			Redis:  RedisConfig{KeyPrefix: "weather-outfit"},
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
			SQLite: SQLiteConfig{Path: "data/locations.db"},
			Defaults: []DefaultLocation{
				{Name: "Seoul", Latitude: 37.5665, Longitude: 126.978},
				{Name: "Busan", Latitude: 35.1796, Longitude: 129.0756},
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	if strings.TrimSpace(c.Weather.BaseURL) == "" {
		return errors.New("weather.baseUrl cannot be empty")
	}
	if c.Weather.ForecastDays < 2 {
		return errors.New("weather.forecastDays must be at least 2")
	}
	if strings.TrimSpace(c.AirQuality.BaseURL) == "" {
		return errors.New("airQuality.baseUrl cannot be empty")
	}
	if c.AirQuality.WAQIEnabled && strings.TrimSpace(c.AirQuality.WAQIToken) == "" {
		return errors.New("airQuality.waqiToken cannot be empty when waqi is enabled")
	}
	if strings.TrimSpace(c.Geocoding.BaseURL) == "" {
		return errors.New("geocoding.baseUrl cannot be empty")
	}
	if c.Upstream.Timeout <= 0 {
		return errors.New("upstream.timeout must be positive")
	}
	if c.Upstream.MaxRetries < 0 {
		return errors.New("upstream.maxRetries cannot be negative")
	}
	if c.Upstream.CardBudget <= 0 {
		return errors.New("upstream.cardBudget must be positive")
	}
	// Every card has to be built before the server gives up writing the response.
	if c.HTTP.WriteTimeout > 0 && c.Upstream.CardBudget >= c.HTTP.WriteTimeout {
		return fmt.Errorf("upstream.cardBudget (%s) must be below http.writeTimeout (%s)", c.Upstream.CardBudget, c.HTTP.WriteTimeout)
	}
	switch c.Locations.Driver {
	case DriverMemory:
	case DriverFile:
		if strings.TrimSpace(c.Locations.File.Path) == "" {
			return errors.New("locations.file.path cannot be empty for the file driver")
		}
	case DriverValkey:
		if strings.TrimSpace(c.Locations.Redis.Addr) == "" {
			return errors.New("locations.redis.addr cannot be empty for the valkey driver")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.Locations.Postgres.DSN) == "" {
			return errors.New("locations.postgres.dsn cannot be empty for the postgres driver")
		}
	case DriverSQLite:
		if strings.TrimSpace(c.Locations.SQLite.Path) == "" {
			return errors.New("locations.sqlite.path cannot be empty for the sqlite driver")
		}
	default:
		return fmt.Errorf("locations.driver %q is not supported", c.Locations.Driver)
	}
	if len(c.Locations.Defaults) > 2 {
		return errors.New("locations.defaults cannot hold more than 2 entries")
	}
	for i, d := range c.Locations.Defaults {
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("locations.defaults[%d].name cannot be empty", i)
		}
		if d.Latitude < -90 || d.Latitude > 90 || d.Longitude < -180 || d.Longitude > 180 {
			return fmt.Errorf("locations.defaults[%d] has out-of-range coordinates", i)
		}
	}
	return nil
}
