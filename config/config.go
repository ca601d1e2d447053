package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const DefaultConfigPath = "config/config.yaml"

type Config struct {
	App       AppConfig       `yaml:"app"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Sentry    SentryConfig    `yaml:"sentry"`
	Geocoding GeocodingConfig `yaml:"geocoding"`
	Forecast  ForecastConfig  `yaml:"forecast"`
	Widget    WidgetConfig    `yaml:"widget"`
}

type AppConfig struct {
	Name    string `yaml:"name" envconfig:"APP_NAME"`
	Version string `yaml:"version" envconfig:"APP_VERSION"`
	Env     string `yaml:"env" envconfig:"APP_ENV"`
}

// ServerConfig timeouts are in seconds. A zero RateLimitRPS disables the inbound limiter.
type ServerConfig struct {
	Port           string  `yaml:"port" envconfig:"SERVER_PORT"`
	ReadTimeout    int     `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT"`
	WriteTimeout   int     `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout    int     `yaml:"idle_timeout" envconfig:"SERVER_IDLE_TIMEOUT"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps" envconfig:"SERVER_RATE_LIMIT_RPS"`
	RateLimitBurst int     `yaml:"rate_limit_burst" envconfig:"SERVER_RATE_LIMIT_BURST"`
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"`
}

type SentryConfig struct {
	DSN   string `yaml:"dsn" envconfig:"SENTRY_DSN"`
	Debug bool   `yaml:"debug" envconfig:"SENTRY_DEBUG"`
}

type GeocodingConfig struct {
	BaseURL  string        `yaml:"base_url" envconfig:"GEOCODING_BASE_URL"`
	Language string        `yaml:"language" envconfig:"GEOCODING_LANGUAGE"`
	Format   string        `yaml:"format" envconfig:"GEOCODING_FORMAT"`
	Timeout  time.Duration `yaml:"timeout" envconfig:"GEOCODING_TIMEOUT"`
}

// ForecastConfig.Days is sent as forecast_days when positive; the API default is 7.
type ForecastConfig struct {
	BaseURL  string        `yaml:"base_url" envconfig:"FORECAST_BASE_URL"`
	Timezone string        `yaml:"timezone" envconfig:"FORECAST_TIMEZONE"`
	Days     int           `yaml:"days" envconfig:"FORECAST_DAYS"`
	Timeout  time.Duration `yaml:"timeout" envconfig:"FORECAST_TIMEOUT"`
}

type WidgetConfig struct {
	Country         string        `yaml:"country" envconfig:"WIDGET_COUNTRY"`
	CountryCode     string        `yaml:"country_code" envconfig:"WIDGET_COUNTRY_CODE"`
	MinQueryLength  int           `yaml:"min_query_length" envconfig:"WIDGET_MIN_QUERY_LENGTH"`
	SuggestionCount int           `yaml:"suggestion_count" envconfig:"WIDGET_SUGGESTION_COUNT"`
	DebounceDelay   time.Duration `yaml:"debounce_delay" envconfig:"WIDGET_DEBOUNCE_DELAY"`
}

// ConfigProvider loads and validates a Config.
type ConfigProvider interface {
	Load() (*Config, error)
	Validate(config *Config) error
}

// FileConfigProvider layers defaults, a YAML file and the environment, in that order.
type FileConfigProvider struct {
	path string
}

func NewFileConfigProvider(path string) *FileConfigProvider {
	return &FileConfigProvider{path: path}
}

// Default returns the configuration used when neither the file nor the environment set a value.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:    "weather-widget",
			Version: "1.0.0",
			Env:     "development",
		},
		Server: ServerConfig{
			Port:           "8080",
			ReadTimeout:    10,
			WriteTimeout:   10,
			IdleTimeout:    120,
			RateLimitRPS:   0,
			RateLimitBurst: 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Geocoding: GeocodingConfig{
			BaseURL:  "https://geocoding-api.open-meteo.com",
			Language: "en",
			Format:   "json",
			Timeout:  10 * time.Second,
		},
		Forecast: ForecastConfig{
			BaseURL:  "https://api.open-meteo.com",
			Timezone: "Europe/Berlin",
			Days:     7,
			Timeout:  10 * time.Second,
		},
		Widget: WidgetConfig{
			Country:         "Germany",
			CountryCode:     "DE",
			MinQueryLength:  2,
			SuggestionCount: 5,
			DebounceDelay:   300 * time.Millisecond,
		},
	}
}

func (p *FileConfigProvider) Load() (*Config, error) {
	cnf := Default()

	if err := p.loadFromFile(cnf); err != nil {
		return nil, err
	}

	if err := envconfig.Process("", cnf); err != nil {
		return nil, fmt.Errorf("error environment variable parsing: %w", err)
	}

	return cnf, nil
}

// loadFromFile overlays the YAML file on config. A missing file is not an error.
func (p *FileConfigProvider) loadFromFile(config *Config) error {
	yamlData, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", p.path, err)
	}

	if err := yaml.Unmarshal(yamlData, config); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}

	return nil
}

func (p *FileConfigProvider) Validate(config *Config) error {
	switch {
	case config.App.Name == "":
		return errors.New("app.name is required")
	case config.App.Version == "":
		return errors.New("app.version is required")
	case config.Server.Port == "":
		return errors.New("server.port is required")
	case config.Server.ReadTimeout <= 0:
		return errors.New("server.read_timeout must be positive")
	case config.Server.WriteTimeout <= 0:
		return errors.New("server.write_timeout must be positive")
	case config.Server.IdleTimeout <= 0:
		return errors.New("server.idle_timeout must be positive")
	case config.Server.RateLimitRPS < 0:
		return errors.New("server.rate_limit_rps must not be negative")
	case config.Server.RateLimitRPS > 0 && config.Server.RateLimitBurst <= 0:
		return errors.New("server.rate_limit_burst must be positive when rate limiting is on")
	case config.Geocoding.BaseURL == "":
		return errors.New("geocoding.base_url is required")
	case config.Forecast.BaseURL == "":
		return errors.New("forecast.base_url is required")
	case config.Forecast.Days < 0 || config.Forecast.Days > 16:
		return errors.New("forecast.days must be between 0 and 16")
	case config.Widget.Country == "":
		return errors.New("widget.country is required")
	case config.Widget.MinQueryLength < 1:
		return errors.New("widget.min_query_length must be at least 1")
	case config.Widget.SuggestionCount < 1 || config.Widget.SuggestionCount > 100:
		return errors.New("widget.suggestion_count must be between 1 and 100")
	case config.Widget.DebounceDelay < 0:
		return errors.New("widget.debounce_delay must not be negative")
	}

	switch config.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not supported", config.Log.Level)
	}

	switch config.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("log.format %q is not supported", config.Log.Format)
	}

	if config.Forecast.Timezone != "" {
		if _, err := time.LoadLocation(config.Forecast.Timezone); err != nil {
			return fmt.Errorf("forecast.timezone: %w", err)
		}
	}

	return nil
}

func NewConfigWithProvider(provider ConfigProvider) (*Config, error) {
	cnf, err := provider.Load()
	if err != nil {
		return nil, err
	}

	if err := provider.Validate(cnf); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cnf, nil
}

// NewConfig reads config/config.yaml, or the file named by CONFIG_PATH.
func NewConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultConfigPath
	}

	return NewConfigWithProvider(NewFileConfigProvider(path))
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// SentryZone maps the app environment onto the zones the Sentry hook forwards for.
func (c *Config) SentryZone() string {
	switch c.App.Env {
	case "production":
		return "prod"
	case "development":
		return "dev"
	}
	return c.App.Env
}
