// Package config loads weathercast settings from flags, environment and an
// optional config file.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/swelljoe/weathercast/internal/db"
	"github.com/swelljoe/weathercast/internal/location"
	"github.com/swelljoe/weathercast/internal/weather"
)

// EnvPrefix prefixes every environment variable, e.g. WEATHERCAST_API_KEY.
const EnvPrefix = "WEATHERCAST"

// Locator kinds.
const (
	LocatorIP     = "ip"
	LocatorStatic = "static"
	LocatorNone   = "none"
)

type RateLimit struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// Config is the resolved application configuration.
type Config struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	DBPath      string        `mapstructure:"db_path"`
	DefaultCity string        `mapstructure:"default_city"`
	Locator     string        `mapstructure:"locator"`
	Latitude    float64       `mapstructure:"latitude"`
	Longitude   float64       `mapstructure:"longitude"`
	GeoURL      string        `mapstructure:"geo_url"`
	RateLimit   RateLimit     `mapstructure:"rate_limit"`
	LogLevel    string        `mapstructure:"log_level"`
}

// SetDefaults registers default values and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api_key", "")
	v.SetDefault("base_url", weather.DefaultBaseURL)
	v.SetDefault("http_timeout", 10*time.Second)
	v.SetDefault("db_path", db.DefaultPath())
	v.SetDefault("default_city", location.DefaultCity)
	v.SetDefault("locator", LocatorIP)
	v.SetDefault("latitude", 0.0)
	v.SetDefault("longitude", 0.0)
	v.SetDefault("geo_url", location.DefaultIPLookupURL)
	// OpenWeatherMap free tier: 60 calls/minute.
	v.SetDefault("rate_limit.rps", 1.0)
	v.SetDefault("rate_limit.burst", 5)
	v.SetDefault("log_level", "warn")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// The bare OpenWeatherMap variable is accepted as well.
	_ = v.BindEnv("api_key", EnvPrefix+"_API_KEY", "OPENWEATHER_API_KEY")
}

// Load reads the optional config file and unmarshals v into a Config.
func Load(v *viper.Viper, file string) (Config, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that cannot be defaulted.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DefaultCity) == "" {
		return fmt.Errorf("default_city must not be empty")
	}
	switch c.Locator {
	case LocatorIP, LocatorNone:
	case LocatorStatic:
		if c.Latitude < -90 || c.Latitude > 90 {
			return fmt.Errorf("latitude out of range: %f", c.Latitude)
		}
		if c.Longitude < -180 || c.Longitude > 180 {
			return fmt.Errorf("longitude out of range: %f", c.Longitude)
		}
	default:
		return fmt.Errorf("unknown locator %q (want %s, %s or %s)", c.Locator, LocatorIP, LocatorStatic, LocatorNone)
	}
	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("rate_limit.rps must not be negative")
	}
	return nil
}

// MissingCredential reports whether no API key is configured.
func (c Config) MissingCredential() bool {
	return strings.TrimSpace(c.APIKey) == ""
}
