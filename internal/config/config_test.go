package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("WEATHERCAST_API_KEY", "")
	t.Setenv("OPENWEATHER_API_KEY", "")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "https://api.openweathermap.org/data/2.5/weather", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, LocatorIP, cfg.Locator)
	assert.Equal(t, 1.0, cfg.RateLimit.RPS)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "London", cfg.DefaultCity)
	assert.True(t, cfg.MissingCredential())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("WEATHERCAST_API_KEY", "from-env")
	t.Setenv("WEATHERCAST_HTTP_TIMEOUT", "3s")
	t.Setenv("WEATHERCAST_RATE_LIMIT_BURST", "2")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 2, cfg.RateLimit.Burst)
	assert.False(t, cfg.MissingCredential())
}

func TestLoad_OpenWeatherVariable(t *testing.T) {
	t.Setenv("WEATHERCAST_API_KEY", "")
	t.Setenv("OPENWEATHER_API_KEY", "owm-key")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "owm-key", cfg.APIKey)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("WEATHERCAST_API_KEY", "")
	t.Setenv("OPENWEATHER_API_KEY", "")
	path := filepath.Join(t.TempDir(), "weathercast.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_key: file-key
locator: static
default_city: Berlin
latitude: 52.52
longitude: 13.405
rate_limit:
  rps: 0.5
`), 0o600))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, LocatorStatic, cfg.Locator)
	assert.Equal(t, "Berlin", cfg.DefaultCity)
	assert.Equal(t, 52.52, cfg.Latitude)
	assert.Equal(t, 13.405, cfg.Longitude)
	assert.Equal(t, 0.5, cfg.RateLimit.RPS)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ip", Config{DefaultCity: "London", Locator: LocatorIP}, false},
		{"none", Config{DefaultCity: "London", Locator: LocatorNone}, false},
		{"static ok", Config{DefaultCity: "London", Locator: LocatorStatic, Latitude: -33.9, Longitude: 18.4}, false},
		{"static bad latitude", Config{DefaultCity: "London", Locator: LocatorStatic, Latitude: 91}, true},
		{"static bad longitude", Config{DefaultCity: "London", Locator: LocatorStatic, Longitude: -181}, true},
		{"unknown locator", Config{DefaultCity: "London", Locator: "gps"}, true},
		{"blank default city", Config{DefaultCity: " ", Locator: LocatorIP}, true},
		{"negative rps", Config{DefaultCity: "London", Locator: LocatorIP, RateLimit: RateLimit{RPS: -1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
