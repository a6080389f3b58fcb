package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/swelljoe/weathercast/internal/config"
)

// weatherAPI is a stand-in for the OpenWeatherMap endpoint.
type weatherAPI struct {
	mu      sync.Mutex
	queries []string
}

func (w *weatherAPI) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	w.mu.Lock()
	w.queries = append(w.queries, r.URL.RawQuery)
	w.mu.Unlock()

	city := q.Get("q")
	if q.Has("lat") {
		city = "Geneva"
	}
	if city == "Atlantis" {
		rw.WriteHeader(http.StatusNotFound)
		rw.Write([]byte(`{"cod":"404","message":"city not found"}`))
		return
	}
	rw.Header().Set("Content-Type", "application/json")
	rw.Write([]byte(`{"name":"` + city + `","timezone":0,"sys":{"country":"ZZ"},` +
		`"main":{"temp":20,"feels_like":19,"humidity":50,"pressure":1010},"wind":{"speed":5},` +
		`"visibility":4500,"weather":[{"main":"Rain","description":"light rain","icon":"10d"}]}`))
}

func (w *weatherAPI) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queries)
}

func newTestApp(t *testing.T, locator string) (*app, *bytes.Buffer, *weatherAPI) {
	t.Helper()
	api := &weatherAPI{}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := config.Config{
		APIKey:      "test-key",
		BaseURL:     srv.URL + "/data/2.5/weather",
		HTTPTimeout: 5 * time.Second,
		DBPath:      filepath.Join(t.TempDir(), "weathercast.db"),
		Locator:     locator,
		Latitude:    46.2,
		Longitude:   6.15,
		RateLimit:   config.RateLimit{RPS: 100, Burst: 10},
	}
	var out bytes.Buffer
	a := newApp(cfg, zaptest.NewLogger(t), &out)
	t.Cleanup(a.Close)
	return a, &out, api
}

func TestOnce_City(t *testing.T) {
	a, out, api := newTestApp(t, config.LocatorNone)

	require.NoError(t, a.once(context.Background(), "Bergen"))

	assert.Contains(t, out.String(), "== Bergen Weather - WeatherCast ==")
	assert.Contains(t, out.String(), "Wind        18 km/h")
	assert.Contains(t, out.String(), "Visibility  4.5 km")
	assert.Equal(t, 1, api.count())
	assert.Equal(t, []string{"Bergen"}, a.recents.Load())
}

func TestOnce_NotFound(t *testing.T) {
	a, out, _ := newTestApp(t, config.LocatorNone)

	err := a.once(context.Background(), "Atlantis")

	assert.True(t, errors.Is(err, errReported))
	assert.Contains(t, out.String(), "City not found. Please check the city name and try again.")
	assert.Empty(t, a.recents.Load())
}

func TestOnce_Location(t *testing.T) {
	a, out, api := newTestApp(t, config.LocatorStatic)

	require.NoError(t, a.once(context.Background(), ""))

	assert.Contains(t, out.String(), "Getting your location...")
	assert.Contains(t, out.String(), "Geneva")
	require.Equal(t, 1, api.count())
	assert.Contains(t, api.queries[0], "lat=46.2")
}

func TestOnce_NoLocatorFallsBackToLondon(t *testing.T) {
	a, out, _ := newTestApp(t, config.LocatorNone)

	require.NoError(t, a.once(context.Background(), ""))
	assert.Contains(t, out.String(), "London Weather - WeatherCast")
}

func TestInteractive(t *testing.T) {
	a, out, api := newTestApp(t, config.LocatorNone)

	input := strings.Join([]string{
		"Paris",
		"Paris",
		"",
		"Rome",
		"/recent",
		"/2",
		"/9",
		"/quit",
		"Ignored",
	}, "\n")

	require.NoError(t, a.interactive(context.Background(), strings.NewReader(input)))

	s := out.String()
	assert.Contains(t, s, "Please enter a city name")
	assert.Contains(t, s, "/1 Rome\n/2 Paris\n")
	assert.Contains(t, s, "Unknown command /9")
	assert.NotContains(t, s, "Ignored")
	// London at start, Paris once, Rome, then Paris again from the recent list.
	assert.Equal(t, 4, api.count())
	assert.Equal(t, []string{"Rome", "Paris"}, a.recents.Load())
}

func TestInteractive_QuitClosesInput(t *testing.T) {
	a, _, _ := newTestApp(t, config.LocatorNone)
	pr, pw := io.Pipe()

	done := make(chan error, 1)
	go func() { done <- a.interactive(context.Background(), pr) }()

	_, err := pw.Write([]byte("/quit\n"))
	require.NoError(t, err)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("interactive did not return after /quit")
	}

	// The reader side is closed, so nothing is left waiting on input.
	_, err = pw.Write([]byte("Paris\n"))
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestRecentPersistsAcrossSessions(t *testing.T) {
	api := &weatherAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	cfg := config.Config{
		APIKey:      "k",
		BaseURL:     srv.URL,
		HTTPTimeout: time.Second,
		DBPath:      filepath.Join(t.TempDir(), "weathercast.db"),
		Locator:     config.LocatorNone,
	}

	first := newApp(cfg, zaptest.NewLogger(t), &bytes.Buffer{})
	require.NoError(t, first.once(context.Background(), "Quito"))
	first.Close()

	second := newApp(cfg, zaptest.NewLogger(t), &bytes.Buffer{})
	defer second.Close()
	assert.Equal(t, []string{"Quito"}, second.recents.Load())
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("debug")
	assert.NoError(t, err)
	_, err = newLogger("loud")
	assert.Error(t, err)
}
