// Package view drives the fetch-and-render cycle: it owns the application
// state, issues weather requests and tells a Renderer what to draw.
package view

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/swelljoe/weathercast/internal/location"
	"github.com/swelljoe/weathercast/internal/weather"
)

const (
	// ErrorDismissDelay is how long the error panel stays up.
	ErrorDismissDelay = 8 * time.Second

	PlaceholderText   = "Search for a city to see the current weather"
	LocatingText      = "Getting your location..."
	EmptyQueryMessage = "Please enter a city name"

	missingKeyHint = "Remember to add your OpenWeatherMap API key"
)

// ErrEmptyQuery is returned by Search for blank input.
var ErrEmptyQuery = errors.New("view: empty city name")

// errSuperseded marks a response that arrived after a newer request started.
var errSuperseded = errors.New("view: superseded by a newer request")

// State is the controller's position in the request cycle.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateDisplaying
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateDisplaying:
		return "displaying"
	case StateError:
		return "error"
	default:
		return "idle"
	}
}

// Panel is one of the mutually exclusive content areas of the render surface.
type Panel int

const (
	PanelPlaceholder Panel = iota
	PanelReading
	PanelError
)

// Renderer is the render surface.
type Renderer interface {
	// Placeholder sets the text of the placeholder panel.
	Placeholder(text string)
	// Reading fills the data panel.
	Reading(d Display)
	// Error fills the error panel.
	Error(message string)
	// Show makes p the only visible panel.
	Show(p Panel)
	// Busy toggles the loading indicator and disables the search trigger.
	Busy(on bool)
	Recent(cities []string)
	Focus()
}

// Recents is the recent-search store.
type Recents interface {
	Load() []string
	Record(city string) []string
}

// Resolver yields the session location.
type Resolver interface {
	Resolve(ctx context.Context) location.Result
}

// AppState is the data state behind the display.
type AppState struct {
	State State
	// LastCity is the last city searched successfully by name.
	LastCity string
	// Reading is the most recent successful reading, kept across errors.
	Reading *weather.Reading
	Message string
}

// Config holds the controller's collaborators. Recents and Resolver are optional.
type Config struct {
	Fetcher           weather.Fetcher
	Renderer          Renderer
	Recents           Recents
	Resolver          Resolver
	Logger            *zap.Logger
	MissingCredential bool

	// FallbackCity is shown when the device location cannot be used.
	// Defaults to location.DefaultCity.
	FallbackCity string
}

// attempt is a city request that Retry can replay.
type attempt struct {
	city   string
	record bool
}

// Controller coordinates fetching and rendering. Requests are not cancelled
// when a newer one starts, but only the newest request's outcome is applied.
type Controller struct {
	fetcher    weather.Fetcher
	renderer   Renderer
	recents    Recents
	resolver   Resolver
	logger     *zap.Logger
	missingKey bool
	fallback   string

	now       func() time.Time
	afterFunc func(d time.Duration, f func()) (stop func() bool)

	mu          sync.Mutex
	state       AppState
	generation  uint64
	pending     string
	lastAttempt attempt
	panel       Panel
	restore     Panel
	errorSeq    uint64
	stopDismiss func() bool
}

// New creates a Controller in the Idle state.
func New(cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fallback := cfg.FallbackCity
	if fallback == "" {
		fallback = location.DefaultCity
	}
	return &Controller{
		fetcher:    cfg.Fetcher,
		renderer:   cfg.Renderer,
		recents:    cfg.Recents,
		resolver:   cfg.Resolver,
		logger:     logger,
		missingKey: cfg.MissingCredential,
		fallback:   fallback,
		now:        time.Now,
		afterFunc: func(d time.Duration, f func()) func() bool {
			return time.AfterFunc(d, f).Stop
		},
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() AppState {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	if s.Reading != nil {
		r := *s.Reading
		s.Reading = &r
	}
	return s
}

// Start shows the placeholder and recent searches, then loads weather for the
// device location, or the default city when that is unavailable.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	c.renderer.Placeholder(PlaceholderText)
	c.show(PanelPlaceholder)
	if c.recents != nil {
		c.renderer.Recent(c.recents.Load())
	}
	if c.missingKey {
		c.logger.Warn("API key not configured, add your OpenWeatherMap API key")
	}
	c.mu.Unlock()

	if c.resolver == nil {
		c.fetchFallback(ctx, c.fallback)
		return
	}

	c.mu.Lock()
	c.renderer.Placeholder(LocatingText)
	c.mu.Unlock()

	res := c.resolver.Resolve(ctx)
	if res.IsFallback() {
		c.fetchFallback(ctx, res.Fallback)
		return
	}

	lat, lon := res.Coordinates.Latitude, res.Coordinates.Longitude
	_, err := c.run(ctx, "", true, func(ctx context.Context) (weather.Reading, error) {
		return c.fetcher.FetchByCoords(ctx, lat, lon)
	})
	if err != nil && !errors.Is(err, errSuperseded) {
		c.logger.Info("weather for device location failed, using default city",
			zap.Float64("lat", lat), zap.Float64("lon", lon), zap.Error(err))
		c.fetchFallback(ctx, c.fallback)
	}
}

// Search loads weather for the city typed by the user and records it as a
// recent search on success. Blank input returns ErrEmptyQuery without a
// request. Searching for the displayed or in-flight city does nothing.
func (c *Controller) Search(ctx context.Context, input string) error {
	return c.search(ctx, input, true)
}

// SelectRecent loads weather for an entry picked from the recent list. The
// list itself is left unchanged.
func (c *Controller) SelectRecent(ctx context.Context, city string) error {
	return c.search(ctx, city, false)
}

// Retry repeats the last city request, including the default city loaded
// at start. A retried SelectRecent still leaves the recent list alone. With
// nothing attempted yet Retry does nothing.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()
	a := c.lastAttempt
	c.mu.Unlock()
	if a.city == "" {
		return nil
	}
	return c.search(ctx, a.city, a.record)
}

func (c *Controller) search(ctx context.Context, input string, record bool) error {
	city := strings.TrimSpace(input)

	c.mu.Lock()
	if city == "" {
		c.showError(EmptyQueryMessage)
		c.renderer.Focus()
		c.mu.Unlock()
		return ErrEmptyQuery
	}
	c.lastAttempt = attempt{city: city, record: record}
	if c.isCurrent(city) {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	_, err := c.fetchCity(ctx, city)
	if errors.Is(err, errSuperseded) {
		return nil
	}
	if err != nil {
		return err
	}

	if record && c.recents != nil {
		list := c.recents.Record(city)
		c.mu.Lock()
		c.renderer.Recent(list)
		c.mu.Unlock()
	}
	return nil
}

// isCurrent reports whether city is already displayed or being fetched.
func (c *Controller) isCurrent(city string) bool {
	if c.state.Reading != nil && city == c.state.LastCity {
		return true
	}
	return c.state.State == StateLoading && city == c.pending
}

// fetchFallback loads the default city. It is remembered for Retry but never
// recorded as a recent search.
func (c *Controller) fetchFallback(ctx context.Context, city string) {
	c.mu.Lock()
	c.lastAttempt = attempt{city: city}
	c.mu.Unlock()
	c.fetchCity(ctx, city)
}

func (c *Controller) fetchCity(ctx context.Context, city string) (weather.Reading, error) {
	return c.run(ctx, city, false, func(ctx context.Context) (weather.Reading, error) {
		return c.fetcher.FetchByCity(ctx, city)
	})
}

// run performs one request. city is empty for coordinate lookups. A silent
// failure is returned to the caller without being shown.
func (c *Controller) run(ctx context.Context, city string, silent bool, do func(context.Context) (weather.Reading, error)) (weather.Reading, error) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.pending = city
	c.state.State = StateLoading
	c.hideError()
	c.renderer.Busy(true)
	c.mu.Unlock()

	r, err := do(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.Debug("discarding stale weather response", zap.String("city", city))
		return weather.Reading{}, errSuperseded
	}
	c.pending = ""
	c.renderer.Busy(false)

	if err != nil {
		c.state.LastCity = ""
		if silent {
			return weather.Reading{}, err
		}
		msg := userMessage(err)
		c.logger.Warn("fetching weather", zap.String("city", city), zap.Error(err))
		c.state.State = StateError
		c.state.Message = msg
		c.showError(msg)
		return weather.Reading{}, err
	}

	c.state.State = StateDisplaying
	c.state.Reading = &r
	c.state.LastCity = city
	c.state.Message = ""
	c.renderer.Reading(NewDisplay(r, c.now()))
	c.show(PanelReading)
	return r, nil
}

func userMessage(err error) string {
	var fe *weather.FetchError
	if errors.As(err, &fe) {
		return fe.Message()
	}
	return "Unable to fetch weather data. Please try again."
}

func (c *Controller) show(p Panel) {
	c.panel = p
	c.renderer.Show(p)
}

// showError displays msg and schedules its dismissal. Callers hold c.mu.
func (c *Controller) showError(msg string) {
	if c.panel != PanelError {
		c.restore = c.panel
	}
	if c.missingKey {
		msg += "\n" + missingKeyHint
	}
	c.renderer.Error(msg)
	c.show(PanelError)

	if c.stopDismiss != nil {
		c.stopDismiss()
	}
	c.errorSeq++
	seq := c.errorSeq
	c.stopDismiss = c.afterFunc(ErrorDismissDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if seq == c.errorSeq {
			c.hideError()
		}
	})
}

// hideError restores the panel that preceded the error. Callers hold c.mu.
func (c *Controller) hideError() {
	if c.panel != PanelError {
		return
	}
	if c.stopDismiss != nil {
		c.stopDismiss()
		c.stopDismiss = nil
	}
	c.show(c.restore)
}

// Stop cancels a pending error dismissal.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopDismiss != nil {
		c.stopDismiss()
		c.stopDismiss = nil
	}
	c.errorSeq++
}
