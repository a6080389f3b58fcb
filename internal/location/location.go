// Package location resolves the device position once per session, falling
// back to a fixed city when no usable fix is available.
package location

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultCity is used whenever a position cannot be obtained.
const DefaultCity = "London"

// ErrUnsupported is returned by locators that cannot provide a position.
var ErrUnsupported = errors.New("location: geolocation not supported")

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Position is a fix and the time it was taken.
type Position struct {
	Coordinates
	Timestamp time.Time
}

// Options mirror the knobs of a geolocation request.
type Options struct {
	Timeout      time.Duration
	MaximumAge   time.Duration
	HighAccuracy bool
}

// DefaultOptions: 10 second timeout, accept a fix up to 10 minutes old, high accuracy.
var DefaultOptions = Options{
	Timeout:      10 * time.Second,
	MaximumAge:   10 * time.Minute,
	HighAccuracy: true,
}

// Locator is the geolocation capability.
type Locator interface {
	CurrentPosition(ctx context.Context, opts Options) (Position, error)
}

// Result is either device coordinates or a fallback city name.
type Result struct {
	Coordinates Coordinates
	Fallback    string
}

// IsFallback reports whether no device position was obtained.
func (r Result) IsFallback() bool {
	return r.Fallback != ""
}

// Resolver performs a single resolution attempt per session.
type Resolver struct {
	locator  Locator
	opts     Options
	fallback string
	logger   *zap.Logger
	now      func() time.Time

	once   sync.Once
	result Result
}

// NewResolver creates a Resolver. A nil locator means the capability is
// absent and Resolve always falls back to fallback, or DefaultCity when
// fallback is blank.
func NewResolver(locator Locator, fallback string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fallback == "" {
		fallback = DefaultCity
	}
	return &Resolver{
		locator:  locator,
		opts:     DefaultOptions,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

// Resolve returns the session's location. Only the first call queries the
// locator; later calls return the same result. Failures never surface as
// errors, they yield the fallback city.
func (r *Resolver) Resolve(ctx context.Context) Result {
	r.once.Do(func() {
		r.result = r.resolve(ctx)
	})
	return r.result
}

func (r *Resolver) resolve(ctx context.Context) Result {
	fallback := Result{Fallback: r.fallback}

	if r.locator == nil {
		r.logger.Info("geolocation not supported, using default city", zap.String("city", r.fallback))
		return fallback
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.Timeout)
	defer cancel()

	pos, err := r.locator.CurrentPosition(ctx, r.opts)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		r.logger.Info("geolocation unavailable, using default city",
			zap.String("city", r.fallback), zap.Error(err))
		return fallback
	}

	if age := r.now().Sub(pos.Timestamp); age > r.opts.MaximumAge {
		r.logger.Info("geolocation fix too old, using default city",
			zap.Duration("age", age), zap.String("city", r.fallback))
		return fallback
	}

	return Result{Coordinates: pos.Coordinates}
}
