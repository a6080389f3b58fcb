package weather

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited wraps a Fetcher so outbound calls stay under the API quota.
type RateLimited struct {
	fetcher Fetcher
	limiter *rate.Limiter
}

// NewRateLimited creates a rate limited fetcher.
// rps is the maximum requests per second allowed (can be fractional for less than 1 request per second)
// burst is the maximum burst size allowed
func NewRateLimited(f Fetcher, rps float64, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{
		fetcher: f,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// FetchByCity waits for the limiter, then forwards to the wrapped fetcher.
func (r *RateLimited) FetchByCity(ctx context.Context, name string) (Reading, error) {
	if err := r.wait(ctx); err != nil {
		return Reading{}, err
	}
	return r.fetcher.FetchByCity(ctx, name)
}

// FetchByCoords waits for the limiter, then forwards to the wrapped fetcher.
func (r *RateLimited) FetchByCoords(ctx context.Context, lat, lon float64) (Reading, error) {
	if err := r.wait(ctx); err != nil {
		return Reading{}, err
	}
	return r.fetcher.FetchByCoords(ctx, lat, lon)
}

func (r *RateLimited) wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return &FetchError{Kind: KindNetwork, Err: fmt.Errorf("rate limit wait canceled: %w", err)}
	}
	return nil
}

var _ Fetcher = (*RateLimited)(nil)
