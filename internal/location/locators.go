package location

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultIPLookupURL returns the caller's approximate position as JSON.
const DefaultIPLookupURL = "http://ip-api.com/json/?fields=status,message,lat,lon"

// IPLocator approximates the device position from its public IP address.
// The last fix is kept in memory and reused while younger than MaximumAge.
type IPLocator struct {
	URL        string
	HTTPClient *http.Client
	Logger     *zap.Logger
	now        func() time.Time

	mu     sync.Mutex
	cached *Position
}

// NewIPLocator creates an IPLocator. An empty url uses DefaultIPLookupURL.
func NewIPLocator(url string, logger *zap.Logger) *IPLocator {
	if url == "" {
		url = DefaultIPLookupURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IPLocator{
		URL:        url,
		HTTPClient: &http.Client{},
		Logger:     logger,
		now:        time.Now,
	}
}

type ipLookupResponse struct {
	Status  string   `json:"status"`
	Message string   `json:"message"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// CurrentPosition returns the cached fix when fresh enough, otherwise it
// performs a lookup bounded by ctx and opts.Timeout.
func (l *IPLocator) CurrentPosition(ctx context.Context, opts Options) (Position, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	if l.cached != nil && opts.MaximumAge > 0 && now.Sub(l.cached.Timestamp) <= opts.MaximumAge {
		return *l.cached, nil
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return Position{}, fmt.Errorf("failed to create request: %w", err)
	}

	client := l.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Position{}, fmt.Errorf("ip lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Position{}, fmt.Errorf("ip lookup: status %d", resp.StatusCode)
	}

	var body ipLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Position{}, fmt.Errorf("ip lookup: failed to parse response: %w", err)
	}
	if body.Status != "" && body.Status != "success" {
		return Position{}, fmt.Errorf("ip lookup: %s", body.Message)
	}
	if body.Lat == nil || body.Lon == nil {
		return Position{}, fmt.Errorf("ip lookup: response has no coordinates")
	}

	pos := Position{
		Coordinates: Coordinates{Latitude: *body.Lat, Longitude: *body.Lon},
		Timestamp:   now,
	}
	l.cached = &pos
	l.logger().Debug("ip lookup fix",
		zap.Float64("lat", pos.Latitude), zap.Float64("lon", pos.Longitude))
	return pos, nil
}

func (l *IPLocator) clock() time.Time {
	if l.now != nil {
		return l.now()
	}
	return time.Now()
}

func (l *IPLocator) logger() *zap.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return zap.NewNop()
}

// StaticLocator always reports the configured coordinates as a fresh fix.
type StaticLocator struct {
	Coordinates Coordinates
}

func (s StaticLocator) CurrentPosition(ctx context.Context, opts Options) (Position, error) {
	if err := ctx.Err(); err != nil {
		return Position{}, err
	}
	return Position{Coordinates: s.Coordinates, Timestamp: time.Now()}, nil
}

var (
	_ Locator = (*IPLocator)(nil)
	_ Locator = StaticLocator{}
)
