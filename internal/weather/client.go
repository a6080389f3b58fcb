package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// DefaultBaseURL is the OpenWeatherMap current-conditions endpoint.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Client handles OpenWeatherMap API interactions
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates a new OpenWeatherMap client
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
		Logger: logger,
	}
}

// FetchByCity fetches current conditions for a city name. The name is sent
// as given; callers trim and reject empty input.
func (c *Client) FetchByCity(ctx context.Context, name string) (Reading, error) {
	params := url.Values{}
	params.Set("q", name)
	return c.fetch(ctx, params)
}

// FetchByCoords fetches current conditions for a latitude/longitude pair.
func (c *Client) FetchByCoords(ctx context.Context, lat, lon float64) (Reading, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return c.fetch(ctx, params)
}

func (c *Client) fetch(ctx context.Context, params url.Values) (Reading, error) {
	params.Set("appid", c.APIKey)
	params.Set("units", "metric")

	data, err := c.get(ctx, c.BaseURL+"?"+params.Encode())
	if err != nil {
		return Reading{}, err
	}

	r, err := parseReading(data)
	if err != nil {
		return Reading{}, &FetchError{Kind: KindMalformed, Status: http.StatusOK, Err: err}
	}
	return r, nil
}

func (c *Client) get(ctx context.Context, requestURL string) ([]byte, error) {
	log := c.logger()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		log.Warn("weather request failed", zap.Error(err))
		return nil, &FetchError{Kind: KindNetwork, Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Debug("closing response body", zap.Error(cerr))
		}
	}()

	log.Debug("weather response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		fe := classifyStatus(resp.StatusCode)
		log.Info("weather request rejected",
			zap.Int("status", resp.StatusCode),
			zap.Stringer("kind", fe.Kind))
		return nil, fe
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Kind: KindNetwork, Status: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}
	return body, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

// parseReading decodes a current-conditions payload. The main block and at
// least one weather entry are required.
func parseReading(data []byte) (Reading, error) {
	var resp currentResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return Reading{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Main == nil {
		return Reading{}, errors.New("response has no main block")
	}
	if len(resp.Weather) == 0 {
		return Reading{}, errors.New("response has no weather entries")
	}

	w := resp.Weather[0]
	return Reading{
		Name:           resp.Name,
		Country:        resp.Sys.Country,
		TimezoneOffset: resp.Timezone,
		Temperature:    resp.Main.Temp,
		FeelsLike:      resp.Main.FeelsLike,
		Humidity:       resp.Main.Humidity,
		WindSpeed:      resp.Wind.Speed,
		Pressure:       resp.Main.Pressure,
		Visibility:     resp.Visibility,
		Condition:      w.Main,
		Description:    w.Description,
		Icon:           w.Icon,
	}, nil
}

var _ Fetcher = (*Client)(nil)
