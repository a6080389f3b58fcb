package weather

import "context"

// Reading is a single snapshot of current conditions for a location, in
// metric units.
type Reading struct {
	Name           string  `json:"name"`
	Country        string  `json:"country"`
	TimezoneOffset int     `json:"timezone_offset"` // seconds east of UTC
	Temperature    float64 `json:"temperature"`
	FeelsLike      float64 `json:"feels_like"`
	Humidity       int     `json:"humidity"`
	WindSpeed      float64 `json:"wind_speed"` // m/s
	Pressure       int     `json:"pressure"`   // hPa
	Visibility     *int    `json:"visibility,omitempty"`
	Condition      string  `json:"condition"`
	Description    string  `json:"description"`
	Icon           string  `json:"icon"`
}

// Fetcher retrieves current conditions by city name or coordinates.
type Fetcher interface {
	FetchByCity(ctx context.Context, name string) (Reading, error)
	FetchByCoords(ctx context.Context, lat, lon float64) (Reading, error)
}

// currentResponse is the subset of the /data/2.5/weather payload we read.
type currentResponse struct {
	Name     string `json:"name"`
	Timezone int    `json:"timezone"`
	Sys      struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Visibility *int `json:"visibility"`
	Weather    []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
}
