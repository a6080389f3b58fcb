package view

import (
	"time"

	"github.com/swelljoe/weathercast/internal/condition"
	"github.com/swelljoe/weathercast/internal/format"
	"github.com/swelljoe/weathercast/internal/weather"
)

// Display is a reading rendered into display strings plus its visual theme.
type Display struct {
	Title       string
	City        string
	Country     string
	Date        string
	Time        string
	Temperature string
	FeelsLike   string
	Description string
	Humidity    string
	Wind        string
	Pressure    string
	Visibility  string

	Glyph      string
	Symbol     string
	StyleClass string
	Gradient   string
	Daytime    bool
}

// NewDisplay formats r as seen at now in the reading's own timezone.
func NewDisplay(r weather.Reading, now time.Time) Display {
	local := format.LocalTime(now, r.TimezoneOffset)
	c := condition.Classify(r.Condition, r.Icon)

	visibility := "--"
	if r.Visibility != nil {
		visibility = format.Visibility(*r.Visibility)
	}

	return Display{
		Title:       format.Title(r.Name),
		City:        r.Name,
		Country:     r.Country,
		Date:        format.Date(local),
		Time:        format.Clock(local),
		Temperature: format.Temperature(r.Temperature),
		FeelsLike:   format.Temperature(r.FeelsLike),
		Description: format.Capitalize(r.Description),
		Humidity:    format.Humidity(r.Humidity),
		Wind:        format.Wind(r.WindSpeed),
		Pressure:    format.Pressure(r.Pressure),
		Visibility:  visibility,
		Glyph:       c.Glyph,
		Symbol:      c.Symbol,
		StyleClass:  c.Class,
		Gradient:    c.Gradient,
		Daytime:     c.Daytime,
	}
}
