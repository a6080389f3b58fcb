// Package condition maps OpenWeather condition categories and icon codes to
// visual styles and glyphs.
package condition

import "strings"

// Style is the theme applied to the weather card for a condition category.
type Style struct {
	Class    string
	Gradient string
}

// Icon identifies the glyph drawn for an icon code. Glyph is a Font Awesome
// class list, Symbol is its terminal counterpart.
type Icon struct {
	Glyph  string
	Symbol string
}

// Classification is the full visual treatment of a reading.
type Classification struct {
	Style
	Icon
	Daytime bool
}

// FallbackCategory is used for categories missing from the style table.
const FallbackCategory = "Clouds"

var styles = map[string]Style{
	"Clear": {
		Class:    "sunny",
		Gradient: "linear-gradient(135deg, rgba(255, 200, 50, 0.15), rgba(255, 150, 50, 0.15))",
	},
	"Clouds": {
		Class:    "cloudy",
		Gradient: "linear-gradient(135deg, rgba(150, 150, 150, 0.15), rgba(100, 100, 150, 0.15))",
	},
	"Rain": {
		Class:    "rainy",
		Gradient: "linear-gradient(135deg, rgba(50, 100, 200, 0.15), rgba(25, 50, 100, 0.15))",
	},
	"Drizzle": {
		Class:    "rainy",
		Gradient: "linear-gradient(135deg, rgba(80, 120, 200, 0.15), rgba(40, 80, 150, 0.15))",
	},
	"Thunderstorm": {
		Class:    "stormy",
		Gradient: "linear-gradient(135deg, rgba(40, 40, 100, 0.15), rgba(20, 20, 60, 0.15))",
	},
	"Snow": {
		Class:    "snowy",
		Gradient: "linear-gradient(135deg, rgba(200, 220, 255, 0.15), rgba(150, 180, 220, 0.15))",
	},
	"Mist": {
		Class:    "foggy",
		Gradient: "linear-gradient(135deg, rgba(200, 200, 200, 0.15), rgba(150, 150, 150, 0.15))",
	},
	"Smoke": {
		Class:    "foggy",
		Gradient: "linear-gradient(135deg, rgba(150, 150, 150, 0.15), rgba(100, 100, 100, 0.15))",
	},
	"Haze": {
		Class:    "foggy",
		Gradient: "linear-gradient(135deg, rgba(200, 200, 180, 0.15), rgba(150, 150, 130, 0.15))",
	},
	"Fog": {
		Class:    "foggy",
		Gradient: "linear-gradient(135deg, rgba(180, 180, 200, 0.15), rgba(130, 130, 150, 0.15))",
	},
}

var fallbackIcon = Icon{Glyph: "fas fa-cloud", Symbol: "☁"}

var icons = map[string]Icon{
	"01d": {"fas fa-sun", "☀"},
	"01n": {"fas fa-moon", "☾"},
	"02d": {"fas fa-cloud-sun", "⛅"},
	"02n": {"fas fa-cloud-moon", "☁"},
	"03d": fallbackIcon,
	"03n": fallbackIcon,
	"04d": fallbackIcon,
	"04n": fallbackIcon,
	"09d": {"fas fa-cloud-rain", "🌧"},
	"09n": {"fas fa-cloud-rain", "🌧"},
	"10d": {"fas fa-cloud-sun-rain", "🌦"},
	"10n": {"fas fa-cloud-moon-rain", "🌧"},
	"11d": {"fas fa-bolt", "⛈"},
	"11n": {"fas fa-bolt", "⛈"},
	"13d": {"fas fa-snowflake", "❄"},
	"13n": {"fas fa-snowflake", "❄"},
	"50d": {"fas fa-smog", "🌫"},
	"50n": {"fas fa-smog", "🌫"},
}

// nightReplacements are applied in order, first occurrence only.
var nightReplacements = [][2]string{
	{"135deg", "315deg"},
	{"rgba(255, 200, 50", "rgba(50, 50, 150"},
	{"rgba(255, 150, 50", "rgba(25, 25, 100"},
}

// Classify returns the style, icon and day/night flag for a reading.
// Unknown categories get the Clouds style and unknown icon codes a plain
// cloud glyph.
func Classify(category, iconCode string) Classification {
	day := IsDaytime(iconCode)
	style := StyleFor(category)
	if !day {
		style.Gradient = NightGradient(style.Gradient)
	}
	return Classification{
		Style:   style,
		Icon:    IconFor(iconCode),
		Daytime: day,
	}
}

// StyleFor looks up the daytime style for a category.
func StyleFor(category string) Style {
	if s, ok := styles[category]; ok {
		return s
	}
	return styles[FallbackCategory]
}

// IconFor returns the glyph for an icon code, or the generic cloud.
func IconFor(iconCode string) Icon {
	if i, ok := icons[iconCode]; ok {
		return i
	}
	return fallbackIcon
}

// IsDaytime reports whether the icon code ends in 'd'.
func IsDaytime(iconCode string) bool {
	return strings.HasSuffix(iconCode, "d")
}

// NightGradient rotates the gradient to 315deg and swaps the warm Clear-sky
// stops for night blues. Other stops are left untouched.
func NightGradient(gradient string) string {
	for _, r := range nightReplacements {
		gradient = strings.Replace(gradient, r[0], r[1], 1)
	}
	return gradient
}
