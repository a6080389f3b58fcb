// Package format turns raw metric readings into display strings.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// visibilityCap is the distance in meters from which visibility is shown as "10+ km".
const visibilityCap = 10000

// Round rounds half toward positive infinity, so -2.5 becomes -2 and 2.5 becomes 3.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// Temperature formats a Celsius value as a whole number, e.g. "12°C".
func Temperature(celsius float64) string {
	return fmt.Sprintf("%d°C", Round(celsius))
}

// Humidity formats a relative humidity percentage.
func Humidity(percent int) string {
	return fmt.Sprintf("%d%%", percent)
}

// Wind converts m/s to km/h.
func Wind(metersPerSecond float64) string {
	return fmt.Sprintf("%d km/h", Round(metersPerSecond*3.6))
}

// Pressure formats hectopascals, e.g. "1013 hPa".
func Pressure(hpa int) string {
	return fmt.Sprintf("%d hPa", hpa)
}

// Visibility formats a distance in meters as kilometers with one decimal,
// capped at "10+ km".
func Visibility(meters int) string {
	if meters >= visibilityCap {
		return "10+ km"
	}
	return strconv.FormatFloat(float64(meters)/1000, 'f', 1, 64) + " km"
}

// Capitalize upper-cases the first letter of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// LocalTime returns now as seen at a location offset from UTC by offsetSeconds.
func LocalTime(now time.Time, offsetSeconds int) time.Time {
	return now.In(time.FixedZone(zoneName(offsetSeconds), offsetSeconds))
}

func zoneName(offsetSeconds int) string {
	sign := "+"
	if offsetSeconds < 0 {
		sign = "-"
		offsetSeconds = -offsetSeconds
	}
	return fmt.Sprintf("UTC%s%02d:%02d", sign, offsetSeconds/3600, (offsetSeconds%3600)/60)
}

// Date formats t as "Monday, January 2, 2006".
func Date(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

// Clock formats t as a 12-hour time with a zero-padded hour, e.g. "03:04 PM".
func Clock(t time.Time) string {
	return t.Format("03:04 PM")
}

// Title is the window/page title for a displayed city.
func Title(city string) string {
	city = strings.TrimSpace(city)
	if city == "" {
		return "WeatherCast"
	}
	return city + " Weather - WeatherCast"
}
