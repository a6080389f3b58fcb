package weather

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed fetch.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindUnauthorized
	KindRateLimited
	KindNetwork
	// KindMalformed is a 200 response whose body is not a usable reading.
	KindMalformed
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindRateLimited:
		return "rate_limited"
	case KindNetwork:
		return "network"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// FetchError is returned by Client for every failed request.
type FetchError struct {
	Kind   Kind
	Status int // HTTP status, 0 when no response was received
	Err    error
}

// Message is the text shown to the user.
func (e *FetchError) Message() string {
	switch e.Kind {
	case KindNotFound:
		return "City not found. Please check the city name and try again."
	case KindUnauthorized:
		return "Invalid API key. Please check your API configuration."
	case KindRateLimited:
		return "Too many requests. Please wait a minute before trying again."
	case KindNetwork:
		return "Unable to reach the weather service. Please check your connection and try again."
	case KindMalformed:
		return "The weather service returned an unexpected response. Please try again later."
	default:
		return fmt.Sprintf("Unable to fetch weather data. Status: %d", e.Status)
	}
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("weather: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("weather: %s (status %d)", e.Kind, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// classifyStatus maps a non-200 status to a FetchError.
func classifyStatus(status int) *FetchError {
	kind := KindUnknown
	switch status {
	case http.StatusNotFound:
		kind = KindNotFound
	case http.StatusUnauthorized:
		kind = KindUnauthorized
	case http.StatusTooManyRequests:
		kind = KindRateLimited
	}
	return &FetchError{Kind: kind, Status: status}
}

// KindOf returns the kind of a FetchError anywhere in err's chain, or
// KindUnknown if there is none.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}
