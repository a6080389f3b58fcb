// Package terminal renders the weather view as plain text.
package terminal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/swelljoe/weathercast/internal/view"
)

// Renderer writes view updates to an io.Writer. Content is printed when it
// changes; panel switches are tracked but print nothing, so an auto-dismissed
// error does not reprint the card.
type Renderer struct {
	mu      sync.Mutex
	w       io.Writer
	visible view.Panel
}

// New creates a Renderer writing to w.
func New(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Placeholder prints the idle message.
func (r *Renderer) Placeholder(text string) {
	r.printf("%s\n", text)
}

// Reading prints the weather card.
func (r *Renderer) Reading(d view.Display) {
	var b strings.Builder

	location := d.City
	if d.Country != "" {
		location += ", " + d.Country
	}
	fmt.Fprintf(&b, "\n== %s ==\n", d.Title)
	fmt.Fprintf(&b, "%s\n%s  %s\n\n", location, d.Date, d.Time)
	fmt.Fprintf(&b, "  %s  %s  %s\n", d.Symbol, d.Temperature, d.Description)
	fmt.Fprintf(&b, "  Feels like  %s\n", d.FeelsLike)
	fmt.Fprintf(&b, "  Humidity    %s\n", d.Humidity)
	fmt.Fprintf(&b, "  Wind        %s\n", d.Wind)
	fmt.Fprintf(&b, "  Pressure    %s\n", d.Pressure)
	fmt.Fprintf(&b, "  Visibility  %s\n\n", d.Visibility)

	r.printf("%s", b.String())
}

// Error prints the error panel with a retry hint.
func (r *Renderer) Error(message string) {
	r.printf("\n! Unable to Load Weather Data\n  %s\n  (type /retry to try again)\n\n",
		strings.ReplaceAll(message, "\n", "\n  "))
}

// Show records which panel is visible. Panels are printed as they are set.
func (r *Renderer) Show(p view.Panel) {
	r.mu.Lock()
	r.visible = p
	r.mu.Unlock()
}

// Visible returns the panel currently shown.
func (r *Renderer) Visible() view.Panel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visible
}

// Busy prints a searching notice when a request starts.
func (r *Renderer) Busy(on bool) {
	if on {
		r.printf("Searching...\n")
	}
}

// Recent prints the recent searches as /N shortcuts.
func (r *Renderer) Recent(cities []string) {
	if len(cities) == 0 {
		return
	}
	items := make([]string, len(cities))
	for i, c := range cities {
		items[i] = fmt.Sprintf("/%d %s", i+1, c)
	}
	r.printf("Recent Searches: %s\n", strings.Join(items, "  "))
}

// Focus is a no-op: the prompt is always focused.
func (r *Renderer) Focus() {}

func (r *Renderer) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, format, args...)
}

var _ view.Renderer = (*Renderer)(nil)
