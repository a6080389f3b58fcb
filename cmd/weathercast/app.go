package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/swelljoe/weathercast/internal/config"
	"github.com/swelljoe/weathercast/internal/db"
	"github.com/swelljoe/weathercast/internal/location"
	"github.com/swelljoe/weathercast/internal/recent"
	"github.com/swelljoe/weathercast/internal/terminal"
	"github.com/swelljoe/weathercast/internal/view"
	"github.com/swelljoe/weathercast/internal/weather"
)

const helpText = `Type a city name and press Enter.
  /N        show recent search N
  /recent   list recent searches
  /retry    repeat the last search
  /quit     exit
`

type app struct {
	logger     *zap.Logger
	out        io.Writer
	database   *db.DB
	recents    *recent.Store
	controller *view.Controller
}

func newApp(cfg config.Config, logger *zap.Logger, out io.Writer) *app {
	// Initialize database connection; recent searches stay in memory without it
	var storage recent.Storage
	database, err := db.NewDB(cfg.DBPath)
	if err != nil {
		logger.Warn("database unavailable, recent searches will not be saved", zap.Error(err))
	} else {
		storage = database
	}
	recents := recent.NewStore(storage, logger.Named("recent"))

	var fetcher weather.Fetcher = weather.NewClient(cfg.BaseURL, cfg.APIKey, cfg.HTTPTimeout, logger.Named("weather"))
	if cfg.RateLimit.RPS > 0 {
		fetcher = weather.NewRateLimited(fetcher, cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	controller := view.New(view.Config{
		Fetcher:           fetcher,
		Renderer:          terminal.New(out),
		Recents:           recents,
		Resolver:          location.NewResolver(newLocator(cfg, logger), cfg.DefaultCity, logger.Named("location")),
		Logger:            logger.Named("view"),
		MissingCredential: cfg.MissingCredential(),
		FallbackCity:      cfg.DefaultCity,
	})

	return &app{
		logger:     logger,
		out:        out,
		database:   database,
		recents:    recents,
		controller: controller,
	}
}

func newLocator(cfg config.Config, logger *zap.Logger) location.Locator {
	switch cfg.Locator {
	case config.LocatorStatic:
		return location.StaticLocator{Coordinates: location.Coordinates{
			Latitude:  cfg.Latitude,
			Longitude: cfg.Longitude,
		}}
	case config.LocatorNone:
		return nil
	default:
		return location.NewIPLocator(cfg.GeoURL, logger.Named("location"))
	}
}

func (a *app) Close() {
	a.controller.Stop()
	if a.database != nil {
		if err := a.database.Close(); err != nil {
			a.logger.Warn("closing database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// once shows one reading and reports whether it succeeded.
func (a *app) once(ctx context.Context, city string) error {
	if strings.TrimSpace(city) == "" {
		a.controller.Start(ctx)
		if a.controller.Snapshot().State == view.StateError {
			return errReported
		}
		return nil
	}
	if err := a.controller.Search(ctx, city); err != nil {
		return fmt.Errorf("%w: %v", errReported, err)
	}
	return nil
}

// interactive runs the prompt loop until EOF, /quit or cancellation. An in
// that is also an io.Closer is closed on return so the reader goroutine is
// not left blocked in Scan.
func (a *app) interactive(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if c, ok := in.(io.Closer); ok {
		defer func() {
			if err := c.Close(); err != nil {
				a.logger.Debug("closing input", zap.Error(err))
			}
		}()
	}

	fmt.Fprint(a.out, helpText)
	a.controller.Start(ctx)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(a.out, "> ")
		select {
		case <-ctx.Done():
			fmt.Fprintln(a.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(a.out)
				return nil
			}
			if a.dispatch(ctx, line) {
				return nil
			}
		}
	}
}

// dispatch handles one line of input and reports whether to quit.
func (a *app) dispatch(ctx context.Context, line string) bool {
	cmd := strings.TrimSpace(line)
	if !strings.HasPrefix(cmd, "/") {
		if err := a.controller.Search(ctx, line); err != nil {
			a.logger.Debug("search failed", zap.Error(err))
		}
		return false
	}

	switch cmd {
	case "/quit", "/exit":
		return true
	case "/retry":
		if err := a.controller.Retry(ctx); err != nil {
			a.logger.Debug("retry failed", zap.Error(err))
		}
	case "/recent":
		list := a.recents.Load()
		if len(list) == 0 {
			fmt.Fprintln(a.out, "No recent searches")
		}
		for i, city := range list {
			fmt.Fprintf(a.out, "/%d %s\n", i+1, city)
		}
	case "/help":
		fmt.Fprint(a.out, helpText)
	default:
		n, err := strconv.Atoi(strings.TrimPrefix(cmd, "/"))
		list := a.recents.Load()
		if err != nil || n < 1 || n > len(list) {
			fmt.Fprintf(a.out, "Unknown command %s\n%s", cmd, helpText)
			return false
		}
		if err := a.controller.SelectRecent(ctx, list[n-1]); err != nil {
			a.logger.Debug("recent search failed", zap.Error(err))
		}
	}
	return false
}
