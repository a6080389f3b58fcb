package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/swelljoe/weathercast/internal/config"
)

// errReported marks failures that were already shown to the user.
var errReported = errors.New("reported")

func main() {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(envErr).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(envErr error) *cobra.Command {
	v := viper.New()
	var configFile string

	root := &cobra.Command{
		Use:           "weathercast",
		Short:         "Current weather for your location or any city",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(v, configFile, envErr)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.interactive(cmd.Context(), cmd.InOrStdin())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "path to a config file (yaml, toml or json)")
	flags.String("api-key", "", "OpenWeatherMap API key")
	flags.String("db", "", "path to the SQLite database holding recent searches")
	flags.String("locator", "", "how to find your location: ip, static or none")
	flags.String("default-city", "", "city shown when your location is unavailable")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	for key, flag := range map[string]string{
		"api_key":      "api-key",
		"db_path":      "db",
		"default_city": "default-city",
		"locator":      "locator",
		"log_level":    "log-level",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "now [city]",
			Short: "Show current weather once and exit",
			Long:  "Show current weather for the given city, or for your location when no city is given.",
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := setup(v, configFile, envErr)
				if err != nil {
					return err
				}
				defer a.Close()
				return a.once(cmd.Context(), strings.Join(args, " "))
			},
		},
		&cobra.Command{
			Use:   "recent",
			Short: "List recent searches",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := setup(v, configFile, envErr)
				if err != nil {
					return err
				}
				defer a.Close()
				for i, city := range a.recents.Load() {
					fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, city)
				}
				return nil
			},
		},
	)
	return root
}

func setup(v *viper.Viper, configFile string, envErr error) (*app, error) {
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		logger.Warn("error loading .env file", zap.Error(envErr))
	}
	return newApp(cfg, logger, os.Stdout), nil
}

// newLogger builds a console logger on stderr at the given level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = lvl
	zc.DisableStacktrace = true
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
