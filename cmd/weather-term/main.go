package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"weather-widget/config"
	"weather-widget/internal/repositories"
	"weather-widget/internal/services/widget"
	"weather-widget/internal/term"
	"weather-widget/pkg/observe"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cnf, err := config.NewConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	// log lines go to stderr so they don't mix with the widget on stdout
	l, hook, err := observe.NewLogger(observe.LoggerConfig{
		AppName:     cnf.App.Name + "-term",
		AppZone:     cnf.SentryZone(),
		Level:       cnf.Log.Level,
		Format:      cnf.Log.Format,
		SentryDSN:   cnf.Sentry.DSN,
		SentryDebug: cnf.Sentry.Debug,
	}, os.Stderr)
	if err != nil {
		log.Fatalf("cannot init logger: %v", err)
	}
	defer func() {
		hook.Flush()
		_ = l.Stop()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	geocoding, forecast := repositories.InitRepositories(cnf, l)

	repl := term.NewREPL(widget.Factory{
		Geocoder:   geocoding,
		Forecaster: forecast,
		Options:    widget.OptionsFromConfig(cnf.Widget),
		Logger:     l,
	}, os.Stdout)

	if err := repl.Run(ctx, os.Stdin); err != nil {
		l.Error(err, map[string]any{"stage": "repl"})
	}
}
