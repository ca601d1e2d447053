package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"weather-widget/config"
	v1 "weather-widget/internal/controllers/http/v1"
	"weather-widget/internal/repositories"
	"weather-widget/internal/services/widget"
	"weather-widget/pkg/httpserver"
	"weather-widget/pkg/observe"
)

// @title Weather Widget API
// @version 1.0.0
// @description German city weather widget: debounced autocomplete, Open-Meteo geocoding and a 7-day forecast.

// @contact.name Weather Widget Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @tag.name Widget
// @tag.description Autocomplete, direct query and forecast operations
func main() {
	ctx, cancel := context.WithCancel(context.Background())

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cnf, err := config.NewConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	l, hook, err := observe.NewLogger(observe.LoggerConfig{
		AppName:     cnf.App.Name,
		AppZone:     cnf.SentryZone(),
		Level:       cnf.Log.Level,
		Format:      cnf.Log.Format,
		SentryDSN:   cnf.Sentry.DSN,
		SentryDebug: cnf.Sentry.Debug,
	}, os.Stdout)
	if err != nil {
		log.Fatalf("cannot init logger: %v", err)
	}

	app := httpserver.InitFiberServer(cnf.App.Name, httpserver.Config{
		ReadTimeout:    time.Duration(cnf.Server.ReadTimeout) * time.Second,
		WriteTimeout:   time.Duration(cnf.Server.WriteTimeout) * time.Second,
		IdleTimeout:    time.Duration(cnf.Server.IdleTimeout) * time.Second,
		RateLimitRPS:   cnf.Server.RateLimitRPS,
		RateLimitBurst: cnf.Server.RateLimitBurst,
	})

	geocoding, forecast := repositories.InitRepositories(cnf, l)

	v1.NewRouter(
		app,
		widget.Factory{
			Geocoder:   geocoding,
			Forecaster: forecast,
			Options:    widget.OptionsFromConfig(cnf.Widget),
			Logger:     l,
		},
		l,
	)

	go func() {
		if err := app.Listen(":" + cnf.Server.Port); err != nil {
			l.Fatal("cannot run the server", map[string]any{"err": err})
		}
	}()

	l.Info("application started successfully", map[string]any{
		"port":    cnf.Server.Port,
		"env":     cnf.App.Env,
		"version": cnf.App.Version,
		"country": cnf.Widget.Country,
	})

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer func() {
		l.Warning("stopping application services")
		signal.Stop(sigCh)
		close(sigCh)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = app.ShutdownWithContext(shutdownCtx)
		hook.Flush()
		_ = l.Stop()
		cancel()
	}()

	select {
	case <-sigCh:
		fmt.Println("received shutdown signal")
	case <-ctx.Done():
		fmt.Println("context cancelled")
	}
}
