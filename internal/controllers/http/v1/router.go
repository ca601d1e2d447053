package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"

	_ "weather-widget/docs"
	"weather-widget/internal/services/widget"
	"weather-widget/pkg/logger"
)

type routes struct {
	factory widget.Factory
	l       *logger.Logger
}

func NewRouter(
	app *fiber.App,
	factory widget.Factory,
	l *logger.Logger,
) {
	r := &routes{
		factory: factory,
		l:       l,
	}

	// Swagger documentation, served from the registered docs package
	app.Get("/swagger/*", swagger.New(swagger.Config{
		URL:         "/swagger/doc.json",
		DeepLinking: true,
	}))

	app.Get("/", r.handlePage)

	api := app.Group("/api/v1")
	api.Get("/suggestions", r.handleSuggestions)
	api.Get("/search", r.handleSearch)
	api.Get("/forecast", r.handleForecast)
}
