package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"weather-widget/internal/models"
	"weather-widget/internal/services/widget"
	"weather-widget/internal/views"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error" example:"Missing required parameter: lat"`
}

// handlePage godoc
// @Summary Widget page
// @Description Server-rendered widget. With q it runs the direct query, with q and suggest=1 it lists suggestions, with lat/lon/name it selects a suggestion.
// @Tags Widget
// @Produce html
// @Param q query string false "City name" example(Berlin)
// @Param suggest query string false "List suggestions for q instead of searching" example(1)
// @Param lat query number false "Latitude of a selected suggestion" example(52.52437)
// @Param lon query number false "Longitude of a selected suggestion" example(13.41053)
// @Param name query string false "Name of a selected suggestion" example(Berlin)
// @Success 200 {string} string "HTML page"
// @Router / [get]
func (r *routes) handlePage(c *fiber.Ctx) error {
	page := views.NewPage()
	w := r.factory.New(page)
	defer w.Close()

	q, hasQuery := query(c, "q")

	switch {
	case c.Query("lat") != "" || c.Query("lon") != "":
		lat, lon, errResp := coordinates(c)
		if errResp != nil {
			page.ShowError(errResp.Error)
			break
		}
		_ = w.Select(c.Context(), candidate(c.Query("name"), lat, lon))
	case hasQuery && c.Query("suggest") != "":
		page.SetInput(q)
		w.Suggest(c.Context(), q)
	case hasQuery:
		page.SetInput(q)
		_ = w.Submit(c.Context(), q)
	}

	c.Type("html", "utf-8")
	return page.RenderHTML(c)
}

// handleSuggestions godoc
// @Summary Autocomplete suggestions
// @Description Looks up to five places matching q and keeps those in the configured country. Lookup failures leave the list empty and still answer 200.
// @Tags Widget
// @Produce json
// @Param q query string true "Partial city name (at least 2 characters)" example(Berl)
// @Success 200 {object} views.PageState "Suggestion list"
// @Router /api/v1/suggestions [get]
func (r *routes) handleSuggestions(c *fiber.Ctx) error {
	page := views.NewPage()
	w := r.factory.New(page)
	defer w.Close()

	q := c.Query("q")
	page.SetInput(q)
	w.Suggest(c.Context(), q)

	return c.JSON(page.State())
}

// handleSearch godoc
// @Summary Direct query
// @Description Resolves q to the best match and returns its forecast when it lies in the configured country.
// @Tags Widget
// @Produce json
// @Param q query string true "City name" example(Berlin)
// @Success 200 {object} views.PageState "Forecast for the matched city"
// @Failure 400 {object} views.PageState "Empty query"
// @Failure 404 {object} views.PageState "No match in the configured country"
// @Failure 502 {object} views.PageState "Geocoding or forecast lookup failed"
// @Router /api/v1/search [get]
func (r *routes) handleSearch(c *fiber.Ctx) error {
	page := views.NewPage()
	w := r.factory.New(page)
	defer w.Close()

	q := c.Query("q")
	page.SetInput(q)

	err := w.Submit(c.Context(), q)
	if err != nil {
		r.l.Warning("search failed", map[string]any{
			"query": q,
			"err":   err.Error(),
		})
	}

	return c.Status(statusFor(err)).JSON(page.State())
}

// handleForecast godoc
// @Summary Forecast for a coordinate
// @Description Selects a location by coordinates and returns its 7-day forecast cards.
// @Tags Widget
// @Produce json
// @Param lat query number true "Latitude coordinate (-90 to 90)" minimum(-90) maximum(90) example(52.52437)
// @Param lon query number true "Longitude coordinate (-180 to 180)" minimum(-180) maximum(180) example(13.41053)
// @Param name query string false "Display name used in the heading" example(Berlin)
// @Success 200 {object} views.PageState "Forecast cards"
// @Failure 400 {object} ErrorResponse "Bad request - invalid parameters"
// @Failure 502 {object} views.PageState "Forecast lookup failed"
// @Router /api/v1/forecast [get]
//
//	curl -X GET "http://localhost:8080/api/v1/forecast?lat=52.52&lon=13.41&name=Berlin"
func (r *routes) handleForecast(c *fiber.Ctx) error {
	lat, lon, errResp := coordinates(c)
	if errResp != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errResp)
	}

	page := views.NewPage()
	w := r.factory.New(page)
	defer w.Close()

	err := w.Select(c.Context(), candidate(c.Query("name"), lat, lon))
	if err != nil {
		r.l.Warning("forecast failed", map[string]any{
			"lat": lat,
			"lon": lon,
			"err": err.Error(),
		})
	}

	return c.Status(statusFor(err)).JSON(page.State())
}

// coordinates validates the lat and lon query parameters.
func coordinates(c *fiber.Ctx) (float64, float64, *ErrorResponse) {
	lat := c.Query("lat")
	lon := c.Query("lon")

	if lat == "" {
		return 0, 0, &ErrorResponse{Error: "Missing required parameter: lat"}
	}
	if lon == "" {
		return 0, 0, &ErrorResponse{Error: "Missing required parameter: lon"}
	}

	latFloat, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return 0, 0, &ErrorResponse{Error: "Invalid latitude format"}
	}
	if latFloat < -90 || latFloat > 90 {
		return 0, 0, &ErrorResponse{Error: "Latitude must be between -90 and 90"}
	}

	lonFloat, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return 0, 0, &ErrorResponse{Error: "Invalid longitude format"}
	}
	if lonFloat < -180 || lonFloat > 180 {
		return 0, 0, &ErrorResponse{Error: "Longitude must be between -180 and 180"}
	}

	return latFloat, lonFloat, nil
}

// candidate names an unnamed coordinate after itself.
func candidate(name string, lat, lon float64) models.LocationCandidate {
	if name == "" {
		name = strconv.FormatFloat(lat, 'f', -1, 64) + ", " + strconv.FormatFloat(lon, 'f', -1, 64)
	}
	return models.LocationCandidate{Name: name, Latitude: lat, Longitude: lon}
}

// query reports whether key was sent at all, even with an empty value.
func query(c *fiber.Ctx, key string) (string, bool) {
	if c.Context().QueryArgs().Has(key) {
		return c.Query(key), true
	}
	return "", false
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.Is(err, widget.ErrEmptyQuery):
		return fiber.StatusBadRequest
	case errors.Is(err, widget.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, widget.ErrUpstream):
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}
