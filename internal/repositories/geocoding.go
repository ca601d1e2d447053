package repositories

import (
	"context"
	"net/url"
	"strconv"

	"weather-widget/config"
	"weather-widget/internal/models"
	"weather-widget/pkg/logger"
)

const (
	GeocodingBaseURL = "https://geocoding-api.open-meteo.com"
)

// GeocodingRepository resolves free-text place names through the Open-Meteo geocoding API.
type GeocodingRepository struct {
	baseURL    string
	language   string
	format     string
	httpClient HTTPClient
	l          *logger.Logger
}

func NewGeocodingRepository(cfg config.GeocodingConfig, l *logger.Logger, httpClient HTTPClient) *GeocodingRepository {
	r := &GeocodingRepository{
		baseURL:    cfg.BaseURL,
		language:   cfg.Language,
		format:     cfg.Format,
		httpClient: httpClient,
		l:          l,
	}
	if r.baseURL == "" {
		r.baseURL = GeocodingBaseURL
	}
	if r.language == "" {
		r.language = "en"
	}
	if r.format == "" {
		r.format = "json"
	}

	return r
}

func (g *GeocodingRepository) Name() string {
	return "open-meteo-geocoding"
}

type GeocodingResult struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	CountryCode string  `json:"country_code"`
	Country     string  `json:"country"`
	Admin1      string  `json:"admin1"`
}

// GeocodingResponse has no "results" key at all when nothing matched.
type GeocodingResponse struct {
	Results []GeocodingResult `json:"results"`
}

func (g *GeocodingRepository) searchURL(name string, count int) string {
	params := url.Values{}
	params.Set("name", name)
	params.Set("count", strconv.Itoa(count))
	params.Set("language", g.language)
	params.Set("format", g.format)

	return g.baseURL + "/v1/search?" + params.Encode()
}

// Search returns up to count candidates for name, in the order the API ranks them.
func (g *GeocodingRepository) Search(ctx context.Context, name string, count int) ([]models.LocationCandidate, error) {
	g.l.Info("making geocoding API request", map[string]any{
		"name":  name,
		"count": count,
	})

	var response GeocodingResponse
	if err := getJSON(ctx, g.httpClient, g.l, g.Name(), g.searchURL(name, count), &response); err != nil {
		return nil, err
	}

	candidates := make([]models.LocationCandidate, 0, len(response.Results))
	for _, r := range response.Results {
		candidates = append(candidates, models.LocationCandidate{
			Name:        r.Name,
			Region:      r.Admin1,
			Country:     r.Country,
			CountryCode: r.CountryCode,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
		})
	}

	g.l.Info("parsed geocoding response", map[string]any{
		"name":       name,
		"candidates": len(candidates),
	})

	return candidates, nil
}
