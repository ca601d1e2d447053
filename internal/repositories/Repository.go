package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"weather-widget/config"
	"weather-widget/pkg/logger"
)

// HTTPClient is the part of *http.Client the repositories use.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// OpenMeteoErrorResponse is the body Open-Meteo answers with on 4xx.
type OpenMeteoErrorResponse struct {
	Error  bool   `json:"error"`
	Reason string `json:"reason"`
}

func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// InitRepositories builds the geocoding and forecast repositories from config.
func InitRepositories(cfg *config.Config, l *logger.Logger) (*GeocodingRepository, *OpenMeteoRepository) {
	geocoding := NewGeocodingRepository(cfg.Geocoding, l, NewHTTPClient(cfg.Geocoding.Timeout))
	forecast := NewOpenMeteoRepository(cfg.Forecast, l, NewHTTPClient(cfg.Forecast.Timeout))

	return geocoding, forecast
}

// getJSON issues a GET and decodes a 200 body into out.
func getJSON(ctx context.Context, client HTTPClient, l *logger.Logger, repo, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to do request: %w", err)
	}
	defer resp.Body.Close()

	l.Debug("received API response", map[string]any{
		"repository": repo,
		"status":     resp.StatusCode,
		"statusText": resp.Status,
	})

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp OpenMeteoErrorResponse
		if jsonErr := json.Unmarshal(body, &errorResp); jsonErr == nil && errorResp.Error {
			return fmt.Errorf("API error (status %d): %s", resp.StatusCode, errorResp.Reason)
		}
		return fmt.Errorf("HTTP error (status %d): %s", resp.StatusCode, resp.Status)
	}

	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}

	return nil
}
