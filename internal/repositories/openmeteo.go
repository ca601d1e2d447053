package repositories

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"weather-widget/config"
	"weather-widget/internal/models"
	"weather-widget/pkg/logger"
)

const (
	OpenMeteoBaseURL = "https://api.open-meteo.com"
)

// DailyMetrics are the daily variables requested from the forecast API.
var DailyMetrics = []string{
	"temperature_2m_max",
	"temperature_2m_min",
	"precipitation_sum",
	"wind_speed_10m_max",
}

type OpenMeteoRepository struct {
	baseURL    string
	timezone   string
	days       int
	httpClient HTTPClient
	l          *logger.Logger
}

func NewOpenMeteoRepository(cfg config.ForecastConfig, l *logger.Logger, httpClient HTTPClient) *OpenMeteoRepository {
	o := &OpenMeteoRepository{
		baseURL:    cfg.BaseURL,
		timezone:   cfg.Timezone,
		days:       cfg.Days,
		httpClient: httpClient,
		l:          l,
	}
	if o.baseURL == "" {
		o.baseURL = OpenMeteoBaseURL
	}
	if o.timezone == "" {
		o.timezone = "Europe/Berlin"
	}

	return o
}

func (o *OpenMeteoRepository) Name() string {
	return "open-meteo"
}

type OpenMeteoResponse struct {
	Time             []string  `json:"time"`
	Temperature2mMax []*float64 `json:"temperature_2m_max"`
	Temperature2mMin []*float64 `json:"temperature_2m_min"`
	PrecipitationSum []*float64 `json:"precipitation_sum"`
	WindSpeed10mMax  []*float64 `json:"wind_speed_10m_max"`
}

func (o *OpenMeteoRepository) forecastURL(lat, lon float64) string {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("daily", strings.Join(DailyMetrics, ","))
	params.Set("timezone", o.timezone)
	if o.days > 0 {
		params.Set("forecast_days", strconv.Itoa(o.days))
	}

	return o.baseURL + "/v1/forecast?" + params.Encode()
}

func (o *OpenMeteoRepository) FetchForecast(ctx context.Context, lat, lon float64) (models.Forecast, error) {
	forecast := models.Forecast{
		Lat:      lat,
		Lon:      lon,
		Timezone: o.timezone,
	}

	o.l.Info("making openmeteo API request", map[string]any{
		"params": forecast.RequestParams(),
	})

	var response struct {
		Timezone string            `json:"timezone"`
		Daily    OpenMeteoResponse `json:"daily"`
	}
	if err := getJSON(ctx, o.httpClient, o.l, o.Name(), o.forecastURL(lat, lon), &response); err != nil {
		return forecast, err
	}

	o.l.Info("parsed API response", map[string]any{
		"days": len(response.Daily.Time),
	})

	if len(response.Daily.Time) == 0 {
		return forecast, fmt.Errorf("no forecast data available")
	}

	days, err := dailyForecastOpenMeteo(response.Daily)
	if err != nil {
		return forecast, fmt.Errorf("failed to build forecast: %w", err)
	}

	if response.Timezone != "" {
		forecast.Timezone = response.Timezone
	}
	forecast.Days = days

	return forecast, nil
}

// dailyForecastOpenMeteo zips the parallel daily arrays into entries, stopping at the shortest one.
func dailyForecastOpenMeteo(daily OpenMeteoResponse) ([]models.DailyForecastEntry, error) {
	n := min(
		len(daily.Time),
		len(daily.Temperature2mMax),
		len(daily.Temperature2mMin),
		len(daily.PrecipitationSum),
		len(daily.WindSpeed10mMax),
	)

	days := make([]models.DailyForecastEntry, 0, n)
	for i := 0; i < n; i++ {
		date, err := time.Parse(time.DateOnly, daily.Time[i])
		if err != nil {
			return nil, fmt.Errorf("failed to parse date %s: %w", daily.Time[i], err)
		}

		day := models.DailyForecastEntry{Date: date}
		day.TempMax = value(daily.Temperature2mMax[i], models.MetricTempMax, &day.Missing)
		day.TempMin = value(daily.Temperature2mMin[i], models.MetricTempMin, &day.Missing)
		day.Precipitation = value(daily.PrecipitationSum[i], models.MetricPrecipitation, &day.Missing)
		day.WindSpeedMax = value(daily.WindSpeed10mMax[i], models.MetricWindSpeedMax, &day.Missing)

		days = append(days, day)
	}

	return days, nil
}

// value dereferences v, flagging m in missing when the API sent null.
func value(v *float64, m models.Metric, missing *models.Metric) float64 {
	if v == nil {
		*missing |= m
		return 0
	}
	return *v
}
