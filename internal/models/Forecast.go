package models

import (
	"fmt"
	"time"
)

// DailyForecastEntry is one day of a forecast lookup.
type DailyForecastEntry struct {
	Date          time.Time `json:"date" example:"2025-07-28T00:00:00Z"`
	TempMax       float64   `json:"temp_max" example:"24.1"`
	TempMin       float64   `json:"temp_min" example:"13.8"`
	Precipitation float64   `json:"precipitation_sum" example:"0.4"`
	WindSpeedMax  float64   `json:"wind_speed_max" example:"14.2"`
	// Missing marks metrics the upstream sent as null; their values above are zero.
	Missing Metric `json:"-"`
}

// Metric is a bit set of daily forecast variables.
type Metric uint8

const (
	MetricTempMax Metric = 1 << iota
	MetricTempMin
	MetricPrecipitation
	MetricWindSpeedMax
)

// Has reports whether m was delivered for the day.
func (e DailyForecastEntry) Has(m Metric) bool {
	return e.Missing&m == 0
}

type Forecast struct {
	Lat      float64              `json:"lat" example:"52.52"`
	Lon      float64              `json:"lon" example:"13.41"`
	Timezone string               `json:"timezone" example:"Europe/Berlin"`
	Days     []DailyForecastEntry `json:"days"`
}

func (f *Forecast) RequestParams() string {
	return fmt.Sprintf("lat: %.4f lon: %.4f timezone: %s", f.Lat, f.Lon, f.Timezone)
}
