// Package render turns a forecast into the heading and cards a forecast sink shows.
package render

import (
	"fmt"
	"strconv"

	"weather-widget/internal/models"
)

// CardDateLayout renders dates like "Monday, Jul 28".
const CardDateLayout = "Monday, Jan 2"

// Forecast builds the view for city, one card per day in forecast order.
func Forecast(fc models.Forecast, city string) models.ForecastView {
	cards := make([]models.Card, 0, len(fc.Days))
	for _, day := range fc.Days {
		cards = append(cards, Card(day))
	}

	return models.ForecastView{
		City:    city,
		Heading: Heading(len(cards), city),
		Cards:   cards,
	}
}

func Heading(days int, city string) string {
	return fmt.Sprintf("%d-Day Forecast for %s", days, city)
}

// Card formats one day. Values are shown as received, without unit conversion.
func Card(day models.DailyForecastEntry) models.Card {
	return models.Card{
		Label:         day.Date.Format(CardDateLayout),
		TempMax:       metric(day, models.MetricTempMax, day.TempMax),
		TempMin:       metric(day, models.MetricTempMin, day.TempMin),
		Precipitation: metric(day, models.MetricPrecipitation, day.Precipitation),
		Wind:          metric(day, models.MetricWindSpeedMax, day.WindSpeedMax),
	}
}

// Missing is printed in place of a value the forecast did not deliver.
const Missing = "null"

func metric(day models.DailyForecastEntry, m models.Metric, v float64) string {
	if !day.Has(m) {
		return Missing
	}
	return Number(v)
}

// Number prints the shortest decimal that round-trips, so 12.0 is "12" and 21.3 stays "21.3".
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
