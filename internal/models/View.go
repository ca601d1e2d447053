package models

// Card is the rendered form of one forecast day.
type Card struct {
	Label         string `json:"label" example:"Monday, Jul 28"`
	TempMax       string `json:"temp_max" example:"24.1"`
	TempMin       string `json:"temp_min" example:"13.8"`
	Precipitation string `json:"precipitation" example:"0.4"`
	Wind          string `json:"wind" example:"14.2"`
}

func (c Card) TemperatureLine() string {
	return "Max: " + c.TempMax + "°C / Min: " + c.TempMin + "°C"
}

func (c Card) PrecipitationLine() string {
	return "Precipitation: " + c.Precipitation + " mm"
}

func (c Card) WindLine() string {
	return "Wind: " + c.Wind + " km/h"
}

// ForecastView is what a forecast sink displays: a heading and one card per day.
type ForecastView struct {
	City    string `json:"city" example:"Berlin"`
	Heading string `json:"heading" example:"7-Day Forecast for Berlin"`
	Cards   []Card `json:"cards"`
}
