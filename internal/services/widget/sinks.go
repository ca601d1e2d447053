package widget

import "weather-widget/internal/models"

// InputSink is the text field the user types into.
type InputSink interface {
	SetInput(value string)
	Input() string
}

// SuggestionSink is the autocomplete list under the input.
type SuggestionSink interface {
	ShowSuggestions(suggestions []models.Suggestion)
	// ShowNoResults replaces the list with a single "No results found" placeholder.
	ShowNoResults()
	// ClearSuggestions empties and hides the list.
	ClearSuggestions()
	// HideSuggestions hides the list and keeps its entries.
	HideSuggestions()
}

// ErrorSink is the single error banner.
type ErrorSink interface {
	ShowError(msg string)
	ClearError()
}

// ForecastSink replaces whatever forecast it showed before.
type ForecastSink interface {
	ShowForecast(view models.ForecastView)
}

// View bundles every sink a widget writes to.
type View interface {
	InputSink
	SuggestionSink
	ErrorSink
	ForecastSink
}

// Sinks builds a View out of separate handles.
type Sinks struct {
	Field  InputSink
	List   SuggestionSink
	Banner ErrorSink
	Cards  ForecastSink
}

var _ View = Sinks{}

func (s Sinks) SetInput(value string) { s.Field.SetInput(value) }
func (s Sinks) Input() string         { return s.Field.Input() }

func (s Sinks) ShowSuggestions(suggestions []models.Suggestion) {
	s.List.ShowSuggestions(suggestions)
}
func (s Sinks) ShowNoResults()    { s.List.ShowNoResults() }
func (s Sinks) ClearSuggestions() { s.List.ClearSuggestions() }
func (s Sinks) HideSuggestions()  { s.List.HideSuggestions() }

func (s Sinks) ShowError(msg string) { s.Banner.ShowError(msg) }
func (s Sinks) ClearError()          { s.Banner.ClearError() }

func (s Sinks) ShowForecast(view models.ForecastView) { s.Cards.ShowForecast(view) }
