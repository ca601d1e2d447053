// Package views holds the sink implementations the widget renders into.
package views

import (
	"embed"
	"html/template"
	"io"
	"net/url"
	"strconv"
	"sync"

	"weather-widget/internal/models"
	"weather-widget/internal/services/widget"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.New("page.html").Funcs(template.FuncMap{
	"selectURL": SelectURL,
}).ParseFS(templatesFS, "templates/page.html"))

// PageState is everything one widget page shows.
type PageState struct {
	Input              string               `json:"input"`
	Suggestions        []models.Suggestion  `json:"suggestions"`
	SuggestionsVisible bool                 `json:"suggestions_visible"`
	NoResults          bool                 `json:"no_results"`
	Error              string               `json:"error,omitempty"`
	Forecast           *models.ForecastView `json:"forecast,omitempty"`
}

// Page records sink writes made while serving one request.
type Page struct {
	mu    sync.Mutex
	state PageState
}

var _ widget.View = (*Page)(nil)

func NewPage() *Page {
	return &Page{state: PageState{Suggestions: []models.Suggestion{}}}
}

func (p *Page) SetInput(value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Input = value
}

func (p *Page) Input() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Input
}

func (p *Page) ShowSuggestions(suggestions []models.Suggestion) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Suggestions = append([]models.Suggestion{}, suggestions...)
	p.state.SuggestionsVisible = true
	p.state.NoResults = false
}

func (p *Page) ShowNoResults() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Suggestions = []models.Suggestion{}
	p.state.SuggestionsVisible = true
	p.state.NoResults = true
}

func (p *Page) ClearSuggestions() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Suggestions = []models.Suggestion{}
	p.state.SuggestionsVisible = false
	p.state.NoResults = false
}

func (p *Page) HideSuggestions() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.SuggestionsVisible = false
}

func (p *Page) ShowError(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Error = msg
}

func (p *Page) ClearError() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Error = ""
}

func (p *Page) ShowForecast(view models.ForecastView) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Forecast = &view
}

// State returns a copy of the recorded state.
func (p *Page) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.state
	s.Suggestions = append([]models.Suggestion{}, p.state.Suggestions...)
	if p.state.Forecast != nil {
		fc := *p.state.Forecast
		fc.Cards = append([]models.Card{}, fc.Cards...)
		s.Forecast = &fc
	}
	return s
}

// RenderHTML writes the widget page.
func (p *Page) RenderHTML(w io.Writer) error {
	return pageTemplate.Execute(w, struct {
		PageState
		NoResultsText string
	}{
		PageState:     p.State(),
		NoResultsText: widget.MsgNoResults,
	})
}

// SelectURL is the link a suggestion entry points at.
func SelectURL(c models.LocationCandidate) template.URL {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(c.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.Longitude, 'f', -1, 64))
	q.Set("name", c.Name)
	return template.URL("/?" + q.Encode())
}
