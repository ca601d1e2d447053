// Package widget is the city forecast pipeline: debounced autocomplete,
// geocoding, forecast lookup and rendering into the caller's sinks.
package widget

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"

	"weather-widget/config"
	"weather-widget/internal/models"
	"weather-widget/internal/render"
	"weather-widget/pkg/debounce"
	"weather-widget/pkg/logger"
)

const (
	MsgEmptyQuery    = "Please enter a city name."
	MsgLocationError = "Error finding location. Please try again."
	MsgForecastError = "Error fetching weather data. Please try again."
	MsgNoResults     = "No results found"
)

var (
	ErrEmptyQuery = errors.New("empty query")
	ErrNotFound   = errors.New("location not found")
	ErrUpstream   = errors.New("upstream lookup failed")
)

// Geocoder resolves a place name to at most count candidates.
type Geocoder interface {
	Search(ctx context.Context, name string, count int) ([]models.LocationCandidate, error)
}

// Forecaster returns the daily forecast for a coordinate.
type Forecaster interface {
	FetchForecast(ctx context.Context, lat, lon float64) (models.Forecast, error)
}

type Options struct {
	Country         string
	CountryCode     string
	MinQueryLength  int
	SuggestionCount int
	DebounceDelay   time.Duration
}

func OptionsFromConfig(cfg config.WidgetConfig) Options {
	return Options{
		Country:         cfg.Country,
		CountryCode:     cfg.CountryCode,
		MinQueryLength:  cfg.MinQueryLength,
		SuggestionCount: cfg.SuggestionCount,
		DebounceDelay:   cfg.DebounceDelay,
	}
}

// NotFoundMessage is shown when a direct query does not resolve inside the country.
func (o Options) NotFoundMessage() string {
	return "Please enter a valid city in " + o.Country + "."
}

// Matches reports whether c lies in the configured country.
func (o Options) Matches(c models.LocationCandidate) bool {
	if c.Country == o.Country {
		return true
	}
	return o.CountryCode != "" && strings.EqualFold(c.CountryCode, o.CountryCode)
}

// Widget drives one set of sinks. Its methods may be called concurrently;
// each lookup chain carries a token and only the latest chain of its kind
// is allowed to write to the sinks.
type Widget struct {
	geocoder   Geocoder
	forecaster Forecaster
	view       View
	opts       Options
	l          *logger.Logger

	debouncer *debounce.Debouncer[string]

	ctx    context.Context
	cancel context.CancelFunc

	suggestSeq  atomic.Uint64
	forecastSeq atomic.Uint64

	// mu orders sink writes against token checks.
	mu            sync.Mutex
	cancelSuggest context.CancelFunc
	suggestToken  uint64
}

func New(geocoder Geocoder, forecaster Forecaster, view View, opts Options, l *logger.Logger) *Widget {
	if opts.MinQueryLength <= 0 {
		opts.MinQueryLength = 2
	}
	if opts.SuggestionCount <= 0 {
		opts.SuggestionCount = 5
	}

	w := &Widget{
		geocoder:   geocoder,
		forecaster: forecaster,
		view:       view,
		opts:       opts,
		l:          l,
	}
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.debouncer = debounce.New(opts.DebounceDelay, func(q string) {
		w.Suggest(w.ctx, q)
	})

	return w
}

// Factory creates widgets that share lookups, options and logger.
type Factory struct {
	Geocoder   Geocoder
	Forecaster Forecaster
	Options    Options
	Logger     *logger.Logger
}

func (f Factory) New(view View) *Widget {
	return New(f.Geocoder, f.Forecaster, view, f.Options, f.Logger)
}

func (w *Widget) Options() Options {
	return w.opts
}

// Input records a keystroke burst. The suggestion lookup runs once input has
// been quiet for the debounce delay.
func (w *Widget) Input(value string) {
	w.view.SetInput(value)
	w.debouncer.Call(strings.TrimSpace(value))
}

// Flush runs a pending debounced lookup now. It reports whether one was pending.
func (w *Widget) Flush() bool {
	return w.debouncer.Flush()
}

// Suggest fills the suggestion list for q. Lookup failures are logged and leave
// the list as it was.
func (w *Widget) Suggest(ctx context.Context, q string) {
	q = strings.TrimSpace(q)
	ctx, token, done := w.beginSuggest(ctx)
	defer done()

	if utf8.RuneCountInString(q) < w.opts.MinQueryLength {
		w.deliver(&w.suggestSeq, token, w.view.ClearSuggestions)
		return
	}

	w.l.Debug("looking up suggestions", map[string]any{
		"query": q,
		"token": token,
	})

	candidates, err := w.geocoder.Search(ctx, q, w.opts.SuggestionCount)
	if !w.current(&w.suggestSeq, token) {
		w.l.Debug("dropping stale suggestions", map[string]any{"query": q, "token": token})
		return
	}
	if err != nil {
		w.l.Error(errors.Wrap(err, "error fetching suggestions"), map[string]any{
			"query": q,
		})
		return
	}

	suggestions := make([]models.Suggestion, 0, len(candidates))
	for _, c := range candidates {
		if !w.opts.Matches(c) {
			continue
		}
		suggestions = append(suggestions, models.Suggestion{Label: c.Label(), Location: c})
	}

	w.l.Info("suggestions ready", map[string]any{
		"query":      q,
		"candidates": len(candidates),
		"matching":   len(suggestions),
	})

	w.deliver(&w.suggestSeq, token, func() {
		if len(suggestions) == 0 {
			w.view.ShowNoResults()
			return
		}
		w.view.ShowSuggestions(suggestions)
	})
}

// Select acts on a clicked suggestion: the input takes the candidate's name,
// the list closes and the candidate's forecast is fetched. Pending and
// in-flight suggestion lookups are dropped so the list stays closed.
func (w *Widget) Select(ctx context.Context, c models.LocationCandidate) error {
	w.debouncer.Stop()
	w.abortSuggest()

	w.mu.Lock()
	w.view.SetInput(c.Name)
	w.view.HideSuggestions()
	w.mu.Unlock()

	return w.Forecast(ctx, c.Latitude, c.Longitude, c.Name)
}

// Forecast fetches and renders the forecast for a coordinate.
func (w *Widget) Forecast(ctx context.Context, lat, lon float64, name string) error {
	return w.forecast(ctx, w.forecastSeq.Add(1), lat, lon, name)
}

// Submit is the primary action: the query is resolved to a single location in
// the configured country and its forecast is shown. An outcome overtaken by a
// newer Submit or Forecast is dropped and Submit returns nil.
func (w *Widget) Submit(ctx context.Context, q string) error {
	token := w.forecastSeq.Add(1)
	q = strings.TrimSpace(q)

	if q == "" {
		if !w.deliver(&w.forecastSeq, token, func() { w.view.ShowError(MsgEmptyQuery) }) {
			return nil
		}
		return ErrEmptyQuery
	}

	candidates, err := w.geocoder.Search(ctx, q, 1)
	if !w.current(&w.forecastSeq, token) {
		w.l.Debug("dropping stale location", map[string]any{"query": q, "token": token})
		return nil
	}
	if err != nil {
		err = errors.Wrapf(ErrUpstream, "error fetching location %q: %v", q, err)
		w.l.Error(err, map[string]any{"query": q})
		if !w.deliver(&w.forecastSeq, token, func() { w.view.ShowError(MsgLocationError) }) {
			return nil
		}
		return err
	}

	if len(candidates) == 0 || !w.opts.Matches(candidates[0]) {
		w.l.Info("no location in country", map[string]any{
			"query":   q,
			"country": w.opts.Country,
			"results": len(candidates),
		})
		if !w.deliver(&w.forecastSeq, token, func() { w.view.ShowError(w.opts.NotFoundMessage()) }) {
			return nil
		}
		return errors.Wrapf(ErrNotFound, "%q", q)
	}

	c := candidates[0]
	return w.forecast(ctx, token, c.Latitude, c.Longitude, c.Name)
}

func (w *Widget) forecast(ctx context.Context, token uint64, lat, lon float64, name string) error {
	fc, err := w.forecaster.FetchForecast(ctx, lat, lon)
	if !w.current(&w.forecastSeq, token) {
		w.l.Debug("dropping stale forecast", map[string]any{"name": name, "token": token})
		return nil
	}
	if err != nil {
		err = errors.Wrapf(ErrUpstream, "error fetching weather for %s: %v", name, err)
		w.l.Error(err, map[string]any{
			"lat":  lat,
			"lon":  lon,
			"name": name,
		})
		if !w.deliver(&w.forecastSeq, token, func() { w.view.ShowError(MsgForecastError) }) {
			return nil
		}
		return err
	}

	view := render.Forecast(fc, name)

	w.l.Info("forecast ready", map[string]any{
		"name":   name,
		"params": fc.RequestParams(),
		"days":   len(view.Cards),
	})

	w.deliver(&w.forecastSeq, token, func() {
		w.view.ShowForecast(view)
		w.view.ClearError()
	})

	return nil
}

// Close drops pending input and aborts in-flight suggestion lookups.
func (w *Widget) Close() {
	w.debouncer.Stop()
	w.abortSuggest()
	w.cancel()
}

// beginSuggest starts a suggestion chain, cancelling the previous one.
func (w *Widget) beginSuggest(parent context.Context) (context.Context, uint64, func()) {
	ctx, cancel := context.WithCancel(parent)

	w.mu.Lock()
	if w.cancelSuggest != nil {
		w.cancelSuggest()
	}
	token := w.suggestSeq.Add(1)
	w.cancelSuggest = cancel
	w.suggestToken = token
	w.mu.Unlock()

	return ctx, token, func() {
		w.mu.Lock()
		if w.suggestToken == token {
			w.cancelSuggest = nil
		}
		w.mu.Unlock()
		cancel()
	}
}

func (w *Widget) abortSuggest() {
	w.mu.Lock()
	w.suggestSeq.Add(1)
	if w.cancelSuggest != nil {
		w.cancelSuggest()
		w.cancelSuggest = nil
	}
	w.mu.Unlock()
}

func (w *Widget) current(seq *atomic.Uint64, token uint64) bool {
	return seq.Load() == token
}

// deliver runs write only while token is still the latest of seq.
func (w *Widget) deliver(seq *atomic.Uint64, token uint64, write func()) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.current(seq, token) {
		return false
	}
	write()
	return true
}
