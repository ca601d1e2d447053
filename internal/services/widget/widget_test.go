package widget_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"weather-widget/internal/models"
	"weather-widget/internal/services/widget"
	"weather-widget/internal/views"
	"weather-widget/pkg/logger"
)

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Search(ctx context.Context, name string, count int) ([]models.LocationCandidate, error) {
	args := m.Called(ctx, name, count)
	return args.Get(0).([]models.LocationCandidate), args.Error(1)
}

type MockForecaster struct {
	mock.Mock
}

func (m *MockForecaster) FetchForecast(ctx context.Context, lat, lon float64) (models.Forecast, error) {
	args := m.Called(ctx, lat, lon)
	return args.Get(0).(models.Forecast), args.Error(1)
}

var (
	berlinDE = models.LocationCandidate{
		Name: "Berlin", Region: "Berlin", Country: "Germany", CountryCode: "DE",
		Latitude: 52.52437, Longitude: 13.41053,
	}
	berlinUS = models.LocationCandidate{
		Name: "Berlin", Region: "New Hampshire", Country: "United States", CountryCode: "US",
		Latitude: 44.46867, Longitude: -71.18508,
	}
	hamburgDE = models.LocationCandidate{
		Name: "Hamburg", Region: "Hamburg", Country: "Germany", CountryCode: "DE",
		Latitude: 53.55073, Longitude: 9.99302,
	}
	parisFR = models.LocationCandidate{
		Name: "Paris", Region: "Île-de-France", Country: "France", CountryCode: "FR",
		Latitude: 48.85341, Longitude: 2.3488,
	}
)

func week(lat, lon float64) models.Forecast {
	fc := models.Forecast{Lat: lat, Lon: lon, Timezone: "Europe/Berlin"}
	start := time.Date(2025, 7, 28, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		fc.Days = append(fc.Days, models.DailyForecastEntry{
			Date:          start.AddDate(0, 0, i),
			TempMax:       21.3,
			TempMin:       12,
			Precipitation: 0.4,
			WindSpeedMax:  14.2,
		})
	}
	return fc
}

type fixture struct {
	geo    *MockGeocoder
	fc     *MockForecaster
	page   *views.Page
	widget *widget.Widget
}

func newFixture(t *testing.T, delay time.Duration) *fixture {
	f := &fixture{
		geo:  &MockGeocoder{},
		fc:   &MockForecaster{},
		page: views.NewPage(),
	}
	opts := widget.Options{
		Country:         "Germany",
		CountryCode:     "DE",
		MinQueryLength:  2,
		SuggestionCount: 5,
		DebounceDelay:   delay,
	}
	f.widget = widget.New(f.geo, f.fc, f.page, opts, logger.NewZapLogger("test-app", io.Discard))
	t.Cleanup(f.widget.Close)
	return f
}

func TestWidget_Input_DebouncesBurst(t *testing.T) {
	f := newFixture(t, 30*time.Millisecond)
	f.geo.On("Search", mock.Anything, "Berlin", 5).Return([]models.LocationCandidate{berlinDE}, nil).Once()

	for _, v := range []string{"B", "Be", "Ber", "Berl", "Berli", " Berlin "} {
		f.widget.Input(v)
	}

	require.Eventually(t, func() bool {
		return len(f.page.State().Suggestions) == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	f.geo.AssertNumberOfCalls(t, "Search", 1)
	assert.Equal(t, " Berlin ", f.page.State().Input)
	f.geo.AssertExpectations(t)
}

func TestWidget_Suggest_ShortQueryClearsWithoutLookup(t *testing.T) {
	f := newFixture(t, 0)
	f.page.ShowSuggestions([]models.Suggestion{{Label: "Berlin, Berlin", Location: berlinDE}})

	f.widget.Suggest(context.Background(), " B ")

	s := f.page.State()
	assert.False(t, s.SuggestionsVisible)
	assert.Empty(t, s.Suggestions)
	f.geo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestWidget_Suggest_ShortQueryCountsRunes(t *testing.T) {
	f := newFixture(t, 0)
	f.geo.On("Search", mock.Anything, "Ül", 5).Return([]models.LocationCandidate{}, nil).Once()

	f.widget.Suggest(context.Background(), "Ül")

	f.geo.AssertExpectations(t)
}

func TestWidget_Suggest_FiltersToCountry(t *testing.T) {
	f := newFixture(t, 0)
	f.geo.On("Search", mock.Anything, "Berlin", 5).
		Return([]models.LocationCandidate{berlinDE, berlinUS, parisFR, hamburgDE}, nil).Once()

	f.widget.Suggest(context.Background(), "Berlin")

	s := f.page.State()
	assert.True(t, s.SuggestionsVisible)
	assert.False(t, s.NoResults)
	require.Len(t, s.Suggestions, 2)
	assert.Equal(t, "Berlin, Berlin", s.Suggestions[0].Label)
	assert.Equal(t, berlinDE, s.Suggestions[0].Location)
	assert.Equal(t, "Hamburg, Hamburg", s.Suggestions[1].Label)
	f.fc.AssertNotCalled(t, "FetchForecast", mock.Anything, mock.Anything, mock.Anything)
}

func TestWidget_Suggest_CountryCodeAlsoMatches(t *testing.T) {
	f := newFixture(t, 0)
	localized := berlinDE
	localized.Country = "Deutschland"
	f.geo.On("Search", mock.Anything, "Berlin", 5).Return([]models.LocationCandidate{localized}, nil).Once()

	f.widget.Suggest(context.Background(), "Berlin")

	assert.Len(t, f.page.State().Suggestions, 1)
}

func TestWidget_Suggest_NoMatchingCountryShowsPlaceholder(t *testing.T) {
	f := newFixture(t, 0)
	f.geo.On("Search", mock.Anything, "Paris", 5).Return([]models.LocationCandidate{parisFR}, nil).Once()

	f.widget.Suggest(context.Background(), "Paris")

	s := f.page.State()
	assert.True(t, s.SuggestionsVisible)
	assert.True(t, s.NoResults)
	assert.Empty(t, s.Suggestions)
	f.geo.AssertNumberOfCalls(t, "Search", 1)
	f.fc.AssertNotCalled(t, "FetchForecast", mock.Anything, mock.Anything, mock.Anything)
}

func TestWidget_Suggest_FailureLeavesListAsItWas(t *testing.T) {
	f := newFixture(t, 0)
	f.geo.On("Search", mock.Anything, "Berlin", 5).Return([]models.LocationCandidate{berlinDE}, nil).Once()
	f.geo.On("Search", mock.Anything, "Berlinx", 5).Return([]models.LocationCandidate{}, errors.New("connection reset")).Once()

	f.widget.Suggest(context.Background(), "Berlin")
	before := f.page.State()

	f.widget.Suggest(context.Background(), "Berlinx")

	assert.Equal(t, before, f.page.State())
	assert.Empty(t, f.page.State().Error)
}

func TestWidget_Select(t *testing.T) {
	f := newFixture(t, time.Hour)
	f.fc.On("FetchForecast", mock.Anything, berlinDE.Latitude, berlinDE.Longitude).
		Return(week(berlinDE.Latitude, berlinDE.Longitude), nil).Once()

	f.page.ShowSuggestions([]models.Suggestion{{Label: "Berlin, Berlin", Location: berlinDE}})
	f.widget.Input("Ber")

	err := f.widget.Select(context.Background(), berlinDE)
	require.NoError(t, err)

	s := f.page.State()
	assert.Equal(t, "Berlin", s.Input)
	assert.False(t, s.SuggestionsVisible)
	require.NotNil(t, s.Forecast)
	assert.Equal(t, "7-Day Forecast for Berlin", s.Forecast.Heading)

	// the pending keystroke must not reopen the list
	assert.False(t, f.widget.Flush())
	f.geo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
	f.fc.AssertNumberOfCalls(t, "FetchForecast", 1)
	f.fc.AssertExpectations(t)
}

func TestWidget_Select_DropsInFlightSuggestions(t *testing.T) {
	f := newFixture(t, 0)
	started := make(chan struct{})
	f.geo.On("Search", mock.Anything, "Ham", 5).
		Run(func(args mock.Arguments) {
			close(started)
			<-args.Get(0).(context.Context).Done()
		}).
		Return([]models.LocationCandidate{hamburgDE}, nil).Once()
	f.fc.On("FetchForecast", mock.Anything, hamburgDE.Latitude, hamburgDE.Longitude).
		Return(week(hamburgDE.Latitude, hamburgDE.Longitude), nil).Once()

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.widget.Suggest(context.Background(), "Ham")
	}()
	<-started

	require.NoError(t, f.widget.Select(context.Background(), hamburgDE))
	<-done

	s := f.page.State()
	assert.False(t, s.SuggestionsVisible)
	assert.Empty(t, s.Suggestions)
	assert.Equal(t, "Hamburg", s.Input)
}

func TestWidget_Forecast_Success(t *testing.T) {
	f := newFixture(t, 0)
	f.fc.On("FetchForecast", mock.Anything, 52.52, 13.41).Return(week(52.52, 13.41), nil).Once()
	f.page.ShowError(widget.MsgForecastError)

	require.NoError(t, f.widget.Forecast(context.Background(), 52.52, 13.41, "Berlin"))

	s := f.page.State()
	assert.Empty(t, s.Error)
	require.NotNil(t, s.Forecast)
	assert.Equal(t, "7-Day Forecast for Berlin", s.Forecast.Heading)
	require.Len(t, s.Forecast.Cards, 7)
	for _, c := range s.Forecast.Cards {
		assert.Equal(t, "Max: 21.3°C / Min: 12°C", c.TemperatureLine())
		assert.Equal(t, "Precipitation: 0.4 mm", c.PrecipitationLine())
		assert.Equal(t, "Wind: 14.2 km/h", c.WindLine())
	}
	assert.Equal(t, "Monday, Jul 28", s.Forecast.Cards[0].Label)
	assert.Equal(t, "Sunday, Aug 3", s.Forecast.Cards[6].Label)
}

func TestWidget_Forecast_Failure(t *testing.T) {
	f := newFixture(t, 0)
	f.fc.On("FetchForecast", mock.Anything, 52.52, 13.41).
		Return(models.Forecast{}, errors.New("HTTP error (status 502): 502 Bad Gateway")).Once()

	err := f.widget.Forecast(context.Background(), 52.52, 13.41, "Berlin")
	require.Error(t, err)
	assert.ErrorIs(t, err, widget.ErrUpstream)

	s := f.page.State()
	assert.Equal(t, widget.MsgForecastError, s.Error)
	assert.Nil(t, s.Forecast)
	f.fc.AssertNumberOfCalls(t, "FetchForecast", 1)
}

func TestWidget_Submit_Empty(t *testing.T) {
	f := newFixture(t, 0)

	err := f.widget.Submit(context.Background(), "   ")
	assert.ErrorIs(t, err, widget.ErrEmptyQuery)
	assert.Equal(t, widget.MsgEmptyQuery, f.page.State().Error)
	f.geo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
	f.fc.AssertNotCalled(t, "FetchForecast", mock.Anything, mock.Anything, mock.Anything)
}

func TestWidget_Submit_ForeignCity(t *testing.T) {
	f := newFixture(t, 0)
	f.geo.On("Search", mock.Anything, "Paris", 1).Return([]models.LocationCandidate{parisFR}, nil).Once()

	err := f.widget.Submit(context.Background(), " Paris ")
	assert.ErrorIs(t, err, widget.ErrNotFound)
	assert.Equal(t, "Please enter a valid city in Germany.", f.page.State().Error)
	f.fc.AssertNotCalled(t, "FetchForecast", mock.Anything, mock.Anything, mock.Anything)
}

func TestWidget_Submit_NoResult(t *testing.T) {
	f := newFixture(t, 0)
	f.geo.On("Search", mock.Anything, "Xyzzy", 1).Return([]models.LocationCandidate{}, nil).Once()

	err := f.widget.Submit(context.Background(), "Xyzzy")
	assert.ErrorIs(t, err, widget.ErrNotFound)
	assert.Equal(t, "Please enter a valid city in Germany.", f.page.State().Error)
}

func TestWidget_Submit_LookupFailure(t *testing.T) {
	f := newFixture(t, 0)
	f.geo.On("Search", mock.Anything, "Berlin", 1).Return([]models.LocationCandidate{}, errors.New("dial tcp: timeout")).Once()

	err := f.widget.Submit(context.Background(), "Berlin")
	assert.ErrorIs(t, err, widget.ErrUpstream)
	assert.Contains(t, err.Error(), "dial tcp: timeout")
	assert.Equal(t, widget.MsgLocationError, f.page.State().Error)
}

func TestWidget_Submit_Success(t *testing.T) {
	f := newFixture(t, 0)
	f.geo.On("Search", mock.Anything, "Berlin", 1).Return([]models.LocationCandidate{berlinDE}, nil).Once()
	f.fc.On("FetchForecast", mock.Anything, berlinDE.Latitude, berlinDE.Longitude).
		Return(week(berlinDE.Latitude, berlinDE.Longitude), nil).Once()

	require.NoError(t, f.widget.Submit(context.Background(), "Berlin"))

	s := f.page.State()
	require.NotNil(t, s.Forecast)
	assert.Equal(t, "Berlin", s.Forecast.City)
	assert.Len(t, s.Forecast.Cards, 7)
	f.geo.AssertExpectations(t)
	f.fc.AssertExpectations(t)
}

func TestWidget_StaleSuggestionsAreDropped(t *testing.T) {
	f := newFixture(t, 0)
	started := make(chan struct{})
	f.geo.On("Search", mock.Anything, "Ha", 5).
		Run(func(args mock.Arguments) {
			close(started)
			<-args.Get(0).(context.Context).Done()
		}).
		Return([]models.LocationCandidate{hamburgDE}, nil).Once()
	f.geo.On("Search", mock.Anything, "Berlin", 5).Return([]models.LocationCandidate{berlinDE}, nil).Once()

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.widget.Suggest(context.Background(), "Ha")
	}()
	<-started

	// the newer lookup cancels the older one
	f.widget.Suggest(context.Background(), "Berlin")
	<-done

	s := f.page.State()
	require.Len(t, s.Suggestions, 1)
	assert.Equal(t, "Berlin, Berlin", s.Suggestions[0].Label)
}

func TestWidget_StaleForecastIsDropped(t *testing.T) {
	f := newFixture(t, 0)
	release := make(chan struct{})
	started := make(chan struct{})
	f.fc.On("FetchForecast", mock.Anything, hamburgDE.Latitude, hamburgDE.Longitude).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(week(hamburgDE.Latitude, hamburgDE.Longitude), nil).Once()
	f.fc.On("FetchForecast", mock.Anything, berlinDE.Latitude, berlinDE.Longitude).
		Return(week(berlinDE.Latitude, berlinDE.Longitude), nil).Once()

	errc := make(chan error, 1)
	go func() {
		errc <- f.widget.Forecast(context.Background(), hamburgDE.Latitude, hamburgDE.Longitude, "Hamburg")
	}()
	<-started

	require.NoError(t, f.widget.Forecast(context.Background(), berlinDE.Latitude, berlinDE.Longitude, "Berlin"))
	close(release)
	require.NoError(t, <-errc)

	s := f.page.State()
	require.NotNil(t, s.Forecast)
	assert.Equal(t, "7-Day Forecast for Berlin", s.Forecast.Heading)
}

func TestWidget_StaleForecastErrorIsDropped(t *testing.T) {
	f := newFixture(t, 0)
	release := make(chan struct{})
	started := make(chan struct{})
	f.fc.On("FetchForecast", mock.Anything, hamburgDE.Latitude, hamburgDE.Longitude).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(models.Forecast{}, errors.New("timeout")).Once()

	errc := make(chan error, 1)
	go func() {
		errc <- f.widget.Forecast(context.Background(), hamburgDE.Latitude, hamburgDE.Longitude, "Hamburg")
	}()
	<-started

	assert.ErrorIs(t, f.widget.Submit(context.Background(), ""), widget.ErrEmptyQuery)
	close(release)
	require.NoError(t, <-errc)

	assert.Equal(t, widget.MsgEmptyQuery, f.page.State().Error)
}

// gateWriter holds the first log entry containing match until release closes.
type gateWriter struct {
	match   []byte
	reached chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gateWriter) Write(p []byte) (int, error) {
	if bytes.Contains(p, g.match) {
		g.once.Do(func() {
			close(g.reached)
			<-g.release
		})
	}
	return len(p), nil
}

func TestWidget_Submit_OvertakenNotFoundReturnsNil(t *testing.T) {
	geo := &MockGeocoder{}
	fc := &MockForecaster{}
	page := views.NewPage()
	gate := &gateWriter{
		match:   []byte("no location in country"),
		reached: make(chan struct{}),
		release: make(chan struct{}),
	}
	w := widget.New(geo, fc, page, widget.Options{Country: "Germany", CountryCode: "DE"},
		logger.NewZapLogger("test-app", gate))
	t.Cleanup(w.Close)

	geo.On("Search", mock.Anything, "Paris", 1).Return([]models.LocationCandidate{parisFR}, nil).Once()
	fc.On("FetchForecast", mock.Anything, berlinDE.Latitude, berlinDE.Longitude).
		Return(week(berlinDE.Latitude, berlinDE.Longitude), nil).Once()

	errc := make(chan error, 1)
	go func() { errc <- w.Submit(context.Background(), "Paris") }()
	<-gate.reached

	require.NoError(t, w.Forecast(context.Background(), berlinDE.Latitude, berlinDE.Longitude, "Berlin"))
	close(gate.release)
	require.NoError(t, <-errc)

	s := page.State()
	assert.Empty(t, s.Error)
	require.NotNil(t, s.Forecast)
	assert.Equal(t, "7-Day Forecast for Berlin", s.Forecast.Heading)
}

func TestOptions(t *testing.T) {
	opts := widget.Options{Country: "Germany"}

	assert.Equal(t, "Please enter a valid city in Germany.", opts.NotFoundMessage())
	assert.True(t, opts.Matches(berlinDE))
	assert.False(t, opts.Matches(berlinUS))

	opts.CountryCode = "de"
	localized := berlinDE
	localized.Country = "Allemagne"
	assert.True(t, opts.Matches(localized))
}

func TestNew_Defaults(t *testing.T) {
	w := widget.New(&MockGeocoder{}, &MockForecaster{}, views.NewPage(), widget.Options{Country: "Germany"},
		logger.NewZapLogger("test-app", io.Discard))
	defer w.Close()

	assert.Equal(t, 2, w.Options().MinQueryLength)
	assert.Equal(t, 5, w.Options().SuggestionCount)
}

func TestSinks_Delegates(t *testing.T) {
	field := views.NewPage()
	list := views.NewPage()
	banner := views.NewPage()
	cards := views.NewPage()

	s := widget.Sinks{Field: field, List: list, Banner: banner, Cards: cards}
	s.SetInput("Kiel")
	s.ShowNoResults()
	s.ShowError(widget.MsgEmptyQuery)
	s.ShowForecast(models.ForecastView{Heading: "7-Day Forecast for Kiel"})

	assert.Equal(t, "Kiel", s.Input())
	assert.True(t, list.State().NoResults)
	assert.Equal(t, widget.MsgEmptyQuery, banner.State().Error)
	assert.Equal(t, "7-Day Forecast for Kiel", cards.State().Forecast.Heading)
	assert.Empty(t, field.State().Error)
}
