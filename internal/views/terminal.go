package views

import (
	"fmt"
	"io"
	"sync"

	"weather-widget/internal/models"
	"weather-widget/internal/services/widget"
)

// Terminal prints sink writes as text and remembers the listed suggestions so
// they can be picked by number.
type Terminal struct {
	mu          sync.Mutex
	out         io.Writer
	input       string
	suggestions []models.Suggestion
	visible     bool
	err         string
}

var _ widget.View = (*Terminal)(nil)

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

func (t *Terminal) SetInput(value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.input = value
}

func (t *Terminal) Input() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.input
}

func (t *Terminal) ShowSuggestions(suggestions []models.Suggestion) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.suggestions = append([]models.Suggestion{}, suggestions...)
	t.visible = true
	for i, s := range suggestions {
		fmt.Fprintf(t.out, "  %d. %s\n", i+1, s.Label)
	}
}

func (t *Terminal) ShowNoResults() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.suggestions = nil
	t.visible = true
	fmt.Fprintf(t.out, "  %s\n", widget.MsgNoResults)
}

func (t *Terminal) ClearSuggestions() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.suggestions = nil
	t.visible = false
}

func (t *Terminal) HideSuggestions() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible = false
}

func (t *Terminal) ShowError(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = msg
	fmt.Fprintf(t.out, "! %s\n", msg)
}

func (t *Terminal) ClearError() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = ""
}

func (t *Terminal) ShowForecast(view models.ForecastView) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "\n%s\n", view.Heading)
	for _, c := range view.Cards {
		fmt.Fprintf(t.out, "  %s\n    %s\n    %s\n    %s\n",
			c.Label, c.TemperatureLine(), c.PrecipitationLine(), c.WindLine())
	}
	fmt.Fprintln(t.out)
}

// Suggestion returns the n-th (1-based) entry of the visible list.
func (t *Terminal) Suggestion(n int) (models.LocationCandidate, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.visible || n < 1 || n > len(t.suggestions) {
		return models.LocationCandidate{}, false
	}
	return t.suggestions[n-1].Location, true
}

// Error returns the message currently shown, if any.
func (t *Terminal) Error() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}
