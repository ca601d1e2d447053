// Package term runs the widget as a line-oriented terminal program.
package term

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"weather-widget/internal/services/widget"
	"weather-widget/internal/views"
	"weather-widget/pkg/logger"
)

const Help = `Type a city name to get suggestions.
  :N      pick suggestion N
  !       get the forecast for the current input
  !text   get the forecast for text
  :q      quit
`

type REPL struct {
	w    *widget.Widget
	view *views.Terminal
	out  io.Writer
	l    *logger.Logger
}

func NewREPL(factory widget.Factory, out io.Writer) *REPL {
	view := views.NewTerminal(out)
	return &REPL{
		w:    factory.New(view),
		view: view,
		out:  out,
		l:    factory.Logger,
	}
}

// Run reads commands from in until EOF or ":q", or until ctx is done.
// At EOF a lookup still waiting on the debounce delay runs before Run returns.
func (r *REPL) Run(ctx context.Context, in io.Reader) error {
	defer r.w.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprint(r.out, Help)

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			r.w.Flush()
			return err
		case line, ok := <-lines:
			if !ok {
				r.w.Flush()
				return <-errc
			}
			if quit := r.handle(ctx, line); quit {
				return nil
			}
		}
	}
}

func (r *REPL) handle(ctx context.Context, line string) (quit bool) {
	trimmed := strings.TrimSpace(line)

	switch {
	case trimmed == ":q":
		return true
	case strings.HasPrefix(trimmed, ":"):
		n, err := strconv.Atoi(strings.TrimPrefix(trimmed, ":"))
		if err != nil {
			fmt.Fprintf(r.out, "unknown command %q\n", trimmed)
			return false
		}
		c, ok := r.view.Suggestion(n)
		if !ok {
			fmt.Fprintf(r.out, "no suggestion %d\n", n)
			return false
		}
		r.logResult("select", r.w.Select(ctx, c))
	case strings.HasPrefix(trimmed, "!"):
		q := strings.TrimPrefix(trimmed, "!")
		if q == "" {
			q = r.view.Input()
		} else {
			r.view.SetInput(q)
		}
		r.logResult("submit", r.w.Submit(ctx, q))
	default:
		r.w.Input(line)
	}

	return false
}

// logResult records action errors; the user already sees them on the error line.
func (r *REPL) logResult(action string, err error) {
	if err == nil || r.l == nil {
		return
	}
	r.l.Debug("action failed", map[string]any{
		"action": action,
		"err":    err.Error(),
	})
}
