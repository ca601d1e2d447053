package observe

import (
	"io"

	"github.com/pkg/errors"

	"weather-widget/pkg/logger"
)

type LoggerConfig struct {
	AppName     string
	AppZone     string
	Level       string
	Format      string
	SentryDSN   string
	SentryDebug bool
}

// NewLogger builds the application logger. When a Sentry DSN is configured the
// returned hook is one of the logger's writers and must be flushed on exit.
func NewLogger(cfg LoggerConfig, writers ...io.Writer) (*logger.Logger, *SentryHook, error) {
	hook := NewSentryHook(cfg.AppZone, cfg.AppName, 0, cfg.SentryDebug, cfg.SentryDSN)
	var hooks []io.Writer
	if hook.enabled {
		hooks = append(hooks, hook)
	}

	l, err := logger.NewFormattedLogger(cfg.AppName, cfg.Format, writers, hooks...)
	if err != nil {
		return nil, nil, errors.Wrap(err, "build logger")
	}
	l.WithEnv(cfg.AppZone)
	if err := l.SetLevel(cfg.Level); err != nil {
		return nil, nil, errors.Wrap(err, "set log level")
	}
	hook.SetLogger(l)

	return l, hook, nil
}
