// Package slog provides log/slog decorators for the newsread services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/newsread"
)

// Ensure LoggingRenderer implements newsread.Renderer.
var _ newsread.Renderer = (*LoggingRenderer)(nil)

// LoggingRenderer wraps a Renderer and logs browser launches.
type LoggingRenderer struct {
	next   newsread.Renderer
	logger *slog.Logger
}

// NewLoggingRenderer creates a new LoggingRenderer.
func NewLoggingRenderer(next newsread.Renderer, logger *slog.Logger) *LoggingRenderer {
	return &LoggingRenderer{next: next, logger: logger}
}

// Open delegates to the wrapped renderer and logs the launch.
func (r *LoggingRenderer) Open(ctx context.Context) (sess newsread.Session, err error) {
	defer func(begin time.Time) {
		r.logger.Info("browser open",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())

	sess, err = r.next.Open(ctx)
	if err != nil {
		return nil, err
	}
	return &loggingSession{Session: sess, logger: r.logger, opened: time.Now()}, nil
}

// loggingSession logs how long a browser was kept open.
type loggingSession struct {
	newsread.Session
	logger *slog.Logger
	opened time.Time
}

func (s *loggingSession) Close() (err error) {
	defer func() {
		s.logger.Debug("browser close",
			"lifetime", time.Since(s.opened),
			"err", err,
		)
	}()
	return s.Session.Close()
}
