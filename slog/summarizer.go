package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/newsread"
)

// Ensure LoggingSummarizer implements newsread.Summarizer.
var _ newsread.Summarizer = (*LoggingSummarizer)(nil)

// LoggingSummarizer wraps a Summarizer with logging.
type LoggingSummarizer struct {
	next   newsread.Summarizer
	logger *slog.Logger
}

// NewLoggingSummarizer creates a new LoggingSummarizer.
func NewLoggingSummarizer(next newsread.Summarizer, logger *slog.Logger) *LoggingSummarizer {
	return &LoggingSummarizer{next: next, logger: logger}
}

// Summarize delegates to the wrapped summarizer and logs the call.
func (s *LoggingSummarizer) Summarize(ctx context.Context, text string) (summary string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("summarize",
			"input_bytes", len(text),
			"output_bytes", len(summary),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Summarize(ctx, text)
}

// Ensure LoggingHeadlineService implements newsread.HeadlineService.
var _ newsread.HeadlineService = (*LoggingHeadlineService)(nil)

// LoggingHeadlineService wraps a HeadlineService with logging.
type LoggingHeadlineService struct {
	next   newsread.HeadlineService
	logger *slog.Logger
}

// NewLoggingHeadlineService creates a new LoggingHeadlineService.
func NewLoggingHeadlineService(next newsread.HeadlineService, logger *slog.Logger) *LoggingHeadlineService {
	return &LoggingHeadlineService{next: next, logger: logger}
}

// TopHeadlines delegates to the wrapped service and logs the call.
func (s *LoggingHeadlineService) TopHeadlines(ctx context.Context) (headlines []*newsread.Headline, err error) {
	defer func(begin time.Time) {
		s.logger.Info("top headlines",
			"count", len(headlines),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.TopHeadlines(ctx)
}
