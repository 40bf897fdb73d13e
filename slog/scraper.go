package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/newsread"
)

// Ensure LoggingScraper implements newsread.Scraper.
var _ newsread.Scraper = (*LoggingScraper)(nil)

// LoggingScraper wraps a Scraper and logs one line per scrape.
type LoggingScraper struct {
	next   newsread.Scraper
	logger *slog.Logger
}

// NewLoggingScraper creates a new LoggingScraper.
func NewLoggingScraper(next newsread.Scraper, logger *slog.Logger) *LoggingScraper {
	return &LoggingScraper{next: next, logger: logger}
}

// Scrape delegates to the wrapped scraper and logs the outcome.
func (s *LoggingScraper) Scrape(ctx context.Context, url string) (article *newsread.Article) {
	defer func(begin time.Time) {
		s.logger.Info("scrape",
			"url", url,
			"outcome", outcome(article),
			"format", string(article.Format),
			"title", article.Title,
			"byline", article.Byline,
			"bytes", len(article.Content),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return s.next.Scrape(ctx, url)
}

func outcome(a *newsread.Article) string {
	switch {
	case a.Failed():
		return "failed"
	case a.NotFound():
		return "not_found"
	default:
		return "ok"
	}
}
