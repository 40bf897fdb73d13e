package mock

import (
	"context"

	"github.com/fwojciec/newsread"
)

var _ newsread.Scraper = (*Scraper)(nil)

// Scraper is a mock implementation of newsread.Scraper.
type Scraper struct {
	ScrapeFn func(ctx context.Context, url string) *newsread.Article
}

func (s *Scraper) Scrape(ctx context.Context, url string) *newsread.Article {
	return s.ScrapeFn(ctx, url)
}

var _ newsread.Summarizer = (*Summarizer)(nil)

// Summarizer is a mock implementation of newsread.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, text string) (string, error)
}

func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	return s.SummarizeFn(ctx, text)
}

var _ newsread.HeadlineService = (*HeadlineService)(nil)

// HeadlineService is a mock implementation of newsread.HeadlineService.
type HeadlineService struct {
	TopHeadlinesFn func(ctx context.Context) ([]*newsread.Headline, error)
}

func (s *HeadlineService) TopHeadlines(ctx context.Context) ([]*newsread.Headline, error) {
	return s.TopHeadlinesFn(ctx)
}
