package newsread

import (
	"context"
	"time"
)

// Headline is a single entry from a news aggregator's top-headlines feed.
type Headline struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Image       string    `json:"image"`
	PublishedAt time.Time `json:"publishedAt"`
	Source      string    `json:"source"`
}

// HeadlineService lists current top headlines.
type HeadlineService interface {
	// TopHeadlines returns the current headlines, numbered from 1.
	TopHeadlines(ctx context.Context) ([]*Headline, error)
}
