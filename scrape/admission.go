package scrape

import (
	"context"
	"fmt"

	"github.com/fwojciec/newsread"
	"golang.org/x/sync/semaphore"
)

// DefaultMaxSessions is the default number of concurrent browser sessions.
const DefaultMaxSessions = 4

// Ensure Admission implements newsread.Scraper at compile time.
var _ newsread.Scraper = (*Admission)(nil)

// Admission bounds the number of scrapes, and so browser processes, in
// flight at once. Callers beyond the bound queue until a slot frees up or
// their context ends.
type Admission struct {
	next newsread.Scraper
	sem  *semaphore.Weighted
}

// NewAdmission wraps next so that at most n scrapes run concurrently.
// Values of n below 1 are treated as 1.
func NewAdmission(next newsread.Scraper, n int64) *Admission {
	if n < 1 {
		n = 1
	}
	return &Admission{
		next: next,
		sem:  semaphore.NewWeighted(n),
	}
}

// Scrape waits for a free slot and delegates to the wrapped scraper.
// A caller whose context ends while queued gets the failed sentinel.
func (a *Admission) Scrape(ctx context.Context, url string) *newsread.Article {
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return newsread.FailedArticle(fmt.Errorf("waiting for a browser slot: %w", err))
	}
	defer a.sem.Release(1)

	return a.next.Scrape(ctx, url)
}
