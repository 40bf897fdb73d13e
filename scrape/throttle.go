package scrape

import (
	"context"
	"fmt"
	nurl "net/url"
	"strings"
	"sync"

	"github.com/fwojciec/newsread"
	"golang.org/x/time/rate"
)

// maxIdleHosts is the number of tracked hosts above which idle limiters
// are dropped.
const maxIdleHosts = 1024

// Ensure Throttle implements newsread.Scraper at compile time.
var _ newsread.Scraper = (*Throttle)(nil)

// Throttle spaces out scrapes of the same host with one token bucket per
// host. Scrapes of different hosts do not wait on each other.
type Throttle struct {
	next  newsread.Scraper
	limit rate.Limit

	mu    sync.Mutex
	hosts map[string]*rate.Limiter
}

// NewThrottle wraps next with a per-host limit of rps scrapes per second
// and a burst of 1. A non-positive rps disables throttling.
func NewThrottle(next newsread.Scraper, rps float64) *Throttle {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &Throttle{
		next:  next,
		limit: limit,
		hosts: make(map[string]*rate.Limiter),
	}
}

// Scrape waits for the host's rate limit and delegates to the wrapped scraper.
func (t *Throttle) Scrape(ctx context.Context, url string) *newsread.Article {
	host := hostOf(url)
	if err := t.Wait(ctx, host); err != nil {
		return newsread.FailedArticle(fmt.Errorf("waiting for %s rate limit: %w", host, err))
	}
	return t.next.Scrape(ctx, url)
}

// Wait blocks until the rate limit allows a request to host.
// Returns an error if the context is canceled before the wait completes.
func (t *Throttle) Wait(ctx context.Context, host string) error {
	return t.limiter(host).Wait(ctx)
}

func (t *Throttle) limiter(host string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	if l, ok := t.hosts[host]; ok {
		return l
	}
	if len(t.hosts) >= maxIdleHosts {
		t.pruneIdle()
	}
	l := rate.NewLimiter(t.limit, 1)
	t.hosts[host] = l
	return l
}

// pruneIdle drops limiters whose bucket has refilled; they carry no state
// a fresh limiter would not. Must be called with mu held.
func (t *Throttle) pruneIdle() {
	for host, l := range t.hosts {
		if l.Tokens() >= 1 {
			delete(t.hosts, host)
		}
	}
}

// hostOf returns the lower-cased host of rawURL, or rawURL itself when it
// does not parse.
func hostOf(rawURL string) string {
	u, err := nurl.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.ToLower(u.Hostname())
}
