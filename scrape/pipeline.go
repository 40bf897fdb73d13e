// Package scrape implements the render, sanitize and extract pipeline that
// turns a news URL into an article, plus admission and rate controls that
// wrap it.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/newsread"
)

// Default stage timeouts.
const (
	// DefaultNavigationTimeout bounds navigation and every later in-page query.
	DefaultNavigationTimeout = 60 * time.Second

	// DefaultReadyTimeout bounds the wait for article containers. It is
	// shorter than navigation because missing containers are not fatal.
	DefaultReadyTimeout = 15 * time.Second
)

// Ensure Pipeline implements newsread.Scraper at compile time.
var _ newsread.Scraper = (*Pipeline)(nil)

// Pipeline renders a URL in a fresh browser session and extracts its
// article through a fixed chain of tiers:
//
//  1. heuristic extraction over the sanitized page (HTML content)
//  2. innerText of the first matching content selector (plain text)
//  3. the not-found sentinel
//  4. the failed sentinel, for any error or panic along the way
//
// Pipeline holds no per-request state and is safe for concurrent use.
type Pipeline struct {
	renderer  newsread.Renderer
	extractor newsread.Extractor
	sanitizer newsread.Sanitizer

	selectors         []string
	navigationTimeout time.Duration
	readyTimeout      time.Duration
	logger            *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSelectors sets the content selectors used by the readiness wait and
// the selector fallback. Defaults to newsread.DefaultContentSelectors.
func WithSelectors(selectors ...string) Option {
	return func(p *Pipeline) {
		p.selectors = selectors
	}
}

// WithNavigationTimeout sets the navigation timeout.
// Defaults to DefaultNavigationTimeout (60s) if not specified.
func WithNavigationTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.navigationTimeout = d
	}
}

// WithReadyTimeout sets how long to wait for content selectors.
// Defaults to DefaultReadyTimeout (15s) if not specified.
func WithReadyTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.readyTimeout = d
	}
}

// WithLogger sets the logger for soft failures and diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates a new Pipeline.
func NewPipeline(
	renderer newsread.Renderer,
	extractor newsread.Extractor,
	sanitizer newsread.Sanitizer,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		renderer:          renderer,
		extractor:         extractor,
		sanitizer:         sanitizer,
		selectors:         newsread.DefaultContentSelectors,
		navigationTimeout: DefaultNavigationTimeout,
		readyTimeout:      DefaultReadyTimeout,
		logger:            slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Scrape renders url and returns its article. It never returns nil and
// never panics; failures come back as sentinel articles.
func (p *Pipeline) Scrape(ctx context.Context, url string) (article *newsread.Article) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panic: %v", r)
			p.logger.Error("scrape", "url", url, "err", err)
			article = newsread.FailedArticle(err)
		}
	}()

	article, err := p.scrape(ctx, url)
	if err != nil {
		p.logger.Error("scrape", "url", url, "err", err)
		return newsread.FailedArticle(err)
	}
	return article
}

func (p *Pipeline) scrape(ctx context.Context, url string) (*newsread.Article, error) {
	sess, err := p.renderer.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening browser: %w", err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			p.logger.Warn("closing browser session", "url", url, "err", err)
		}
	}()

	if err := p.navigate(ctx, sess, url); err != nil {
		return nil, err
	}

	p.waitReady(ctx, sess, url)

	// Later queries share one budget so a wedged tab cannot hang the request.
	ctx, cancel := context.WithTimeout(ctx, p.navigationTimeout)
	defer cancel()

	doc, err := p.capture(ctx, sess, url)
	if err != nil {
		return nil, err
	}

	if article := p.extract(doc); article != nil {
		if article.Title == "" {
			article.Title = p.pageTitle(ctx, sess, url)
		}
		return article, nil
	}

	return p.fallback(ctx, sess)
}

func (p *Pipeline) navigate(ctx context.Context, sess newsread.Session, url string) error {
	ctx, cancel := context.WithTimeout(ctx, p.navigationTimeout)
	defer cancel()

	if err := sess.Navigate(ctx, url); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// waitReady gives late content a bounded chance to appear. Absence of the
// selectors does not mean absence of content, so errors are only logged.
func (p *Pipeline) waitReady(ctx context.Context, sess newsread.Session, url string) {
	ctx, cancel := context.WithTimeout(ctx, p.readyTimeout)
	defer cancel()

	if err := sess.WaitReady(ctx, p.selectors); err != nil {
		p.logger.Warn("content selectors not found, continuing",
			"url", url,
			"selectors", strings.Join(p.selectors, ", "),
			"timeout", p.readyTimeout,
			"err", err,
		)
	}
}

func (p *Pipeline) capture(ctx context.Context, sess newsread.Session, url string) (*newsread.RenderedDocument, error) {
	html, err := sess.HTML(ctx)
	if err != nil {
		return nil, fmt.Errorf("capturing page HTML: %w", err)
	}
	return &newsread.RenderedDocument{
		URL:        url,
		HTML:       html,
		CapturedAt: time.Now(),
	}, nil
}

// extract runs the heuristic extractor. It returns nil on a miss.
func (p *Pipeline) extract(doc *newsread.RenderedDocument) *newsread.Article {
	cleaned := p.sanitizer.SanitizePage(doc.HTML)

	result, err := p.extractor.Extract(cleaned, doc.URL)
	if err != nil {
		p.logger.Debug("heuristic extraction missed", "url", doc.URL, "err", err)
		return nil
	}
	if result == nil || strings.TrimSpace(result.TextContent) == "" {
		p.logger.Debug("heuristic extraction missed", "url", doc.URL, "err", "empty result")
		return nil
	}

	content := strings.TrimSpace(p.sanitizer.SanitizeFragment(result.ContentHTML))
	if content == "" {
		return nil
	}

	return &newsread.Article{
		Title:   strings.TrimSpace(result.Title),
		Content: content,
		Format:  newsread.FormatHTML,
		Byline:  strings.TrimSpace(result.Byline),
	}
}

// fallback reads the live page through the content selectors.
func (p *Pipeline) fallback(ctx context.Context, sess newsread.Session) (*newsread.Article, error) {
	text, err := sess.FirstText(ctx, p.selectors)
	if err != nil {
		return nil, fmt.Errorf("querying content selectors: %w", err)
	}

	text = strings.TrimSpace(p.sanitizer.SanitizeText(text))
	if text == "" {
		return newsread.NotFoundArticle(), nil
	}

	title, err := sess.Title(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading page title: %w", err)
	}

	return &newsread.Article{
		Title:   strings.TrimSpace(title),
		Content: text,
		Format:  newsread.FormatText,
	}, nil
}

// pageTitle returns the document title, or "" when it cannot be read.
func (p *Pipeline) pageTitle(ctx context.Context, sess newsread.Session, url string) string {
	title, err := sess.Title(ctx)
	if err != nil {
		p.logger.Debug("reading page title", "url", url, "err", err)
		return ""
	}
	return strings.TrimSpace(title)
}
