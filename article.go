package newsread

import (
	"context"
	"time"
)

// Sentinel titles. Callers that need a binary success/failure signal
// compare against these.
const (
	TitleNotFound = "Content not found"
	TitleFailed   = "Scraping Failed"
)

// NotFoundMessage is the content of the not-found sentinel article.
const NotFoundMessage = "Could not extract the main content of this article. The page may be behind a paywall or use an unsupported layout."

// ContentFormat describes how Article.Content is encoded.
type ContentFormat string

// ContentFormat values.
const (
	// FormatHTML is a sanitized HTML fragment produced by the heuristic extractor.
	FormatHTML ContentFormat = "html"

	// FormatText is plain text, used by the selector fallback and the sentinels.
	FormatText ContentFormat = "text"
)

// Article is the outcome of one extraction attempt.
//
// Content is an HTML fragment when the heuristic extractor succeeded and
// plain text otherwise. Failures are reported through the sentinel titles
// TitleNotFound and TitleFailed rather than through an error.
//
// Format and Byline are for in-process consumers and are not serialized.
type Article struct {
	Title   string        `json:"title"`
	Content string        `json:"content"`
	Format  ContentFormat `json:"-"`
	Byline  string        `json:"-"`
}

// NotFound reports whether a is the not-found sentinel.
func (a *Article) NotFound() bool {
	return a.Title == TitleNotFound && a.Content == NotFoundMessage
}

// Failed reports whether a is the scraping-failed sentinel.
func (a *Article) Failed() bool {
	return a.Title == TitleFailed
}

// NotFoundArticle returns the sentinel used when every extraction tier came up empty.
func NotFoundArticle() *Article {
	return &Article{
		Title:   TitleNotFound,
		Content: NotFoundMessage,
		Format:  FormatText,
	}
}

// FailedArticle returns the sentinel used when the pipeline itself failed.
// The content embeds the failure reason for operators.
func FailedArticle(err error) *Article {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return &Article{
		Title:   TitleFailed,
		Content: "Failed to scrape the article: " + reason,
		Format:  FormatText,
	}
}

// RenderedDocument is the outer HTML of a page captured after client-side
// scripts have settled. It is never modified after capture.
type RenderedDocument struct {
	URL        string
	HTML       string
	CapturedAt time.Time
}

// Scraper turns a URL into an Article.
type Scraper interface {
	// Scrape renders and extracts the article at url.
	// It always returns a non-nil Article and never an error; failures are
	// reported with NotFoundArticle or FailedArticle.
	Scrape(ctx context.Context, url string) *Article
}
