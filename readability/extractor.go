package readability

import (
	"fmt"
	nurl "net/url"
	"strings"

	"github.com/fwojciec/newsread"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements newsread.Extractor at compile time.
var _ newsread.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes sanitized HTML and returns the main article content.
func (e *Extractor) Extract(rawHTML, pageURL string) (*newsread.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, newsread.Errorf(newsread.EINVALID, "empty HTML input")
	}

	var u *nurl.URL
	if pageURL != "" {
		parsed, err := nurl.Parse(pageURL)
		if err != nil {
			return nil, newsread.Errorf(newsread.EINVALID, "invalid page URL: %v", err)
		}
		u = parsed
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil {
		return nil, fmt.Errorf("readability: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" || strings.TrimSpace(article.Content) == "" {
		return nil, newsread.Errorf(newsread.ENOTFOUND, "no readable content")
	}

	return &newsread.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
		TextContent: text,
		Byline:      strings.TrimSpace(article.Byline),
	}, nil
}
