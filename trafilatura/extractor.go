package trafilatura

import (
	"bytes"
	"fmt"
	nurl "net/url"
	"strings"

	"github.com/fwojciec/newsread"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements newsread.Extractor at compile time.
var _ newsread.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
// Links are kept so the fragment stays usable as rich content.
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

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		IncludeLinks:    true,
	}
	if pageURL != "" {
		u, err := nurl.Parse(pageURL)
		if err != nil {
			return nil, newsread.Errorf(newsread.EINVALID, "invalid page URL: %v", err)
		}
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, fmt.Errorf("trafilatura: %w", err)
	}
	if result.ContentNode == nil || strings.TrimSpace(result.ContentText) == "" {
		return nil, newsread.Errorf(newsread.ENOTFOUND, "no readable content")
	}

	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, err
	}

	return &newsread.ExtractResult{
		Title:       strings.TrimSpace(result.Metadata.Title),
		ContentHTML: contentHTML,
		TextContent: strings.TrimSpace(result.ContentText),
		Byline:      strings.TrimSpace(result.Metadata.Author),
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
