// Package htmltomarkdown renders extracted article fragments as Markdown.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/strikethrough"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/newsread"
)

// Ensure Converter implements newsread.Converter at compile time.
var _ newsread.Converter = (*Converter)(nil)

// Converter wraps html-to-markdown to convert article HTML to Markdown.
type Converter struct {
	conv *converter.Converter
	opts []converter.ConvertOptionFunc
}

// Option configures a Converter.
type Option func(*Converter)

// WithDomain resolves relative links and image sources against domain.
// An empty domain leaves links as they are.
func WithDomain(domain string) Option {
	return func(c *Converter) {
		if domain != "" {
			c.opts = append(c.opts, converter.WithDomain(domain))
		}
	}
}

// NewConverter creates a new Converter.
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				strikethrough.NewStrikethroughPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert transforms an article fragment into trimmed Markdown.
func (c *Converter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", newsread.Errorf(newsread.EINVALID, "empty HTML input")
	}

	result, err := c.conv.ConvertString(html, c.opts...)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(result), nil
}
