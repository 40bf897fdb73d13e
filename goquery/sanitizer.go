// Package goquery implements markup sanitization using goquery.
package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/newsread"
	"golang.org/x/net/html"
)

// Ensure Sanitizer implements newsread.Sanitizer at compile time.
var _ newsread.Sanitizer = (*Sanitizer)(nil)

// Pre-parse patterns. Pathological CSS has crashed HTML parsers, and
// scripts never belong to article content.
var (
	styleBlockRe  = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style\s*>`)
	scriptBlockRe = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
)

// noiseSelector matches visual-only elements removed from extracted fragments.
const noiseSelector = "img, picture, figure, figcaption"

// DefaultPhrases are boilerplate prompts stripped from article text.
// Each entry is a case-insensitive regular expression.
var DefaultPhrases = []string{
	`continue reading(?: the main story)?`,
	`subscribe (?:now )?to continue reading`,
	`this (?:article|story) is for subscribers only\.?`,
	`sign up for our newsletter`,
	`click here to subscribe`,
	`also read:`,
	`read more:`,
}

// Sanitizer strips styles, scripts, images and boilerplate phrases.
// It is a targeted noise filter, not an HTML security sanitizer: other
// tags pass through untouched.
type Sanitizer struct {
	phrases []*regexp.Regexp
}

// SanitizerOption configures a Sanitizer.
type SanitizerOption func(*Sanitizer)

// WithPhrases replaces DefaultPhrases with the given patterns.
// Patterns that are not valid regular expressions are matched literally.
func WithPhrases(patterns ...string) SanitizerOption {
	return func(s *Sanitizer) {
		s.phrases = compilePhrases(patterns)
	}
}

// NewSanitizer creates a new Sanitizer.
func NewSanitizer(opts ...SanitizerOption) *Sanitizer {
	s := &Sanitizer{
		phrases: compilePhrases(DefaultPhrases),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SanitizePage removes every style and script block from a full page.
func (s *Sanitizer) SanitizePage(page string) string {
	page = styleBlockRe.ReplaceAllString(page, "")
	return scriptBlockRe.ReplaceAllString(page, "")
}

// SanitizeFragment removes images, pictures, figures and captions from an
// extracted fragment and strips boilerplate phrases from its text nodes.
func (s *Sanitizer) SanitizeFragment(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return fragment
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	body := doc.Find("body")
	body.Find(noiseSelector).Remove()
	for _, n := range body.Nodes {
		mergeTextNodes(n)
		s.sanitizeTextNodes(n)
	}

	out, err := body.Html()
	if err != nil {
		return fragment
	}
	return out
}

// SanitizeText strips boilerplate phrases from plain text.
// Replacement repeats until nothing matches, so removing one phrase
// cannot leave a new one behind.
func (s *Sanitizer) SanitizeText(text string) string {
	for {
		next := text
		for _, re := range s.phrases {
			next = re.ReplaceAllString(next, "")
		}
		if next == text {
			return text
		}
		text = next
	}
}

func (s *Sanitizer) sanitizeTextNodes(n *html.Node) {
	if n.Type == html.TextNode {
		n.Data = s.SanitizeText(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		s.sanitizeTextNodes(c)
	}
}

// mergeTextNodes joins adjacent text siblings left behind by removed
// elements, so phrases are matched against the text a reader sees and a
// reparse of the output yields the same nodes.
func mergeTextNodes(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode {
			mergeTextNodes(c)
			continue
		}
		for next := c.NextSibling; next != nil && next.Type == html.TextNode; next = c.NextSibling {
			c.Data += next.Data
			n.RemoveChild(next)
		}
	}
}

func compilePhrases(patterns []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if p == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(p))
		}
		res = append(res, re)
	}
	return res
}
