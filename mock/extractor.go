package mock

import "github.com/fwojciec/newsread"

var _ newsread.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of newsread.Extractor.
type Extractor struct {
	ExtractFn func(html, pageURL string) (*newsread.ExtractResult, error)
}

func (e *Extractor) Extract(html, pageURL string) (*newsread.ExtractResult, error) {
	return e.ExtractFn(html, pageURL)
}

var _ newsread.Sanitizer = (*Sanitizer)(nil)

// Sanitizer is a mock implementation of newsread.Sanitizer.
type Sanitizer struct {
	SanitizePageFn     func(html string) string
	SanitizeFragmentFn func(html string) string
	SanitizeTextFn     func(text string) string
}

func (s *Sanitizer) SanitizePage(html string) string {
	return s.SanitizePageFn(html)
}

func (s *Sanitizer) SanitizeFragment(html string) string {
	return s.SanitizeFragmentFn(html)
}

func (s *Sanitizer) SanitizeText(text string) string {
	return s.SanitizeTextFn(text)
}

// NopSanitizer returns a Sanitizer that leaves its input unchanged.
func NopSanitizer() *Sanitizer {
	return &Sanitizer{
		SanitizePageFn:     func(html string) string { return html },
		SanitizeFragmentFn: func(html string) string { return html },
		SanitizeTextFn:     func(text string) string { return text },
	}
}
