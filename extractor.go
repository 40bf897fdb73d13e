package newsread

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the article title extracted from metadata or headings.
	Title string

	// ContentHTML is the main content as an HTML fragment.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string

	// TextContent is the plain-text rendering of ContentHTML.
	TextContent string

	// Byline is the author line, when the extractor found one.
	Byline string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes sanitized page HTML and returns the main content.
	// pageURL is used to resolve relative links and may be empty.
	// Returns ENOTFOUND when no main content could be identified.
	Extract(html string, pageURL string) (*ExtractResult, error)
}

// Sanitizer removes markup that crashes parsers or pollutes article text.
// Implementations never fail; unmatched input is returned unchanged.
type Sanitizer interface {
	// SanitizePage strips style and script blocks from a full page.
	SanitizePage(html string) string

	// SanitizeFragment strips images, figures and boilerplate phrases
	// from an extracted HTML fragment.
	SanitizeFragment(html string) string

	// SanitizeText strips boilerplate phrases from plain text.
	SanitizeText(text string) string
}
