package newsread

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment (e.g., Article content in
	// FormatHTML) into Markdown.
	Convert(html string) (string, error)
}

// PlainContent returns a's content in a form suitable for free-text
// consumers. HTML fragments are converted with conv; plain text is
// returned as is.
func PlainContent(a *Article, conv Converter) (string, error) {
	if a.Format != FormatHTML {
		return a.Content, nil
	}
	return conv.Convert(a.Content)
}
