package newsread

import "context"

// Summarizer condenses article text.
type Summarizer interface {
	// Summarize returns a short summary of text.
	// Returns EINVALID if text is empty.
	Summarize(ctx context.Context, text string) (string, error)
}
