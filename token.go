package newsread

import "context"

// TokenCounter measures the model input of a summary request.
type TokenCounter interface {
	// CountSummaryTokens returns the input tokens a request to summarize
	// article would use, prompt and system instruction included. An empty
	// article yields the fixed overhead of the request.
	CountSummaryTokens(ctx context.Context, article string) (int, error)
}
