package mock

import (
	"context"

	"github.com/fwojciec/newsread"
)

var _ newsread.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of newsread.TokenCounter.
type TokenCounter struct {
	CountSummaryTokensFn func(ctx context.Context, article string) (int, error)
}

func (c *TokenCounter) CountSummaryTokens(ctx context.Context, article string) (int, error) {
	return c.CountSummaryTokensFn(ctx, article)
}
