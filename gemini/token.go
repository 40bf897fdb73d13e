package gemini

import (
	"context"

	"github.com/fwojciec/newsread"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ newsread.TokenCounter = (*TokenCounter)(nil)

// TokenCounter sizes summary requests offline with the model's tokenizer.
// It counts the same contents and system instruction Summarizer sends.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter loads the tokenizer for model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, newsread.Errorf(newsread.EINVALID, "no local tokenizer for %s: %v", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountSummaryTokens counts the input tokens of the request Summarizer
// would send for article.
func (tc *TokenCounter) CountSummaryTokens(_ context.Context, article string) (int, error) {
	contents, config := summaryRequest(article)
	result, err := tc.tok.CountTokens(contents, &genai.CountTokensConfig{
		SystemInstruction: config.SystemInstruction,
	})
	if err != nil {
		return 0, err
	}
	return int(result.TotalTokens), nil
}
