package gemini_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fwojciec/newsread"
	"github.com/fwojciec/newsread/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

func TestTokenCounter_CountSummaryTokens(t *testing.T) {
	t.Parallel()

	tc, err := gemini.NewTokenCounter(gemini.DefaultModel)
	require.NoError(t, err)

	article := "Monsoon rains reached the coast on Friday, two days ahead of the forecast."

	t.Run("empty article still costs the prompt and instruction", func(t *testing.T) {
		t.Parallel()

		overhead, err := tc.CountSummaryTokens(context.Background(), "")

		require.NoError(t, err)
		assert.Greater(t, overhead, 10)
	})

	t.Run("counts more than the article alone", func(t *testing.T) {
		t.Parallel()

		bare, err := tokenizer.NewLocalTokenizer(gemini.DefaultModel)
		require.NoError(t, err)
		res, err := bare.CountTokens([]*genai.Content{genai.NewContentFromText(article, genai.RoleUser)}, nil)
		require.NoError(t, err)

		overhead, err := tc.CountSummaryTokens(context.Background(), "")
		require.NoError(t, err)
		n, err := tc.CountSummaryTokens(context.Background(), article)
		require.NoError(t, err)

		assert.Greater(t, n, int(res.TotalTokens))
		assert.Greater(t, n, overhead)
	})

	t.Run("grows with the article", func(t *testing.T) {
		t.Parallel()

		short, err := tc.CountSummaryTokens(context.Background(), article)
		require.NoError(t, err)
		long, err := tc.CountSummaryTokens(context.Background(), strings.Repeat(article+" ", 5))
		require.NoError(t, err)

		assert.Greater(t, long, short)
	})
}

func TestNewTokenCounter_UnknownModel(t *testing.T) {
	t.Parallel()

	_, err := gemini.NewTokenCounter("no-such-model")

	require.Error(t, err)
	assert.Equal(t, newsread.EINVALID, newsread.ErrorCode(err))
}
