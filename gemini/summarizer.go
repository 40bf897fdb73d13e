// Package gemini implements newsread.Summarizer with Google Gemini.
package gemini

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fwojciec/newsread"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for summaries.
const DefaultModel = "gemini-2.5-flash"

// promptPrefix precedes the article text in every request.
const promptPrefix = "Summarize the following article:\n\n"

// maxTruncations bounds the shrink-and-recount loop in fit.
const maxTruncations = 4

// Ensure Summarizer implements newsread.Summarizer at compile time.
var _ newsread.Summarizer = (*Summarizer)(nil)

// Summarizer implements newsread.Summarizer using Google Gemini.
type Summarizer struct {
	client *genai.Client
	model  string

	counter        newsread.TokenCounter
	maxInputTokens int
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithModel overrides DefaultModel.
func WithModel(model string) Option {
	return func(s *Summarizer) {
		s.model = model
	}
}

// WithTokenBudget truncates article text so the whole request, prompt and
// system instruction included, stays within max tokens as counted by counter.
func WithTokenBudget(counter newsread.TokenCounter, max int) Option {
	return func(s *Summarizer) {
		s.counter = counter
		s.maxInputTokens = max
	}
}

// NewSummarizer creates a new Summarizer.
func NewSummarizer(client *genai.Client, opts ...Option) *Summarizer {
	s := &Summarizer{client: client, model: DefaultModel}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize returns a summary of text.
func (s *Summarizer) Summarize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", newsread.Errorf(newsread.EINVALID, "article text required")
	}

	text, err := s.fit(ctx, text)
	if err != nil {
		return "", err
	}

	contents, config := summaryRequest(text)
	result, err := s.client.Models.GenerateContent(ctx, s.model, contents, config)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", newsread.Errorf(newsread.EINTERNAL, "gemini returned nil result")
	}

	summary := strings.TrimSpace(result.Text())
	if summary == "" {
		return "", newsread.Errorf(newsread.EINTERNAL, "gemini returned empty summary")
	}
	return summary, nil
}

// fit shrinks text proportionally until the request is within the token
// budget. The fixed request overhead is taken off the budget first.
func (s *Summarizer) fit(ctx context.Context, text string) (string, error) {
	if s.counter == nil || s.maxInputTokens <= 0 {
		return text, nil
	}
	overhead, err := s.counter.CountSummaryTokens(ctx, "")
	if err != nil {
		return "", err
	}
	budget := s.maxInputTokens - overhead
	if budget <= 0 {
		return "", newsread.Errorf(newsread.EINVALID, "token budget %d does not cover the %d-token prompt", s.maxInputTokens, overhead)
	}
	for range maxTruncations {
		n, err := s.counter.CountSummaryTokens(ctx, text)
		if err != nil {
			return "", err
		}
		if n <= s.maxInputTokens {
			return text, nil
		}
		// Aim 10% under the proportional cut so the loop converges quickly.
		keep := utf8.RuneCountInString(text) * budget / max(n-overhead, 1) * 9 / 10
		text = TruncateRunes(text, keep)
	}
	return text, nil
}

// summaryRequest builds the contents and config sent for text.
func summaryRequest(text string) ([]*genai.Content, *genai.GenerateContentConfig) {
	return []*genai.Content{genai.NewContentFromText(BuildPrompt(text), genai.RoleUser)}, BuildConfig()
}

// BuildConfig returns the GenerateContentConfig for summary requests.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.3)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You summarize news articles for busy readers. Write a short, neutral summary in plain prose. Use only facts stated in the article.",
			}},
		},
		Temperature: &temp,
	}
}

// BuildPrompt builds the user prompt for text.
func BuildPrompt(text string) string {
	return promptPrefix + text
}

// TruncateRunes cuts text to at most n runes, backing up to the last
// whitespace so words are not split.
func TruncateRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:n])
	if !unicode.IsSpace(runes[n]) {
		if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimSpace(cut)
}
