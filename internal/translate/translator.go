// Package translate renders transcripts into another language variant,
// chunk by chunk, favoring idiomatic phrasing over literal translation.
package translate

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jorujes/transcriberio/internal/apierr"
	"github.com/jorujes/transcriberio/internal/lang"
	"github.com/jorujes/transcriberio/internal/provider"
	"github.com/jorujes/transcriberio/internal/textsplit"
)

const (
	// translateChunkChars leaves output headroom: translations can run
	// longer than their source, and the model budgets roughly four
	// characters per token.
	translateChunkChars = 7000
)

const systemPromptFormat = `You are a professional translator. Translate the user's text into %s. Produce natural, idiomatic %s as a native speaker would write it; adapt idioms and expressions rather than translating them literally. Keep every proper name exactly as written. Output only the translation.`

// Result is the outcome of a translation run.
type Result struct {
	Text         string
	SourceWords  int
	TargetWords  int
	Chunks       int
	FailedChunks int // chunks kept in the source language after retries
}

// Translator translates text via a chat model, retrying transient API
// failures per chunk.
type Translator struct {
	client *provider.Client
	model  string
	retry  apierr.RetryConfig
}

// TranslatorOption configures a Translator.
type TranslatorOption func(*Translator)

// WithRetry overrides the per-chunk retry policy.
func WithRetry(cfg apierr.RetryConfig) TranslatorOption {
	return func(t *Translator) { t.retry = cfg }
}

// NewTranslator builds a translator bound to the given client and model.
func NewTranslator(client *provider.Client, model string, opts ...TranslatorOption) *Translator {
	t := &Translator{
		client: client,
		model:  model,
		retry: apierr.RetryConfig{
			MaxRetries: 3,
			BaseDelay:  time.Second,
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate renders text into the target variant. A chunk that fails after
// retries is kept in the source language so the result stays complete; the
// count of such chunks is reported on the Result.
func (t *Translator) Translate(ctx context.Context, text string, target lang.Variant) (Result, error) {
	chunks := textsplit.BySentences(text, translateChunkChars)
	if len(chunks) == 0 {
		return Result{}, ErrEmptyInput
	}

	res := Result{
		SourceWords: WordCount(text),
		Chunks:      len(chunks),
	}

	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		translated, err := t.translateChunk(ctx, chunk, target)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			res.FailedChunks++
			translated = chunk
		}
		parts = append(parts, strings.TrimSpace(translated))
	}
	if res.FailedChunks == len(chunks) {
		return res, ErrAllChunksFailed
	}

	res.Text = strings.Join(parts, " ")
	res.TargetWords = WordCount(res.Text)
	return res, nil
}

// Reprocess runs the translation pass again over already-translated text.
// Useful when a first pass left untranslated fragments behind.
func (t *Translator) Reprocess(ctx context.Context, text string, target lang.Variant) (Result, error) {
	return t.Translate(ctx, text, target)
}

func (t *Translator) translateChunk(ctx context.Context, chunk string, target lang.Variant) (string, error) {
	system := fmt.Sprintf(systemPromptFormat, target.DisplayName(), target.Name)
	return apierr.RetryWithBackoff(ctx, t.retry, func() (string, error) {
		return t.client.Chat(ctx, provider.ChatRequest{
			Model:  t.model,
			System: system,
			User:   chunk,
		})
	}, apierr.IsTransient)
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// OutputPath derives the translated file's path from the transcript path by
// tagging the name with the target language code: transcript.txt and pt-BR
// give transcript_pt-BR.txt.
func OutputPath(transcriptPath, langCode string) string {
	ext := filepath.Ext(transcriptPath)
	base := strings.TrimSuffix(transcriptPath, ext)
	if ext == "" {
		ext = ".txt"
	}
	return fmt.Sprintf("%s_%s%s", base, langCode, ext)
}
