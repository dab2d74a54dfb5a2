package transcribe

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jorujes/transcriberio/internal/apierr"
	"github.com/jorujes/transcriberio/internal/provider"
)

// UnitTranscriber turns one audio file into text.
type UnitTranscriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// APITranscriber transcribes via an OpenAI-compatible audio endpoint,
// retrying transient failures with exponential backoff.
type APITranscriber struct {
	client   *provider.Client
	model    string
	language string
	prompt   string
	retry    apierr.RetryConfig
}

// APIOption configures an APITranscriber.
type APIOption func(*APITranscriber)

// WithLanguage hints the spoken language (ISO 639-1) to the model.
func WithLanguage(code string) APIOption {
	return func(t *APITranscriber) { t.language = code }
}

// WithPrompt passes context text that biases the model's vocabulary.
func WithPrompt(prompt string) APIOption {
	return func(t *APITranscriber) { t.prompt = prompt }
}

// WithRetry overrides the retry policy.
func WithRetry(cfg apierr.RetryConfig) APIOption {
	return func(t *APITranscriber) { t.retry = cfg }
}

// NewAPITranscriber builds a transcriber bound to the given client and model.
func NewAPITranscriber(client *provider.Client, model string, opts ...APIOption) *APITranscriber {
	t := &APITranscriber{
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

// Transcribe uploads the file and returns the transcript text.
func (t *APITranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	text, err := apierr.RetryWithBackoff(ctx, t.retry, func() (string, error) {
		resp, err := t.client.API().CreateTranscription(ctx, openai.AudioRequest{
			Model:    t.model,
			FilePath: path,
			Language: t.language,
			Prompt:   t.prompt,
			Format:   openai.AudioResponseFormatJSON,
		})
		if err != nil {
			return "", apierr.Classify(err)
		}
		return resp.Text, nil
	}, apierr.IsTransient)
	if err != nil {
		return "", fmt.Errorf("transcribe %s: %w", filepath.Base(path), err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), ErrEmptyTranscript)
	}
	return text, nil
}

var _ UnitTranscriber = (*APITranscriber)(nil)

// clipExtractor cuts a time range out of an audio file.
type clipExtractor interface {
	ExtractClip(ctx context.Context, src, dest string, start, end time.Duration) error
}

// Executor runs a segment plan: cut each span, transcribe it, collect the
// outcome. Segments run strictly in order; one failed segment does not stop
// the rest, but a canceled context does.
type Executor struct {
	units UnitTranscriber
	clips clipExtractor
}

// NewExecutor builds an executor over the given transcriber and clip cutter.
func NewExecutor(units UnitTranscriber, clips clipExtractor) *Executor {
	return &Executor{units: units, clips: clips}
}

// Run processes every span of src, writing clips into workDir. The returned
// slice has one entry per span, in plan order.
func (e *Executor) Run(ctx context.Context, src, workDir string, spans []Span) []UnitResult {
	results := make([]UnitResult, 0, len(spans))
	for _, span := range spans {
		res := UnitResult{Index: span.Index, Start: span.Start, End: span.End}

		if err := ctx.Err(); err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}

		clip := filepath.Join(workDir, fmt.Sprintf("segment_%03d.mp3", span.Index))
		if err := e.clips.ExtractClip(ctx, src, clip, span.Start, span.End); err != nil {
			res.Err = fmt.Errorf("segment %d: %w", span.Index, err)
			results = append(results, res)
			continue
		}

		text, err := e.units.Transcribe(ctx, clip)
		if err != nil {
			res.Err = fmt.Errorf("segment %d: %w", span.Index, err)
		} else {
			res.Text = text
		}
		results = append(results, res)
	}
	return results
}
