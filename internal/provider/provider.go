// Package provider routes chat and transcription requests to OpenAI-compatible
// APIs. OpenAI, Gemini, and OpenRouter all speak the same wire protocol, so a
// single go-openai client serves them all; only the base URL, API key, and the
// set of accepted models differ per provider.
package provider

import (
	"fmt"
	"net/http"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// Provider names accepted by NewClient and used in model routing.
const (
	OpenAI     = "openai"
	Gemini     = "gemini"
	OpenRouter = "openrouter"
)

// Default models used when the caller does not pick one explicitly.
const (
	DefaultTranscriptionModel = "gemini-2.5-flash"
	DefaultTextModel          = "gemini-2.5-pro"
)

// Environment variables holding per-provider API keys.
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvGeminiKey     = "GEMINI_API_KEY"
	EnvOpenRouterKey = "OPENROUTER_API_KEY"
)

const (
	geminiBaseURL     = "https://generativelanguage.googleapis.com/v1beta/openai/"
	openRouterBaseURL = "https://openrouter.ai/api/v1"

	// OpenRouter uses these headers for app attribution and rate limiting.
	openRouterReferer = "https://github.com/jorujes/transcriberio"
	openRouterTitle   = "TranscriberIO"
)

// modelProviders maps every supported model to the provider that serves it.
var modelProviders = map[string]string{
	"gpt-4o-transcribe":      OpenAI,
	"gpt-4o-mini-transcribe": OpenAI,
	"whisper-1":              OpenAI,
	"gpt-4o":                 OpenAI,
	"gpt-4o-mini":            OpenAI,
	"gemini-2.5-flash":       Gemini,
	"gemini-2.5-pro":         Gemini,
	"gemini-2.0-flash":       Gemini,
	"openai/gpt-4o":          OpenRouter,
	"openai/gpt-4o-mini":     OpenRouter,
	"google/gemini-2.5-pro":  OpenRouter,
	"anthropic/claude-sonnet-4": OpenRouter,
}

// envKeys maps provider names to the environment variable holding their key.
var envKeys = map[string]string{
	OpenAI:     EnvOpenAIKey,
	Gemini:     EnvGeminiKey,
	OpenRouter: EnvOpenRouterKey,
}

// ProviderFor returns the provider that serves the given model.
func ProviderFor(model string) (string, error) {
	p, ok := modelProviders[model]
	if !ok {
		return "", fmt.Errorf("%s: %w", model, ErrUnsupportedModel)
	}
	return p, nil
}

// SupportedModels returns the models served by the given provider, or all
// supported models when provider is empty.
func SupportedModels(provider string) []string {
	var models []string
	for m, p := range modelProviders {
		if provider == "" || p == provider {
			models = append(models, m)
		}
	}
	return models
}

// envReader reads environment variables; injectable for tests.
type envReader func(key string) string

// Client wraps a go-openai client bound to one provider.
type Client struct {
	api      *openai.Client
	provider string
}

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	getenv     envReader
	httpClient *http.Client
}

// WithEnvReader overrides environment variable lookup.
func WithEnvReader(fn envReader) Option {
	return func(c *clientConfig) { c.getenv = fn }
}

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = hc }
}

// NewClient builds a client for the named provider, reading the API key from
// the provider's environment variable.
func NewClient(provider string, opts ...Option) (*Client, error) {
	cfg := clientConfig{getenv: os.Getenv}
	for _, opt := range opts {
		opt(&cfg)
	}

	envKey, ok := envKeys[provider]
	if !ok {
		return nil, fmt.Errorf("%s: %w", provider, ErrUnsupportedProvider)
	}
	apiKey := cfg.getenv(envKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%s (%s): %w", provider, envKey, ErrAPIKeyMissing)
	}

	apiCfg := openai.DefaultConfig(apiKey)
	switch provider {
	case Gemini:
		apiCfg.BaseURL = geminiBaseURL
	case OpenRouter:
		apiCfg.BaseURL = openRouterBaseURL
	}
	if cfg.httpClient != nil {
		apiCfg.HTTPClient = cfg.httpClient
	} else if provider == OpenRouter {
		apiCfg.HTTPClient = &http.Client{Transport: &attributionTransport{base: http.DefaultTransport}}
	}

	return &Client{api: openai.NewClientWithConfig(apiCfg), provider: provider}, nil
}

// NewClientForModel builds a client for whichever provider serves the model.
func NewClientForModel(model string, opts ...Option) (*Client, error) {
	p, err := ProviderFor(model)
	if err != nil {
		return nil, err
	}
	return NewClient(p, opts...)
}

// Provider returns the provider name this client is bound to.
func (c *Client) Provider() string { return c.provider }

// API exposes the underlying go-openai client.
func (c *Client) API() *openai.Client { return c.api }

// attributionTransport adds the app attribution headers OpenRouter expects.
type attributionTransport struct {
	base http.RoundTripper
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("HTTP-Referer", openRouterReferer)
	clone.Header.Set("X-Title", openRouterTitle)
	return t.base.RoundTrip(clone)
}

var _ http.RoundTripper = (*attributionTransport)(nil)
