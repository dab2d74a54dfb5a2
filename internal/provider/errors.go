package provider

import "errors"

// ErrUnsupportedProvider indicates an unknown provider name.
var ErrUnsupportedProvider = errors.New("unsupported provider")

// ErrUnsupportedModel indicates a model not served by any configured provider.
var ErrUnsupportedModel = errors.New("unsupported model")

// ErrAPIKeyMissing indicates the provider's API key environment variable is not set.
var ErrAPIKeyMissing = errors.New("API key not set")

// ErrEmptyResponse indicates the API returned a response with no content.
var ErrEmptyResponse = errors.New("empty response from API")
