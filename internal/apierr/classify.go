package apierr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Classify maps an API error to a sentinel error so callers can branch with
// errors.Is. Errors that carry no recognizable status information are returned
// unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			// Distinguish a temporary rate limit from quota exhaustion (billing
			// issue). Quota exhaustion requires user action and must not be retried.
			if strings.Contains(apiErr.Message, "quota") ||
				strings.Contains(apiErr.Message, "billing") {
				return fmt.Errorf("%s: %w", apiErr.Message, ErrQuotaExceeded)
			}
			return fmt.Errorf("%s: %w", apiErr.Message, ErrRateLimit)
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w", apiErr.Message, ErrAuthFailed)
		case http.StatusRequestTimeout, http.StatusGatewayTimeout:
			return fmt.Errorf("%s: %w", apiErr.Message, ErrTimeout)
		case http.StatusInternalServerError, http.StatusBadGateway,
			http.StatusServiceUnavailable:
			return fmt.Errorf("%s: %w", apiErr.Message, ErrServer)
		case http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound:
			return fmt.Errorf("%s: %w", apiErr.Message, ErrBadRequest)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", ErrTimeout)
	}

	return err
}

// transientMarkers are substrings that identify a transient failure when no
// sentinel was attached. Matching is case-insensitive on the error text.
var transientMarkers = []string{
	"timeout",
	"timed out",
	"rate limit",
	"server error",
	"connection",
	"temporarily unavailable",
	"502",
	"503",
	"504",
}

// IsTransient reports whether an error is worth retrying with backoff.
// Sentinel errors are checked first; unclassified errors fall back to
// substring inspection of the error description.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation means the caller gave up; never retry.
	if errors.Is(err, context.Canceled) {
		return false
	}

	if errors.Is(err, ErrRateLimit) || errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrServer) || errors.Is(err, ErrConnection) {
		return true
	}

	// Permanent classifications short-circuit before the substring scan so a
	// quota message containing "rate limit" is never retried.
	if errors.Is(err, ErrQuotaExceeded) || errors.Is(err, ErrAuthFailed) ||
		errors.Is(err, ErrBadRequest) {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}
