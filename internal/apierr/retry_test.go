package apierr_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jorujes/transcriberio/internal/apierr"
)

// Short delays keep the backoff path exercised without slowing the suite.
var fastRetry = apierr.RetryConfig{
	MaxRetries: 3,
	BaseDelay:  time.Millisecond,
	MaxDelay:   4 * time.Millisecond,
}

func alwaysRetry(error) bool { return true }

func TestRetryWithBackoffSucceedsFirstTry(t *testing.T) {
	t.Parallel()

	calls := 0
	got, err := apierr.RetryWithBackoff(context.Background(), fastRetry, func() (string, error) {
		calls++
		return "ok", nil
	}, alwaysRetry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || calls != 1 {
		t.Errorf("got %q after %d calls, want %q after 1 call", got, calls, "ok")
	}
}

func TestRetryWithBackoffRetriesTransientThenSucceeds(t *testing.T) {
	t.Parallel()

	transient := errors.New("rate limit reached")
	calls := 0
	got, err := apierr.RetryWithBackoff(context.Background(), fastRetry, func() (string, error) {
		calls++
		if calls <= 2 {
			return "", transient
		}
		return "done", nil
	}, apierr.IsTransient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "done" {
		t.Errorf("got %q, want %q", got, "done")
	}
	if calls != 3 {
		t.Errorf("fn called %d times, want 3", calls)
	}
}

func TestRetryWithBackoffStopsOnPermanentError(t *testing.T) {
	t.Parallel()

	permanent := errors.New("invalid request")
	calls := 0
	_, err := apierr.RetryWithBackoff(context.Background(), fastRetry, func() (int, error) {
		calls++
		return 0, permanent
	}, apierr.IsTransient)
	if !errors.Is(err, permanent) {
		t.Fatalf("got %v, want %v", err, permanent)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestRetryWithBackoffExhaustsRetries(t *testing.T) {
	t.Parallel()

	transient := errors.New("connection refused")
	calls := 0
	_, err := apierr.RetryWithBackoff(context.Background(), fastRetry, func() (int, error) {
		calls++
		return 0, transient
	}, alwaysRetry)
	if !errors.Is(err, transient) {
		t.Fatalf("got %v, want wrapped %v", err, transient)
	}
	if !strings.Contains(err.Error(), "max retries") {
		t.Errorf("error %q should mention retry exhaustion", err)
	}
	if calls != fastRetry.MaxRetries+1 {
		t.Errorf("fn called %d times, want %d", calls, fastRetry.MaxRetries+1)
	}
}

func TestRetryWithBackoffHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := apierr.RetryWithBackoff(ctx, apierr.RetryConfig{
		MaxRetries: 5,
		BaseDelay:  50 * time.Millisecond,
	}, func() (int, error) {
		calls++
		cancel()
		return 0, errors.New("timeout")
	}, alwaysRetry)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}
