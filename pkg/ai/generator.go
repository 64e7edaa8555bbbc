// Package ai talks to the text-generation backends used by the CV flows.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Generator turns a prompt into a model reply that is expected to hold a
// single JSON value.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// ErrNoJSON is returned when a reply carries nothing that parses as JSON.
var ErrNoJSON = errors.New("model returned non-json content")

// ExtractJSON returns the JSON document inside a model reply. Replies that
// are already valid JSON are returned trimmed; otherwise the outermost
// {...} (or [...]) substring is tried, which recovers replies wrapped in
// markdown fences or commentary.
func ExtractJSON(s string) (string, error) {
	s = strings.TrimSpace(s)
	if json.Valid([]byte(s)) {
		return s, nil
	}
	for _, delim := range [][2]byte{{'{', '}'}, {'[', ']'}} {
		start := strings.IndexByte(s, delim[0])
		end := strings.LastIndexByte(s, delim[1])
		if start >= 0 && end > start {
			if sub := s[start : end+1]; json.Valid([]byte(sub)) {
				return sub, nil
			}
		}
	}
	return "", ErrNoJSON
}

// sleep is swapped out in tests.
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// withRetry calls fn up to attempts times with exponential backoff
// (1s, 2s, 4s...) while retryable reports the error as transient.
func withRetry(ctx context.Context, attempts int, retryable func(error) bool, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		lastErr = fn()
		if lastErr == nil || !retryable(lastErr) {
			return lastErr
		}
		if i < attempts-1 {
			if err := sleep(ctx, time.Duration(1<<i)*time.Second); err != nil {
				return err
			}
		}
	}
	return lastErr
}
