// Package providerapi turns failed HTTP responses from model providers
// into errors the core can classify.
package providerapi

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Decoder extracts the error kind and message from a provider's error body.
// It returns empty strings when the body is not in the provider's format.
type Decoder func(body []byte) (kind, message string)

// Error is a non-2xx response from a provider.
type Error struct {
	Provider   string
	Status     int
	Kind       string
	Message    string
	RetryAfter time.Duration

	// Err is set when the error body could not be read.
	Err error
}

// Error implements error.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("read error body: %v", e.Err)
	}
	if e.Kind != "" {
		return fmt.Sprintf("%s: %s (status %d): %s", e.Provider, e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, msg)
}

// Unwrap exposes domain.ErrRateLimited for 429 responses and any body read error.
func (e *Error) Unwrap() []error {
	var errs []error
	if e.Status == http.StatusTooManyRequests {
		errs = append(errs, domain.ErrRateLimited)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// RetryDelay returns the wait the provider asked for, or zero.
func (e *Error) RetryDelay() time.Duration {
	return e.RetryAfter
}

// Check returns nil for a 2xx response. Otherwise it reads the body
// through decode and returns an *Error. The body is left unread on success.
func Check(provider string, resp *http.Response, decode Decoder) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &Error{
		Provider:   provider,
		Status:     resp.StatusCode,
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		apiErr.Err = err
		return apiErr
	}
	if decode != nil {
		apiErr.Kind, apiErr.Message = decode(body)
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}

// parseRetryAfter accepts both the delay-seconds and HTTP-date forms.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}
