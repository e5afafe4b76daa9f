package googleai

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
)

// Common Gemini API errors.
var (
	// ErrUnauthorized indicates an invalid or missing API key.
	ErrUnauthorized = errors.New("gemini: unauthorised (invalid API key)")

	// ErrModelNotFound indicates the configured model does not exist.
	ErrModelNotFound = errors.New("gemini: model not found")
)

// IsRateLimited returns true if the error is a quota or rate limit response.
func IsRateLimited(err error) bool {
	if errors.Is(err, domain.ErrRateLimited) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests
	}
	return false
}

// WrapError maps Gemini API failures onto package and domain errors.
// Errors that are not API responses are returned unchanged.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	switch gerr.Code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, gerr.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrModelNotFound, gerr.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("gemini: %w: %s", domain.ErrRateLimited, gerr.Message)
	default:
		return fmt.Errorf("gemini: %w", err)
	}
}
