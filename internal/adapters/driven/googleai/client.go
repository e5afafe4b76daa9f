// Package googleai holds the shared client plumbing for the Gemini API
// (generativelanguage v1beta) used by the embedding and LLM adapters.
package googleai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/generativelanguage/v1beta"
	"google.golang.org/api/option"
)

// DefaultBaseURL is the public Gemini API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/"

// Config holds the connection settings shared by Gemini adapters.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// BaseURL overrides the API endpoint.
	BaseURL string
}

// NewService creates a generativelanguage service authenticated by API key.
func NewService(ctx context.Context, cfg Config) (*generativelanguage.Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		endpoint := cfg.BaseURL
		if !strings.HasSuffix(endpoint, "/") {
			endpoint += "/"
		}
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	svc, err := generativelanguage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: create service: %w", err)
	}
	return svc, nil
}

// ModelPath returns the resource name for model ("models/<model>").
func ModelPath(model string) string {
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

// TextContent wraps text as a single-part content with the given role.
func TextContent(role, text string) *generativelanguage.Content {
	return &generativelanguage.Content{
		Role:  role,
		Parts: []*generativelanguage.Part{{Text: text}},
	}
}
