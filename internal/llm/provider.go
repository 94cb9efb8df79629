// Package llm talks to the text-generation services that propose dorks.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/0x6d61/dorkgen/internal/config"
	"github.com/0x6d61/dorkgen/internal/transport"
)

// Provider turns a prompt into freeform text.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// ServiceName returns the credential name a user saves the key under for
// the configured provider.
func ServiceName(provider string) string {
	switch strings.ToLower(provider) {
	case config.ProviderOpenAI:
		return "OpenAI"
	default:
		return "Gemini"
	}
}

// New builds the configured provider, wrapped with retries when
// cfg.MaxRetries is positive. apiKey overrides cfg.APIKey when non-empty.
func New(cfg config.LLMConfig, apiKey string, client transport.Client) (Provider, error) {
	if apiKey == "" {
		apiKey = cfg.APIKey
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("llm: no API key for %s (save one under %q or set llm.api_key)", cfg.Provider, ServiceName(cfg.Provider))
	}

	var p Provider
	switch strings.ToLower(cfg.Provider) {
	case config.ProviderGoogle:
		p = NewGoogle(client, cfg.BaseURL, apiKey, cfg.Model)
	case config.ProviderOpenAI:
		p = NewOpenAI(client, cfg.BaseURL, apiKey, cfg.Model)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}

	if cfg.MaxRetries > 0 {
		return WithRetry(p, cfg.MaxRetries), nil
	}
	return p, nil
}
