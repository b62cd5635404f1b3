package annotator

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Provider defines the interface for phoneme annotation services
type Provider interface {
	// Annotate returns the MaryXML phoneme markup for text in locale
	Annotate(ctx context.Context, text, locale string) (string, error)

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured
	IsAvailable() error
}

// Config holds configuration for annotation providers
type Config struct {
	Provider string // "marytts", "openai" or "gemini"
	Fallback string // optional fallback provider

	// MaryTTS settings
	ServiceURL string
	Timeout    time.Duration

	// OpenAI settings
	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string // empty uses the public API

	// Gemini settings
	GeminiKey     string
	GeminiModel   string
	GeminiBaseURL string
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:    ProviderMaryTTS,
		ServiceURL:  DefaultServiceURL,
		Timeout:     60 * time.Second,
		OpenAIModel: "gpt-4o-mini",
		GeminiModel: DefaultGeminiModel,
	}
}

// Provider names
const (
	ProviderMaryTTS = "marytts"
	ProviderOpenAI  = "openai"
	ProviderGemini  = "gemini"
)

// NewProvider creates the configured provider, wrapped with its fallback
// when one is configured
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultConfig()
	}

	primary, err := newSingleProvider(config.Provider, config)
	if err != nil {
		return nil, err
	}

	if config.Fallback == "" || config.Fallback == config.Provider {
		return primary, nil
	}

	fallback, err := newSingleProvider(config.Fallback, config)
	if err != nil {
		return nil, fmt.Errorf("fallback provider: %w", err)
	}

	return NewProviderWithFallback(primary, fallback), nil
}

func newSingleProvider(name string, config *Config) (Provider, error) {
	switch name {
	case ProviderMaryTTS:
		p, err := NewMaryProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil
	case ProviderOpenAI:
		p, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil
	case ProviderGemini:
		p, err := NewGeminiProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown annotation provider: %s", name)
	}
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider) Provider {
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// Annotate tries the primary provider first, falls back to secondary on
// error. An unavailable primary is not called at all.
func (p *ProviderWithFallback) Annotate(ctx context.Context, text, locale string) (string, error) {
	if err := p.primary.IsAvailable(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		slog.Warn("primary provider unavailable, using fallback",
			"primary", p.primary.Name(),
			"fallback", p.fallback.Name(),
			"err", err)
		return p.fallback.Annotate(ctx, text, locale)
	}

	markup, err := p.primary.Annotate(ctx, text, locale)
	if err == nil {
		return markup, nil
	}
	if ctx.Err() != nil {
		return "", err
	}

	slog.Warn("primary provider failed, falling back",
		"primary", p.primary.Name(),
		"fallback", p.fallback.Name(),
		"err", err)

	return p.fallback.Annotate(ctx, text, locale)
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
