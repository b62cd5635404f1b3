package annotator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// DefaultServiceURL is the public MaryTTS process endpoint.
const DefaultServiceURL = "http://mary.dfki.de:59125/process"

const (
	maxErrorBodyBytes = 512
	breakerTrips      = 3
)

// ServiceError is a non-2xx reply from the annotation service.
type ServiceError struct {
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("annotation service returned %d: %s", e.StatusCode, e.Body)
}

// MaryProvider posts text to a MaryTTS server and returns its PHONEMES output
type MaryProvider struct {
	serviceURL string
	client     *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewMaryProvider creates a new MaryTTS provider
func NewMaryProvider(config *Config) (*MaryProvider, error) {
	serviceURL := config.ServiceURL
	if serviceURL == "" {
		serviceURL = DefaultServiceURL
	}
	if _, err := url.ParseRequestURI(serviceURL); err != nil {
		return nil, fmt.Errorf("invalid service URL %q: %w", serviceURL, err)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultConfig().Timeout
	}

	return &MaryProvider{
		serviceURL: serviceURL,
		client:     &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    ProviderMaryTTS,
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= breakerTrips
			},
			// Client errors say nothing about server health.
			IsSuccessful: func(err error) bool {
				var serr *ServiceError
				if errors.As(err, &serr) {
					return serr.StatusCode < 500
				}
				return err == nil || errors.Is(err, context.Canceled)
			},
		}),
	}, nil
}

// Annotate posts text to the service. The response body is returned as is.
func (p *MaryProvider) Annotate(ctx context.Context, text, locale string) (string, error) {
	if err := ValidateLocale(locale); err != nil {
		return "", err
	}

	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.post(ctx, text, locale)
	})
	if err != nil {
		return "", fmt.Errorf("MaryTTS request failed: %w", err)
	}

	return result.(string), nil
}

func (p *MaryProvider) post(ctx context.Context, text, locale string) (string, error) {
	form := url.Values{
		"INPUT_TYPE":  {"TEXT"},
		"OUTPUT_TYPE": {"PHONEMES"},
		"INPUT_TEXT":  {text},
		"LOCALE":      {locale},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.serviceURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/plain")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt := strings.TrimSpace(string(body))
		if len(excerpt) > maxErrorBodyBytes {
			excerpt = excerpt[:maxErrorBodyBytes]
		}
		return "", &ServiceError{StatusCode: resp.StatusCode, Body: excerpt}
	}

	return string(body), nil
}

// Name returns the provider name
func (p *MaryProvider) Name() string {
	return ProviderMaryTTS
}

// IsAvailable reports whether the circuit breaker currently allows requests
func (p *MaryProvider) IsAvailable() error {
	if p.breaker.State() == gobreaker.StateOpen {
		return fmt.Errorf("MaryTTS circuit breaker is open: %w", gobreaker.ErrOpenState)
	}
	return nil
}
