package testutil

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"sync"
)

// MockProvider mocks an annotation provider. Unless a response or error
// is registered for a text, it answers with FakeMaryXML(text).
type MockProvider struct {
	ProviderName string
	Responses    map[string]string
	Errors       map[string]error

	mu    sync.Mutex
	calls []string
}

// NewMockProvider creates a mock provider named "mock"
func NewMockProvider() *MockProvider {
	return &MockProvider{
		ProviderName: "mock",
		Responses:    make(map[string]string),
		Errors:       make(map[string]error),
	}
}

// Annotate records the call and returns the registered or fake markup
func (m *MockProvider) Annotate(ctx context.Context, text, locale string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, fmt.Sprintf("%s: %s", locale, text))
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err, ok := m.Errors[text]; ok {
		return "", err
	}
	if markup, ok := m.Responses[text]; ok {
		return markup, nil
	}
	return FakeMaryXML(text), nil
}

// Name returns the provider name
func (m *MockProvider) Name() string {
	return m.ProviderName
}

// IsAvailable always succeeds
func (m *MockProvider) IsAvailable() error {
	return nil
}

// Calls returns the recorded "locale: text" calls
func (m *MockProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// FakeMaryXML builds MaryXML for text: blank lines separate paragraphs,
// lines are sentences and words are tokens pronounced "/word/"
func FakeMaryXML(text string) string {
	var b bytes.Buffer
	b.WriteString(xml.Header)
	b.WriteString("<maryxml version=\"0.5\">\n")

	for _, para := range strings.Split(strings.TrimSpace(text), "\n\n") {
		b.WriteString("<p>\n")
		for _, line := range strings.Split(para, "\n") {
			b.WriteString("<s>")
			for _, word := range strings.Fields(line) {
				b.WriteString(`<t ph="/`)
				xml.EscapeText(&b, []byte(word))
				b.WriteString(`/">`)
				xml.EscapeText(&b, []byte(word))
				b.WriteString("</t>")
			}
			b.WriteString("</s>\n")
		}
		b.WriteString("</p>\n")
	}

	b.WriteString("</maryxml>\n")
	return b.String()
}
