package cli

import (
	"reflect"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestNewFlags(t *testing.T) {
	flags := NewFlags()

	// Test default values
	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Interval", flags.Interval, 2},
		{"Format", flags.Format, "txt"},
		{"Provider", flags.Provider, "marytts"},
		{"ServiceURL", flags.ServiceURL, "http://mary.dfki.de:59125/process"},
		{"Timeout", flags.Timeout, 60 * time.Second},
		{"OpenAIModel", flags.OpenAIModel, "gpt-4o-mini"},
		{"GeminiModel", flags.GeminiModel, "gemini-2.5-flash"},
		{"DictLocale", flags.DictLocale, "en_US"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !reflect.DeepEqual(tt.got, tt.expected) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.expected)
			}
		})
	}

	// Test boolean defaults (should be false)
	boolTests := []struct {
		name  string
		value bool
	}{
		{"Verbose", flags.Verbose},
		{"Quiet", flags.Quiet},
		{"Dir", flags.Dir},
		{"Batch", flags.Batch},
		{"FailFast", flags.FailFast},
		{"Archive", flags.Archive},
		{"CacheEnabled", flags.CacheEnabled},
		{"StoreDictionary", flags.StoreDictionary},
	}

	for _, tt := range boolTests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != false {
				t.Errorf("%s = %v, want false", tt.name, tt.value)
			}
		})
	}
}

func TestOutputExt(t *testing.T) {
	tests := []struct {
		format string
		ext    string
		want   string
	}{
		{FormatText, "", ".txt"},
		{FormatXML, "", ".xml"},
		{FormatDictionary, "", ".dict"},
		{FormatXML, ".maryxml", ".maryxml"},
	}

	for _, tt := range tests {
		t.Run(tt.format+tt.ext, func(t *testing.T) {
			flags := &Flags{Format: tt.format, Ext: tt.ext}
			if got := flags.OutputExt(); got != tt.want {
				t.Errorf("OutputExt() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIntervalDuration(t *testing.T) {
	flags := &Flags{Interval: 3}
	if got := flags.IntervalDuration(); got != 3*time.Second {
		t.Errorf("IntervalDuration() = %v, want 3s", got)
	}
}

func TestLoadFromViper(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("batch.interval", 7)
	viper.Set("output.format", "xml")
	viper.Set("service.provider", "openai")
	viper.Set("service.timeout", "15s")
	viper.Set("cache.enabled", true)
	viper.Set("cache.path", "/tmp/p.db")

	flags := NewFlags()
	flags.LoadFromViper()

	if flags.Interval != 7 {
		t.Errorf("Interval = %d, want 7", flags.Interval)
	}
	if flags.Format != "xml" {
		t.Errorf("Format = %s, want xml", flags.Format)
	}
	if flags.Provider != "openai" {
		t.Errorf("Provider = %s, want openai", flags.Provider)
	}
	if flags.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want 15s", flags.Timeout)
	}
	if !flags.CacheEnabled {
		t.Error("CacheEnabled = false, want true")
	}
	if flags.DBPath != "/tmp/p.db" {
		t.Errorf("DBPath = %s, want /tmp/p.db", flags.DBPath)
	}
}
