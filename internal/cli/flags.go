package cli

import (
	"time"

	"github.com/spf13/viper"
)

// Output formats
const (
	FormatText       = "txt"
	FormatXML        = "xml"
	FormatDictionary = "dict"
)

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile  string
	Verbose  bool
	Quiet    bool
	Dir      bool
	Batch    bool
	Interval int // seconds between remote calls
	Format   string
	Ext      string
	FailFast bool
	Archive  bool

	// Service flags
	Provider   string
	Fallback   string
	ServiceURL string
	Timeout    time.Duration

	// LLM provider flags
	OpenAIModel string
	GeminiModel string

	// Storage flags
	CacheEnabled    bool
	DBPath          string
	StoreDictionary bool

	// dict command flags
	DictOutput    string
	DictLocale    string
	DictFromStore bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Interval:    2,
		Format:      FormatText,
		Provider:    "marytts",
		ServiceURL:  "http://mary.dfki.de:59125/process",
		Timeout:     60 * time.Second,
		OpenAIModel: "gpt-4o-mini",
		GeminiModel: "gemini-2.5-flash",
		DictLocale:  "en_US",
	}
}

// OutputExt returns the output file extension, defaulting by format
func (f *Flags) OutputExt() string {
	if f.Ext != "" {
		return f.Ext
	}
	switch f.Format {
	case FormatXML:
		return ".xml"
	case FormatDictionary:
		return ".dict"
	default:
		return ".txt"
	}
}

// IntervalDuration returns the pause between remote calls
func (f *Flags) IntervalDuration() time.Duration {
	return time.Duration(f.Interval) * time.Second
}

// LoadFromViper copies values bound to viper keys into f, so that config
// file and environment values apply to flags left at their defaults
func (f *Flags) LoadFromViper() {
	f.Interval = viper.GetInt("batch.interval")
	f.Format = viper.GetString("output.format")
	f.Ext = viper.GetString("output.ext")
	f.Provider = viper.GetString("service.provider")
	f.Fallback = viper.GetString("service.fallback")
	f.ServiceURL = viper.GetString("service.url")
	f.Timeout = viper.GetDuration("service.timeout")
	f.OpenAIModel = viper.GetString("openai.model")
	f.GeminiModel = viper.GetString("gemini.model")
	f.CacheEnabled = viper.GetBool("cache.enabled")
	f.DBPath = viper.GetString("cache.path")
}
