package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/phonetext/internal"
	"codeberg.org/snonux/phonetext/internal/annotator"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "phonetext <in> <out> <locale>",
		Short: "Phonetic transcription of text files via MaryTTS",
		Long: `phonetext translates text files into phonemes using a MaryTTS server.

Each token of the input is replaced with its pronunciation. Tokens are
separated by a single space, sentences by a newline and paragraphs by a
blank line. The raw MaryXML response or a word to pronunciation
dictionary can be written instead.

Locales: en_US ((US) English), fr (French), de (German)

Examples:
  phonetext story.txt story.ph.txt en_US        # Translate one file
  phonetext -d texts/ phonemes/ de -i 5         # Translate a directory, 5s apart
  phonetext -f xml story.txt story.xml en_US    # Keep the MaryXML response
  phonetext -b jobs.txt out/ fr                 # Translate files listed in jobs.txt
  phonetext -d --archive texts/ phonemes/ fr    # Archive previous output first
  phonetext dict responses/                     # Build a dictionary from MaryXML files`,
		Args:    cobra.ExactArgs(3),
		Version: internal.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			SetupLogging(cmd.ErrOrStderr(), flags.Verbose, flags.Quiet)
		},
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

// DefaultDBPath returns the default location of the cache database
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "phonetext", "phonetext.db")
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.phonetext.yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "verbose logging")
	cmd.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-error output")
	cmd.PersistentFlags().StringVar(&flags.DBPath, "db", DefaultDBPath(), "SQLite database for the response cache and dictionaries")

	// Local flags
	cmd.Flags().BoolVarP(&flags.Dir, "dir", "d", false, "input and output correspond to directories")
	cmd.Flags().BoolVarP(&flags.Batch, "batch", "b", false, "input is a job list file, output is the default output directory")
	cmd.Flags().IntVarP(&flags.Interval, "interval", "i", flags.Interval, "interval (seconds) between translation of files")
	cmd.Flags().StringVarP(&flags.Format, "format", "f", flags.Format, "format of output ('txt', 'xml' or 'dict')")
	cmd.Flags().StringVarP(&flags.Ext, "ext", "x", "", "file extension for output files (default by format: .txt, .xml, .dict)")
	cmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "stop at the first file that fails")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "with --dir, move existing output to a timestamped archive first")
	cmd.Flags().BoolVar(&flags.CacheEnabled, "cache", false, "cache service responses in the database")
	cmd.Flags().BoolVar(&flags.StoreDictionary, "store-dict", false, "store each document's dictionary in the database")

	// Service flags
	cmd.Flags().StringVar(&flags.Provider, "provider", flags.Provider, "annotation provider: marytts, openai or gemini")
	cmd.Flags().StringVar(&flags.Fallback, "fallback", "", "fallback provider when the primary fails (openai or gemini)")
	cmd.Flags().StringVar(&flags.ServiceURL, "service-url", flags.ServiceURL, "MaryTTS process endpoint")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "timeout of one service request")
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model for the openai provider")
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini model for the gemini provider")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("batch.interval", cmd.Flags().Lookup("interval"))
	viper.BindPFlag("output.format", cmd.Flags().Lookup("format"))
	viper.BindPFlag("output.ext", cmd.Flags().Lookup("ext"))
	viper.BindPFlag("service.provider", cmd.Flags().Lookup("provider"))
	viper.BindPFlag("service.fallback", cmd.Flags().Lookup("fallback"))
	viper.BindPFlag("service.url", cmd.Flags().Lookup("service-url"))
	viper.BindPFlag("service.timeout", cmd.Flags().Lookup("timeout"))
	viper.BindPFlag("openai.model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("gemini.model", cmd.Flags().Lookup("gemini-model"))
	viper.BindPFlag("cache.enabled", cmd.Flags().Lookup("cache"))
	viper.BindPFlag("cache.path", cmd.PersistentFlags().Lookup("db"))
}

// CreateLocalesCommand creates the command listing supported locales
func CreateLocalesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locales",
		Short: "List supported locales",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, locale := range annotator.Locales() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-6s %s\n", locale, annotator.LocaleName(locale))
			}
			return nil
		},
	}
}

// CreateModelsCommand creates the command listing OpenAI chat models
func CreateModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List OpenAI chat models usable with --provider openai",
		Args:  cobra.NoArgs,
	}
}

// CreateDictCommand creates the command building a dictionary from MaryXML files
func CreateDictCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict <xml file or directory>...",
		Short: "Build a pronunciation dictionary from MaryXML files",
		Long: `dict extracts the word to pronunciation dictionary of MaryXML files.

A word annotated with two different pronunciations, within one file or
across files, is an error. Directories contribute their non-hidden .xml
files in name order. With --stored the dictionary starts from the entries
stored for --locale, and no files are needed.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if flags.DictFromStore {
				return nil
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
	}

	cmd.Flags().StringVarP(&flags.DictOutput, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&flags.DictLocale, "locale", flags.DictLocale, "locale the entries are stored under with --store-dict")
	cmd.Flags().BoolVar(&flags.StoreDictionary, "store-dict", false, "store the dictionary in the database")
	cmd.Flags().BoolVar(&flags.DictFromStore, "stored", false, "start from the dictionary stored for --locale")

	return cmd
}

// ValidateFlags checks flag combinations after configuration is loaded
func ValidateFlags(flags *Flags) error {
	switch flags.Format {
	case FormatText, FormatXML, FormatDictionary:
	default:
		return fmt.Errorf("format must be one of 'txt', 'xml' or 'dict', got %q", flags.Format)
	}

	if flags.Dir && flags.Batch {
		return errors.New("--dir and --batch are mutually exclusive")
	}

	if flags.Archive && !flags.Dir {
		return errors.New("--archive requires --dir")
	}

	if flags.Interval < 0 {
		return fmt.Errorf("interval must not be negative, got %d", flags.Interval)
	}

	return nil
}

// Initialize sets up logging on w and then loads the configuration, so
// config loading messages honour --verbose and --quiet
func Initialize(w io.Writer, flags *Flags) {
	SetupLogging(w, flags.Verbose, flags.Quiet)
	InitConfig(flags.CfgFile)
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// Load .env from the working directory if present
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "err", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".phonetext" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".phonetext")
	}

	// Environment variables
	viper.SetEnvPrefix("PHONETEXT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("openai.key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("gemini.key")
}

// AnnotatorConfig builds the provider configuration from flags
func AnnotatorConfig(flags *Flags) *annotator.Config {
	return &annotator.Config{
		Provider:      flags.Provider,
		Fallback:      flags.Fallback,
		ServiceURL:    flags.ServiceURL,
		Timeout:       flags.Timeout,
		OpenAIKey:     GetOpenAIKey(),
		OpenAIModel:   flags.OpenAIModel,
		OpenAIBaseURL: viper.GetString("openai.base_url"),
		GeminiKey:     GetGeminiKey(),
		GeminiModel:   flags.GeminiModel,
		GeminiBaseURL: viper.GetString("gemini.base_url"),
	}
}
