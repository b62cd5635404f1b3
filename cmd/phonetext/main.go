package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/phonetext/internal/annotator"
	"codeberg.org/snonux/phonetext/internal/cli"
	"codeberg.org/snonux/phonetext/internal/models"
	"codeberg.org/snonux/phonetext/internal/processor"
	"codeberg.org/snonux/phonetext/internal/store"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.Initialize(rootCmd.ErrOrStderr(), flags)
	})

	// Set the run functions
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runTranslate(cmd, args, flags)
	}

	dictCmd := cli.CreateDictCommand(flags)
	dictCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runDictionary(cmd, args, flags)
	}

	modelsCmd := cli.CreateModelsCommand()
	modelsCmd.RunE = func(cmd *cobra.Command, args []string) error {
		lister := models.NewLister(cli.GetOpenAIKey(), viper.GetString("openai.base_url"))
		return lister.Print(cmd.Context(), cmd.OutOrStdout(), viper.GetString("openai.model"))
	}

	rootCmd.AddCommand(cli.CreateLocalesCommand(), dictCmd, modelsCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runTranslate(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	inPath, outPath, locale := args[0], args[1], args[2]

	flags.LoadFromViper()
	if err := cli.ValidateFlags(flags); err != nil {
		return err
	}
	if err := annotator.ValidateLocale(locale); err != nil {
		return fmt.Errorf("%w (run with -h for more info)", err)
	}

	provider, err := annotator.NewProvider(cli.AnnotatorConfig(flags))
	if err != nil {
		return fmt.Errorf("failed to create annotation provider: %w", err)
	}
	slog.Debug("using provider", "provider", provider.Name())

	st, err := openStore(flags, flags.CacheEnabled || flags.StoreDictionary)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	proc := processor.NewProcessor(flags, provider, st)
	ctx := cmd.Context()

	switch {
	case flags.Dir:
		_, err = proc.ProcessDirectory(ctx, locale, inPath, outPath)
	case flags.Batch:
		_, err = proc.ProcessJobFile(ctx, locale, inPath, outPath)
	default:
		slog.Info("translating", "input", inPath)
		err = proc.ProcessSingleFile(ctx, locale, inPath, outPath)
		if err == nil {
			slog.Info("saved translation", "output", outPath)
		}
	}

	return err
}

func runDictionary(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	flags.DBPath = viper.GetString("cache.path")

	st, err := openStore(flags, flags.StoreDictionary || flags.DictFromStore)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	out := cmd.OutOrStdout()
	if flags.DictOutput != "" {
		f, err := os.Create(flags.DictOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	return processor.RunDictionary(cmd.Context(), flags, st, args, out)
}

func openStore(flags *cli.Flags, needed bool) (*store.Store, error) {
	if !needed {
		return nil, nil
	}
	st, err := store.Open(flags.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", flags.DBPath, err)
	}
	return st, nil
}
