package processor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/phonetext/internal"
	"codeberg.org/snonux/phonetext/internal/cli"
	"codeberg.org/snonux/phonetext/internal/maryxml"
	"codeberg.org/snonux/phonetext/internal/store"
)

// CollectMarkupFiles expands paths into MaryXML files. Files are taken as
// given; directories contribute their non-hidden .xml files in name order.
func CollectMarkupFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory: %w", err)
		}
		var dirFiles []string
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || internal.IsHidden(name) || !strings.EqualFold(filepath.Ext(name), ".xml") {
				continue
			}
			dirFiles = append(dirFiles, filepath.Join(path, name))
		}
		sort.Strings(dirFiles)
		files = append(files, dirFiles...)
	}
	return files, nil
}

// BuildDictionary parses files in parallel and merges their dictionaries
// in file order. Conflicts within or across files fail the whole build.
func BuildDictionary(ctx context.Context, files []string) (*maryxml.Dictionary, error) {
	dicts := make([]*maryxml.Dictionary, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			dict, err := maryxml.BuildDictionaryFile(file)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			dicts[i] = dict
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := maryxml.NewDictionary()
	for i, dict := range dicts {
		if err := merged.Merge(dict); err != nil {
			return nil, fmt.Errorf("%s: %w", files[i], err)
		}
	}

	return merged, nil
}

// RunDictionary builds the dictionary of the MaryXML files under paths,
// writes it to w and optionally stores it in st. With DictFromStore the
// stored entries for DictLocale come first and the files must agree with them.
func RunDictionary(ctx context.Context, flags *cli.Flags, st *store.Store, paths []string, w io.Writer) error {
	if flags.DictFromStore && st == nil {
		return fmt.Errorf("--stored needs the database")
	}

	files, err := CollectMarkupFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 && !flags.DictFromStore {
		return fmt.Errorf("no MaryXML files found")
	}

	dict := maryxml.NewDictionary()
	if flags.DictFromStore {
		if dict, err = st.LoadDictionary(ctx, flags.DictLocale); err != nil {
			return err
		}
		slog.Info("loaded stored dictionary", "locale", flags.DictLocale, "words", dict.Len())
	}

	if len(files) > 0 {
		slog.Info("building dictionary", "files", len(files))
		built, err := BuildDictionary(ctx, files)
		if err != nil {
			return err
		}
		if err := dict.Merge(built); err != nil {
			return fmt.Errorf("stored %s dictionary: %w", flags.DictLocale, err)
		}
	}

	if flags.StoreDictionary && st != nil {
		if err := st.SaveDictionary(ctx, flags.DictLocale, internal.GenerateRunID(), dict, nil); err != nil {
			return fmt.Errorf("failed to store dictionary: %w", err)
		}
		slog.Info("stored dictionary", "locale", flags.DictLocale, "words", dict.Len())
	}

	if _, err := io.WriteString(w, FormatDictionary(dict)); err != nil {
		return fmt.Errorf("failed to write dictionary: %w", err)
	}

	slog.Info("dictionary written", "words", dict.Len())
	return nil
}
