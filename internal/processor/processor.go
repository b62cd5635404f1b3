package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"codeberg.org/snonux/phonetext/internal"
	"codeberg.org/snonux/phonetext/internal/annotator"
	"codeberg.org/snonux/phonetext/internal/archive"
	"codeberg.org/snonux/phonetext/internal/batch"
	"codeberg.org/snonux/phonetext/internal/cli"
	"codeberg.org/snonux/phonetext/internal/maryxml"
	"codeberg.org/snonux/phonetext/internal/store"
)

// Processor handles the main file translation logic
type Processor struct {
	flags    *cli.Flags
	provider annotator.Provider
	store    *store.Store // nil disables caching and dictionary storage
	throttle *batch.Throttle
	runID    string
}

// NewProcessor creates a new processor. st may be nil.
func NewProcessor(flags *cli.Flags, provider annotator.Provider, st *store.Store) *Processor {
	return &Processor{
		flags:    flags,
		provider: provider,
		store:    st,
		throttle: batch.NewThrottle(flags.IntervalDuration()),
		runID:    internal.GenerateRunID(),
	}
}

// Summary counts the outcome of a run
type Summary struct {
	Total     int
	Processed int
	Failed    int
}

// ProcessSingleFile translates one input file into out
func (p *Processor) ProcessSingleFile(ctx context.Context, locale, in, out string) error {
	return p.translateFile(ctx, locale, batch.Job{Input: in, Output: out})
}

// ProcessDirectory translates every file of inDir into outDir
func (p *Processor) ProcessDirectory(ctx context.Context, locale, inDir, outDir string) (Summary, error) {
	jobs, err := batch.PlanDirectory(inDir, outDir, p.flags.OutputExt())
	if err != nil {
		return Summary{}, err
	}

	if p.flags.Archive {
		archived, err := archive.OutputDirectory(outDir, time.Now())
		if err != nil {
			return Summary{}, err
		}
		if archived != "" {
			slog.Info("archived previous output", "path", archived)
		}
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return Summary{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	return p.ProcessJobs(ctx, locale, jobs)
}

// ProcessJobFile translates the files listed in jobFile
func (p *Processor) ProcessJobFile(ctx context.Context, locale, jobFile, outDir string) (Summary, error) {
	jobs, err := batch.ReadJobFile(jobFile, outDir, p.flags.OutputExt())
	if err != nil {
		return Summary{}, err
	}

	return p.ProcessJobs(ctx, locale, jobs)
}

// ProcessJobs translates jobs in order. A failed job is logged and the
// run continues unless FailFast is set.
func (p *Processor) ProcessJobs(ctx context.Context, locale string, jobs []batch.Job) (Summary, error) {
	summary := Summary{Total: len(jobs)}
	slog.Info("starting batch", "run_id", p.runID, "files", len(jobs), "locale", locale,
		"interval", p.throttle.Interval())

	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		slog.Info("processing file", "file", fmt.Sprintf("%d/%d", i+1, len(jobs)), "input", job.Input)

		if err := p.translateFile(ctx, locale, job); err != nil {
			summary.Failed++
			slog.Error("translation failed", "input", job.Input, "err", err)
			if p.flags.FailFast || errors.Is(err, context.Canceled) {
				return summary, err
			}
			continue
		}
		summary.Processed++
	}

	slog.Info("batch finished", "run_id", p.runID, "total", summary.Total,
		"processed", summary.Processed, "failed", summary.Failed)

	if summary.Failed > 0 {
		return summary, fmt.Errorf("%d of %d files failed", summary.Failed, summary.Total)
	}
	return summary, nil
}

func (p *Processor) translateFile(ctx context.Context, locale string, job batch.Job) error {
	text, err := os.ReadFile(job.Input)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	markup, err := p.annotate(ctx, locale, string(text))
	if err != nil {
		return err
	}

	m, err := maryxml.ParseString(markup)
	if err != nil {
		return fmt.Errorf("%s: %w", job.Input, err)
	}

	output, dict, err := p.convert(job.Input, markup, m)
	if err != nil {
		return fmt.Errorf("%s: %w", job.Input, err)
	}

	if err := p.save(ctx, locale, job, output, dict); err != nil {
		return err
	}

	slog.Info("saved translation", "output", job.Output)
	return nil
}

// save writes output and, when dict is set, stores it. The output is
// written inside the dictionary transaction so either both land or neither.
func (p *Processor) save(ctx context.Context, locale string, job batch.Job, output string, dict *maryxml.Dictionary) error {
	write := func() error {
		return writeFileAtomic(job.Output, []byte(output))
	}

	if dict == nil || !p.storeDictionary() {
		return write()
	}

	var writeErr error
	written := false
	err := p.store.SaveDictionary(ctx, locale, p.runID, dict, func() error {
		if writeErr = write(); writeErr != nil {
			return writeErr
		}
		written = true
		return nil
	})
	if err == nil {
		return nil
	}
	if writeErr != nil {
		return writeErr
	}

	if written {
		os.Remove(job.Output)
	}

	var cerr *maryxml.ConsistencyError
	if errors.As(err, &cerr) && p.flags.Format != cli.FormatDictionary {
		slog.Warn("dictionary not stored", "input", job.Input, "err", err)
		return write()
	}

	return fmt.Errorf("%s: failed to store dictionary: %w", job.Input, err)
}

// annotate returns the markup for text, from the cache when possible.
// Only calls that reach the provider are throttled.
func (p *Processor) annotate(ctx context.Context, locale, text string) (string, error) {
	key := store.CacheKey(p.provider.Name(), locale, text)

	if p.cacheEnabled() {
		markup, ok, err := p.store.GetResponse(ctx, key)
		if err != nil {
			slog.Warn("response cache lookup failed", "err", err)
		} else if ok {
			slog.Debug("response cache hit", "key", key[:12])
			return markup, nil
		}
	}

	if d := p.throttle.Delay(); d > 0 {
		slog.Info("sleeping", "duration", d.Round(time.Millisecond))
	}
	if err := p.throttle.Wait(ctx); err != nil {
		return "", err
	}

	markup, err := p.provider.Annotate(ctx, text, locale)
	p.throttle.Done()
	if err != nil {
		return "", fmt.Errorf("annotation failed: %w", err)
	}

	// Error payloads are not cached.
	if p.cacheEnabled() {
		if _, perr := maryxml.ParseString(markup); perr == nil {
			if err := p.store.PutResponse(ctx, key, p.provider.Name(), locale, markup); err != nil {
				slog.Warn("failed to cache response", "err", err)
			}
		}
	}

	return markup, nil
}

func (p *Processor) cacheEnabled() bool {
	return p.store != nil && p.flags.CacheEnabled
}

func (p *Processor) storeDictionary() bool {
	return p.store != nil && p.flags.StoreDictionary
}

// convert renders the parsed markup m in the configured output format. The
// returned dictionary is nil unless it is needed and consistent; a conflict
// fails only the dictionary format.
func (p *Processor) convert(input, markup string, m *maryxml.Markup) (string, *maryxml.Dictionary, error) {
	doc := maryxml.Traverse(m)

	var dict *maryxml.Dictionary
	if p.flags.Format == cli.FormatDictionary || p.storeDictionary() {
		var err error
		dict, err = maryxml.BuildDictionary(doc)
		if err != nil {
			if p.flags.Format == cli.FormatDictionary {
				return "", nil, err
			}
			slog.Warn("dictionary not stored", "input", input, "err", err)
		}
	}

	switch p.flags.Format {
	case cli.FormatXML:
		return markup, dict, nil
	case cli.FormatDictionary:
		return FormatDictionary(dict), dict, nil
	default:
		return maryxml.Render(doc), dict, nil
	}
}
