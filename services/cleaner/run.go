package cleaner

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"sso-concerts/services/concerts"
	"sso-concerts/services/snapshot"

	"go.opentelemetry.io/otel/codes"
)

type Options struct {
	// raw parquet snapshot written by the parse stage
	In          string
	OutputDir   string
	OutPrefix   string
	ComposerMap string
	// empty uses the built in corrections
	Corrections string
	XLSX        bool
}

type Result struct {
	In       int
	Out      int
	Paths    snapshot.Paths
	Unmapped []string
	Aliases  []Alias
}

// loadCleaned returns the cleaned concerts and the number of raw rows read.
func loadCleaned(ctx context.Context, in, correctionsPath string) ([]concerts.Concert, int, error) {
	raw, err := snapshot.ReadParquet(in)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load raw concerts: %w", err)
	}
	corr, err := LoadCorrections(correctionsPath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load corrections: %w", err)
	}
	slog.InfoContext(ctx, "loaded raw concerts", "file", in, "rows", len(raw))
	return Clean(ctx, raw, corr), len(raw), nil
}

// Run cleans a raw snapshot, normalizes composer names and writes the
// cleaned snapshot files.
func Run(ctx context.Context, opts Options) (Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	res, err := run(ctx, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return res, err
}

func run(ctx context.Context, opts Options) (Result, error) {
	cleaned, rawRows, err := loadCleaned(ctx, opts.In, opts.Corrections)
	if err != nil {
		return Result{}, err
	}

	names, err := LoadNameMap(opts.ComposerMap)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load composer name map (generate one with composer-template): %w", err)
	}
	res := Result{
		In:       rawRows,
		Unmapped: names.Unmapped(cleaned),
	}
	cleaned = names.Apply(cleaned)
	res.Out = len(cleaned)

	if len(res.Unmapped) > 0 {
		res.Aliases = SuggestAliases(res.Unmapped, names.Names())
		slog.WarnContext(ctx, "composers missing from the name map", "count", len(res.Unmapped))
		for _, a := range res.Aliases {
			slog.InfoContext(ctx, "possible composer alias",
				"composer", a.Composer, "suggested", a.Suggested, "correlation", a.Correlation)
		}
	}

	res.Paths, err = snapshot.WritePair(ctx, opts.OutputDir, opts.OutPrefix, cleaned)
	if err != nil {
		return Result{}, err
	}
	if opts.XLSX {
		res.Paths.XLSX = filepath.Join(opts.OutputDir, opts.OutPrefix+".xlsx")
		err = snapshot.WriteXLSX(res.Paths.XLSX, cleaned)
		if err != nil {
			return Result{}, fmt.Errorf("failed to write %s: %w", res.Paths.XLSX, err)
		}
	}
	return res, nil
}

// RunTemplate writes a fresh composer name map template from the cleaned
// concerts and returns the number of composers in it.
func RunTemplate(ctx context.Context, in, out, correctionsPath string) (int, error) {
	ctx, span := tracer.Start(ctx, "RunTemplate")
	defer span.End()

	cleaned, _, err := loadCleaned(ctx, in, correctionsPath)
	if err != nil {
		return 0, err
	}
	entries := GenerateTemplate(cleaned)
	err = WriteTemplate(out, entries)
	if err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", out, err)
	}
	slog.InfoContext(ctx, "wrote composer name map template", "file", out, "composers", len(entries))
	return len(entries), nil
}
