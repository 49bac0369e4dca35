package calendar

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"

	"sso-concerts/lib/fileutil"
	"sso-concerts/lib/season"
	"sso-concerts/lib/timezone"

	"github.com/jszwec/csvutil"
)

type keyRow struct {
	Key string `csv:"key"`
}

func KeysFileName(prefix string, year int) string {
	y := strconv.Itoa(year)
	return filepath.Join(y, fmt.Sprintf("%s_%s_keys.csv", prefix, y))
}

// ExportKeys writes the sorted keys as a single headerless column. A file
// already at path is kept as <name>.<YYYYMMDD>.csv, a second export on the
// same day overwrites that backup.
func ExportKeys(rec Record, path string) error {
	keys := rec.SortedKeys()
	rows := make([]keyRow, len(keys))
	for i, k := range keys {
		rows[i] = keyRow{Key: k}
	}

	return fileutil.WriteReplacing(path, timezone.Now(), func(w io.Writer) error {
		cw := csv.NewWriter(w)
		enc := csvutil.NewEncoder(cw)
		enc.AutoHeader = false
		err := enc.Encode(rows)
		if err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	})
}

type Options struct {
	Years     []int
	DataDir   string
	CSVPrefix string
}

type YearResult struct {
	Year int
	Keys int
	File string
	Err  error
}

// ExtractAll runs extraction and export for every requested season. The
// year list is validated up front, after that a failing season is logged
// and the rest carry on.
func ExtractAll(ctx context.Context, opts Options) ([]YearResult, error) {
	ctx, span := tracer.Start(ctx, "ExtractAll")
	defer span.End()

	err := season.ValidateYears(opts.Years)
	if err != nil {
		return nil, err
	}

	var results []YearResult
	for _, year := range opts.Years {
		res := YearResult{Year: year}
		rec, err := Extract(ctx, opts.DataDir, year)
		if err != nil {
			slog.ErrorContext(ctx, "failed to extract concert keys", "year", year, "err", err)
			res.Err = err
			results = append(results, res)
			continue
		}
		res.Keys = len(rec.Keys)
		if res.Keys == 0 {
			slog.WarnContext(ctx, "no concert keys found, nothing to export", "year", year)
			results = append(results, res)
			continue
		}

		res.File = filepath.Join(opts.DataDir, KeysFileName(opts.CSVPrefix, year))
		err = ExportKeys(rec, res.File)
		if err != nil {
			slog.ErrorContext(ctx, "failed to export concert keys", "year", year, "file", res.File, "err", err)
			res.Err = err
			res.File = ""
		} else {
			slog.InfoContext(ctx, "exported concert keys", "year", year, "keys", res.Keys, "file", res.File)
		}
		results = append(results, res)
	}
	return results, nil
}
