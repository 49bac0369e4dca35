package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"sso-concerts/lib/htmlutil"
	"sso-concerts/lib/season"
	"sso-concerts/services/htmlstore"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("ssoconcerts.services.importer")

var ErrNoRecords = errors.New("concert record list is empty")

func EventsDir(dataDir string, year int) string {
	return filepath.Join(dataDir, strconv.Itoa(year), "events")
}

// KeyFromFile turns events/some-key.html into some-key.
func KeyFromFile(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i >= 0 {
		return base[:i]
	}
	return base
}

// ImportYear loads concert detail pages for a season. With no keys every
// *.html file in the events directory is loaded in name order, otherwise
// exactly <key>.html for each key. Any file that fails to load fails the
// whole year so a partial season is never handed to the store.
func ImportYear(ctx context.Context, dataDir string, year int, keys []string) ([]htmlstore.Record, error) {
	ctx, span := tracer.Start(ctx, "ImportYear")
	defer span.End()
	span.SetAttributes(attribute.Int("year", year))

	records, err := importYear(ctx, dataDir, year, keys)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("records", len(records)))
	return records, nil
}

func importYear(ctx context.Context, dataDir string, year int, keys []string) ([]htmlstore.Record, error) {
	eventsDir := EventsDir(dataDir, year)
	info, err := os.Stat(eventsDir)
	if err != nil {
		return nil, fmt.Errorf("[%d] events directory does not exist: %w", year, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("[%d] events path is not a directory: %s", year, eventsDir)
	}

	var files []string
	if len(keys) > 0 {
		for _, k := range keys {
			files = append(files, filepath.Join(eventsDir, k+".html"))
		}
	} else {
		files, err = filepath.Glob(filepath.Join(eventsDir, "*.html"))
		if err != nil {
			return nil, err
		}
		slices.Sort(files)
	}
	slog.InfoContext(ctx, "requested html files", "year", year, "count", len(files))

	records := make([]htmlstore.Record, 0, len(files))
	for i, f := range files {
		slog.DebugContext(ctx, "loading concert page", "year", year, "n", i+1, "file", f)
		content, err := loadConcertHTML(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("[%d] %w", year, err)
		}
		records = append(records, htmlstore.Record{
			Year:        year,
			Key:         KeyFromFile(f),
			HTMLContent: content,
		})
	}
	return records, nil
}

// loadConcertHTML parses a page and returns its serialized <html> element.
func loadConcertHTML(ctx context.Context, path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(string(raw)) == "" {
		return "", fmt.Errorf("%s has no html content", path)
	}

	doc, err := htmlutil.ReadDocument(ctx, path)
	if err != nil {
		return "", err
	}
	root := doc.Find("html").First()
	content, err := goquery.OuterHtml(root)
	if err != nil {
		return "", fmt.Errorf("failed to serialize %s: %w", path, err)
	}
	return content, nil
}

type Options struct {
	Years    []int
	Keys     []string
	DataDir  string
	DBPrefix string
	// overrides the name derived from DBPrefix and the year range
	DBFile string
	Append bool
	DryRun bool
}

type Result struct {
	DBName  string
	Records []htmlstore.Record
	DryRun  bool
}

// Pairs lists the imported records as year|key strings.
func (r Result) Pairs() []string {
	out := make([]string, len(r.Records))
	for i, rec := range r.Records {
		out[i] = fmt.Sprintf("%d|%s", rec.Year, rec.Key)
	}
	return out
}

// Run validates the request, loads every requested season and only then
// writes to the store. A dry run stops before opening the store.
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
	err := season.ValidateYears(opts.Years)
	if err != nil {
		return Result{}, err
	}

	var dbName string
	if opts.DBFile != "" {
		dbName = opts.DBFile
		err = htmlstore.CheckTarget(dbName, opts.Append)
	} else {
		dbName, err = htmlstore.ResolveName(slices.Min(opts.Years), slices.Max(opts.Years), opts.DBPrefix, opts.Append)
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to set the db name: %w", err)
	}

	res := Result{DBName: dbName, DryRun: opts.DryRun}
	for _, year := range opts.Years {
		records, err := ImportYear(ctx, opts.DataDir, year, opts.Keys)
		if err != nil {
			return Result{}, fmt.Errorf("failed to import concert html files: %w", err)
		}
		res.Records = append(res.Records, records...)
	}
	if len(res.Records) == 0 {
		return Result{}, ErrNoRecords
	}

	if opts.DryRun {
		slog.InfoContext(ctx, "[DRY RUN] would have exported concert html records", "count", len(res.Records), "db", dbName)
		return res, nil
	}

	store, err := htmlstore.Open(dbName)
	if err != nil {
		return Result{}, err
	}
	defer store.Close()

	err = store.Import(ctx, res.Records, opts.Append)
	if err != nil {
		return Result{}, fmt.Errorf("failed to export concert html content to %s: %w", dbName, err)
	}
	slog.InfoContext(ctx, "exported html content", "db", dbName, "records", len(res.Records))
	return res, nil
}
