package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"
	"strconv"

	"sso-concerts/lib/htmlutil"
	"sso-concerts/lib/season"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("ssoconcerts.services.calendar")

var ErrMissingData = errors.New("calendar json is missing a 'data' key")

// Record holds every concert key found for a season. Keys are only unique
// within a year, the same key can be reused by a later season.
type Record struct {
	Year int
	Keys map[string]struct{}
}

func NewRecord(year int) Record {
	return Record{Year: year, Keys: map[string]struct{}{}}
}

func (r Record) Add(key string) {
	if key != "" {
		r.Keys[key] = struct{}{}
	}
}

func (r Record) SortedKeys() []string {
	return slices.Sorted(maps.Keys(r.Keys))
}

func htmlCalendarPath(dataDir string, year int, month string) string {
	y := strconv.Itoa(year)
	return filepath.Join(dataDir, y, fmt.Sprintf("sso_%s_%s.html", y, month))
}

// ExtractHTML reads the monthly calendar pages of a pre-json season. A month
// that cannot be loaded fails the whole year, a month with no concerts is
// skipped.
func ExtractHTML(ctx context.Context, dataDir string, year int, months []string) (Record, error) {
	ctx, span := tracer.Start(ctx, "ExtractHTML")
	defer span.End()
	span.SetAttributes(attribute.Int("year", year))

	rec, err := extractHTML(ctx, dataDir, year, months)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Record{}, err
	}
	span.SetAttributes(attribute.Int("keys", len(rec.Keys)))
	return rec, nil
}

func extractHTML(ctx context.Context, dataDir string, year int, months []string) (Record, error) {
	err := season.ValidateHTMLCalendarYear(year)
	if err != nil {
		return Record{}, err
	}

	rec := NewRecord(year)
	for _, month := range months {
		path := htmlCalendarPath(dataDir, year, month)
		slog.InfoContext(ctx, "loading calendar", "year", year, "file", path)

		doc, err := htmlutil.ReadDocument(ctx, path)
		if err != nil {
			return Record{}, fmt.Errorf("[%d] calendar html file failed to load: %w", year, err)
		}

		concerts := doc.Find(".reveal.calendar-perf-modal")
		if concerts.Length() == 0 {
			slog.InfoContext(ctx, "no concerts found to extract, skipping", "year", year, "file", path)
			continue
		}

		for i := range concerts.Length() {
			anchors := htmlutil.GetAnchors(ctx, concerts.Eq(i).Find(`a[alt="Read More"]`).First())
			if len(anchors) == 0 || anchors[0].Href == "" {
				return Record{}, fmt.Errorf(
					"[%d] error while parsing calendar html file %s: concert %d has no read more link",
					year, path, i+1,
				)
			}
			rec.Add(htmlutil.LastPathSegment(anchors[0].Href))
		}
	}
	return rec, nil
}

// ExtractJSON reads the single calendar json file of a season, keeping only
// the entries whose concertSeason mentions the year.
func ExtractJSON(ctx context.Context, dataDir string, year int) (Record, error) {
	ctx, span := tracer.Start(ctx, "ExtractJSON")
	defer span.End()
	span.SetAttributes(attribute.Int("year", year))

	rec, err := extractJSON(ctx, dataDir, year)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Record{}, err
	}
	span.SetAttributes(attribute.Int("keys", len(rec.Keys)))
	return rec, nil
}

func extractJSON(ctx context.Context, dataDir string, year int) (Record, error) {
	err := season.ValidateJSONCalendarYear(year)
	if err != nil {
		return Record{}, err
	}

	y := strconv.Itoa(year)
	path := filepath.Join(dataDir, y, fmt.Sprintf("sso-concerts-%s.json", y))
	slog.InfoContext(ctx, "loading calendar", "year", year, "file", path)

	cal, err := LoadCalendar(path)
	if err != nil {
		return Record{}, fmt.Errorf("[%d] calendar json failed to load: %w", year, err)
	}

	rec := NewRecord(year)
	entries := cal.SeasonEntries(year)
	if len(entries) == 0 {
		slog.InfoContext(ctx, "no concerts found to extract, skipping", "year", year, "file", path)
		return rec, nil
	}
	for _, u := range UniqueURLs(entries) {
		rec.Add(htmlutil.LastPathSegment(u))
	}
	return rec, nil
}

// Extract picks the calendar format the season was published in.
func Extract(ctx context.Context, dataDir string, year int) (Record, error) {
	if year >= season.JSONCalendarStartYear {
		return ExtractJSON(ctx, dataDir, year)
	}
	return ExtractHTML(ctx, dataDir, year, season.Months)
}
