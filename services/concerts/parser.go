package concerts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"sso-concerts/lib/season"
	"sso-concerts/services/htmlstore"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("ssoconcerts.services.concerts")

// strategy is how one generation of the website lays out a concert page.
// Dates are returned in the "Fri 27 Mar, 6:00 pm" form.
type strategy struct {
	dates      func(doc *goquery.Document) ([]string, error)
	repertoire func(doc *goquery.Document) ([]step, error)
	artists    func(doc *goquery.Document) ([]credit, error)
}

var strategies = map[season.Era]strategy{
	season.Legacy: {
		dates:      legacyDates,
		repertoire: legacyRepertoire,
		artists:    legacyArtists,
	},
	season.Current: {
		dates:      currentDates,
		repertoire: currentRepertoire,
		artists:    currentArtists,
	},
}

// ParseRecord parses a stored concert page into one Concert per
// performance date.
func ParseRecord(ctx context.Context, rec htmlstore.Record) ([]Concert, error) {
	ctx, span := tracer.Start(ctx, "ParseRecord")
	defer span.End()
	span.SetAttributes(
		attribute.Int("year", rec.Year),
		attribute.String("key", rec.Key),
	)

	out, err := parseRecord(ctx, rec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("performances", len(out)))
	return out, nil
}

func parseRecord(ctx context.Context, rec htmlstore.Record) ([]Concert, error) {
	era := season.EraForYear(rec.Year)
	strat, ok := strategies[era]
	if !ok {
		return nil, fmt.Errorf("no parser for %s pages", era)
	}
	slog.DebugContext(ctx, "parsing concert page", "year", rec.Year, "key", rec.Key, "era", era.String())

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.HTMLContent))
	if err != nil {
		return nil, err
	}

	title, err := parseTitle(doc)
	if err != nil {
		return nil, err
	}
	dates, err := strat.dates(doc)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: no performance dates found", ErrMalformed)
	}
	steps, err := strat.repertoire(doc)
	if err != nil {
		return nil, err
	}
	credits, err := strat.artists(doc)
	if err != nil {
		return nil, err
	}

	rep := foldRepertoire(steps)
	lineup := foldLineup(credits)

	out := make([]Concert, 0, len(dates))
	for _, d := range dates {
		date, err := formatDate(d, rec.Year)
		if err != nil {
			return nil, err
		}
		c := NewConcert(title, rec.Key, date, rep, lineup)
		err = c.Validate()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// ParseAll parses records in order and stops at the first page that cannot
// be parsed, the source file has to be fixed before a rerun.
func ParseAll(ctx context.Context, records []htmlstore.Record) ([]Concert, error) {
	ctx, span := tracer.Start(ctx, "ParseAll")
	defer span.End()

	var out []Concert
	for _, rec := range records {
		concerts, err := ParseRecord(ctx, rec)
		if err != nil {
			err = fmt.Errorf("[%d] %s: %w", rec.Year, rec.Key, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		slog.DebugContext(ctx, "parsed concert", "year", rec.Year, "key", rec.Key, "performances", len(concerts))
		out = append(out, concerts...)
	}
	span.SetAttributes(attribute.Int("concerts", len(out)))
	return out, nil
}
