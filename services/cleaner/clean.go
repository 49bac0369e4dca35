package cleaner

import (
	"context"
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"sso-concerts/services/concerts"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("ssoconcerts.services.cleaner")

var attributionPattern = regexp.MustCompile(`^([\pL\pN_].+)( (After|Arr\.|Orch\.|\(?Text By|Trans\.) [\pL\pN_].+)$`)

// SanitizeComposer strips a trailing arrangement or translation credit,
// "Anne Boyd Arr. Someone" becomes "Anne Boyd".
func SanitizeComposer(s string) string {
	s = attributionPattern.ReplaceAllString(s, "${1}")
	return strings.ReplaceAll(s, "&", "and")
}

func without(list []string, remove []string) []string {
	return slices.DeleteFunc(slices.Clone(list), func(s string) bool {
		return slices.Contains(remove, s)
	})
}

// composerFromArtists returns the only artist when it is credited as the
// composer.
func composerFromArtists(c concerts.Concert) (string, bool) {
	if len(c.Artists) != 1 || strings.ToLower(c.Artists[0].Role) != "composer" {
		return "", false
	}
	return c.Artists[0].Name, true
}

// Clean applies the corrections and then sanitizes every composer. The
// input is not modified.
func Clean(ctx context.Context, cs []concerts.Concert, corr Corrections) []concerts.Concert {
	ctx, span := tracer.Start(ctx, "Clean")
	defer span.End()

	patches := corr.patches()
	out := make([]concerts.Concert, 0, len(cs))
	for _, c := range cs {
		if slices.Contains(corr.Drop, c.Key) {
			continue
		}
		c.Pieces = slices.Clone(c.Pieces)
		c.Composers = slices.Clone(c.Composers)
		c.Artists = slices.Clone(c.Artists)

		// a missing patch still runs the composer imputation
		c = applyPatch(c, patches[c.Key])

		for i, composer := range c.Composers {
			c.Composers[i] = SanitizeComposer(composer)
		}
		if len(c.Pieces) != len(c.Composers) {
			slog.WarnContext(ctx, "pieces and composers differ in length after cleaning",
				"key", c.Key, "pieces", len(c.Pieces), "composers", len(c.Composers))
		}
		out = append(out, c)
	}

	span.SetAttributes(
		attribute.Int("in", len(cs)),
		attribute.Int("out", len(out)),
	)
	return out
}

// applyPatch runs the stages of a patch in a fixed order: artists, pieces,
// composers and finally the conductor.
func applyPatch(c concerts.Concert, p Patch) concerts.Concert {
	if p.Artists != nil {
		c.Artists = slices.Clone(p.Artists)
	}

	if p.PiecesFromComposers {
		c.Pieces = slices.Clone(c.Composers)
	}
	if p.Pieces != nil {
		c.Pieces = slices.Clone(p.Pieces)
	}
	if p.RemovePieces != nil {
		c.Pieces = without(c.Pieces, p.RemovePieces)
	}
	if p.PieceRule != "" {
		c.Pieces = []string{p.PieceRule.Apply(c.Title)}
	}

	if p.RemoveComposers != nil {
		c.Composers = without(c.Composers, p.RemoveComposers)
	}
	if name, ok := composerFromArtists(c); ok && slices.Equal(c.Composers, []string{concerts.UnknownComposer}) {
		c.Composers = []string{name}
	}
	if p.Composers != nil {
		c.Composers = slices.Clone(p.Composers)
	}

	if p.Conductor != "" {
		c.Conductor = p.Conductor
	}
	return c
}
