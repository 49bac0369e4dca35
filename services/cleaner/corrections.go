package cleaner

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"sso-concerts/lib/configutil"
	"sso-concerts/services/concerts"

	"github.com/go-playground/validator/v10"
)

//go:embed corrections.json5
var defaultCorrections []byte

type PieceRule string

const (
	// "Skyfall in Concert" -> "Skyfall Film Score"
	FilmScore PieceRule = "film_score"
	// "Funny Girl in Concert" -> "Funny Girl"
	StripInConcert PieceRule = "strip_in_concert"
	// "Disney in Concert: Mary Poppins" -> "Mary Poppins Film Score"
	FilmScoreAfterPrefix PieceRule = "film_score_after_prefix"
)

var (
	inConcertPattern  = regexp.MustCompile(`(?i)([\pL\pN_].+) (in concert)`)
	filmPrefixPattern = regexp.MustCompile(`(?i)((disney in concert:)|(jóhann jóhannsson's)) ([\pL\pN_].+)`)
)

// Apply derives the piece name from a concert title.
func (r PieceRule) Apply(title string) string {
	switch r {
	case FilmScore:
		if strings.HasSuffix(strings.ToLower(title), "in concert") {
			title = inConcertPattern.ReplaceAllString(title, "${1}")
		}
		return strings.Trim(title, "™") + " Film Score"
	case StripInConcert:
		return strings.TrimSpace(inConcertPattern.ReplaceAllString(title, "${1}"))
	case FilmScoreAfterPrefix:
		return strings.TrimSpace(filmPrefixPattern.ReplaceAllString(title, "${4} Film Score"))
	}
	return title
}

// Patch overrides fields of every row of one concert. Unset fields are left
// alone.
type Patch struct {
	Key       string            `json:"key" validate:"required"`
	Artists   []concerts.Artist `json:"artists"`
	Conductor string            `json:"conductor"`
	Pieces    []string          `json:"pieces"`
	PieceRule PieceRule         `json:"piece_rule" validate:"omitempty,oneof=film_score strip_in_concert film_score_after_prefix"`
	// the parser put the pieces in the composer column
	PiecesFromComposers bool     `json:"pieces_from_composers"`
	RemovePieces        []string `json:"remove_pieces"`
	RemoveComposers     []string `json:"remove_composers"`
	Composers           []string `json:"composers"`
}

type Corrections struct {
	Drop    []string `json:"drop" validate:"dive,required"`
	Patches []Patch  `json:"patches" validate:"unique=Key,dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func ParseCorrections(data []byte) (Corrections, error) {
	corr, err := configutil.Parse[Corrections](data)
	if err != nil {
		return Corrections{}, err
	}
	err = validate.Struct(corr)
	if err != nil {
		return Corrections{}, fmt.Errorf("invalid corrections: %w", err)
	}
	return corr, nil
}

// LoadCorrections reads a corrections file, the built in table is used when
// path is empty.
func LoadCorrections(path string) (Corrections, error) {
	if path == "" {
		return ParseCorrections(defaultCorrections)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Corrections{}, err
	}
	corr, err := ParseCorrections(data)
	if err != nil {
		return Corrections{}, fmt.Errorf("%s: %w", path, err)
	}
	return corr, nil
}

func (c Corrections) patches() map[string]Patch {
	out := make(map[string]Patch, len(c.Patches))
	for _, p := range c.Patches {
		out[p.Key] = p
	}
	return out
}
