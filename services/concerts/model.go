package concerts

import (
	"errors"
	"regexp"
	"slices"
	"strings"

	"sso-concerts/lib/textutil"

	"github.com/go-playground/validator/v10"
)

var ErrMalformed = errors.New("concert page is malformed")

const (
	UnknownComposer  = "Unknown"
	VariousPieces    = "Various"
	UnknownConductor = "Unknown"
	ArtistRole       = "Artist"
	UnknownArtist    = "Unknown"
)

type Work struct {
	Piece    string
	Composer string
}

type Repertoire []Work

func (r Repertoire) Pieces() []string {
	out := make([]string, len(r))
	for i, w := range r {
		out[i] = w.Piece
	}
	return out
}

func (r Repertoire) Composers() []string {
	out := make([]string, len(r))
	for i, w := range r {
		out[i] = w.Composer
	}
	return out
}

var (
	composerMarkers = regexp.MustCompile(`[\^*"']`)
	pieceMarkers    = regexp.MustCompile(`[\^*]`)
)

// NewRepertoire normalizes raw piece/composer pairs and fills in the
// defaults. A pair with neither a piece nor a composer carries nothing and
// is dropped, so the piece and composer lists always stay index aligned.
func NewRepertoire(raw []Work) Repertoire {
	var out Repertoire
	for _, w := range raw {
		piece := strings.TrimSpace(pieceMarkers.ReplaceAllString(w.Piece, ""))
		composer := strings.TrimSpace(composerMarkers.ReplaceAllString(textutil.Title(strings.TrimSpace(w.Composer)), ""))
		if piece == "" && composer == "" {
			continue
		}
		if piece == "" {
			piece = VariousPieces
		}
		if composer == "" {
			composer = UnknownComposer
		}
		out = append(out, Work{Piece: piece, Composer: composer})
	}
	if len(out) == 0 {
		out = Repertoire{{Piece: VariousPieces, Composer: UnknownComposer}}
	}
	return out
}

type Artist struct {
	Role string `parquet:"role" json:"role"`
	Name string `parquet:"name" json:"name"`
}

type Lineup struct {
	Conductor string
	Artists   []Artist
}

func NewLineup(conductor string, artists []Artist) Lineup {
	conductor = strings.TrimSpace(conductor)
	if conductor == "" {
		conductor = UnknownConductor
	}
	if len(artists) == 0 {
		artists = []Artist{{Role: ArtistRole, Name: UnknownArtist}}
	}
	return Lineup{Conductor: conductor, Artists: artists}
}

// Concert is a single performance. A concert with several performance
// times is one Concert per time, everything but Date shared.
type Concert struct {
	Title     string   `validate:"required"`
	Key       string   `validate:"required"`
	Date      string   `validate:"required,datetime=2006-01-02 15:04"`
	Pieces    []string `validate:"min=1,dive,required"`
	Composers []string `validate:"min=1,eqfield=Pieces,dive,required"`
	Conductor string   `validate:"required"`
	Artists   []Artist `validate:"min=1"`
}

func NewConcert(title, key, date string, rep Repertoire, lineup Lineup) Concert {
	return Concert{
		Title:     title,
		Key:       key,
		Date:      date,
		Pieces:    rep.Pieces(),
		Composers: rep.Composers(),
		Conductor: lineup.Conductor,
		Artists:   slices.Clone(lineup.Artists),
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Concert) Validate() error {
	return validate.Struct(c)
}
