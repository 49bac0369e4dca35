package concerts

import (
	"fmt"
	"regexp"
	"strings"

	"sso-concerts/lib/htmlutil"
	"sso-concerts/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// credit is a pair of strings as listed on a concert page. Pages are not
// consistent about which side holds the name and which the role, working
// that out is the job of foldLineup.
type credit [2]string

var (
	conductorKeywords   = []string{"conductor", "condcutor", "musical director", "artistic director"}
	directorKeywords    = []string{"-director", "director and"}
	ensembleKeywords    = []string{"choir", "choirs", "orchestra", "symphony"}
	filmKeywords        = []string{"film credit", "film score"}
	swappedRoleKeywords = []string{"concertmaster", "narrator", "soprano"}
)

// pickConductor decides whether a credit names the conductor.
func pickConductor(c credit) (string, bool) {
	switch {
	case textutil.ContainsAny(c[0], conductorKeywords):
		split := strings.Split(c[0], ",")
		// ("Jane Doe, conductor", "Some Orchestra")
		if len(split) > 1 && strings.TrimSpace(split[1]) == "conductor" {
			return strings.TrimSpace(split[0]), true
		}
		return c[1], true
	case textutil.ContainsAny(c[1], conductorKeywords):
		return c[0], true
	case textutil.ContainsAny(c[0], directorKeywords):
		return c[1], true
	}
	return "", false
}

// creditArtists returns the artist entries a credit contributes. haveConductor
// is whether a conductor has been picked by this or an earlier credit.
func creditArtists(c credit, haveConductor bool) []Artist {
	lower := strings.ToLower(c[0])
	split := strings.Split(c[0], ",")

	switch {
	case strings.HasSuffix(lower, "-director") || strings.HasPrefix(lower, "director and"):
		return []Artist{{Role: textutil.Title(c[0]), Name: c[1]}}

	// ("conductor, piano", "Jane Doe")
	case len(split) > 1 && strings.ToLower(strings.TrimSpace(split[0])) == "conductor":
		var out []Artist
		for _, instrument := range split[1:] {
			out = append(out, Artist{Role: textutil.Title(strings.TrimSpace(instrument)), Name: c[1]})
		}
		return out

	case textutil.HasSuffixAny(c[1], ensembleKeywords):
		out := []Artist{{Role: ArtistRole, Name: c[1]}}
		// once a conductor is known, a further "Name, role" paired with
		// an ensemble is kept as an artist
		if haveConductor && len(split) > 1 {
			out = append(out, Artist{Role: textutil.Title(strings.TrimSpace(split[1])), Name: strings.TrimSpace(split[0])})
		}
		return out
	}

	if textutil.ContainsAny(c[0], conductorKeywords) || textutil.ContainsAny(c[1], conductorKeywords) {
		return nil
	}
	switch {
	case c[0] == "":
		// "Evanescence is:" introduces a list, it is not an artist
		if strings.HasSuffix(c[1], ":") {
			return nil
		}
		return []Artist{{Role: ArtistRole, Name: c[1]}}
	case c[1] == "":
		return []Artist{{Role: ArtistRole, Name: c[0]}}
	case textutil.ContainsAny(c[1], filmKeywords):
		return []Artist{{Role: ArtistRole, Name: c[0]}}
	case textutil.ContainsAny(c[1], swappedRoleKeywords):
		return []Artist{{Role: textutil.Title(c[1]), Name: c[0]}}
	}
	return []Artist{{Role: textutil.Title(c[0]), Name: c[1]}}
}

// foldLineup picks the first credit that names a conductor and collects
// artists from every credit, the conductor's included.
func foldLineup(credits []credit) Lineup {
	var conductor string
	var haveConductor bool
	var artists []Artist
	for _, c := range credits {
		c = credit{strings.TrimSpace(c[0]), strings.TrimSpace(c[1])}
		if c[0] == "" && c[1] == "" {
			continue
		}
		if !haveConductor {
			conductor, haveConductor = pickConductor(c)
		}
		artists = append(artists, creditArtists(c, haveConductor)...)
	}
	return NewLineup(conductor, artists)
}

func legacyArtists(doc *goquery.Document) ([]credit, error) {
	heading := findHeading(doc, "h5", textEquals("Artists"))
	if heading.Length() == 0 {
		return nil, nil
	}
	pairs, err := definitionPairs(heading, "Artists")
	if err != nil {
		return nil, err
	}
	credits := make([]credit, len(pairs))
	for i, p := range pairs {
		// the role sits in <dd>, the name in <dt>
		credits[i] = credit{p[1], p[0]}
	}
	return credits, nil
}

var artistHeading = regexp.MustCompile(`Artist|ARTIST`)

const orchestraMusicians = "sydney symphony orchestra musicians"

func currentArtists(doc *goquery.Document) ([]credit, error) {
	found := findParagraph(doc, artistHeading)
	if found == nil {
		return nil, nil
	}
	if found.Length() == 0 {
		return nil, fmt.Errorf("%w: Artists section has no paragraph", ErrMalformed)
	}

	p := found.Clone()
	p.Find("br").Remove()
	p.Find("strong").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == ""
	}).Remove()

	var credits []credit
	consumed := map[*html.Node]bool{}
	for _, item := range paragraphItems(p.Get(0)) {
		if consumed[item] {
			continue
		}
		if htmlutil.IsText(item) {
			credits = append(credits, credit{ArtistRole, textutil.Title(strings.TrimSpace(item.Data))})
			continue
		}

		parts := childTexts(item, true)
		if len(parts) == 0 {
			parts = []string{strings.TrimSpace(htmlutil.GetText(item))}
		}
		name := textutil.Title(strings.Join(parts, ""))

		next := nextSignificant(item)
		if htmlutil.IsText(next) && strings.ToLower(parts[0]) != orchestraMusicians {
			// <strong>Jane Doe</strong> piano
			credits = append(credits, credit{strings.TrimSpace(next.Data), name})
			consumed[next] = true
			continue
		}
		credits = append(credits, credit{ArtistRole, name})
	}
	return credits, nil
}
