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

type stepKind int

const (
	// changes the carried composer without adding a work
	stepComposer stepKind = iota
	// adds a work, an empty composer takes the carried one and a named
	// composer becomes the carried one
	stepWork
	// adds a work with its own composer and leaves the carry alone
	stepStandalone
)

type step struct {
	kind     stepKind
	piece    string
	composer string
}

func setComposer(c string) step { return step{kind: stepComposer, composer: c} }
func work(piece, c string) step  { return step{kind: stepWork, piece: piece, composer: c} }
func standalone(piece, c string) step {
	return step{kind: stepStandalone, piece: piece, composer: c}
}

// foldRepertoire applies composer carry-forward: one composer can head
// several pieces in a program listing.
func foldRepertoire(steps []step) Repertoire {
	var carry string
	var works []Work
	for _, s := range steps {
		switch s.kind {
		case stepComposer:
			carry = s.composer
		case stepWork:
			c := s.composer
			if c == "" {
				c = carry
			} else {
				carry = c
			}
			works = append(works, Work{Piece: s.piece, Composer: c})
		case stepStandalone:
			works = append(works, Work{Piece: s.piece, Composer: s.composer})
		}
	}
	return NewRepertoire(works)
}

var (
	generalExclusions = []string{
		"and more", "based on", "featuring", "highlight",
		"including", "plus previous", "with australian interludes",
	}
	composerExclusions = []string{
		"friday", "interval", "performs", "program",
		"songs for", "thursday", "wednesday",
	}
	allExclusions = append(append([]string{}, generalExclusions...), composerExclusions...)
)

func findHeading(doc *goquery.Document, tag string, match func(string) bool) *goquery.Selection {
	return doc.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return match(strings.TrimSpace(s.Text()))
	}).First()
}

func textEquals(want string) func(string) bool {
	return func(s string) bool { return s == want }
}

// definitionPairs returns the text of each <dt> of the first <dl> after the
// heading, paired with the <dd> that follows it.
func definitionPairs(heading *goquery.Selection, section string) ([][2]string, error) {
	dl := heading.NextAllFiltered("dl").First()
	if dl.Length() == 0 {
		return nil, fmt.Errorf("%w: %s section has no <dl>", ErrMalformed, section)
	}
	var pairs [][2]string
	var err error
	dl.Find("dt").EachWithBreak(func(i int, dt *goquery.Selection) bool {
		dd := dt.NextAllFiltered("dd").First()
		if dd.Length() == 0 {
			err = fmt.Errorf("%w: <dd> is missing after %s entry %d", ErrMalformed, section, i+1)
			return false
		}
		pairs = append(pairs, [2]string{strings.TrimSpace(dt.Text()), strings.TrimSpace(dd.Text())})
		return true
	})
	return pairs, err
}

func legacyRepertoire(doc *goquery.Document) ([]step, error) {
	heading := findHeading(doc, "h5", textEquals("Program"))
	if heading.Length() == 0 {
		return nil, nil
	}
	pairs, err := definitionPairs(heading, "Program")
	if err != nil {
		return nil, err
	}

	var steps []step
	for _, p := range pairs {
		dt, dd := p[0], p[1]
		if dt == "" {
			if !textutil.ContainsAny(dd, generalExclusions) {
				steps = append(steps, work(dd, ""))
			}
			continue
		}
		if textutil.ContainsAny(dt, allExclusions) {
			continue
		}
		// "And" continues the previous composer
		composer := dt
		if dt == "And" {
			composer = ""
		}
		if dd == "composer" || textutil.ContainsAny(dd, generalExclusions) {
			if composer != "" {
				steps = append(steps, setComposer(composer))
			}
			continue
		}
		steps = append(steps, work(dd, composer))
	}
	return steps, nil
}

var programHeading = regexp.MustCompile(`Program|PROGRAM`)

const fiftyFanfares = "fifty fanfares commission"

// isLayout reports whether a node only affects layout: line breaks and
// whitespace between tags.
func isLayout(n *html.Node) bool {
	return htmlutil.IsBlankText(n) || htmlutil.IsElement(n, "br")
}

func nextSignificant(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if !isLayout(s) {
			return s
		}
	}
	return nil
}

// paragraphItems lists the children of a free-form paragraph that carry
// text, in document order.
func paragraphItems(p *html.Node) []*html.Node {
	var items []*html.Node
	for c := p.FirstChild; c != nil; c = c.NextSibling {
		if isLayout(c) {
			continue
		}
		if htmlutil.IsText(c) || (c.Type == html.ElementNode && strings.TrimSpace(htmlutil.GetText(c)) != "") {
			items = append(items, c)
		}
	}
	return items
}

// childTexts returns the trimmed, non-empty text of each child of an
// element. Nested elements contribute their full text unless textOnly is
// set, in which case they are skipped.
func childTexts(n *html.Node, textOnly bool) []string {
	var out []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		var s string
		switch {
		case htmlutil.IsText(c):
			s = c.Data
		case textOnly || htmlutil.IsElement(c, "br"):
			continue
		default:
			s = htmlutil.GetText(c)
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func findParagraph(doc *goquery.Document, pattern *regexp.Regexp) *goquery.Selection {
	heading := findHeading(doc, "h2", pattern.MatchString)
	if heading.Length() == 0 {
		return nil
	}
	return heading.NextAllFiltered("p").First()
}

// currentRepertoire walks the program paragraph of a current era page.
// Composers are usually wrapped in a tag, followed either by the piece as
// plain text or by a second tag (more of the composer credit) and then the
// piece.
func currentRepertoire(doc *goquery.Document) ([]step, error) {
	p := findParagraph(doc, programHeading)
	if p == nil {
		return nil, nil
	}
	if p.Length() == 0 {
		return nil, fmt.Errorf("%w: Program section has no paragraph", ErrMalformed)
	}

	var steps []step
	consumed := map[*html.Node]bool{}
	for _, item := range paragraphItems(p.Get(0)) {
		if consumed[item] {
			continue
		}
		if htmlutil.IsText(item) {
			steps = append(steps, work(strings.TrimSpace(item.Data), ""))
			continue
		}

		parts := childTexts(item, false)
		fanfare := len(parts) > 0 && strings.ToLower(parts[0]) == fiftyFanfares
		next := nextSignificant(item)

		if htmlutil.IsText(next) {
			if len(parts) == 2 {
				// FIFTY FANFARES COMMISSION<br>Composer
				steps = append(steps, setComposer(parts[1]))
				if fanfare {
					steps = append(steps, standalone(textutil.Title(parts[0]), UnknownComposer))
				}
				continue
			}
			steps = append(steps, work(strings.TrimSpace(next.Data), strings.Join(parts, " ")))
			consumed[next] = true
			continue
		}

		if fanfare {
			steps = append(steps, standalone(textutil.Title(parts[0]), UnknownComposer))
			continue
		}
		if next == nil {
			return nil, fmt.Errorf("%w: program entry %q has no piece", ErrMalformed, strings.Join(parts, " "))
		}
		parts = append(parts, strings.TrimSpace(htmlutil.GetText(next)))
		consumed[next] = true

		piece := ""
		if after := nextSignificant(next); after != nil {
			piece = strings.TrimSpace(htmlutil.GetText(after))
			consumed[after] = true
		}
		steps = append(steps, work(piece, strings.Join(parts, " ")))
	}
	return steps, nil
}
