package concerts

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"sso-concerts/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	// "Fri 27 Mar, 6:00 pm" once the year is spliced in
	datedLayout  = "Mon 2 Jan 2006 3:04 PM"
	OutputLayout = "2006-01-02 15:04"

	currentLayout = "2 January, 3:04 PM"
	legacyLayout  = "02 Jan, 03:04 PM"
)

var titlePattern = regexp.MustCompile(`^[\pL\pN_].*\S \| [\pL\pN_].+$`)

// parseTitle turns "Sydney Symphony Orchestra | Some Concert" into
// "Some Concert".
func parseTitle(doc *goquery.Document) (string, error) {
	raw := strings.TrimSpace(html.UnescapeString(doc.Find("title").First().Text()))
	if !titlePattern.MatchString(raw) {
		return "", fmt.Errorf("%w: title %q is not in the form \"Organisation | Title\"", ErrMalformed, raw)
	}
	parts := strings.Split(raw, "|")
	return textutil.Collapse(parts[len(parts)-1]), nil
}

// formatDate splices the season year into a page date such as
// "Fri 27 Mar, 6:00 pm" and returns it as "2020-03-27 18:00". The page
// never states the year, so a leap day only parses once it is added.
func formatDate(date string, year int) (string, error) {
	day, clock, ok := strings.Cut(strings.TrimSpace(date), ",")
	if !ok {
		return "", fmt.Errorf("%w: date %q is not in the form \"Fri 27 Mar, 6:00 pm\"", ErrMalformed, date)
	}
	value := strings.ToUpper(fmt.Sprintf("%s %d %s", strings.TrimSpace(day), year, textutil.Collapse(clock)))
	t, err := time.Parse(datedLayout, value)
	if err != nil {
		return "", fmt.Errorf("%w: date %q: %w", ErrMalformed, date, err)
	}
	return t.Format(OutputLayout), nil
}

func legacyDates(doc *goquery.Document) ([]string, error) {
	heading := findHeading(doc, "h5", textEquals("Dates"))
	if heading.Length() == 0 {
		return nil, fmt.Errorf("%w: Dates section is missing", ErrMalformed)
	}
	dl := heading.NextAllFiltered("dl").First()
	if dl.Length() == 0 {
		return nil, fmt.Errorf("%w: Dates section has no <dl>", ErrMalformed)
	}
	return dl.Find("div.date").Map(func(_ int, s *goquery.Selection) string {
		return strings.TrimSpace(s.Text())
	}), nil
}

var currentDatePattern = regexp.MustCompile(`(?i)^(\pL+)\s+(\d{1,2}\s+\pL+)\s*,?\s+(\d{1,2}:\d{2})\s*([ap]m)$`)

// currentDate converts "Sun 04 November\n 07:00 pm" into the legacy form
// "Sun 04 Nov, 07:00 PM". The page states no year, so the weekday is
// copied from the page rather than derived.
func currentDate(s string) (string, error) {
	m := currentDatePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", fmt.Errorf("%w: date %q is not in the form \"Sun 04 November 07:00 pm\"", ErrMalformed, s)
	}
	weekday := []rune(m[1])
	if len(weekday) > 3 {
		weekday = weekday[:3]
	}
	value := strings.ToUpper(fmt.Sprintf("%s, %s %s", textutil.Collapse(m[2]), m[3], m[4]))
	t, err := time.Parse(currentLayout, value)
	if err != nil {
		return "", fmt.Errorf("%w: date %q: %w", ErrMalformed, s, err)
	}
	return textutil.Title(string(weekday)) + " " + t.Format(legacyLayout), nil
}

func currentDates(doc *goquery.Document) ([]string, error) {
	var dates []string
	var err error
	doc.Find(`span[class~="u-show-inline@small"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var d string
		d, err = currentDate(s.Text())
		if err != nil {
			return false
		}
		dates = append(dates, d)
		return true
	})
	return dates, err
}
