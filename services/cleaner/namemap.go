package cleaner

import (
	"encoding/csv"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"sso-concerts/lib/fileutil"
	"sso-concerts/lib/timezone"
	"sso-concerts/services/concerts"

	"github.com/jszwec/csvutil"
)

const placeholderGender = "Male"

type NameEntry struct {
	Composer         string `csv:"Composer"`
	ComposerFullName string `csv:"ComposerFullName"`
	Gender           string `csv:"Gender"`
}

// NameMap rewrites composer spellings to the canonical full name. Lookups
// ignore case. A name that already is a canonical full name only has its
// case fixed, so applying the map twice changes nothing.
type NameMap struct {
	entries map[string]NameEntry
	// lowercased full name -> full name
	canonical map[string]string
}

func NewNameMap(entries []NameEntry) NameMap {
	m := NameMap{
		entries:   make(map[string]NameEntry, len(entries)),
		canonical: make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		if e.Composer == "" || e.ComposerFullName == "" {
			continue
		}
		m.entries[strings.ToLower(e.Composer)] = e
		m.canonical[strings.ToLower(e.ComposerFullName)] = e.ComposerFullName
	}
	return m
}

func LoadNameMap(path string) (NameMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return NameMap{}, err
	}
	var entries []NameEntry
	err = csvutil.Unmarshal(data, &entries)
	if err != nil {
		return NameMap{}, fmt.Errorf("failed to read composer name map %s: %w", path, err)
	}
	return NewNameMap(entries), nil
}

func (m NameMap) Len() int {
	return len(m.entries)
}

// Lookup returns the canonical spelling of a composer and whether the map
// knows the name at all. Canonical full names match too, so
// "JOHN WILLIAMS" comes back as "John Williams" when that is a
// ComposerFullName even if no Composer entry spells it that way.
func (m NameMap) Lookup(composer string) (string, bool) {
	lower := strings.ToLower(composer)
	if full, ok := m.canonical[lower]; ok {
		return full, true
	}
	e, ok := m.entries[lower]
	if !ok {
		return composer, false
	}
	return e.ComposerFullName, true
}

func (m NameMap) Apply(cs []concerts.Concert) []concerts.Concert {
	out := make([]concerts.Concert, len(cs))
	for i, c := range cs {
		composers := make([]string, len(c.Composers))
		for j, composer := range c.Composers {
			composers[j], _ = m.Lookup(composer)
		}
		c.Composers = composers
		out[i] = c
	}
	return out
}

// Unmapped lists the distinct composers the map does not know, sorted.
func (m NameMap) Unmapped(cs []concerts.Concert) []string {
	var out []string
	for _, name := range Composers(cs) {
		if _, ok := m.Lookup(name); !ok {
			out = append(out, name)
		}
	}
	return out
}

// Names returns the canonical names in the map, sorted and deduplicated.
func (m NameMap) Names() []string {
	out := slices.Collect(maps.Values(m.canonical))
	slices.Sort(out)
	return out
}

// Composers returns every distinct composer string, sorted.
func Composers(cs []concerts.Concert) []string {
	var out []string
	for _, c := range cs {
		out = append(out, c.Composers...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// GenerateTemplate lists every composer mapped to itself. Full names and
// genders are for the operator to fill in.
func GenerateTemplate(cs []concerts.Concert) []NameEntry {
	names := Composers(cs)
	out := make([]NameEntry, len(names))
	for i, n := range names {
		out[i] = NameEntry{Composer: n, ComposerFullName: n, Gender: placeholderGender}
	}
	return out
}

// WriteTemplate writes the name map csv. A map already at path is moved to
// a dated backup first since it is usually hand edited.
func WriteTemplate(path string, entries []NameEntry) error {
	return fileutil.WriteReplacing(path, timezone.Now(), func(w io.Writer) error {
		cw := csv.NewWriter(w)
		enc := csvutil.NewEncoder(cw)
		if len(entries) == 0 {
			if err := enc.EncodeHeader(NameEntry{}); err != nil {
				return err
			}
		}
		if err := enc.Encode(entries); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	})
}
