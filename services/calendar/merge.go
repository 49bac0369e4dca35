package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"sso-concerts/lib/fileutil"
	"sso-concerts/lib/season"
)

// Entry is a single concert of a json calendar. Fields are kept raw so that
// anything this package does not look at is written back untouched.
type Entry map[string]json.RawMessage

func (e Entry) String(field string) string {
	raw, ok := e[field]
	if !ok {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func (e Entry) URL() string {
	return strings.TrimSpace(e.String("url"))
}

// InSeason reports whether concertSeason mentions the year. The field is
// usually a string like "2022 Season" but lists are accepted too.
func (e Entry) InSeason(year int) bool {
	y := strconv.Itoa(year)
	if s := e.String("concertSeason"); s != "" {
		return strings.Contains(s, y)
	}
	var list []string
	if json.Unmarshal(e["concertSeason"], &list) != nil {
		return false
	}
	for _, s := range list {
		if strings.Contains(s, y) {
			return true
		}
	}
	return false
}

type Calendar struct {
	Data []Entry
	Meta json.RawMessage
	// every other top level field
	Extra map[string]json.RawMessage
}

func (c *Calendar) UnmarshalJSON(b []byte) error {
	var top map[string]json.RawMessage
	err := json.Unmarshal(b, &top)
	if err != nil {
		return err
	}
	data, ok := top["data"]
	if !ok {
		return ErrMissingData
	}
	var entries []Entry
	if !bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		err = json.Unmarshal(data, &entries)
		if err != nil {
			return fmt.Errorf("failed to decode calendar data: %w", err)
		}
	}
	c.Data = entries
	c.Meta = top["meta"]
	delete(top, "data")
	delete(top, "meta")
	c.Extra = top
	return nil
}

func (c Calendar) MarshalJSON() ([]byte, error) {
	top := make(map[string]any, len(c.Extra)+2)
	for k, v := range c.Extra {
		top[k] = v
	}
	data := c.Data
	if data == nil {
		data = []Entry{}
	}
	top["data"] = data
	if c.Meta != nil {
		top["meta"] = c.Meta
	}
	return json.Marshal(top)
}

// SeasonEntries filters the calendar down to a single season.
func (c Calendar) SeasonEntries(year int) []Entry {
	var out []Entry
	for _, e := range c.Data {
		if e.InSeason(year) {
			out = append(out, e)
		}
	}
	return out
}

// UniqueURLs returns the sorted, non-empty concert urls of the entries.
func UniqueURLs(entries []Entry) []string {
	var urls []string
	for _, e := range entries {
		if u := e.URL(); u != "" {
			urls = append(urls, u)
		}
	}
	slices.Sort(urls)
	return slices.Compact(urls)
}

func LoadCalendar(path string) (Calendar, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Calendar{}, err
	}
	var cal Calendar
	err = json.Unmarshal(raw, &cal)
	if err != nil {
		return Calendar{}, fmt.Errorf("%s: %w", path, err)
	}
	return cal, nil
}

func WriteCalendar(path string, cal Calendar) error {
	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		return json.NewEncoder(w).Encode(cal)
	})
}

type MergeStats struct {
	OldConcerts   int
	NewConcerts   int
	AddedConcerts int
}

// Merge appends the entries of next whose url is missing from old, in the
// order they appear in next, and takes the metadata of next unless next has
// none. old is not modified.
func Merge(old, next Calendar) (Calendar, MergeStats) {
	known := map[string]struct{}{}
	for _, u := range UniqueURLs(old.Data) {
		known[u] = struct{}{}
	}

	merged := Calendar{
		Data:  slices.Clone(old.Data),
		Meta:  next.Meta,
		Extra: old.Extra,
	}
	if merged.Meta == nil {
		merged.Meta = old.Meta
	}
	stats := MergeStats{OldConcerts: len(old.Data), NewConcerts: len(next.Data)}
	for _, e := range next.Data {
		u := e.URL()
		if u == "" {
			continue
		}
		if _, ok := known[u]; ok {
			continue
		}
		known[u] = struct{}{}
		merged.Data = append(merged.Data, e)
		stats.AddedConcerts++
	}
	return merged, stats
}

func MergedFileName(prefix string, year int) string {
	y := strconv.Itoa(year)
	return filepath.Join(y, fmt.Sprintf("%s-concerts-merged-%s.json", prefix, y))
}

type MergeOptions struct {
	Year    int
	OldFile string
	NewFile string
	Prefix  string
	DataDir string
}

// MergeFiles merges two snapshots of one season and writes the result under
// DataDir, returning the path it wrote to.
func MergeFiles(ctx context.Context, opts MergeOptions) (string, MergeStats, error) {
	ctx, span := tracer.Start(ctx, "MergeFiles")
	defer span.End()

	err := season.ValidateJSONCalendarYear(opts.Year)
	if err != nil {
		return "", MergeStats{}, err
	}

	old, err := LoadCalendar(opts.OldFile)
	if err != nil {
		return "", MergeStats{}, fmt.Errorf("[%d] calendar json failed to load: %w", opts.Year, err)
	}
	next, err := LoadCalendar(opts.NewFile)
	if err != nil {
		return "", MergeStats{}, fmt.Errorf("[%d] calendar json failed to load: %w", opts.Year, err)
	}

	merged, stats := Merge(old, next)
	slog.InfoContext(ctx, "merged calendars",
		"year", opts.Year,
		"old", stats.OldConcerts,
		"new", stats.NewConcerts,
		"added", stats.AddedConcerts,
	)

	out := filepath.Join(opts.DataDir, MergedFileName(opts.Prefix, opts.Year))
	err = WriteCalendar(out, merged)
	if err != nil {
		return "", MergeStats{}, fmt.Errorf("[%d] failed to write merged calendar: %w", opts.Year, err)
	}
	return out, stats, nil
}
