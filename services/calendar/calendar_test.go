package calendar

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sso-concerts/lib/fileutil"
	"sso-concerts/lib/season"
	"sso-concerts/lib/testutil"
	"sso-concerts/lib/timezone"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func monthPage(hrefs ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, h := range hrefs {
		b.WriteString(`<div class="reveal calendar-perf-modal"><h3>Concert</h3>`)
		b.WriteString(`<a alt="Read More" href="` + h + `">Read More</a></div>`)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func TestExtractHTML(t *testing.T) {
	res := testutil.SetupService(t, testutil.ServiceParams{
		Files: map[string]string{
			"2019/sso_2019_February.html": monthPage(
				"https://www.sydneysymphony.com/concerts/eskimo-joe",
				" /concerts/thum-prints ",
			),
			"2019/sso_2019_March.html": monthPage(
				"https://www.sydneysymphony.com/concerts/eskimo-joe",
				"https://www.sydneysymphony.com/concerts/funny-girl",
			),
			"2019/sso_2019_April.html": "<html><body><p>nothing on</p></body></html>",
		},
	})
	ctx := context.Background()

	rec, err := ExtractHTML(ctx, res.DataDir, 2019, []string{"February", "March", "April"})
	require.NoError(t, err)
	require.Equal(t, 2019, rec.Year)
	require.Equal(t, []string{"eskimo-joe", "funny-girl", "thum-prints"}, rec.SortedKeys())

	_, err = ExtractHTML(ctx, res.DataDir, 2019, []string{"February", "May"})
	require.Error(t, err)

	_, err = ExtractHTML(ctx, res.DataDir, 2021, []string{"February"})
	require.ErrorIs(t, err, season.ErrInvalidYear)
}

func TestExtractHTMLMissingLink(t *testing.T) {
	res := testutil.SetupService(t, testutil.ServiceParams{
		Files: map[string]string{
			"2018/sso_2018_June.html": `<html><body><div class="reveal calendar-perf-modal"><a href="/x">Book</a></div></body></html>`,
		},
	})
	_, err := ExtractHTML(context.Background(), res.DataDir, 2018, []string{"June"})
	require.Error(t, err)

	res = testutil.SetupService(t, testutil.ServiceParams{
		Files: map[string]string{
			"2018/sso_2018_June.html": `<html><body><div class="reveal calendar-perf-modal"><a alt="Read More" href=" ">Read More</a></div></body></html>`,
		},
	})
	_, err = ExtractHTML(context.Background(), res.DataDir, 2018, []string{"June"})
	require.ErrorContains(t, err, "no read more link")
}

const calendar2022 = `{
	"data": [
		{"url": "https://www.sydneysymphony.com/concerts/b-concert", "concertSeason": "2022 Season", "title": "B"},
		{"url": "https://www.sydneysymphony.com/concerts/a-concert", "concertSeason": "2022 Season"},
		{"url": "https://www.sydneysymphony.com/concerts/a-concert", "concertSeason": "2022 Season"},
		{"url": "https://www.sydneysymphony.com/concerts/old-concert", "concertSeason": "2021 Season"},
		{"url": "", "concertSeason": "2022 Season"},
		{"concertSeason": ["2022 Season"], "url": "https://www.sydneysymphony.com/concerts/c-concert"}
	],
	"meta": {"total": 6},
	"links": {"next": null}
}`

func TestExtractJSON(t *testing.T) {
	res := testutil.SetupService(t, testutil.ServiceParams{
		Files: map[string]string{
			"2022/sso-concerts-2022.json": calendar2022,
			"2023/sso-concerts-2023.json": `{"meta": {}}`,
			"2024/sso-concerts-2024.json": `{"data": [{"url": "/x/y", "concertSeason": "2023"}]}`,
		},
	})
	ctx := context.Background()

	rec, err := ExtractJSON(ctx, res.DataDir, 2022)
	require.NoError(t, err)
	require.Equal(t, []string{"a-concert", "b-concert", "c-concert"}, rec.SortedKeys())

	_, err = ExtractJSON(ctx, res.DataDir, 2023)
	require.ErrorIs(t, err, ErrMissingData)

	rec, err = ExtractJSON(ctx, res.DataDir, 2024)
	require.NoError(t, err)
	require.Empty(t, rec.Keys)

	_, err = ExtractJSON(ctx, res.DataDir, 2020)
	require.ErrorIs(t, err, season.ErrInvalidYear)
}

func TestExportKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, KeysFileName("sso", 2022))

	rec := NewRecord(2022)
	rec.Add("b")
	rec.Add("a")
	require.NoError(t, ExportKeys(rec, path))
	require.Equal(t, "a\nb\n", testutil.ReadFile(t, path))

	rec.Add("c")
	require.NoError(t, ExportKeys(rec, path))
	require.Equal(t, "a\nb\nc\n", testutil.ReadFile(t, path))

	backup := fileutil.DatedName(path, timezone.Now())
	require.Equal(t, "a\nb\n", testutil.ReadFile(t, backup))

	// same day, the backup is overwritten
	require.NoError(t, ExportKeys(rec, path))
	require.Equal(t, "a\nb\nc\n", testutil.ReadFile(t, backup))
}

func TestExtractAll(t *testing.T) {
	res := testutil.SetupService(t, testutil.ServiceParams{
		Files: map[string]string{
			"2022/sso-concerts-2022.json": calendar2022,
			"2023/sso-concerts-2023.json": `{"meta": {}}`,
		},
	})
	ctx := context.Background()

	_, err := ExtractAll(ctx, Options{Years: []int{2022, 2030}, DataDir: res.DataDir, CSVPrefix: "sso"})
	require.ErrorIs(t, err, season.ErrInvalidYear)

	results, err := ExtractAll(ctx, Options{Years: []int{2023, 2022}, DataDir: res.DataDir, CSVPrefix: "sso"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Error(t, results[0].Err)
	require.NoError(t, results[1].Err)
	require.Equal(t, 3, results[1].Keys)

	keys := testutil.ReadFile(t, filepath.Join(res.DataDir, "2022", "sso_2022_keys.csv"))
	require.Equal(t, "a-concert\nb-concert\nc-concert\n", keys)
}

func TestMerge(t *testing.T) {
	var old, next Calendar
	require.NoError(t, json.Unmarshal([]byte(`{
		"data": [{"url": "/c/a", "id": 1}, {"url": "/c/b", "id": 2}],
		"meta": {"version": 1},
		"links": {"self": "old"}
	}`), &old))
	require.NoError(t, json.Unmarshal([]byte(`{
		"data": [{"url": "/c/d", "id": 4}, {"url": "/c/a", "id": 10}, {"url": "/c/c", "id": 3}],
		"meta": {"version": 2}
	}`), &next))

	merged, stats := Merge(old, next)
	require.Equal(t, MergeStats{OldConcerts: 2, NewConcerts: 3, AddedConcerts: 2}, stats)

	var urls []string
	for _, e := range merged.Data {
		urls = append(urls, e.URL())
	}
	require.Empty(t, cmp.Diff([]string{"/c/a", "/c/b", "/c/d", "/c/c"}, urls))
	require.JSONEq(t, `{"version": 2}`, string(merged.Meta))
	require.Len(t, old.Data, 2)

	out, err := json.Marshal(merged)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"data": [
			{"url": "/c/a", "id": 1},
			{"url": "/c/b", "id": 2},
			{"url": "/c/d", "id": 4},
			{"url": "/c/c", "id": 3}
		],
		"meta": {"version": 2},
		"links": {"self": "old"}
	}`, string(out))

	// merging a snapshot into itself adds nothing
	again, stats := Merge(merged, merged)
	require.Zero(t, stats.AddedConcerts)
	require.Len(t, again.Data, 4)
}

func TestMergeKeepsOldMeta(t *testing.T) {
	var old, next Calendar
	require.NoError(t, json.Unmarshal([]byte(`{"data": [{"url": "/a"}], "meta": {"v": 1}}`), &old))
	require.NoError(t, json.Unmarshal([]byte(`{"data": [{"url": "/a"}, {"url": "/b"}]}`), &next))

	merged, stats := Merge(old, next)
	require.Equal(t, 1, stats.AddedConcerts)

	out, err := json.Marshal(merged)
	require.NoError(t, err)
	require.JSONEq(t, `{"data": [{"url": "/a"}, {"url": "/b"}], "meta": {"v": 1}}`, string(out))
}

func TestMergeFiles(t *testing.T) {
	res := testutil.SetupService(t, testutil.ServiceParams{
		Files: map[string]string{
			"old.json": `{"data": [{"url": "/c/a"}], "meta": {"v": 1}}`,
			"new.json": `{"data": [{"url": "/c/a"}, {"url": "/c/b"}], "meta": {"v": 2}}`,
		},
	})
	ctx := context.Background()

	out, stats, err := MergeFiles(ctx, MergeOptions{
		Year:    2022,
		OldFile: filepath.Join(res.DataDir, "old.json"),
		NewFile: filepath.Join(res.DataDir, "new.json"),
		Prefix:  "sso",
		DataDir: res.DataDir,
	})
	require.NoError(t, err)
	require.Equal(t, 1, stats.AddedConcerts)
	require.Equal(t, filepath.Join(res.DataDir, "2022", "sso-concerts-merged-2022.json"), out)

	cal, err := LoadCalendar(out)
	require.NoError(t, err)
	require.Len(t, cal.Data, 2)

	_, _, err = MergeFiles(ctx, MergeOptions{Year: 2019, Prefix: "sso", DataDir: res.DataDir})
	require.ErrorIs(t, err, season.ErrInvalidYear)

	_, err = os.Stat(filepath.Join(res.DataDir, "2019"))
	require.True(t, os.IsNotExist(err))
}
