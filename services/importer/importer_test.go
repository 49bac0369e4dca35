package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"sso-concerts/lib/season"
	"sso-concerts/lib/testutil"
	"sso-concerts/services/htmlstore"

	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html><html><head><title>Concert | SSO</title></head><body><p>hi</p></body></html>`

func TestKeyFromFile(t *testing.T) {
	testCases := []struct {
		path     string
		expected string
	}{
		{path: "data/2022/events/eskimo-joe.html", expected: "eskimo-joe"},
		{path: "a.b.html", expected: "a"},
		{path: "noext", expected: "noext"},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, KeyFromFile(tc.path))
	}
}

func TestImportYear(t *testing.T) {
	res := testutil.SetupService(t, testutil.ServiceParams{
		Files: map[string]string{
			"2022/events/b-concert.html": page,
			"2022/events/a-concert.html": page,
			"2022/events/notes.txt":      "ignored",
		},
	})
	ctx := context.Background()

	records, err := ImportYear(ctx, res.DataDir, 2022, nil)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "a-concert", records[0].Key)
	require.Equal(t, "b-concert", records[1].Key)
	require.Equal(t, 2022, records[0].Year)
	require.Contains(t, records[0].HTMLContent, "<title>Concert | SSO</title>")
	require.Contains(t, records[0].HTMLContent, "<html>")

	records, err = ImportYear(ctx, res.DataDir, 2022, []string{"b-concert"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "b-concert", records[0].Key)

	_, err = ImportYear(ctx, res.DataDir, 2022, []string{"missing"})
	require.Error(t, err)

	_, err = ImportYear(ctx, res.DataDir, 2021, nil)
	require.Error(t, err)
}

func TestImportYearEmptyFile(t *testing.T) {
	res := testutil.SetupService(t, testutil.ServiceParams{
		Files: map[string]string{
			"2022/events/a.html": page,
			"2022/events/b.html": "  \n",
		},
	})
	_, err := ImportYear(context.Background(), res.DataDir, 2022, nil)
	require.Error(t, err)
}

func TestRun(t *testing.T) {
	res := testutil.SetupService(t, testutil.ServiceParams{
		Files: map[string]string{
			"2021/events/x.html": page,
			"2022/events/y.html": page,
			"2022/events/z.html": page,
		},
	})
	ctx := context.Background()
	dbFile := filepath.Join(res.DataDir, "out.db")

	testCases := []struct {
		name string
		opts Options
		err  error
	}{
		{
			name: "invalid year",
			opts: Options{Years: []int{2017}, DataDir: res.DataDir, DBFile: dbFile},
			err:  season.ErrInvalidYear,
		},
		{
			name: "no records",
			opts: Options{Years: []int{2022}, Keys: nil, DataDir: filepath.Join(res.DataDir, "none"), DBFile: dbFile},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Run(ctx, tc.opts)
			require.Error(t, err)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
			}
		})
	}

	dry, err := Run(ctx, Options{Years: []int{2021, 2022}, DataDir: res.DataDir, DBFile: dbFile, DryRun: true})
	require.NoError(t, err)
	require.Equal(t, []string{"2021|x", "2022|y", "2022|z"}, dry.Pairs())
	_, err = os.Stat(dbFile)
	require.True(t, os.IsNotExist(err))

	out, err := Run(ctx, Options{Years: []int{2021, 2022}, DataDir: res.DataDir, DBFile: dbFile})
	require.NoError(t, err)
	require.Equal(t, dbFile, out.DBName)

	store, err := htmlstore.Open(dbFile)
	require.NoError(t, err)
	defer store.Close()
	years, err := store.Tables(ctx)
	require.NoError(t, err)
	require.Equal(t, []int{2021, 2022}, years)

	_, err = Run(ctx, Options{Years: []int{2022}, DataDir: res.DataDir, DBFile: dbFile})
	require.ErrorIs(t, err, htmlstore.ErrStoreExists)

	_, err = Run(ctx, Options{Years: []int{2022}, DataDir: res.DataDir, DBFile: dbFile, Append: true})
	require.NoError(t, err)
}

func TestRunEmptyEvents(t *testing.T) {
	res := testutil.SetupService(t, testutil.ServiceParams{
		Files: map[string]string{"2022/events/readme.txt": "x"},
	})
	_, err := Run(context.Background(), Options{
		Years:   []int{2022},
		DataDir: res.DataDir,
		DBFile:  filepath.Join(res.DataDir, "out.db"),
	})
	require.ErrorIs(t, err, ErrNoRecords)
}
