package snapshot

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"sso-concerts/lib/telemetry"
	"sso-concerts/lib/testutil"
	"sso-concerts/services/concerts"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var sample = []concerts.Concert{
	{
		Title:     "Beethoven & Brahms",
		Key:       "beethoven-and-brahms",
		Date:      "2020-03-27 18:00",
		Pieces:    []string{"Symphony No.5", "Symphony No.1"},
		Composers: []string{"Ludwig Van Beethoven", "Johannes Brahms"},
		Conductor: "Simone Young",
		Artists: []concerts.Artist{
			{Role: "Artist", Name: "Sydney Symphony Orchestra"},
			{Role: "Piano", Name: "Jane Doe, Jr."},
		},
	},
	{
		Title:     "Gala",
		Key:       "gala",
		Date:      "2019-08-01 11:30",
		Pieces:    []string{"Various"},
		Composers: []string{"Unknown"},
		Conductor: "Unknown",
		Artists:   []concerts.Artist{{Role: "Artist", Name: "Unknown"}},
	},
}

func TestWritePair(t *testing.T) {
	telemetry.SetupForTesting(t)
	dir := t.TempDir()

	paths, err := WritePair(context.Background(), dir, "sso_raw", sample)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "sso_raw.parquet"), paths.Parquet)

	fromParquet, err := ReadParquet(paths.Parquet)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(sample, fromParquet))

	fromCSV, err := ReadCSV(paths.CSV)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(sample, fromCSV))

	header, _, _ := strings.Cut(testutil.ReadFile(t, paths.CSV), "\n")
	require.Equal(t, "Concert,Key,Date,Piece,Composer,Conductor,Artist_Metadata", header)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sso.xlsx")
	require.NoError(t, WriteXLSX(path, sample))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, columns, rows[0])
	require.Equal(t, "Symphony No.5; Symphony No.1", rows[1][3])
	require.Equal(t, "Artist: Sydney Symphony Orchestra; Piano: Jane Doe, Jr.", rows[1][6])
	require.Equal(t, "gala", rows[2][1])
}
