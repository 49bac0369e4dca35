package concerts

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestFoldRepertoire(t *testing.T) {
	testCases := []struct {
		name     string
		steps    []step
		expected Repertoire
	}{
		{
			name:     "empty",
			expected: Repertoire{{Piece: "Various", Composer: "Unknown"}},
		},
		{
			name: "carry forward",
			steps: []step{
				work("Symphony No.1", "johannes brahms"),
				work("Tragic Overture", ""),
				setComposer("mozart"),
				work("Requiem*", ""),
			},
			expected: Repertoire{
				{Piece: "Symphony No.1", Composer: "Johannes Brahms"},
				{Piece: "Tragic Overture", Composer: "Johannes Brahms"},
				{Piece: "Requiem", Composer: "Mozart"},
			},
		},
		{
			name: "standalone keeps the carry",
			steps: []step{
				work("Cello Suite", "bach"),
				standalone("Fifty Fanfares Commission", "Unknown"),
				work("Partita", ""),
			},
			expected: Repertoire{
				{Piece: "Cello Suite", Composer: "Bach"},
				{Piece: "Fifty Fanfares Commission", Composer: "Unknown"},
				{Piece: "Partita", Composer: "Bach"},
			},
		},
		{
			name:     "nothing known",
			steps:    []step{work("", "")},
			expected: Repertoire{{Piece: "Various", Composer: "Unknown"}},
		},
		{
			name:     "composer without piece",
			steps:    []step{work("", "ravel")},
			expected: Repertoire{{Piece: "Various", Composer: "Ravel"}},
		},
		{
			name:     "footnote markers",
			steps:    []step{work("^Bolero*", `"ravel"*`)},
			expected: Repertoire{{Piece: "Bolero", Composer: "Ravel"}},
		},
		{
			name:     "piece before any composer",
			steps:    []step{work("Overture", "")},
			expected: Repertoire{{Piece: "Overture", Composer: "Unknown"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := foldRepertoire(tc.steps)
			require.Empty(t, cmp.Diff(tc.expected, got))
			require.Len(t, got.Composers(), len(got.Pieces()))
		})
	}
}

func TestFoldLineup(t *testing.T) {
	unknown := []Artist{{Role: "Artist", Name: "Unknown"}}

	testCases := []struct {
		name      string
		credits   []credit
		conductor string
		artists   []Artist
	}{
		{
			name:      "empty",
			conductor: "Unknown",
			artists:   unknown,
		},
		{
			name:      "role then name",
			credits:   []credit{{"conductor", "Jane Doe"}},
			conductor: "Jane Doe",
			artists:   unknown,
		},
		{
			name:      "name then role",
			credits:   []credit{{"Jane Doe", "conductor"}},
			conductor: "Jane Doe",
			artists:   unknown,
		},
		{
			name:      "conductor paired with an ensemble",
			credits:   []credit{{"Nicholas Carter, conductor", "Sydney Symphony Orchestra"}},
			conductor: "Nicholas Carter",
			artists: []Artist{
				{Role: "Artist", Name: "Sydney Symphony Orchestra"},
				{Role: "Conductor", Name: "Nicholas Carter"},
			},
		},
		{
			name: "first conductor wins",
			credits: []credit{
				{"conductor", "Simone Young"},
				{"Nicholas Carter, conductor", "Sydney Symphony Orchestra"},
				{"conductor", "Someone Else"},
			},
			conductor: "Simone Young",
			artists: []Artist{
				{Role: "Artist", Name: "Sydney Symphony Orchestra"},
				{Role: "Conductor", Name: "Nicholas Carter"},
			},
		},
		{
			name:      "conducting soloist",
			credits:   []credit{{"conductor, piano, harpsichord", "Jane Doe"}},
			conductor: "Jane Doe",
			artists: []Artist{
				{Role: "Piano", Name: "Jane Doe"},
				{Role: "Harpsichord", Name: "Jane Doe"},
			},
		},
		{
			name:      "director and instrument",
			credits:   []credit{{"director and violin", "Richard Tognetti"}},
			conductor: "Richard Tognetti",
			artists:   []Artist{{Role: "Director And Violin", Name: "Richard Tognetti"}},
		},
		{
			name:      "suffix director",
			credits:   []credit{{"violin-director", "Richard Tognetti"}},
			conductor: "Richard Tognetti",
			artists:   []Artist{{Role: "Violin-Director", Name: "Richard Tognetti"}},
		},
		{
			name: "list heading is skipped",
			credits: []credit{
				{"", "Evanescence is:"},
				{"", "Amy Lee"},
				{"Will Hunt", ""},
			},
			conductor: "Unknown",
			artists: []Artist{
				{Role: "Artist", Name: "Amy Lee"},
				{Role: "Artist", Name: "Will Hunt"},
			},
		},
		{
			name:      "film credit",
			credits:   []credit{{"Jane Doe", "Film Score"}},
			conductor: "Unknown",
			artists:   []Artist{{Role: "Artist", Name: "Jane Doe"}},
		},
		{
			name: "swapped roles",
			credits: []credit{
				{"Jane Doe", "concertmaster"},
				{"Jane Roe", "soprano"},
			},
			conductor: "Unknown",
			artists: []Artist{
				{Role: "Concertmaster", Name: "Jane Doe"},
				{Role: "Soprano", Name: "Jane Roe"},
			},
		},
		{
			name:      "default",
			credits:   []credit{{" piano ", "Jane Doe"}},
			conductor: "Unknown",
			artists:   []Artist{{Role: "Piano", Name: "Jane Doe"}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := foldLineup(tc.credits)
			require.Equal(t, tc.conductor, got.Conductor)
			require.Empty(t, cmp.Diff(tc.artists, got.Artists))
		})
	}
}
