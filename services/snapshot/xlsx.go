package snapshot

import (
	"io"
	"strings"

	"sso-concerts/lib/fileutil"
	"sso-concerts/services/concerts"

	"github.com/xuri/excelize/v2"
)

const sheet = "Concerts"

var columns = []string{"Concert", "Key", "Date", "Piece", "Composer", "Conductor", "Artist_Metadata"}

func artistText(artists []concerts.Artist) string {
	parts := make([]string, len(artists))
	for i, a := range artists {
		parts[i] = a.Role + ": " + a.Name
	}
	return strings.Join(parts, "; ")
}

// WriteXLSX writes a workbook for people who open the data in a
// spreadsheet. Lists are joined with "; ".
func WriteXLSX(path string, cs []concerts.Concert) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &columns); err != nil {
		return err
	}
	for i, c := range cs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			c.Title,
			c.Key,
			c.Date,
			strings.Join(c.Pieces, "; "),
			strings.Join(c.Composers, "; "),
			c.Conductor,
			artistText(c.Artists),
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		return f.Write(w)
	})
}
