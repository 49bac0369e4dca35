package tableutil

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable() table.Writer {
	return NewTableTo(os.Stdout)
}

func NewTableTo(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// Summary renders a two column name/value table with a title.
func Summary(w io.Writer, title string, rows [][2]any) string {
	t := NewTableTo(w)
	t.SetTitle(title)
	for _, r := range rows {
		t.AppendRow(table.Row{r[0], r[1]})
	}
	return t.Render()
}
