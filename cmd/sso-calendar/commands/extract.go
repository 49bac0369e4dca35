package commands

import (
	"cmp"
	"fmt"
	"os"

	"sso-concerts/lib/tableutil"
	"sso-concerts/services/calendar"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	extractYears     []int
	extractCSVPrefix string
	extractDataDir   string
)

func init() {
	extractCmd.Flags().IntSliceVarP(&extractYears, "year", "y", nil, "Season to extract, repeat for more than one.")
	extractCmd.Flags().StringVar(&extractCSVPrefix, "csv-prefix", "", "Prefix of the exported key files.")
	extractCmd.Flags().StringVar(&extractDataDir, "data-dir", "", "Directory holding the <year>/ calendar folders.")
	extractCmd.MarkFlagRequired("year")
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract-concert-ids -y <year> [-y <year>...]",
	Short: "Extracts the concert keys of each season and writes them to <year>/<prefix>_<year>_keys.csv.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, shutdown, err := flags.Setup(cmd.Context(), "sso-calendar")
		if err != nil {
			return err
		}
		defer shutdown()

		results, err := calendar.ExtractAll(cmd.Context(), calendar.Options{
			Years:     extractYears,
			DataDir:   cmp.Or(extractDataDir, cfg.DataDir),
			CSVPrefix: cmp.Or(extractCSVPrefix, cfg.CSVPrefix),
		})
		if err != nil {
			return err
		}

		t := tableutil.NewTable()
		t.SetTitle("concert keys")
		t.AppendHeader(table.Row{"Year", "Keys", "File", "Error"})
		failed := 0
		for _, r := range results {
			errText := ""
			if r.Err != nil {
				errText = r.Err.Error()
				failed++
			}
			t.AppendRow(table.Row{r.Year, r.Keys, r.File, errText})
		}
		t.Render()

		if failed > 0 {
			fmt.Fprintf(os.Stderr, "%d of %d seasons failed\n", failed, len(results))
		}
		return nil
	},
}
