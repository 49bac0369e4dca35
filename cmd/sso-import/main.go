package main

import (
	"cmp"
	"os"

	"sso-concerts/lib/cliutil"
	"sso-concerts/lib/tableutil"
	"sso-concerts/services/importer"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	flags      cliutil.Flags
	years      []int
	keys       []string
	dataDir    string
	dbPrefix   string
	dbFileName string
	appendMode bool
	dryRun     bool
)

var rootCmd = &cobra.Command{
	Use:   "sso-import -y <year> [-y <year>...] [-c <key>...]",
	Short: "Loads the saved concert pages of each season into the html store.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, shutdown, err := flags.Setup(cmd.Context(), "sso-import")
		if err != nil {
			return err
		}
		defer shutdown()

		res, err := importer.Run(cmd.Context(), importer.Options{
			Years:    years,
			Keys:     keys,
			DataDir:  cmp.Or(dataDir, cfg.DataDir),
			DBPrefix: cmp.Or(dbPrefix, cfg.DBPrefix),
			DBFile:   dbFileName,
			Append:   appendMode,
			DryRun:   dryRun,
		})
		if err != nil {
			return err
		}

		if res.DryRun {
			t := tableutil.NewTable()
			t.SetTitle("[DRY RUN] " + res.DBName)
			t.AppendHeader(table.Row{"Year|Key"})
			for _, pair := range res.Pairs() {
				t.AppendRow(table.Row{pair})
			}
			t.Render()
			return nil
		}

		tableutil.Summary(os.Stdout, "import", [][2]any{
			{"database", res.DBName},
			{"records", len(res.Records)},
			{"append", appendMode},
		})
		return nil
	},
}

func init() {
	flags.Register(rootCmd)
	f := rootCmd.Flags()
	f.IntSliceVarP(&years, "year", "y", nil, "Season to import, repeat for more than one.")
	f.StringArrayVarP(&keys, "concert-key", "c", nil, "Only import this concert key, repeat for more than one.")
	f.StringVar(&dataDir, "data-dir", "", "Directory holding the <year>/events folders.")
	f.StringVar(&dbPrefix, "db-prefix", "", "Prefix of the derived store file name.")
	f.StringVar(&dbFileName, "db-file-name", "", "Store file to write, overrides the derived name.")
	f.BoolVarP(&appendMode, "append", "a", false, "Add to an existing store instead of creating one.")
	f.BoolVarP(&dryRun, "dry-run", "d", false, "Load and validate the pages without writing the store.")
	rootCmd.MarkFlagRequired("year")
}

func main() {
	cliutil.Execute(rootCmd)
}
