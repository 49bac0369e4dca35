package commands

import (
	"cmp"
	"os"

	"sso-concerts/lib/tableutil"
	"sso-concerts/services/calendar"

	"github.com/spf13/cobra"
)

var (
	updateYear       int
	updateOldFile    string
	updateNewFile    string
	updateJSONPrefix string
)

func init() {
	updateCmd.Flags().IntVarP(&updateYear, "year", "y", 0, "Season of the two calendar snapshots.")
	updateCmd.Flags().StringVar(&updateOldFile, "old-json-file", "", "The calendar snapshot to extend.")
	updateCmd.Flags().StringVar(&updateNewFile, "new-json-file", "", "The newer calendar snapshot.")
	updateCmd.Flags().StringVar(&updateJSONPrefix, "json-prefix", "", "Prefix of the merged file.")
	updateCmd.MarkFlagRequired("year")
	updateCmd.MarkFlagRequired("old-json-file")
	updateCmd.MarkFlagRequired("new-json-file")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update-calendar-json -y <year> --old-json-file <file> --new-json-file <file>",
	Short: "Adds the concerts only found in the newer calendar snapshot to the older one.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, shutdown, err := flags.Setup(cmd.Context(), "sso-calendar")
		if err != nil {
			return err
		}
		defer shutdown()

		out, stats, err := calendar.MergeFiles(cmd.Context(), calendar.MergeOptions{
			Year:    updateYear,
			OldFile: updateOldFile,
			NewFile: updateNewFile,
			Prefix:  cmp.Or(updateJSONPrefix, cfg.CSVPrefix),
			DataDir: cfg.DataDir,
		})
		if err != nil {
			return err
		}

		tableutil.Summary(os.Stdout, "calendar merge", [][2]any{
			{"old concerts", stats.OldConcerts},
			{"new concerts", stats.NewConcerts},
			{"added concerts", stats.AddedConcerts},
			{"file", out},
		})
		return nil
	},
}
