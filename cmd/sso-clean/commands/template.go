package commands

import (
	"cmp"
	"os"

	"sso-concerts/lib/tableutil"
	"sso-concerts/services/cleaner"

	"github.com/spf13/cobra"
)

var templateOut string

func init() {
	templateCmd.Flags().StringVar(&templateOut, "out", "", "Where to write the template, an existing file is backed up first.")
	rootCmd.AddCommand(templateCmd)
}

var templateCmd = &cobra.Command{
	Use:   "composer-template [--in <raw.parquet>] [--out <map.csv>]",
	Short: "Writes a composer name map listing every cleaned composer mapped to itself.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, shutdown, err := flags.Setup(cmd.Context(), "sso-clean")
		if err != nil {
			return err
		}
		defer shutdown()

		out := cmp.Or(templateOut, cfg.ComposerMap)
		n, err := cleaner.RunTemplate(cmd.Context(), rawSnapshot(cfg), out, cmp.Or(corrections, cfg.Corrections))
		if err != nil {
			return err
		}
		tableutil.Summary(os.Stdout, "composer template", [][2]any{
			{"composers", n},
			{"file", out},
		})
		return nil
	},
}
