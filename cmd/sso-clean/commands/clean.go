package commands

import (
	"cmp"
	"os"

	"sso-concerts/lib/tableutil"
	"sso-concerts/services/cleaner"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	composerMap string
	writeXLSX   bool
)

func init() {
	cleanCmd.Flags().StringVar(&composerMap, "composer-map", "", "Composer,ComposerFullName,Gender csv.")
	cleanCmd.Flags().BoolVar(&writeXLSX, "xlsx", false, "Also write an xlsx workbook of the cleaned rows.")
	rootCmd.AddCommand(cleanCmd)
}

var cleanCmd = &cobra.Command{
	Use:   "clean [--in <raw.parquet>] [--composer-map <map.csv>]",
	Short: "Cleans the raw snapshot and writes the cleaned parquet and csv files.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, shutdown, err := flags.Setup(cmd.Context(), "sso-clean")
		if err != nil {
			return err
		}
		defer shutdown()

		res, err := cleaner.Run(cmd.Context(), cleaner.Options{
			In:          rawSnapshot(cfg),
			OutputDir:   cfg.OutputDir,
			OutPrefix:   cleanedPrefix,
			ComposerMap: cmp.Or(composerMap, cfg.ComposerMap),
			Corrections: cmp.Or(corrections, cfg.Corrections),
			XLSX:        writeXLSX,
		})
		if err != nil {
			return err
		}

		rows := [][2]any{
			{"raw rows", res.In},
			{"cleaned rows", res.Out},
			{"unmapped composers", len(res.Unmapped)},
			{"parquet", res.Paths.Parquet},
			{"csv", res.Paths.CSV},
		}
		if res.Paths.XLSX != "" {
			rows = append(rows, [2]any{"xlsx", res.Paths.XLSX})
		}
		tableutil.Summary(os.Stdout, "clean", rows)

		if len(res.Aliases) > 0 {
			t := tableutil.NewTable()
			t.SetTitle("possible composer aliases")
			t.AppendHeader(table.Row{"Composer", "Suggested", "Correlation"})
			for _, a := range res.Aliases {
				t.AppendRow(table.Row{a.Composer, a.Suggested, a.Correlation})
			}
			t.Render()
		}
		return nil
	},
}
