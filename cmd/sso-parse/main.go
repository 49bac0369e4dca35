package main

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"

	"sso-concerts/lib/cliutil"
	"sso-concerts/lib/fileutil"
	"sso-concerts/lib/tableutil"
	"sso-concerts/services/concerts"
	"sso-concerts/services/htmlstore"
	"sso-concerts/services/snapshot"

	"github.com/spf13/cobra"
)

const defaultOutPrefix = "sso_2018_2024_raw"

var (
	flags     cliutil.Flags
	dbFile    string
	outPrefix string
	outputDir string
)

var rootCmd = &cobra.Command{
	Use:   "sso-parse [--db <store.db>]",
	Short: "Parses every stored concert page into concert rows and writes the raw snapshot.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, shutdown, err := flags.Setup(ctx, "sso-parse")
		if err != nil {
			return err
		}
		defer shutdown()

		path := cmp.Or(dbFile, cfg.Database)
		if !fileutil.Exists(path) {
			return fmt.Errorf("%w: %s", htmlstore.ErrStoreMissing, path)
		}
		store, err := htmlstore.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer store.Close()

		records, err := store.LoadAll(ctx)
		if err != nil {
			return err
		}
		slog.InfoContext(ctx, "loaded concert html records", "db", path, "records", len(records))

		rows, err := concerts.ParseAll(ctx, records)
		if err != nil {
			return err
		}

		paths, err := snapshot.WritePair(ctx, cmp.Or(outputDir, cfg.OutputDir), outPrefix, rows)
		if err != nil {
			return err
		}

		tableutil.Summary(os.Stdout, "parse", [][2]any{
			{"records", len(records)},
			{"concert rows", len(rows)},
			{"parquet", paths.Parquet},
			{"csv", paths.CSV},
		})
		return nil
	},
}

func main() {
	flags.Register(rootCmd)
	rootCmd.Flags().StringVar(&dbFile, "db", "", "The html store to parse.")
	rootCmd.Flags().StringVar(&outPrefix, "out-prefix", defaultOutPrefix, "File name prefix of the snapshot files.")
	rootCmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory the snapshot files are written to.")

	cliutil.Execute(rootCmd)
}
