package commands

import (
	"cmp"
	"path/filepath"

	"sso-concerts/lib/cliutil"
	"sso-concerts/lib/config"

	"github.com/spf13/cobra"
)

const (
	rawPrefix     = "sso_2018_2024_raw"
	cleanedPrefix = "sso_2018_2024_cleaned"
)

var (
	flags       cliutil.Flags
	inFile      string
	corrections string
)

var rootCmd = &cobra.Command{
	Use:   "sso-clean",
	Short: "sso-clean applies the manual corrections and normalizes composer names.",
}

func init() {
	flags.Register(rootCmd)
	rootCmd.PersistentFlags().StringVar(&inFile, "in", "", "Raw parquet snapshot written by sso-parse.")
	rootCmd.PersistentFlags().StringVar(&corrections, "corrections", "", "Corrections file, the built in table is used when unset.")
}

// rawSnapshot is the --in flag or the raw snapshot under the output dir.
func rawSnapshot(cfg config.Config) string {
	return cmp.Or(inFile, filepath.Join(cfg.OutputDir, rawPrefix+".parquet"))
}

func Execute() {
	cliutil.Execute(rootCmd)
}
