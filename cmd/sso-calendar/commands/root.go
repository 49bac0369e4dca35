package commands

import (
	"sso-concerts/lib/cliutil"

	"github.com/spf13/cobra"
)

var flags cliutil.Flags

var rootCmd = &cobra.Command{
	Use:   "sso-calendar",
	Short: "sso-calendar extracts concert keys from the season calendars and merges calendar snapshots.",
}

func init() {
	flags.Register(rootCmd)
}

func Execute() {
	cliutil.Execute(rootCmd)
}
