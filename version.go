package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = ""

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ricettario",
	Run: func(cmd *cobra.Command, args []string) {
		v := version
		if v == "" {
			v = "devel"
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
				v = info.Main.Version
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ricettario version %s\n", v)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
