package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/adbpilot"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of adbpilot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "adbpilot version %s\n", strings.TrimSpace(adbpilot.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
