package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show bridge connectivity and attached devices",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		status := app.Pilot.Status(cmd.Context())
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	},
}

var execCmd = &cobra.Command{
	Use:   "exec <adb arguments...>",
	Short: "Run a raw adb command",
	Long: `Runs a single adb command through the same bridge used by plans, e.g.

  adbpilot exec shell getprop ro.product.model
  adbpilot exec -- shell ls -l /sdcard`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		res, err := app.Pilot.Exec(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), res.Output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(execCmd)
}
