package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/adbpilot/internal/cli"
	"github.com/spf13/cobra"
)

var errStepsFailed = errors.New("one or more steps failed")

var runCmd = &cobra.Command{
	Use:   "run <plan.yaml|plan.json|->",
	Short: "Execute an automation plan",
	Long: `Executes every step of a plan file in order and prints one result per step.
A failed step never stops the plan. Use "-" to read the plan from stdin.

On a terminal the report is rendered as styled markdown; otherwise it is printed as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		strict, _ := cmd.Flags().GetBool("strict")

		plan, err := cli.LoadPlan(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}

		app, _, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		report := app.Pilot.ExecutePlan(cmd.Context(), plan)
		if err := cli.WriteReport(cmd.OutOrStdout(), report, output); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		if strict && report.Failed() > 0 {
			return errStepsFailed
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("output", "o", cli.FormatAuto, "Report format: auto, json or markdown")
	runCmd.Flags().Bool("strict", false, "Exit with an error if any step failed")
}
