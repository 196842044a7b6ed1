package main

import (
	"fmt"

	"github.com/aretw0/adbpilot/internal/cli"
	"github.com/aretw0/adbpilot/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <plan.yaml|plan.json|->",
	Short: "Check a plan without touching the device",
	Long: `Checks every step of a plan for unknown actions, missing targets and malformed
coordinates, durations or keycodes. Problems that depend on the device (contacts,
on-screen controls) are only found by running the plan.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := cli.LoadPlan(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		if err := validator.ValidatePlan(plan); err != nil {
			for _, issue := range validator.Issues(err) {
				fmt.Fprintln(cmd.OutOrStdout(), issue.Error())
			}
			return fmt.Errorf("plan is invalid: %d issue(s)", len(validator.Issues(err)))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Plan is valid: %d step(s)\n", len(plan.Steps))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
