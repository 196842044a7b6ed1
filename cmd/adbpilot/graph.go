package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/adbpilot/internal/cli"
	"github.com/aretw0/adbpilot/internal/presentation/graph"
	"github.com/aretw0/adbpilot/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <plan.yaml|plan.json|->",
	Short: "Export the plan as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart (graph TD) of the plan's steps in execution order.
With --report, steps are colored by the outcome recorded in a JSON report produced by "run -o json".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := cli.LoadPlan(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		if path, _ := cmd.Flags().GetString("report"); path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read report: %w", err)
			}
			var report domain.PlanReport
			if err := json.Unmarshal(data, &report); err != nil {
				return fmt.Errorf("failed to parse report: %w", err)
			}
			overlay = graph.OverlayFromReport(report)
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(plan, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("report", "", "JSON report to overlay step outcomes")
}
