package main

import (
	"fmt"

	"github.com/aretw0/stepform/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the step flow as a Mermaid diagram",
	Long:  `Outputs a Mermaid diagram (graph TD) of the form's steps and the navigation between them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		current, _ := cmd.Flags().GetInt("current")

		form, err := loadForm(cfg)
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		if current > 0 {
			overlay = &graph.Overlay{CurrentStep: current}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(form, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Int("current", 0, "Highlight this step and the ones before it")
}
