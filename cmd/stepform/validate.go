package main

import (
	"fmt"

	"github.com/aretw0/stepform/internal/presentation/tui"
	"github.com/aretw0/stepform/pkg/schema"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a form schema for consistency",
	Long: `Loads a YAML or JSON form schema and reports unknown field references,
duplicate ids, invalid patterns and a misplaced review step.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfg.Schema
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			return fmt.Errorf("no schema file given (pass one or set --schema)")
		}

		form, err := schema.Load(path)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), tui.Success(fmt.Sprintf("%s is valid: %d steps, %d fields", form.ID, len(form.Steps), len(form.Fields))))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
