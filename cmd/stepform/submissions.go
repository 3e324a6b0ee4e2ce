package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/stepform/internal/presentation/tui"
	"github.com/aretw0/stepform/pkg/persistence/middleware"
	"github.com/spf13/cobra"
)

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "Inspect submissions kept by the file or redis sink",
}

var submissionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List submission ids",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, closer, err := openStoredSink(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer closer()

		ids, err := s.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

var submissionsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one submission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		s, closer, err := openStoredSink(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer closer()

		sub, err := s.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if key, _ := cfg.EncryptionKeyBytes(); key != nil {
			if sub, err = middleware.Decrypt(sub, middleware.EncryptionConfig{ActiveKey: key}); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(sub)
		}
		md := tui.SubmissionMarkdown(sub)
		if rendered, err := tui.NewRenderer()(md); err == nil {
			md = rendered
		}
		fmt.Fprint(out, md)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(submissionsCmd)
	submissionsCmd.AddCommand(submissionsListCmd, submissionsGetCmd)
	submissionsGetCmd.Flags().Bool("json", false, "Print the raw submission, secrets included")
}
