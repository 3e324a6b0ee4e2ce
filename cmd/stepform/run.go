package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/stepform/internal/presentation/tui"
	"github.com/aretw0/stepform/pkg/runner"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fill in the form interactively",
	Long: `Prompts for every field step by step, shows a review of the answers and
submits them to the configured sink. Type :back to return to the previous step
and :quit to leave without submitting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		headless, _ := cmd.Flags().GetBool("headless")
		noBanner, _ := cmd.Flags().GetBool("no-banner")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		eng, closeSink, err := newEngine(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeSink()

		opts := []runner.Option{
			runner.WithLogger(logger),
			runner.WithHeadless(headless),
			runner.WithMaxInputSize(cfg.MaxInputSize),
		}
		render := tui.NewRenderer()
		if !headless {
			opts = append(opts, runner.WithRenderer(render))
			if !noBanner {
				tui.PrintBanner(os.Stdout)
			}
		}

		sub, err := runner.NewRunner(opts...).Run(ctx, eng)
		if errors.Is(err, runner.ErrInterrupted) || errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "\nInterrupted, nothing was submitted.")
			return nil
		}
		if err != nil {
			return err
		}
		if headless {
			return nil
		}
		if sub == nil {
			fmt.Println("Left without submitting.")
			return nil
		}

		out, err := render(tui.SubmissionMarkdown(sub))
		if err != nil {
			out = tui.SubmissionMarkdown(sub)
		}
		fmt.Print(out)
		fmt.Println(tui.Success("Form submitted"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("headless", false, "Exchange JSON lines on stdin/stdout instead of prompting")
	runCmd.Flags().Bool("no-banner", false, "Do not print the banner")
}
