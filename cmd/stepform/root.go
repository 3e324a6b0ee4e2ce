package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/stepform/internal/config"
	"github.com/aretw0/stepform/internal/logging"
	"github.com/aretw0/stepform/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "stepform",
	Short: "stepform runs multi-step forms with per-field validation",
	Long: `stepform drives a multi-step form (steps of fields, then a review step)
from a terminal, an HTTP API or an MCP client, and hands finished submissions
to a log, file or Redis sink.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		logger = logging.New(cfg.Level())
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, tui.Error(err.Error()))
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default ./"+config.ProjectPath+" when present)")
	pf.String("log-level", "info", "Log level: debug, info, warn or error")
	pf.String("schema", "", "Form schema file (YAML or JSON) or built-in form id (signup, contact)")
	pf.String("sink", config.SinkLog, "Where submissions go: log, file or redis")
	pf.String("sink-dir", ".stepform/submissions", "Directory of the file sink")
	pf.String("redis-addr", "localhost:6379", "Redis address of the redis sink")
	pf.String("redis-password", "", "Redis password")
	pf.Int("redis-db", 0, "Redis database")
	pf.String("redis-key", "stepform:submission:", "Key prefix of stored submissions")
	pf.String("redis-channel", "stepform:submitted", "Channel announcing new submissions")
	pf.Int("max-input-size", config.DefaultMaxInputSize, "Maximum size of a single field value in bytes")
	pf.StringSlice("redact-fields", nil, "Field id patterns masked before submissions reach the sink")
	pf.String("encryption-key", "", "Base64 AES-256 key sealing secret fields in stored submissions")
}
