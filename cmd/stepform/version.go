package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/stepform"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of stepform",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "stepform version %s\n", strings.TrimSpace(stepform.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
