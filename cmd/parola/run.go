package main

import (
	"github.com/spf13/cobra"

	"github.com/rbright/parola/internal/app"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the recognition daemon",
	Long:  "Load command modules, listen on the control socket, and process recognized utterances until stopped.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.Daemon(cmd.Context(), appOptions(cmd))
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
