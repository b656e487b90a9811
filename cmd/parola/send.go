package main

import (
	"github.com/spf13/cobra"

	"github.com/rbright/parola/internal/app"
)

var sendCmd = &cobra.Command{
	Use:       "send <command> [args...]",
	Short:     "Send a control command to the running daemon",
	Long:      "Forward one command over the control socket: status, pause, resume, mimic <words...>, grammars, history [limit], reload, stop.",
	Args:      cobra.MinimumNArgs(1),
	ValidArgs: []string{"status", "pause", "resume", "mimic", "grammars", "history", "reload", "stop"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Send(cmd.Context(), appOptions(cmd), args[0], args[1:])
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
}
