package main

import (
	"github.com/spf13/cobra"

	"github.com/rbright/parola/internal/app"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive recognition shell",
	Long:  "Run an in-process engine and process each typed line as one utterance. Colon directives (:status, :grammars, :reload, :quit) inspect and control the engine.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.Shell(cmd.Context(), appOptions(cmd))
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}
