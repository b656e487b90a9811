package main

import (
	"github.com/spf13/cobra"

	"github.com/rbright/parola/internal/app"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the environment and configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return app.Doctor(cmd.Context(), appOptions(cmd))
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
