package main

import (
	"github.com/spf13/cobra"

	"github.com/rbright/parola/internal/app"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent recognition outcomes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return app.History(cmd.Context(), appOptions(cmd), limit)
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of entries to show")
	rootCmd.AddCommand(historyCmd)
}
