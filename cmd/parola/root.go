package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rbright/parola/internal/app"
)

var rootCmd = &cobra.Command{
	Use:          "parola",
	Short:        "Voice-command macro engine",
	Long:         "Parola matches spoken-word hypotheses against grammar rules and dispatches the winning command's actions.",
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default: $XDG_CONFIG_HOME/parola/config.jsonc)")
	rootCmd.PersistentFlags().String("socket", "", "Control socket path override")
	rootCmd.PersistentFlags().StringP("log-level", "l", "", "Log level override (debug, info, warn, error)")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("socket", rootCmd.PersistentFlags().Lookup("socket"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	viper.SetEnvPrefix("PAROLA")
	viper.AutomaticEnv()
}

// appOptions collects the shared CLI settings for the app runners.
func appOptions(cmd *cobra.Command) app.Options {
	return app.Options{
		ConfigPath: viper.GetString("config"),
		Socket:     viper.GetString("socket"),
		LogLevel:   viper.GetString("log_level"),
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
	}
}
