package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	flagPort     string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:           "fortune-proxy",
	Short:         "Fortune-telling HTTP backend on top of an LLM",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPort, "port", "", "listen port (overrides PORT)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "debug|info|warn|error (overrides LOG_LEVEL)")
	rootCmd.AddCommand(serveCmd, profileCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
