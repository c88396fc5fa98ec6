// Package cmd is the dashboardctl command tree: operational checks run
// against the same configuration as the dashboard server.
package cmd

import (
	"fmt"
	"os"

	"wpconn-dashboard/internal/config"
	"wpconn-dashboard/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "dashboardctl",
	Short: "Operate the WPConn dashboard",
	Long: `dashboardctl runs maintenance tasks for the WPConn dashboard.

It reads the same environment (and .env file) as the server.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
}

func loadEnv() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(level, "console")
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
}
