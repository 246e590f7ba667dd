package cmd

import (
	"fmt"
	"os"

	"inventory-manager/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// configDir is where LoadConfig looks for the .env file.
var configDir string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "inventory-manager",
	Short: "Inventory Manager Service",
	Long: `Inventory Manager keeps a cache of the items held by networked containers
and moves items in and out of storage containers on request.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory holding the .env file")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	err := RootCmd.Execute()
	if err == nil {
		return
	}

	// Console at debug level gives readable timestamps for CLI output
	l, logErr := logger.New(&logger.Config{Level: "debug", Format: "console"})
	if logErr != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	l.Error("command failed", zap.Error(err))
	_ = l.Sync()
	os.Exit(1)
}
