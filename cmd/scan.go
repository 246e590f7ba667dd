package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scanForce bool
var scanContainer string

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the container network",
	Long:  `Lists every container (or a single one with --container), persists the records and prints the stock levels.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.log.Sync()

		if scanContainer != "" {
			if err := rt.cache.ScanOne(ctx, scanContainer, false); err != nil {
				return err
			}
			entry, _ := rt.cache.Entry(scanContainer)
			return printJSON(cmd, entry)
		}

		stock, err := rt.cache.ScanAll(ctx, scanForce)
		if err != nil {
			return err
		}
		stats := rt.cache.Stats()
		rt.log.Info("Scan complete",
			zap.Int("containers", stats.Containers),
			zap.Int("storage", stats.StorageContainers),
			zap.Int("skipped", stats.LastScanSkipped))
		return printJSON(cmd, stock)
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanForce, "force", true, "Rediscover containers before scanning")
	scanCmd.Flags().StringVar(&scanContainer, "container", "", "Scan only this container")
	RootCmd.AddCommand(scanCmd)
}
