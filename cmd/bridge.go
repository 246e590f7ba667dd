package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"inventory-manager/core/config"
	"inventory-manager/core/logger"
	"inventory-manager/core/peripheral"
	"inventory-manager/core/peripheral/memory"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var bridgeSeed string
var bridgeAddr string

// bridgeCmd represents the bridge command
var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Serve a simulated container network",
	Long: `Serves an in-memory container network over the peripheral bridge protocol,
so the server can run against it with the remote peripheral driver.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return err
		}
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return err
		}
		defer logg.Sync()

		seed := bridgeSeed
		if seed == "" {
			seed = cfg.Peripheral.SeedFile
		}
		network, err := memory.LoadFile(seed)
		if err != nil {
			return err
		}

		app := peripheral.NewBridge(network, cfg.Peripheral.ApiKey)
		go func() {
			logg.Info("Starting peripheral bridge", zap.String("addr", bridgeAddr), zap.String("seed", seed))
			if err := app.Listen(bridgeAddr); err != nil {
				logg.Fatal("Bridge failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down bridge...")
		return app.Shutdown()
	},
}

func init() {
	bridgeCmd.Flags().StringVar(&bridgeSeed, "seed", "", "JSON layout of the simulated network")
	bridgeCmd.Flags().StringVar(&bridgeAddr, "addr", ":7000", "Listen address")
	RootCmd.AddCommand(bridgeCmd)
}
