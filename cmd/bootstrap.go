package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"inventory-manager/core/config"
	"inventory-manager/core/database"
	"inventory-manager/core/inventory"
	"inventory-manager/core/kvstore"
	"inventory-manager/core/logger"
	"inventory-manager/core/metrics"
	"inventory-manager/core/peripheral"
	"inventory-manager/core/peripheral/memory"
	"inventory-manager/core/storage"
	"inventory-manager/core/transfer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime holds the components shared by the commands.
type runtime struct {
	cfg       *config.Config
	log       *zap.Logger
	db        *gorm.DB
	metrics   *metrics.Metrics
	cache     *inventory.Cache
	allocator *transfer.Allocator
}

// bootstrap loads the configuration and wires the cache and the allocator.
func bootstrap(ctx context.Context) (*runtime, error) {
	// 1. Load Configuration
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Initialize Logger
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 3. Open the persistent store and its backend
	var db *gorm.DB
	var client storage.Client
	switch strings.ToLower(cfg.Store.Driver) {
	case kvstore.DriverSQL:
		if db, err = database.Connect(cfg.Database); err != nil {
			return nil, err
		}
		logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
	case kvstore.DriverObject:
		if client, err = storage.NewClient(cfg.Storage); err != nil {
			return nil, err
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			return nil, err
		}
	}
	store, err := kvstore.Open(cfg.Store, db, client, cfg.Storage.Bucket)
	if err != nil {
		return nil, err
	}

	// 4. Connect to the container network
	network, err := openNetwork(cfg.Peripheral)
	if err != nil {
		return nil, err
	}

	// 5. Build the cache from the persisted records
	m := metrics.New()
	cache := inventory.New(network, store, cfg.Inventory, logg, m)
	if err := cache.Load(ctx); err != nil {
		logg.Warn("Failed to load persisted inventory cache", zap.Error(err))
	}

	return &runtime{
		cfg:       cfg,
		log:       logg,
		db:        db,
		metrics:   m,
		cache:     cache,
		allocator: transfer.New(cache, cfg.Inventory, logg, m),
	}, nil
}

func openNetwork(cfg peripheral.Config) (peripheral.Network, error) {
	switch strings.ToLower(cfg.Driver) {
	case peripheral.DriverMemory:
		return memory.LoadFile(cfg.SeedFile)
	case peripheral.DriverRemote, "":
		return peripheral.NewRemote(cfg), nil
	default:
		return nil, fmt.Errorf("unknown peripheral driver %q", cfg.Driver)
	}
}

// ensureScanned runs a full scan when nothing was loaded from the store.
func (rt *runtime) ensureScanned(ctx context.Context) error {
	if len(rt.cache.Entries()) > 0 {
		return nil
	}
	_, err := rt.cache.ScanAll(ctx, true)
	return err
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
