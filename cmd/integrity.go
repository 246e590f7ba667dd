package cmd

import (
	"errors"

	"inventory-manager/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the inventory cache",
	Long:  `Checks that the cache indexes agree with the cached records and that the persistent store matches the cache.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		logg := rt.log
		defer logg.Sync()

		svc := integrity.NewService(rt.cache, rt.db, rt.cfg.Store.Table, logg)

		logg.Info("Checking stock index...")
		stock := svc.CheckStock()
		slots := svc.CheckSlots()
		if len(stock.Mismatches) == 0 && len(slots.Mismatches) == 0 {
			logg.Info("Indexes are consistent.", zap.Int("items", stock.Items), zap.Int("slots", slots.Slots))
		} else {
			logg.Warn("Index mismatches detected",
				zap.Int("stock", len(stock.Mismatches)),
				zap.Int("slots", len(slots.Mismatches)))
			if fixFlag {
				svc.FixIndexes()
				logg.Info("Indexes rebuilt.")
			} else {
				logg.Info("Run with --fix to rebuild the indexes.")
			}
		}

		logg.Info("Checking persistent store...")
		drift, err := svc.CheckPersistence(ctx)
		if err != nil {
			return err
		}
		if drift.Clean() {
			logg.Info("Persistent store matches the cache.", zap.Int("containers", drift.Cached))
		} else {
			logg.Warn("Persistent store drift detected",
				zap.Strings("missing", drift.Missing),
				zap.Strings("stale", drift.Stale),
				zap.Strings("drifted", drift.Drifted))
			if fixFlag {
				if err := svc.FixPersistence(ctx); err != nil {
					return err
				}
				logg.Info("Persistent store rewritten.")
			}
		}

		schema, err := svc.CheckSchema()
		switch {
		case errors.Is(err, integrity.ErrNoDatabase):
			logg.Info("Schema check skipped, store is not database backed.")
		case err != nil:
			logg.Error("Schema check failed", zap.Error(err))
		case schema.Matched:
			logg.Info("Store schema matches.", zap.String("table", schema.Table))
		default:
			logg.Warn("Missing Columns", zap.String("table", schema.Table), zap.Strings("columns", schema.Missing))
		}

		return printJSON(cmd, map[string]any{
			"stock":       stock,
			"slots":       slots,
			"persistence": drift,
			"schema":      schema,
		})
	},
}

func init() {
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Rebuild indexes and rewrite the store on mismatch")
	RootCmd.AddCommand(integrityCmd)
}
