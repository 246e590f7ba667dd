// Package inventory implements the inventory cache and its derived indexes.
//
// # Overview
//
// The cache holds one Entry per container: its size, type tags, storage
// classification and the content of every occupied slot. Three indexes are
// derived from the entries:
//
//   - Stock: item key -> total count, over storage containers only.
//   - Locations: item key -> (container, slot, count), over every container.
//   - Empty slots: container -> unoccupied slot indices.
//
// For every item key, the location counts restricted to storage containers
// sum to the stock level. This holds after every mutation, not only after a
// rescan.
//
// # Mutations
//
// Entries are replaced wholesale by ScanAll and ScanOne, and edited in place
// by ApplyRemoval and ApplyAddition after a confirmed transfer. Both updaters
// keep the indexes in step without any I/O. RebuildIndexes recomputes the
// indexes from the entries alone.
//
// # Batch mode
//
// BeginBatch defers rebuild requests (ScanOne, slot pulls) until EndBatch,
// which rebuilds once no matter how many requests arrived in between.
//
// # Persistence
//
// Every mutation writes the touched entries through to a kvstore.Store under
// "inventory/<container>". Load hydrates the cache from the store at start-up.
// Slot indices are ints everywhere except in the stored JSON documents.
//
// # Usage
//
//	cache := inventory.New(network, store, cfg.Inventory, log, metrics)
//	if err := cache.Load(ctx); err != nil { ... }
//	stock, err := cache.ScanAll(ctx, false)
//	locations := cache.FindItem("minecraft:iron_ore")
package inventory
