// Package kvstore provides the durable key/value store the inventory cache
// persists into.
//
// Values are JSON documents. Three backends share the Store interface:
//
//   - Memory: process memory, used by tests and throwaway runs.
//   - SQL: a single GORM-managed table (MySQL or SQLite).
//   - Object: one JSON object per key in an S3/MinIO bucket.
//
// # Usage
//
//	store, err := kvstore.Open(cfg.Store, db, client, cfg.Storage.Bucket)
//	err = kvstore.SetJSON(ctx, store, "inventory/chest_1", entry)
//	found, err := kvstore.GetJSON(ctx, store, "inventory/chest_1", &entry)
package kvstore
