// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small interface so the persisted
// inventory cache can live in AWS S3 or a self-hosted MinIO bucket, and so the
// object-backed key/value store can be tested against core/storage/mocks.
//
// # Operations
//
//   - BucketExists / MakeBucket: used by EnsureBucket at start-up.
//   - PutObject / GetObject: one JSON document per cached container.
//   - ListObjects: hydration of the whole cache (prefix, recursive).
//   - RemoveObject: dropping records of detached containers.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil { ... }
package storage
