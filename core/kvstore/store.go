package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"inventory-manager/core/storage"

	"gorm.io/gorm"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// Store is a durable key/value map of JSON documents.
type Store interface {
	// Get returns the raw value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// GetAll returns every stored key/value pair.
	GetAll(ctx context.Context) (map[string][]byte, error)
	// SetAll upserts every pair of values. Keys not present are left untouched.
	SetAll(ctx context.Context, values map[string][]byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// GetJSON decodes the value under key into out. It returns false when the key is missing.
func GetJSON(ctx context.Context, s Store, key string, out any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes value and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// Open builds the store selected by cfg.Driver.
// db is required for the sql driver, client for the object driver.
func Open(cfg Config, db *gorm.DB, client storage.Client, bucket string) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQL:
		if db == nil {
			return nil, fmt.Errorf("kvstore: sql driver requires a database connection")
		}
		return NewSQL(db, cfg.Table)
	case DriverObject:
		if client == nil {
			return nil, fmt.Errorf("kvstore: object driver requires a storage client")
		}
		return NewObject(client, bucket, cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("kvstore: unknown driver %q", cfg.Driver)
	}
}
