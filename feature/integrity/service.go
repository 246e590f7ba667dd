package integrity

import (
	"context"
	"errors"

	"inventory-manager/core/inventory"
	"inventory-manager/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNoDatabase is returned by the schema check when the store is not SQL backed.
var ErrNoDatabase = errors.New("store is not backed by a database")

// Service handles integrity checks.
type Service struct {
	cache  *inventory.Cache
	db     *gorm.DB
	table  string
	logger *zap.Logger
}

// NewService creates a new integrity service. db may be nil when the
// persistent store does not use the database.
func NewService(cache *inventory.Cache, db *gorm.DB, table string, logger *zap.Logger) *Service {
	return &Service{
		cache:  cache,
		db:     db,
		table:  table,
		logger: logger,
	}
}

// CheckStock compares the stock index with the cached slots.
func (s *Service) CheckStock() checks.StockReport {
	return checks.CheckStock(s.cache)
}

// CheckSlots verifies the empty-slot index.
func (s *Service) CheckSlots() checks.SlotReport {
	return checks.CheckEmptySlots(s.cache)
}

// FixIndexes rebuilds every index from the cached records.
func (s *Service) FixIndexes() {
	s.cache.RebuildIndexes()
}

// CheckPersistence diffs the cache against the persistent store.
func (s *Service) CheckPersistence(ctx context.Context) (checks.DriftReport, error) {
	return checks.CheckPersistence(ctx, s.cache)
}

// FixPersistence rewrites the store from the cache.
func (s *Service) FixPersistence(ctx context.Context) error {
	return s.cache.Sync(ctx)
}

// CheckSchema verifies the key/value table.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	if s.db == nil {
		return nil, ErrNoDatabase
	}
	return checks.CheckSchema(s.db, s.table)
}
