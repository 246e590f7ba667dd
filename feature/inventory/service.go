package inventory

import (
	"context"

	"inventory-manager/core/inventory"
	"inventory-manager/core/transfer"

	"go.uber.org/zap"
)

// Service exposes the inventory cache and the transfer allocator.
type Service struct {
	cache     *inventory.Cache
	allocator *transfer.Allocator
	logger    *zap.Logger
}

// NewService creates a new inventory service.
func NewService(cache *inventory.Cache, allocator *transfer.Allocator, logger *zap.Logger) *Service {
	return &Service{
		cache:     cache,
		allocator: allocator,
		logger:    logger,
	}
}

// Cache returns the underlying cache.
func (s *Service) Cache() *inventory.Cache {
	return s.cache
}

// Scan runs a full scan and returns the container count and stock levels.
func (s *Service) Scan(ctx context.Context, force bool) (ScanResponse, error) {
	stock, err := s.cache.ScanAll(ctx, force)
	if err != nil {
		return ScanResponse{}, err
	}
	return ScanResponse{Containers: len(s.cache.Entries()), Stock: stock}, nil
}

// ScanContainer re-reads one container and returns its fresh record.
func (s *Service) ScanContainer(ctx context.Context, name string) (inventory.Entry, error) {
	if err := s.cache.ScanOne(ctx, name, false); err != nil {
		return inventory.Entry{}, err
	}
	e, _ := s.cache.Entry(name)
	return e, nil
}

// Stock returns every stored item key and its amount.
func (s *Service) Stock() map[string]int {
	return s.cache.Stock()
}

// StockOf returns the stored amount of one item key.
func (s *Service) StockOf(item string) StockResponse {
	return StockResponse{Item: item, Count: s.cache.StockOf(item)}
}

// Find returns every known slot holding the item key.
func (s *Service) Find(item string) []inventory.Location {
	return s.cache.FindItem(item)
}

// EmptySlots returns the empty slots of one container, or of all when name is empty.
func (s *Service) EmptySlots(name string) map[string][]int {
	if name == "" {
		return s.cache.EmptySlots()
	}
	return map[string][]int{name: s.cache.FindEmptySlots(name)}
}

// Withdraw moves items out of storage.
func (s *Service) Withdraw(ctx context.Context, req WithdrawRequest) (transfer.Result, error) {
	return s.allocator.Withdraw(ctx, req.Item, req.Count, req.Destination, req.Slot)
}

// Deposit moves the content of a container into storage.
func (s *Service) Deposit(ctx context.Context, req DepositRequest) (transfer.Result, error) {
	return s.allocator.Deposit(ctx, req.Source, req.Filter)
}

// Pull deposits known slots. Several slots are pulled inside one batch.
func (s *Service) Pull(ctx context.Context, req PullRequest) (transfer.Result, error) {
	if len(req.Slots) == 1 {
		return s.allocator.PullSlot(ctx, req.Source, req.Slots[0].Slot, req.Slots[0].Item)
	}
	return s.allocator.PullSlotsBatch(ctx, req.Source, req.Slots)
}

// Clear empties known slots in a single deposit run.
func (s *Service) Clear(ctx context.Context, req ClearRequest) (transfer.Result, error) {
	return s.allocator.ClearSlots(ctx, req.Source, req.Slots)
}

// BeginBatch enters batch mode.
func (s *Service) BeginBatch() {
	s.cache.BeginBatch()
}

// EndBatch leaves batch mode and reports whether the indexes were rebuilt.
func (s *Service) EndBatch() bool {
	return s.cache.EndBatch()
}

// Stats returns the cache counters.
func (s *Service) Stats() inventory.Stats {
	return s.cache.Stats()
}

// Parallel returns the current parallel settings.
func (s *Service) Parallel() inventory.ParallelSettings {
	return s.cache.Parallel()
}

// SetParallel applies new parallel settings and returns the effective ones.
func (s *Service) SetParallel(p inventory.ParallelSettings) inventory.ParallelSettings {
	return s.cache.SetParallelConfig(p)
}
