package transfer

import (
	"context"
	"errors"
	"sync"
	"time"

	"inventory-manager/core/inventory"
	"inventory-manager/core/logger"
	"inventory-manager/core/metrics"
	"inventory-manager/core/peripheral"

	"go.uber.org/zap"
)

var (
	// ErrNoStorage is logged when no container is classified as storage.
	ErrNoStorage = errors.New("no storage containers classified")
	// ErrInvalidRequest is returned for non-positive counts or empty names.
	ErrInvalidRequest = errors.New("invalid transfer request")
)

// Status qualifies a transfer result. The empty status means fully served.
type Status string

const (
	StatusOK             Status = ""
	StatusPartial        Status = "partial"
	StatusNotFound       Status = "not_found"
	StatusNoStorage      Status = "no_storage"
	StatusNoValidStorage Status = "no_valid_storage"
)

// Result is the outcome of a withdraw or deposit.
type Result struct {
	// Moved is the amount confirmed moved.
	Moved int `json:"moved"`
	// Requested is the amount asked for (withdraw) or offered (deposit).
	Requested int    `json:"requested"`
	Status    Status `json:"status,omitempty"`
	// Remaining maps source slots to what is left in them after a deposit.
	Remaining map[int]int `json:"remaining,omitempty"`
}

// SlotItem pairs a source slot with its known content.
type SlotItem struct {
	Slot int             `json:"slot"`
	Item peripheral.Item `json:"item"`
}

// Allocator executes withdraw and deposit requests against the network,
// choosing sources and destinations from the cache indexes and applying
// confirmed moves back to the cache.
type Allocator struct {
	cache      *inventory.Cache
	network    peripheral.Network
	log        *zap.Logger
	metrics    *metrics.Metrics
	retryLimit int
	retryDelay time.Duration
	maxDefault int

	locks *keyLock

	stacksMu sync.RWMutex
	stacks   map[string]int
}

// New creates an allocator working on the cache's network.
func New(cache *inventory.Cache, cfg inventory.Config, log *zap.Logger, m *metrics.Metrics) *Allocator {
	maxDefault := cfg.DefaultMaxStack
	if maxDefault <= 0 {
		maxDefault = 64
	}
	retryLimit := cfg.RetryLimit
	if retryLimit < 0 {
		retryLimit = 0
	}
	return &Allocator{
		cache:      cache,
		network:    cache.Network(),
		log:        logger.Component(log, "transfer"),
		metrics:    m,
		retryLimit: retryLimit,
		retryDelay: time.Duration(cfg.RetryDelayMs) * time.Millisecond,
		maxDefault: maxDefault,
		locks:      newKeyLock(),
		stacks:     make(map[string]int),
	}
}

// maxStack returns the max stack size of the item in a source slot. Values
// are cached per item key; a container that cannot tell yields the default.
func (a *Allocator) maxStack(ctx context.Context, inv peripheral.Inventory, slot int, item peripheral.Item) int {
	key := item.Key()
	a.stacksMu.RLock()
	n, ok := a.stacks[key]
	a.stacksMu.RUnlock()
	if ok {
		return n
	}

	detail, err := inv.GetItemDetail(ctx, slot)
	if err != nil || detail == nil || detail.MaxCount <= 0 {
		return a.maxDefault
	}
	a.stacksMu.Lock()
	a.stacks[key] = detail.MaxCount
	a.stacksMu.Unlock()
	return detail.MaxCount
}

func (a *Allocator) observe(op string, res Result) {
	a.metrics.ObserveTransfer(op, string(res.Status), res.Moved)
}
