package transfer

import (
	"context"
	"fmt"

	"inventory-manager/core/peripheral"
)

// PullSlot deposits one source slot whose content the caller already knows,
// skipping the list call. It then requests an index rebuild, which batch mode defers.
func (a *Allocator) PullSlot(ctx context.Context, source string, slot int, item peripheral.Item) (Result, error) {
	if source == "" || slot < 1 || item.Count <= 0 {
		return Result{}, ErrInvalidRequest
	}
	unlock := a.locks.Lock("container:" + source)
	defer unlock()

	res, err := a.depositKnown(ctx, source, map[int]peripheral.Item{slot: item})
	a.observe("pull_slot", res)
	return res, err
}

// PullSlotsBatch pulls several known slots one by one inside batch mode, so
// the indexes are rebuilt once at the end.
func (a *Allocator) PullSlotsBatch(ctx context.Context, source string, items []SlotItem) (Result, error) {
	if source == "" {
		return Result{}, ErrInvalidRequest
	}
	unlock := a.locks.Lock("container:" + source)
	defer unlock()

	a.cache.BeginBatch()
	defer a.cache.EndBatch()

	total := Result{}
	for _, si := range items {
		if si.Slot < 1 || si.Item.Count <= 0 {
			continue
		}
		res, err := a.depositKnown(ctx, source, map[int]peripheral.Item{si.Slot: si.Item})
		if err != nil {
			return total, err
		}
		total = merge(total, res)
	}
	a.observe("pull_slots", total)
	return total, nil
}

// ClearSlots empties the given source slots into storage in a single
// deposit run, sharing destination planning across slots.
func (a *Allocator) ClearSlots(ctx context.Context, source string, contents map[int]peripheral.Item) (Result, error) {
	if source == "" {
		return Result{}, ErrInvalidRequest
	}
	unlock := a.locks.Lock("container:" + source)
	defer unlock()

	known := make(map[int]peripheral.Item, len(contents))
	for slot, it := range contents {
		if slot >= 1 && it.Count > 0 {
			known[slot] = it
		}
	}
	res, err := a.depositKnown(ctx, source, known)
	a.observe("clear_slots", res)
	return res, err
}

func (a *Allocator) depositKnown(ctx context.Context, source string, contents map[int]peripheral.Item) (Result, error) {
	if res, ok := a.checkStorage(source); !ok {
		return res, nil
	}
	inv, err := a.network.Open(ctx, source)
	if err != nil {
		return Result{}, fmt.Errorf("source %s: %w", source, err)
	}
	res := a.deposit(ctx, inv, contents)
	a.cache.RequestRebuild(false)
	return res, nil
}

// merge folds the result of one slot into a running total.
func merge(total, res Result) Result {
	total.Moved += res.Moved
	total.Requested += res.Requested
	for slot, n := range res.Remaining {
		if total.Remaining == nil {
			total.Remaining = make(map[int]int)
		}
		total.Remaining[slot] = n
	}
	// Configuration failures stick; otherwise the latest non-ok status wins.
	if res.Status != StatusOK && total.Status != StatusNoStorage && total.Status != StatusNoValidStorage {
		total.Status = res.Status
	}
	return total
}
