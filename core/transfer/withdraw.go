package transfer

import (
	"context"
	"fmt"

	"inventory-manager/core/inventory"
	"inventory-manager/core/parallel"

	"go.uber.org/zap"
)

// Withdraw moves up to count items of itemKey from storage into dest.
//
// Storage locations are drained largest stack first. With a destination
// slot, with parallelism disabled or with at most two locations the moves
// run one by one; otherwise one transfer per needed location runs through
// the parallel engine. The cache is updated only with confirmed amounts.
// Fewer items than requested is a partial result, not an error.
func (a *Allocator) Withdraw(ctx context.Context, itemKey string, count int, dest string, destSlot int) (Result, error) {
	if itemKey == "" || dest == "" || count <= 0 || destSlot < 0 {
		return Result{}, ErrInvalidRequest
	}
	if _, err := a.network.Open(ctx, dest); err != nil {
		return Result{}, fmt.Errorf("destination %s: %w", dest, err)
	}

	unlock := a.locks.Lock("item:" + itemKey)
	defer unlock()

	res := Result{Requested: count}
	var locs []inventory.Location
	for _, loc := range a.cache.FindItem(itemKey) {
		if loc.Storage && loc.Container != dest {
			locs = append(locs, loc)
		}
	}
	if len(locs) == 0 {
		res.Status = StatusNotFound
		a.observe("withdraw", res)
		return res, nil
	}

	settings := a.cache.Parallel()
	var transfers []*Transfer
	if destSlot > 0 || !settings.Enabled || len(locs) <= 2 {
		transfers = a.withdrawSequential(ctx, itemKey, count, dest, destSlot, locs)
	} else {
		transfers = a.withdrawParallel(ctx, itemKey, count, dest, locs, settings.TransferThreads)
	}

	for _, t := range transfers {
		res.Moved += t.Moved
	}
	if res.Moved > 0 && destSlot == 0 {
		a.refresh(ctx, dest)
	}
	if res.Moved < count {
		res.Status = StatusPartial
	}

	a.observe("withdraw", res)
	a.log.Info("Withdraw finished",
		zap.String("item", itemKey),
		zap.String("dest", dest),
		zap.Int("requested", count),
		zap.Int("moved", res.Moved),
		zap.Int("transfers", len(transfers)),
		zap.String("status", string(res.Status)))
	return res, nil
}

func (a *Allocator) withdrawSequential(ctx context.Context, itemKey string, count int, dest string, destSlot int, locs []inventory.Location) []*Transfer {
	var transfers []*Transfer
	remaining := count
	for _, loc := range locs {
		if remaining <= 0 || ctx.Err() != nil {
			break
		}
		t := a.withdrawPlan(itemKey, loc, dest, destSlot, min(loc.Count, remaining))
		a.execute(ctx, t)
		remaining -= a.commit(ctx, t)
		transfers = append(transfers, t)
	}
	return transfers
}

func (a *Allocator) withdrawParallel(ctx context.Context, itemKey string, count int, dest string, locs []inventory.Location, threads int) []*Transfer {
	var plan []*Transfer
	planned := 0
	next := 0
	for ; next < len(locs) && planned < count; next++ {
		amount := min(locs[next].Count, count-planned)
		plan = append(plan, a.withdrawPlan(itemKey, locs[next], dest, 0, amount))
		planned += amount
	}

	tasks := make([]parallel.Task[int], len(plan))
	for i, t := range plan {
		tasks[i] = func(ctx context.Context) (int, error) {
			return a.execute(ctx, t), nil
		}
	}
	parallel.Run(ctx, tasks, parallel.Options{Limit: threads})

	moved := 0
	for _, t := range plan {
		moved += a.commit(ctx, t)
	}

	// Cover failed steps from the locations that were not planned.
	if moved < count && next < len(locs) {
		plan = append(plan, a.withdrawSequential(ctx, itemKey, count-moved, dest, 0, locs[next:])...)
	}
	return plan
}

func (a *Allocator) withdrawPlan(itemKey string, loc inventory.Location, dest string, destSlot, limit int) *Transfer {
	item, _ := a.cache.SlotItem(loc.Container, loc.Slot)
	if item.Key() != itemKey {
		item.Name, item.NBT = itemKey, ""
	}
	return a.plan(KindPush, loc.Container, loc.Slot, dest, destSlot, item, limit)
}

// refresh re-reads a cached container whose new slot contents are unknown.
func (a *Allocator) refresh(ctx context.Context, name string) {
	if _, ok := a.cache.Entry(name); !ok {
		return
	}
	if err := a.cache.ScanOne(ctx, name, true); err != nil {
		a.log.Warn("Failed to refresh destination", zap.String("container", name), zap.Error(err))
	}
}
