package transfer

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"

	"inventory-manager/core/inventory"
	"inventory-manager/core/parallel"
	"inventory-manager/core/peripheral"

	"go.uber.org/zap"
)

// Deposit moves the content of a source container into storage.
//
// When filter is set only slots whose item key or name equals it are moved.
// Phase one tops up existing partial stacks, smallest gap first, one move at
// a time. Phase two sends what is left to empty storage slots assigned round
// robin over the usable storage containers, through the parallel engine.
// Without any storage container nothing is read or moved.
func (a *Allocator) Deposit(ctx context.Context, source, filter string) (Result, error) {
	if source == "" {
		return Result{}, ErrInvalidRequest
	}
	unlock := a.locks.Lock("container:" + source)
	defer unlock()

	if res, ok := a.checkStorage(source); !ok {
		a.observe("deposit", res)
		return res, nil
	}

	inv, err := a.network.Open(ctx, source)
	if err != nil {
		return Result{}, fmt.Errorf("source %s: %w", source, err)
	}
	items, err := inv.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("list %s: %w", source, err)
	}

	contents := make(map[int]peripheral.Item, len(items))
	for slot, it := range items {
		if it.Count <= 0 {
			continue
		}
		if filter != "" && filter != it.Key() && filter != it.Name {
			continue
		}
		contents[slot] = it
	}

	res := a.deposit(ctx, inv, contents)
	a.observe("deposit", res)
	return res, nil
}

// checkStorage fails when no container is classified as storage.
func (a *Allocator) checkStorage(source string) (Result, bool) {
	if len(a.cache.StorageContainers()) > 0 {
		return Result{}, true
	}
	a.log.Error("Deposit refused", zap.String("source", source), zap.Error(ErrNoStorage))
	return Result{Status: StatusNoStorage}, false
}

// usableStorage returns the storage containers other than source that can be opened.
func (a *Allocator) usableStorage(ctx context.Context, source string) []string {
	var out []string
	for _, name := range a.cache.StorageContainers() {
		if name == source {
			continue
		}
		if _, err := a.network.Open(ctx, name); err != nil {
			a.log.Warn("Storage container unusable", zap.String("container", name), zap.Error(err))
			continue
		}
		out = append(out, name)
	}
	return out
}

// deposit moves known source contents into storage and reports what is left.
func (a *Allocator) deposit(ctx context.Context, src peripheral.Inventory, contents map[int]peripheral.Item) Result {
	res := Result{}
	for _, it := range contents {
		res.Requested += it.Count
	}
	if res.Requested == 0 {
		return res
	}

	dests := a.usableStorage(ctx, src.Name())
	if len(dests) == 0 {
		a.log.Error("Deposit refused, no usable storage", zap.String("source", src.Name()))
		res.Status = StatusNoValidStorage
		res.Remaining = remaining(contents)
		return res
	}

	pending := maps.Clone(contents)
	slots := slices.Sorted(maps.Keys(pending))

	for _, slot := range slots {
		if ctx.Err() != nil {
			break
		}
		a.fillStacks(ctx, src, slot, pending, dests)
	}

	settings := a.cache.Parallel()
	next := 0
	if settings.Enabled {
		next = a.overflowParallel(ctx, src.Name(), pending, dests, settings)
	}
	a.overflowSequential(ctx, src.Name(), pending, dests, next)

	left := remaining(pending)
	res.Moved = res.Requested
	for _, n := range left {
		res.Moved -= n
	}
	if len(left) > 0 {
		res.Status = StatusPartial
		res.Remaining = left
	}

	a.log.Info("Deposit finished",
		zap.String("source", src.Name()),
		zap.Int("offered", res.Requested),
		zap.Int("moved", res.Moved),
		zap.Int("slots_left", len(left)),
		zap.String("status", string(res.Status)))
	return res
}

// fillStacks tops up partial storage stacks of the item in slot, smallest gap first.
func (a *Allocator) fillStacks(ctx context.Context, src peripheral.Inventory, slot int, pending map[int]peripheral.Item, dests []string) {
	it := pending[slot]
	maxStack := a.maxStack(ctx, src, slot, it)

	usable := make(map[string]bool, len(dests))
	for _, d := range dests {
		usable[d] = true
	}
	var candidates []inventory.Location
	for _, loc := range a.cache.FindItem(it.Key()) {
		if loc.Storage && usable[loc.Container] && loc.Count < maxStack {
			candidates = append(candidates, loc)
		}
	}
	slices.SortFunc(candidates, func(x, y inventory.Location) int {
		return cmp.Or(
			cmp.Compare(maxStack-x.Count, maxStack-y.Count),
			cmp.Compare(x.Container, y.Container),
			cmp.Compare(x.Slot, y.Slot),
		)
	})

	for _, cand := range candidates {
		if it.Count <= 0 || ctx.Err() != nil {
			break
		}
		t := a.plan(KindPull, src.Name(), slot, cand.Container, cand.Slot, it, min(maxStack-cand.Count, it.Count))
		a.execute(ctx, t)
		it.Count -= a.commit(ctx, t)
	}
	pending[slot] = it
}

// overflowParallel assigns every pending slot an empty storage slot, round
// robin over dests, and runs the moves through the engine in chunks of the
// configured batch size. It returns the round robin position reached.
func (a *Allocator) overflowParallel(ctx context.Context, src string, pending map[int]peripheral.Item, dests []string, settings inventory.ParallelSettings) int {
	free := make(map[string][]int, len(dests))
	for _, d := range dests {
		free[d] = a.cache.FindEmptySlots(d)
	}

	var plan []*Transfer
	rr := 0
	for _, slot := range slices.Sorted(maps.Keys(pending)) {
		it := pending[slot]
		if it.Count <= 0 {
			continue
		}
		assigned := false
		for tries := 0; tries < len(dests) && !assigned; tries++ {
			dest := dests[rr%len(dests)]
			rr++
			if len(free[dest]) == 0 {
				continue
			}
			toSlot := free[dest][0]
			free[dest] = free[dest][1:]
			plan = append(plan, a.plan(KindPull, src, slot, dest, toSlot, it, it.Count))
			assigned = true
		}
		if !assigned {
			break
		}
	}

	for start := 0; start < len(plan); start += settings.BatchSize {
		chunk := plan[start:min(start+settings.BatchSize, len(plan))]
		tasks := make([]parallel.Task[int], len(chunk))
		for i, t := range chunk {
			tasks[i] = func(ctx context.Context) (int, error) {
				return a.execute(ctx, t), nil
			}
		}
		parallel.Run(ctx, tasks, parallel.Options{Limit: settings.TransferThreads})

		stale := map[string]bool{}
		for _, t := range chunk {
			moved := a.commit(ctx, t)
			if moved == 0 {
				stale[t.Dest] = true
				continue
			}
			it := pending[t.SourceSlot]
			it.Count -= moved
			pending[t.SourceSlot] = it
		}
		// A slot listed as empty may have been filled behind the cache.
		for dest := range stale {
			a.refresh(ctx, dest)
		}
	}
	return rr
}

// overflowSequential moves pending slots one at a time into empty storage
// slots, staying on a container until it reports full. A container whose
// cached empty slot refuses the move is re-read once before moving on.
func (a *Allocator) overflowSequential(ctx context.Context, src string, pending map[int]peripheral.Item, dests []string, start int) {
	current := start
	full := 0
	refreshed := make(map[string]bool, len(dests))
	for _, slot := range slices.Sorted(maps.Keys(pending)) {
		for pending[slot].Count > 0 && full < len(dests) && ctx.Err() == nil {
			it := pending[slot]
			dest := dests[current%len(dests)]
			free := a.cache.FindEmptySlots(dest)
			if len(free) == 0 {
				current++
				full++
				continue
			}

			t := a.plan(KindPull, src, slot, dest, free[0], it, it.Count)
			a.execute(ctx, t)
			moved := a.commit(ctx, t)
			if moved == 0 {
				if !refreshed[dest] {
					refreshed[dest] = true
					a.refresh(ctx, dest)
					continue
				}
				current++
				full++
				continue
			}
			full = 0
			refreshed[dest] = false
			it.Count -= moved
			pending[slot] = it
		}
	}
}

func remaining(pending map[int]peripheral.Item) map[int]int {
	out := make(map[int]int)
	for slot, it := range pending {
		if it.Count > 0 {
			out[slot] = it.Count
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
