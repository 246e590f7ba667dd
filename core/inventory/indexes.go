package inventory

import (
	"cmp"
	"maps"
	"slices"

	"inventory-manager/core/peripheral"
)

// RebuildIndexes recomputes stock, locations and empty slots from the cached
// records. It performs no peripheral I/O.
func (c *Cache) RebuildIndexes() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rebuildLocked()
}

func (c *Cache) rebuildLocked() {
	c.stock = make(map[string]int)
	c.locations = make(map[string]map[slotRef]int)
	c.empty = make(map[string]map[int]struct{}, len(c.entries))

	for _, e := range c.entries {
		c.indexEntry(e)
	}
	c.pending = false
	c.rebuilds.Add(1)
	c.metrics.IncRebuild()
	c.updateGauges()
}

// indexEntry adds every slot of e to the indexes. The entry must not be indexed yet.
func (c *Cache) indexEntry(e *Entry) {
	free := make(map[int]struct{}, e.Size)
	for slot := 1; slot <= e.Size; slot++ {
		if _, ok := e.Slots[slot]; !ok {
			free[slot] = struct{}{}
		}
	}
	c.empty[e.Name] = free
	for slot, it := range e.Slots {
		c.index(e, slot, it)
	}
}

// unindexEntry removes every contribution of e from the indexes.
func (c *Cache) unindexEntry(e *Entry) {
	for slot, it := range e.Slots {
		c.unindex(e, slot, it)
	}
	delete(c.empty, e.Name)
}

func (c *Cache) index(e *Entry, slot int, it peripheral.Item) {
	key := it.Key()
	locs, ok := c.locations[key]
	if !ok {
		locs = make(map[slotRef]int)
		c.locations[key] = locs
	}
	locs[slotRef{e.Name, slot}] = it.Count
	if free, ok := c.empty[e.Name]; ok {
		delete(free, slot)
	}
	if e.Storage {
		c.stock[key] += it.Count
	}
}

func (c *Cache) unindex(e *Entry, slot int, it peripheral.Item) {
	key := it.Key()
	if locs, ok := c.locations[key]; ok {
		delete(locs, slotRef{e.Name, slot})
		if len(locs) == 0 {
			delete(c.locations, key)
		}
	}
	if e.Storage {
		if left := c.stock[key] - it.Count; left > 0 {
			c.stock[key] = left
		} else {
			delete(c.stock, key)
		}
	}
}

// setSlot replaces the content of one slot and keeps every index in step.
// A zero count empties the slot.
func (c *Cache) setSlot(e *Entry, slot int, next peripheral.Item) {
	if prev, ok := e.Slots[slot]; ok {
		c.unindex(e, slot, prev)
	}
	if next.Count > 0 {
		e.Slots[slot] = next
		c.index(e, slot, next)
		return
	}
	delete(e.Slots, slot)
	if slot >= 1 && slot <= e.Size {
		free, ok := c.empty[e.Name]
		if !ok {
			free = make(map[int]struct{})
			c.empty[e.Name] = free
		}
		free[slot] = struct{}{}
	}
}

func (c *Cache) updateGauges() {
	total := 0
	for _, n := range c.stock {
		total += n
	}
	c.metrics.SetCacheSize(len(c.entries), len(c.stock), total)
}

// Stock returns a copy of the stock levels of every item key.
func (c *Cache) Stock() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return maps.Clone(c.stock)
}

// StockOf returns the stock level of one item key.
func (c *Cache) StockOf(key string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stock[key]
}

// FindItem returns every location of an item key, largest stacks first.
// Ties are ordered by container name then slot.
func (c *Cache) FindItem(key string) []Location {
	c.mu.RLock()
	defer c.mu.RUnlock()

	locs := c.locations[key]
	out := make([]Location, 0, len(locs))
	for ref, count := range locs {
		storage := false
		if e, ok := c.entries[ref.container]; ok {
			storage = e.Storage
		}
		out = append(out, Location{Container: ref.container, Slot: ref.slot, Count: count, Storage: storage})
	}
	slices.SortFunc(out, func(a, b Location) int {
		return cmp.Or(
			cmp.Compare(b.Count, a.Count),
			cmp.Compare(a.Container, b.Container),
			cmp.Compare(a.Slot, b.Slot),
		)
	})
	return out
}

// FindEmptySlots returns the empty slots of a container in ascending order.
func (c *Cache) FindEmptySlots(name string) []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.empty[name]))
}

// EmptySlots returns the empty slots of every cached container.
func (c *Cache) EmptySlots() map[string][]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string][]int, len(c.empty))
	for name, free := range c.empty {
		out[name] = slices.Sorted(maps.Keys(free))
	}
	return out
}

// SlotItem returns the cached content of one slot.
func (c *Cache) SlotItem(name string, slot int) (peripheral.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	if !ok {
		return peripheral.Item{}, false
	}
	it, ok := e.Slots[slot]
	return it, ok
}
