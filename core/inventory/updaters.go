package inventory

import (
	"context"

	"inventory-manager/core/peripheral"

	"go.uber.org/zap"
)

// ApplyRemoval records that count items of itemKey left a slot.
//
// It must be called with the amount a transfer reported as moved, after the
// transfer returned. The slot becomes empty at zero. Removing more than the
// slot holds empties it. Containers that are not cached are ignored.
func (c *Cache) ApplyRemoval(ctx context.Context, name string, slot int, itemKey string, count int) {
	if count <= 0 {
		return
	}

	c.mu.Lock()
	e, ok := c.entries[name]
	if !ok {
		c.mu.Unlock()
		return
	}
	cur, ok := e.Slots[slot]
	if !ok || cur.Key() != itemKey {
		c.mu.Unlock()
		c.log.Warn("Removal from a slot the cache does not hold",
			zap.String("container", name),
			zap.Int("slot", slot),
			zap.String("item", itemKey))
		return
	}
	cur.Count -= count
	if cur.Count < 0 {
		cur.Count = 0
	}
	c.setSlot(e, slot, cur)
	c.updateGauges()
	c.mu.Unlock()

	c.persist(ctx, name)
}

// ApplyAddition records that count items arrived in a slot.
//
// An existing stack of the same item grows; an empty slot becomes occupied.
// A slot the cache believed held another item is overwritten, since the
// container just confirmed the transfer. Containers that are not cached are ignored.
func (c *Cache) ApplyAddition(ctx context.Context, name string, slot int, itemName string, count int, nbt string) {
	if count <= 0 {
		return
	}

	c.mu.Lock()
	e, ok := c.entries[name]
	if !ok {
		c.mu.Unlock()
		return
	}
	next := peripheral.Item{Name: itemName, NBT: nbt, Count: count}
	if cur, ok := e.Slots[slot]; ok && cur.Key() == next.Key() {
		next.Count += cur.Count
	}
	c.setSlot(e, slot, next)
	c.updateGauges()
	c.mu.Unlock()

	c.persist(ctx, name)
}
