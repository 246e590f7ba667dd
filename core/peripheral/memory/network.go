// Package memory implements an in-process peripheral.Network.
//
// It simulates containers with real stacking rules (per-item max stack, no
// mixed slots) and supports fault and latency injection, which makes it the
// backbone of the engine tests. It is also selectable as a driver for local runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"inventory-manager/core/peripheral"
)

// DefaultMaxStack is used for items without an explicit max stack.
const DefaultMaxStack = 64

type container struct {
	info  peripheral.Info
	size  int
	slots map[int]peripheral.Item
}

// Network is an in-memory peripheral network. Safe for concurrent use.
type Network struct {
	mu         sync.Mutex
	containers map[string]*container
	maxStack   map[string]int
	down       map[string]bool
	failing    map[string]int
	latency    func(name string, method peripheral.Method) time.Duration
	calls      map[peripheral.Method]int
}

// New returns an empty network.
func New() *Network {
	return &Network{
		containers: make(map[string]*container),
		maxStack:   make(map[string]int),
		down:       make(map[string]bool),
		failing:    make(map[string]int),
		calls:      make(map[peripheral.Method]int),
	}
}

// AllMethods is the full capability set given to containers by Add.
var AllMethods = []peripheral.Method{
	peripheral.MethodList,
	peripheral.MethodSize,
	peripheral.MethodPushItems,
	peripheral.MethodPullItems,
	peripheral.MethodGetItemDetail,
}

// Add attaches a container with the given size and type tags and every capability.
func (n *Network) Add(name string, size int, types ...string) *Network {
	return n.AddWithMethods(name, size, types, AllMethods)
}

// AddWithMethods attaches a container exposing only the given methods.
func (n *Network) AddWithMethods(name string, size int, types []string, methods []peripheral.Method) *Network {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.containers[name] = &container{
		info:  peripheral.Info{Name: name, Types: append([]string(nil), types...), Methods: append([]peripheral.Method(nil), methods...)},
		size:  size,
		slots: make(map[int]peripheral.Item),
	}
	return n
}

// Remove detaches a container.
func (n *Network) Remove(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.containers, name)
}

// Put sets the content of a slot, replacing what was there.
func (n *Network) Put(name string, slot int, item peripheral.Item) *Network {
	n.mu.Lock()
	defer n.mu.Unlock()
	c, ok := n.containers[name]
	if !ok {
		panic(fmt.Sprintf("memory: unknown container %s", name))
	}
	if item.Count <= 0 {
		delete(c.slots, slot)
		return n
	}
	item.MaxCount = 0
	item.DisplayName = ""
	c.slots[slot] = item
	return n
}

// SetMaxStack sets the max stack size for an item key.
func (n *Network) SetMaxStack(key string, max int) *Network {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.maxStack[key] = max
	return n
}

// SetDown makes a container fail every call with peripheral.ErrUnavailable.
func (n *Network) SetDown(name string, down bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.down[name] = down
}

// FailNext makes the next count transfer calls touching the container return an error.
func (n *Network) FailNext(name string, count int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failing[name] = count
}

// SetLatency installs a per-call delay function.
func (n *Network) SetLatency(fn func(name string, method peripheral.Method) time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.latency = fn
}

// Calls returns how many times a method was invoked. An empty method sums all.
func (n *Network) Calls(method peripheral.Method) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	if method != "" {
		return n.calls[method]
	}
	total := 0
	for _, c := range n.calls {
		total += c
	}
	return total
}

// ResetCalls zeroes the call counters.
func (n *Network) ResetCalls() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = make(map[peripheral.Method]int)
}

// Contents returns a copy of a container's slots.
func (n *Network) Contents(name string) map[int]peripheral.Item {
	n.mu.Lock()
	defer n.mu.Unlock()
	c, ok := n.containers[name]
	if !ok {
		return nil
	}
	out := make(map[int]peripheral.Item, len(c.slots))
	for s, it := range c.slots {
		out[s] = it
	}
	return out
}

// Count returns the total number of items with the given key across the named containers.
func (n *Network) Count(key string, names ...string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	total := 0
	for _, name := range names {
		c, ok := n.containers[name]
		if !ok {
			continue
		}
		for _, it := range c.slots {
			if it.Key() == key {
				total += it.Count
			}
		}
	}
	return total
}

// Discover lists every attached container sorted by name.
func (n *Network) Discover(ctx context.Context) ([]peripheral.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	infos := make([]peripheral.Info, 0, len(n.containers))
	for _, c := range n.containers {
		infos = append(infos, c.info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// Open resolves a handle, checking capabilities once.
func (n *Network) Open(_ context.Context, name string) (peripheral.Inventory, error) {
	n.mu.Lock()
	c, ok := n.containers[name]
	n.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, peripheral.ErrUnavailable)
	}
	if err := peripheral.CheckCapabilities(c.info); err != nil {
		return nil, err
	}
	return &handle{net: n, name: name}, nil
}

// enter records a call, applies latency and returns the live container.
// The network lock is held on return when err is nil.
func (n *Network) enter(ctx context.Context, name string, method peripheral.Method) (*container, error) {
	n.mu.Lock()
	n.calls[method]++
	delayFn := n.latency
	n.mu.Unlock()

	if delayFn != nil {
		if d := delayFn(name, method); d > 0 {
			timer := time.NewTimer(d)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	n.mu.Lock()
	c, ok := n.containers[name]
	if !ok || n.down[name] {
		n.mu.Unlock()
		return nil, fmt.Errorf("%s: %w", name, peripheral.ErrUnavailable)
	}
	return c, nil
}

func (n *Network) maxFor(it peripheral.Item) int {
	if m, ok := n.maxStack[it.Key()]; ok && m > 0 {
		return m
	}
	return DefaultMaxStack
}

// move transfers items between two containers. Caller holds n.mu.
func (n *Network) move(src *container, fromSlot int, dst *container, limit, toSlot int) (int, error) {
	for _, name := range []string{src.info.Name, dst.info.Name} {
		if n.failing[name] > 0 {
			n.failing[name]--
			return 0, fmt.Errorf("%s: transfer failed", name)
		}
		if n.down[name] {
			return 0, fmt.Errorf("%s: %w", name, peripheral.ErrUnavailable)
		}
	}

	item, ok := src.slots[fromSlot]
	if !ok || item.Count <= 0 {
		return 0, nil
	}
	amount := item.Count
	if limit > 0 && limit < amount {
		amount = limit
	}
	maxStack := n.maxFor(item)

	var targets []int
	if toSlot > 0 {
		if toSlot > dst.size {
			return 0, fmt.Errorf("%s: slot %d out of range", dst.info.Name, toSlot)
		}
		targets = []int{toSlot}
	} else {
		// Partial stacks of the same item first, then empty slots.
		for s := 1; s <= dst.size; s++ {
			if it, ok := dst.slots[s]; ok && it.Key() == item.Key() && it.Count < maxStack {
				targets = append(targets, s)
			}
		}
		for s := 1; s <= dst.size; s++ {
			if _, ok := dst.slots[s]; !ok {
				targets = append(targets, s)
			}
		}
	}

	moved := 0
	for _, s := range targets {
		if moved >= amount {
			break
		}
		existing, occupied := dst.slots[s]
		if occupied && existing.Key() != item.Key() {
			continue
		}
		space := maxStack
		if occupied {
			space = maxStack - existing.Count
		}
		if space <= 0 {
			continue
		}
		step := min(space, amount-moved)
		if !occupied {
			existing = peripheral.Item{Name: item.Name, NBT: item.NBT}
		}
		existing.Count += step
		dst.slots[s] = existing
		moved += step
	}

	if moved > 0 {
		item.Count -= moved
		if item.Count == 0 {
			delete(src.slots, fromSlot)
		} else {
			src.slots[fromSlot] = item
		}
	}
	return moved, nil
}

// handle is a peripheral.Inventory for one simulated container.
type handle struct {
	net  *Network
	name string
}

func (h *handle) Name() string { return h.name }

func (h *handle) Size(ctx context.Context) (int, error) {
	c, err := h.net.enter(ctx, h.name, peripheral.MethodSize)
	if err != nil {
		return 0, err
	}
	defer h.net.mu.Unlock()
	return c.size, nil
}

func (h *handle) List(ctx context.Context) (map[int]peripheral.Item, error) {
	c, err := h.net.enter(ctx, h.name, peripheral.MethodList)
	if err != nil {
		return nil, err
	}
	defer h.net.mu.Unlock()
	out := make(map[int]peripheral.Item, len(c.slots))
	for s, it := range c.slots {
		out[s] = it
	}
	return out, nil
}

func (h *handle) GetItemDetail(ctx context.Context, slot int) (*peripheral.Item, error) {
	c, err := h.net.enter(ctx, h.name, peripheral.MethodGetItemDetail)
	if err != nil {
		return nil, err
	}
	defer h.net.mu.Unlock()
	it, ok := c.slots[slot]
	if !ok {
		return nil, nil
	}
	it.MaxCount = h.net.maxFor(it)
	it.DisplayName = it.Name
	return &it, nil
}

func (h *handle) PushItems(ctx context.Context, to string, fromSlot, limit, toSlot int) (int, error) {
	c, err := h.net.enter(ctx, h.name, peripheral.MethodPushItems)
	if err != nil {
		return 0, err
	}
	defer h.net.mu.Unlock()
	dst, ok := h.net.containers[to]
	if !ok {
		return 0, fmt.Errorf("%s: %w", to, peripheral.ErrUnavailable)
	}
	return h.net.move(c, fromSlot, dst, limit, toSlot)
}

func (h *handle) PullItems(ctx context.Context, from string, fromSlot, limit, toSlot int) (int, error) {
	c, err := h.net.enter(ctx, h.name, peripheral.MethodPullItems)
	if err != nil {
		return 0, err
	}
	defer h.net.mu.Unlock()
	src, ok := h.net.containers[from]
	if !ok {
		return 0, fmt.Errorf("%s: %w", from, peripheral.ErrUnavailable)
	}
	return h.net.move(src, fromSlot, c, limit, toSlot)
}
