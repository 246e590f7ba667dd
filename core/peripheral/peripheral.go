package peripheral

import (
	"context"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnavailable is returned when a container no longer resolves on the network.
	ErrUnavailable = errors.New("peripheral unavailable")
	// ErrMissingCapability is returned when a container lacks a required method.
	ErrMissingCapability = errors.New("peripheral missing capability")
)

// Method names a capability a container may expose.
type Method string

const (
	MethodList          Method = "list"
	MethodSize          Method = "size"
	MethodPushItems     Method = "pushItems"
	MethodPullItems     Method = "pullItems"
	MethodGetItemDetail Method = "getItemDetail"
)

// RequiredMethods are the capabilities a container needs to take part in transfers.
var RequiredMethods = []Method{MethodList, MethodPushItems, MethodPullItems, MethodGetItemDetail}

// Item is the content of a single slot.
type Item struct {
	// Name is the item type name (e.g. "minecraft:iron_ore").
	Name string `json:"name"`
	// Count is the stack size.
	Count int `json:"count"`
	// NBT is the hash of the stack's NBT data, empty when the stack has none.
	NBT string `json:"nbt,omitempty"`
	// MaxCount is the maximum stack size. Only filled by GetItemDetail.
	MaxCount int `json:"maxCount,omitempty"`
	// DisplayName is the human readable name. Only filled by GetItemDetail.
	DisplayName string `json:"displayName,omitempty"`
}

// Key returns the canonical item key: the name, suffixed with ":nbt" for variants.
func (i Item) Key() string {
	return ItemKey(i.Name, i.NBT)
}

// ItemKey builds an item key from a name and an optional NBT hash.
func ItemKey(name, nbt string) string {
	if nbt == "" {
		return name
	}
	return name + ":" + nbt
}

// Info describes a container as reported by discovery.
type Info struct {
	// Name is the network name and the container identity.
	Name string `json:"name"`
	// Types are the classification tags of the container (e.g. "minecraft:chest", "inventory").
	Types []string `json:"types"`
	// Methods are the capabilities exposed by the container.
	Methods []Method `json:"methods"`
}

// HasType reports whether the container carries the given type tag.
func (i Info) HasType(t string) bool {
	return slices.Contains(i.Types, t)
}

// Has reports whether the container exposes the given method.
func (i Info) Has(m Method) bool {
	return slices.Contains(i.Methods, m)
}

// IsInventory reports whether the container exposes every required method.
func (i Info) IsInventory() bool {
	return CheckCapabilities(i) == nil
}

// CheckCapabilities returns ErrMissingCapability when a required method is absent.
func CheckCapabilities(info Info) error {
	for _, m := range RequiredMethods {
		if !info.Has(m) {
			return fmt.Errorf("%s: %s: %w", info.Name, m, ErrMissingCapability)
		}
	}
	return nil
}

// Inventory is a handle to one container.
//
// Slot indices are 1-based. A limit of 0 means "as many as possible" and a
// destination slot of 0 lets the container choose.
type Inventory interface {
	// Name returns the network name of the container.
	Name() string
	// Size returns the number of slots.
	Size(ctx context.Context) (int, error)
	// List returns the occupied slots.
	List(ctx context.Context) (map[int]Item, error)
	// GetItemDetail returns the detailed content of a slot, nil when empty.
	GetItemDetail(ctx context.Context, slot int) (*Item, error)
	// PushItems moves items from one of this container's slots into another container.
	PushItems(ctx context.Context, to string, fromSlot, limit, toSlot int) (int, error)
	// PullItems moves items from another container's slot into this container.
	PullItems(ctx context.Context, from string, fromSlot, limit, toSlot int) (int, error)
}

// Network discovers containers and opens handles to them.
type Network interface {
	// Discover lists every container currently attached.
	Discover(ctx context.Context) ([]Info, error)
	// Open resolves a handle by name. It fails with ErrUnavailable when the
	// container is gone and ErrMissingCapability when it cannot hold items.
	Open(ctx context.Context, name string) (Inventory, error)
}
