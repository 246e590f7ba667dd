package memory

import (
	"encoding/json"
	"fmt"
	"os"

	"inventory-manager/core/peripheral"
)

// Layout describes a simulated network, typically read from a JSON seed file.
type Layout struct {
	Containers []ContainerLayout `json:"containers"`
	// MaxStack overrides the max stack size per item key.
	MaxStack map[string]int `json:"maxStack,omitempty"`
}

// ContainerLayout is one simulated container and its initial contents.
type ContainerLayout struct {
	Name  string                  `json:"name"`
	Size  int                     `json:"size"`
	Types []string                `json:"types"`
	Slots map[int]peripheral.Item `json:"slots,omitempty"`
}

// FromLayout builds a network from a layout.
func FromLayout(l Layout) (*Network, error) {
	n := New()
	for key, limit := range l.MaxStack {
		n.SetMaxStack(key, limit)
	}
	for _, c := range l.Containers {
		if c.Name == "" || c.Size <= 0 {
			return nil, fmt.Errorf("memory: invalid container %q with size %d", c.Name, c.Size)
		}
		n.Add(c.Name, c.Size, c.Types...)
		for slot, it := range c.Slots {
			if slot < 1 || slot > c.Size {
				return nil, fmt.Errorf("memory: %s slot %d out of range", c.Name, slot)
			}
			n.Put(c.Name, slot, it)
		}
	}
	return n, nil
}

// LoadFile reads a JSON layout file. An empty path returns an empty network.
func LoadFile(path string) (*Network, error) {
	if path == "" {
		return New(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("memory: read layout: %w", err)
	}
	var l Layout
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("memory: decode layout: %w", err)
	}
	return FromLayout(l)
}
