package inventory

import (
	"inventory-manager/core/peripheral"
	"inventory-manager/core/transfer"
)

// WithdrawRequest asks for count items of a key to be moved into a destination.
type WithdrawRequest struct {
	Item        string `json:"item" example:"minecraft:iron_ore"`
	Count       int    `json:"count" example:"64"`
	Destination string `json:"destination" example:"minecraft:hopper_0"`
	// Slot targets a single destination slot. Zero lets the destination choose.
	Slot int `json:"slot,omitempty"`
}

// DepositRequest empties a source container into storage.
type DepositRequest struct {
	Source string `json:"source" example:"minecraft:chest_12"`
	// Filter restricts the deposit to an item name or key.
	Filter string `json:"filter,omitempty"`
}

// PullRequest deposits source slots whose content is already known.
type PullRequest struct {
	Source string              `json:"source"`
	Slots  []transfer.SlotItem `json:"slots"`
}

// ClearRequest empties the given source slots in a single deposit run.
type ClearRequest struct {
	Source string                  `json:"source"`
	Slots  map[int]peripheral.Item `json:"slots"`
}

// ScanResponse is returned by a full scan.
type ScanResponse struct {
	Containers int            `json:"containers"`
	Stock      map[string]int `json:"stock"`
}

// StockResponse is the stored amount of one item key.
type StockResponse struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}
