package checks

import (
	"sort"

	"inventory-manager/core/inventory"
)

// StockMismatch is an item key whose stock disagrees with the cached slots.
type StockMismatch struct {
	Item    string `json:"item"`
	Stock   int    `json:"stock"`
	Located int    `json:"located"`
	Counted int    `json:"counted"`
}

// StockReport is the result of a stock consistency check.
type StockReport struct {
	Items      int             `json:"items"`
	Mismatches []StockMismatch `json:"mismatches"`
}

// CheckStock recounts the storage slots of every cached container and compares
// the totals with the stock index and the item locations.
// Transfers running during the check can produce transient mismatches.
func CheckStock(cache *inventory.Cache) StockReport {
	counted := make(map[string]int)
	for _, e := range cache.Entries() {
		if !e.Storage {
			continue
		}
		for _, it := range e.Slots {
			if it.Count > 0 {
				counted[it.Key()] += it.Count
			}
		}
	}

	stock := cache.Stock()
	keys := make(map[string]struct{}, len(stock)+len(counted))
	for k := range stock {
		keys[k] = struct{}{}
	}
	for k := range counted {
		keys[k] = struct{}{}
	}

	report := StockReport{Items: len(keys), Mismatches: []StockMismatch{}}
	for k := range keys {
		located := 0
		for _, loc := range cache.FindItem(k) {
			if loc.Storage {
				located += loc.Count
			}
		}
		if stock[k] != counted[k] || located != counted[k] {
			report.Mismatches = append(report.Mismatches, StockMismatch{
				Item:    k,
				Stock:   stock[k],
				Located: located,
				Counted: counted[k],
			})
		}
	}
	sort.Slice(report.Mismatches, func(i, j int) bool {
		return report.Mismatches[i].Item < report.Mismatches[j].Item
	})
	return report
}
