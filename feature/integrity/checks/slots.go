package checks

import (
	"inventory-manager/core/inventory"
)

const (
	ProblemOccupiedIndexed = "occupied slot indexed as empty"
	ProblemEmptyMissing    = "empty slot not indexed"
	ProblemOutOfRange      = "slot out of range"
)

// SlotMismatch is a slot whose empty-slot index entry is wrong.
type SlotMismatch struct {
	Container string `json:"container"`
	Slot      int    `json:"slot"`
	Problem   string `json:"problem"`
}

// SlotReport is the result of an empty-slot check.
type SlotReport struct {
	Containers int            `json:"containers"`
	Slots      int            `json:"slots"`
	Mismatches []SlotMismatch `json:"mismatches"`
}

// CheckEmptySlots verifies that every slot of every cached container is
// either occupied or listed as empty, never both.
func CheckEmptySlots(cache *inventory.Cache) SlotReport {
	report := SlotReport{Mismatches: []SlotMismatch{}}

	for _, e := range cache.Entries() {
		report.Containers++
		report.Slots += e.Size

		empty := make(map[int]bool)
		for _, s := range cache.FindEmptySlots(e.Name) {
			empty[s] = true
		}

		for s := 1; s <= e.Size; s++ {
			it, occupied := e.Slots[s]
			occupied = occupied && it.Count > 0
			switch {
			case occupied && empty[s]:
				report.Mismatches = append(report.Mismatches, SlotMismatch{e.Name, s, ProblemOccupiedIndexed})
			case !occupied && !empty[s]:
				report.Mismatches = append(report.Mismatches, SlotMismatch{e.Name, s, ProblemEmptyMissing})
			}
		}
		for s := range e.Slots {
			if s < 1 || s > e.Size {
				report.Mismatches = append(report.Mismatches, SlotMismatch{e.Name, s, ProblemOutOfRange})
			}
		}
		for s := range empty {
			if s < 1 || s > e.Size {
				report.Mismatches = append(report.Mismatches, SlotMismatch{e.Name, s, ProblemOutOfRange})
			}
		}
	}
	return report
}
