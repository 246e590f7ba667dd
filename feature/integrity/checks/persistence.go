package checks

import (
	"context"
	"maps"
	"slices"
	"sort"

	"inventory-manager/core/inventory"
)

// DriftReport compares the in-memory cache with the persistent store.
type DriftReport struct {
	Cached    int `json:"cached"`
	Persisted int `json:"persisted"`
	// Missing containers are cached but have no stored record.
	Missing []string `json:"missing"`
	// Stale containers have a stored record but are no longer cached.
	Stale []string `json:"stale"`
	// Drifted containers have a stored record with different contents.
	Drifted []string `json:"drifted"`
}

// Clean reports whether the store matches the cache.
func (r DriftReport) Clean() bool {
	return len(r.Missing) == 0 && len(r.Stale) == 0 && len(r.Drifted) == 0
}

// CheckPersistence loads every stored record and diffs it against the cache.
func CheckPersistence(ctx context.Context, cache *inventory.Cache) (DriftReport, error) {
	persisted, err := cache.Persisted(ctx)
	if err != nil {
		return DriftReport{}, err
	}
	entries := cache.Entries()

	report := DriftReport{
		Cached:    len(entries),
		Persisted: len(persisted),
		Missing:   []string{},
		Stale:     []string{},
		Drifted:   []string{},
	}

	cached := make(map[string]bool, len(entries))
	for _, e := range entries {
		cached[e.Name] = true
		stored, ok := persisted[e.Name]
		switch {
		case !ok:
			report.Missing = append(report.Missing, e.Name)
		case stored.Size != e.Size || !slices.Equal(stored.Types, e.Types) || !maps.Equal(stored.Slots, e.Slots):
			report.Drifted = append(report.Drifted, e.Name)
		}
	}
	for name := range persisted {
		if !cached[name] {
			report.Stale = append(report.Stale, name)
		}
	}
	sort.Strings(report.Stale)
	return report, nil
}
