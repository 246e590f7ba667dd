package inventory

import "time"

// Stats summarises the cache state.
type Stats struct {
	Containers        int              `json:"containers"`
	StorageContainers int              `json:"storageContainers"`
	Slots             int              `json:"slots"`
	UsedSlots         int              `json:"usedSlots"`
	EmptySlots        int              `json:"emptySlots"`
	ItemKeys          int              `json:"itemKeys"`
	TotalItems        int              `json:"totalItems"`
	Rebuilds          int64            `json:"rebuilds"`
	Scans             int64            `json:"scans"`
	LastScan          *time.Time       `json:"lastScan,omitempty"`
	LastScanDuration  string           `json:"lastScanDuration,omitempty"`
	LastScanSkipped   int              `json:"lastScanSkipped"`
	Scanning          bool             `json:"scanning"`
	Batch             bool             `json:"batch"`
	PendingRebuild    bool             `json:"pendingRebuild"`
	Parallel          ParallelSettings `json:"parallel"`
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	s := Stats{
		Containers:     len(c.entries),
		ItemKeys:       len(c.stock),
		Batch:          c.batchDepth > 0,
		PendingRebuild: c.pending,
	}
	for _, e := range c.entries {
		if e.Storage {
			s.StorageContainers++
		}
		s.Slots += e.Size
		s.UsedSlots += len(e.Slots)
	}
	for _, free := range c.empty {
		s.EmptySlots += len(free)
	}
	for _, n := range c.stock {
		s.TotalItems += n
	}
	c.mu.RUnlock()

	s.Rebuilds = c.rebuilds.Load()
	s.Scans = c.scans.Load()
	s.Scanning = c.scanning.Load()
	s.LastScanSkipped = int(c.lastSkipped.Load())
	if ts := c.lastScan.Load(); ts > 0 {
		t := time.Unix(0, ts)
		s.LastScan = &t
		s.LastScanDuration = time.Duration(c.lastDuration.Load()).String()
	}
	s.Parallel = c.Parallel()
	return s
}
