package inventory

// BeginBatch enters batch mode. While active, rebuild requests are recorded
// instead of executed. Calls nest; each BeginBatch needs a matching EndBatch.
func (c *Cache) BeginBatch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batchDepth++
}

// EndBatch leaves batch mode. When the outermost batch ends and a rebuild was
// requested in between, the indexes are rebuilt exactly once.
// It reports whether a rebuild happened.
func (c *Cache) EndBatch() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.batchDepth == 0 {
		return false
	}
	c.batchDepth--
	if c.batchDepth > 0 || !c.pending {
		return false
	}
	c.rebuildLocked()
	return true
}

// InBatch reports whether batch mode is active.
func (c *Cache) InBatch() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.batchDepth > 0
}

// RequestRebuild rebuilds the indexes now, or marks the rebuild pending in
// batch mode. With deferRebuild outside batch mode nothing happens: the caller
// takes responsibility for a later rebuild. It reports whether a rebuild ran.
func (c *Cache) RequestRebuild(deferRebuild bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.batchDepth > 0 {
		c.pending = true
		return false
	}
	if deferRebuild {
		return false
	}
	c.rebuildLocked()
	return true
}
