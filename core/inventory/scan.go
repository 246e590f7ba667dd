package inventory

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"inventory-manager/core/parallel"
	"inventory-manager/core/peripheral"

	"go.uber.org/zap"
)

// ErrUnknownContainer is returned by ScanOne for a name discovery does not report.
var ErrUnknownContainer = errors.New("unknown container")

// errSkipped marks a known container that did not answer; its record stays as it was.
var errSkipped = errors.New("container skipped")

// ScanAll lists every discovered container in parallel, overwrites the cache,
// rebuilds the indexes and returns the fresh stock levels.
//
// Discovery results are reused unless forceRediscovery is set or nothing was
// discovered yet. A container that does not answer keeps its previous record.
// When a scan is already running ScanAll returns the current stock levels
// without any I/O.
func (c *Cache) ScanAll(ctx context.Context, forceRediscovery bool) (map[string]int, error) {
	if !c.scanning.CompareAndSwap(false, true) {
		c.log.Debug("Scan already in progress, returning cached stock")
		return c.Stock(), nil
	}
	defer c.scanning.Store(false)

	start := time.Now()
	infos, err := c.discover(ctx, forceRediscovery)
	if err != nil {
		c.metrics.ObserveScan("all", "error", time.Since(start), 0)
		return nil, err
	}

	tasks := make([]parallel.Task[*Entry], len(infos))
	for i, info := range infos {
		tasks[i] = func(ctx context.Context) (*Entry, error) {
			return c.read(ctx, info)
		}
	}
	settings := c.Parallel()
	results := parallel.Run(ctx, tasks, parallel.Options{
		Limit:      settings.ScanThreads,
		Sequential: !settings.Enabled,
	})

	if err := ctx.Err(); err != nil {
		c.metrics.ObserveScan("all", "cancelled", time.Since(start), 0)
		return nil, err
	}

	c.mu.Lock()
	previous := c.entries
	next := make(map[string]*Entry, len(infos))
	skipped := 0
	for i, res := range results {
		name := infos[i].Name
		if res.Err != nil {
			skipped++
			c.log.Warn("Container skipped during scan", zap.String("container", name), zap.Error(res.Err))
			if old, ok := previous[name]; ok {
				next[name] = old
			}
			continue
		}
		next[name] = res.Value
	}
	var dropped []string
	for name := range previous {
		if _, ok := next[name]; !ok {
			dropped = append(dropped, name)
		}
	}
	c.entries = next
	c.rebuildLocked()
	stock := maps.Clone(c.stock)
	names := slices.Collect(maps.Keys(next))
	c.mu.Unlock()

	c.persist(ctx, append(names, dropped...)...)

	took := time.Since(start)
	c.scans.Add(1)
	c.lastScan.Store(start.UnixNano())
	c.lastDuration.Store(int64(took))
	c.lastSkipped.Store(int64(skipped))
	c.metrics.ObserveScan("all", "ok", took, skipped)

	c.log.Info("Inventory scan complete",
		zap.Int("containers", len(next)),
		zap.Int("skipped", skipped),
		zap.Int("dropped", len(dropped)),
		zap.Int("item_keys", len(stock)),
		zap.Duration("took", took))
	return stock, nil
}

// ScanOne re-reads a single container and updates its record and empty slots.
// A known container that does not answer is skipped: no error, record kept.
// Unless deferRebuild is set or batch mode is active, the indexes are then
// rebuilt. Concurrent scans of the same container share one read.
func (c *Cache) ScanOne(ctx context.Context, name string, deferRebuild bool) error {
	_, err, _ := c.sf.Do(name, func() (any, error) {
		return nil, c.scanOne(ctx, name)
	})
	if errors.Is(err, errSkipped) {
		c.metrics.ObserveScan("one", "skipped", 0, 1)
		return nil
	}
	if err != nil {
		c.metrics.ObserveScan("one", "error", 0, 1)
		return err
	}
	c.metrics.ObserveScan("one", "ok", 0, 0)
	c.RequestRebuild(deferRebuild)
	return nil
}

func (c *Cache) scanOne(ctx context.Context, name string) error {
	info, ok := c.knownInfo(name)
	if !ok {
		infos, err := c.discover(ctx, true)
		if err != nil {
			return err
		}
		for _, i := range infos {
			if i.Name == name {
				info, ok = i, true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%s: %w", name, ErrUnknownContainer)
		}
	}

	e, err := c.read(ctx, info)
	if errors.Is(err, peripheral.ErrUnavailable) && ctx.Err() == nil {
		c.log.Warn("Container unreachable, keeping cached record", zap.String("container", name), zap.Error(err))
		return errSkipped
	}
	if err != nil {
		c.log.Warn("Container scan failed", zap.String("container", name), zap.Error(err))
		return err
	}

	c.mu.Lock()
	if old, ok := c.entries[name]; ok {
		c.unindexEntry(old)
	}
	c.entries[name] = e
	c.indexEntry(e)
	c.updateGauges()
	c.mu.Unlock()

	c.persist(ctx, name)
	return nil
}

// read opens a container and lists its size and contents.
func (c *Cache) read(ctx context.Context, info peripheral.Info) (*Entry, error) {
	inv, err := c.network.Open(ctx, info.Name)
	if err != nil {
		return nil, err
	}
	size, err := inv.Size(ctx)
	if err != nil {
		return nil, fmt.Errorf("size: %w", err)
	}
	items, err := inv.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	e := &Entry{
		Name:      info.Name,
		Size:      size,
		Types:     info.Types,
		Storage:   c.classifier.IsStorage(info),
		Slots:     make(map[int]peripheral.Item, len(items)),
		ScannedAt: time.Now(),
	}
	for slot, it := range items {
		if slot < 1 || it.Count <= 0 {
			continue
		}
		// Detail-only fields are not part of the cached state.
		e.Slots[slot] = peripheral.Item{Name: it.Name, Count: it.Count, NBT: it.NBT}
	}
	return e, nil
}

// discover returns the inventory-capable containers of the network.
func (c *Cache) discover(ctx context.Context, force bool) ([]peripheral.Info, error) {
	c.mu.RLock()
	cached := c.discovered
	c.mu.RUnlock()
	if !force && len(cached) > 0 {
		return cached, nil
	}

	all, err := c.network.Discover(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover containers: %w", err)
	}
	infos := make([]peripheral.Info, 0, len(all))
	for _, info := range all {
		if !info.IsInventory() {
			c.log.Debug("Ignoring peripheral without inventory capabilities", zap.String("name", info.Name))
			continue
		}
		infos = append(infos, info)
	}

	c.mu.Lock()
	c.discovered = infos
	c.mu.Unlock()
	return infos, nil
}

func (c *Cache) knownInfo(name string) (peripheral.Info, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, info := range c.discovered {
		if info.Name == name {
			return info, true
		}
	}
	if e, ok := c.entries[name]; ok {
		return peripheral.Info{Name: e.Name, Types: e.Types}, true
	}
	return peripheral.Info{}, false
}
