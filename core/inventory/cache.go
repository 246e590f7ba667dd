package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"inventory-manager/core/kvstore"
	"inventory-manager/core/logger"
	"inventory-manager/core/metrics"
	"inventory-manager/core/peripheral"
	"inventory-manager/core/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// KeyPrefix prefixes the store keys of cached containers.
const KeyPrefix = "inventory/"

// Entry is the cached record of one container.
type Entry struct {
	Name      string                  `json:"name"`
	Size      int                     `json:"size"`
	Types     []string                `json:"types,omitempty"`
	Storage   bool                    `json:"storage"`
	Slots     map[int]peripheral.Item `json:"slots"`
	ScannedAt time.Time               `json:"scannedAt"`
}

func (e *Entry) clone() Entry {
	out := *e
	out.Types = slices.Clone(e.Types)
	out.Slots = maps.Clone(e.Slots)
	if out.Slots == nil {
		out.Slots = make(map[int]peripheral.Item)
	}
	return out
}

// Location is one slot holding a given item.
type Location struct {
	Container string `json:"container"`
	Slot      int    `json:"slot"`
	Count     int    `json:"count"`
	Storage   bool   `json:"storage"`
}

type slotRef struct {
	container string
	slot      int
}

// Cache is the inventory cache and its derived indexes.
//
// Every mutation of entries and indexes happens under mu held for writing,
// so readers never observe a half-applied edit. The stock index only counts
// storage containers; locations and empty slots are kept for every container.
type Cache struct {
	network    peripheral.Network
	store      kvstore.Store
	classifier Classifier
	log        *zap.Logger
	metrics    *metrics.Metrics

	mu         sync.RWMutex
	entries    map[string]*Entry
	stock      map[string]int
	locations  map[string]map[slotRef]int
	empty      map[string]map[int]struct{}
	discovered []peripheral.Info
	batchDepth int
	pending    bool

	settingsMu sync.RWMutex
	settings   ParallelSettings

	persistMu sync.Mutex
	scanning  atomic.Bool
	sf        singleflight.Group

	rebuilds     atomic.Int64
	scans        atomic.Int64
	lastScan     atomic.Int64
	lastDuration atomic.Int64
	lastSkipped  atomic.Int64
}

// New creates an empty cache. A nil store keeps the cache in memory only.
func New(network peripheral.Network, store kvstore.Store, cfg Config, log *zap.Logger, m *metrics.Metrics) *Cache {
	if store == nil {
		store = kvstore.NewMemory()
	}
	c := &Cache{
		network:    network,
		store:      store,
		classifier: NewClassifier(cfg.StorageTags, cfg.Exclude),
		log:        logger.Component(log, "inventory"),
		metrics:    m,
		settings:   cfg.parallelSettings(),
	}
	c.reset()
	return c
}

func (c *Cache) reset() {
	c.entries = make(map[string]*Entry)
	c.stock = make(map[string]int)
	c.locations = make(map[string]map[slotRef]int)
	c.empty = make(map[string]map[int]struct{})
}

// Network returns the peripheral network the cache scans.
func (c *Cache) Network() peripheral.Network { return c.network }

// Classifier returns the storage classifier.
func (c *Cache) Classifier() Classifier { return c.classifier }

// Parallel returns the current parallel settings.
func (c *Cache) Parallel() ParallelSettings {
	c.settingsMu.RLock()
	defer c.settingsMu.RUnlock()
	return c.settings
}

// SetParallelConfig replaces the parallel settings. Non-positive limits keep their current value.
func (c *Cache) SetParallelConfig(p ParallelSettings) ParallelSettings {
	c.settingsMu.Lock()
	defer c.settingsMu.Unlock()
	c.settings = p.normalize(c.settings)
	c.log.Info("Parallel settings updated",
		zap.Bool("enabled", c.settings.Enabled),
		zap.Int("transfer_threads", c.settings.TransferThreads),
		zap.Int("scan_threads", c.settings.ScanThreads),
		zap.Int("batch_size", c.settings.BatchSize))
	return c.settings
}

// Entry returns a copy of the cached record of a container.
func (c *Cache) Entry(name string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// Entries returns copies of every cached record sorted by name.
func (c *Cache) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.clone())
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// IsStorage reports whether a cached container is classified as storage.
func (c *Cache) IsStorage(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	return ok && e.Storage
}

// StorageContainers returns the names of cached storage containers, sorted.
func (c *Cache) StorageContainers() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []string
	for name, e := range c.entries {
		if e.Storage {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out
}

// Load hydrates the cache from the persistent store and rebuilds the indexes.
// Storage classification is recomputed from the stored type tags.
func (c *Cache) Load(ctx context.Context) error {
	persisted, err := c.Persisted(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
	for name, e := range persisted {
		e.Storage = c.classifier.IsStorage(peripheral.Info{Name: e.Name, Types: e.Types})
		c.entries[name] = &e
	}
	c.rebuildLocked()

	c.log.Info("Inventory cache loaded", zap.Int("containers", len(c.entries)))
	return nil
}

// Persisted reads every cached record from the persistent store.
func (c *Cache) Persisted(ctx context.Context) (map[string]Entry, error) {
	all, err := c.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load inventory cache: %w", err)
	}
	out := make(map[string]Entry)
	for key, raw := range all {
		if !strings.HasPrefix(key, KeyPrefix) {
			continue
		}
		e, err := decodeEntry(raw)
		if err != nil {
			c.log.Warn("Skipping unreadable cache record", zap.String("key", key), zap.Error(err))
			continue
		}
		out[e.Name] = *e
	}
	return out, nil
}

// Clear drops every cached record and index, in memory and in the store.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	names := slices.Collect(maps.Keys(c.entries))
	c.reset()
	c.discovered = nil
	c.pending = false
	c.mu.Unlock()

	c.persistMu.Lock()
	defer c.persistMu.Unlock()
	for _, name := range names {
		if err := c.store.Delete(ctx, KeyPrefix+name); err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
	}
	c.metrics.SetCacheSize(0, 0, 0)
	c.log.Info("Inventory cache cleared", zap.Int("containers", len(names)))
	return nil
}

// Sync rewrites every cached record to the store and deletes stored records
// of containers that are no longer cached.
func (c *Cache) Sync(ctx context.Context) error {
	persisted, err := c.Persisted(ctx)
	if err != nil {
		return err
	}
	c.mu.RLock()
	names := slices.Collect(maps.Keys(c.entries))
	c.mu.RUnlock()
	for name := range persisted {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	c.persist(ctx, names...)
	return nil
}

// persist writes the current record of the named containers to the store.
// Records that are no longer cached are deleted.
func (c *Cache) persist(ctx context.Context, names ...string) {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	values := make(map[string][]byte, len(names))
	var gone []string

	c.mu.RLock()
	for _, name := range names {
		e, ok := c.entries[name]
		if !ok {
			gone = append(gone, name)
			continue
		}
		raw, err := encodeEntry(e)
		if err != nil {
			c.log.Warn("Failed to encode cache record", zap.String("container", name), zap.Error(err))
			continue
		}
		values[KeyPrefix+name] = raw
	}
	c.mu.RUnlock()

	if len(values) > 0 {
		if err := c.store.SetAll(ctx, values); err != nil {
			c.log.Warn("Failed to persist cache records", zap.Int("count", len(values)), zap.Error(err))
		}
	}
	for _, name := range gone {
		if err := c.store.Delete(ctx, KeyPrefix+name); err != nil {
			c.log.Warn("Failed to delete cache record", zap.String("container", name), zap.Error(err))
		}
	}
}

// record is the persisted form of an Entry. Slot indices are object keys and
// therefore strings; they are converted back to int when decoding.
type record struct {
	Name      string                     `json:"name"`
	Size      int                        `json:"size"`
	Types     []string                   `json:"types,omitempty"`
	Slots     map[string]peripheral.Item `json:"slots"`
	ScannedAt time.Time                  `json:"scannedAt"`
}

func encodeEntry(e *Entry) ([]byte, error) {
	r := record{
		Name:      e.Name,
		Size:      e.Size,
		Types:     e.Types,
		Slots:     make(map[string]peripheral.Item, len(e.Slots)),
		ScannedAt: e.ScannedAt,
	}
	for slot, it := range e.Slots {
		r.Slots[strconv.Itoa(slot)] = it
	}
	return json.Marshal(r)
}

func decodeEntry(raw []byte) (*Entry, error) {
	var r record
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	if r.Name == "" {
		return nil, fmt.Errorf("record without container name")
	}
	e := &Entry{
		Name:      r.Name,
		Size:      r.Size,
		Types:     r.Types,
		Slots:     make(map[int]peripheral.Item, len(r.Slots)),
		ScannedAt: r.ScannedAt,
	}
	for key, it := range r.Slots {
		slot := utils.ToInt(key)
		if slot < 1 || it.Count <= 0 {
			continue
		}
		e.Slots[slot] = it
	}
	return e, nil
}
