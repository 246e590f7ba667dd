package inventory_test

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"inventory-manager/core/inventory"
	"inventory-manager/core/kvstore"
	"inventory-manager/core/peripheral"
	"inventory-manager/core/peripheral/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() inventory.Config {
	return inventory.Config{
		StorageTags:     []string{"storage"},
		TransferThreads: 4,
		ScanThreads:     4,
		BatchSize:       8,
		Parallel:        true,
		RetryLimit:      2,
		DefaultMaxStack: 64,
	}
}

func newNetwork() *memory.Network {
	n := memory.New().
		Add("barrel_1", 9, "storage").
		Add("barrel_2", 9, "storage").
		Add("input", 5, "minecraft:chest")
	n.Put("barrel_1", 1, peripheral.Item{Name: "ore", Count: 40})
	n.Put("barrel_1", 3, peripheral.Item{Name: "ingot", Count: 12})
	n.Put("barrel_2", 2, peripheral.Item{Name: "ore", Count: 64})
	n.Put("barrel_2", 4, peripheral.Item{Name: "sword", NBT: "abc", Count: 1})
	n.Put("input", 1, peripheral.Item{Name: "ore", Count: 5})
	return n
}

// assertInvariant checks that storage locations sum to the stock level for every key.
func assertInvariant(t *testing.T, c *inventory.Cache) {
	t.Helper()
	stock := c.Stock()
	seen := map[string]bool{}
	for _, e := range c.Entries() {
		for _, it := range e.Slots {
			seen[it.Key()] = true
		}
	}
	for key := range stock {
		seen[key] = true
	}
	for key := range seen {
		sum := 0
		for _, loc := range c.FindItem(key) {
			if loc.Storage {
				sum += loc.Count
			}
		}
		assert.Equal(t, stock[key], sum, "stock of %s", key)
		assert.GreaterOrEqual(t, stock[key], 0)
	}
}

func TestScanAll_BuildsIndexes(t *testing.T) {
	ctx := context.Background()
	cache := inventory.New(newNetwork(), nil, testConfig(), nil, nil)

	stock, err := cache.ScanAll(ctx, false)
	require.NoError(t, err)

	// The input chest is not storage: its ore is located but not stocked.
	assert.Equal(t, map[string]int{"ore": 104, "ingot": 12, "sword:abc": 1}, stock)
	assert.Len(t, cache.FindItem("ore"), 3)
	assert.Equal(t, []inventory.Location{
		{Container: "barrel_2", Slot: 2, Count: 64, Storage: true},
		{Container: "barrel_1", Slot: 1, Count: 40, Storage: true},
		{Container: "input", Slot: 1, Count: 5, Storage: false},
	}, cache.FindItem("ore"))
	assert.Equal(t, []int{2, 4, 5, 6, 7, 8, 9}, cache.FindEmptySlots("barrel_1"))
	assert.Equal(t, []string{"barrel_1", "barrel_2"}, cache.StorageContainers())
	assertInvariant(t, cache)
}

func TestScanAll_SkipsUnreachableAndKeepsStaleRecord(t *testing.T) {
	ctx := context.Background()
	network := newNetwork()
	cache := inventory.New(network, nil, testConfig(), nil, nil)

	_, err := cache.ScanAll(ctx, false)
	require.NoError(t, err)

	network.Put("barrel_1", 1, peripheral.Item{Name: "ore", Count: 1})
	network.SetDown("barrel_1", true)

	stock, err := cache.ScanAll(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 104, stock["ore"])
	assert.Equal(t, 1, cache.Stats().LastScanSkipped)

	network.SetDown("barrel_1", false)
	stock, err = cache.ScanAll(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 65, stock["ore"])
}

func TestScanAll_DropsDetachedContainers(t *testing.T) {
	ctx := context.Background()
	network := newNetwork()
	store := kvstore.NewMemory()
	cache := inventory.New(network, store, testConfig(), nil, nil)

	_, err := cache.ScanAll(ctx, false)
	require.NoError(t, err)

	network.Remove("barrel_2")
	stock, err := cache.ScanAll(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 40, stock["ore"])
	_, ok := cache.Entry("barrel_2")
	assert.False(t, ok)

	_, err = store.Get(ctx, inventory.KeyPrefix+"barrel_2")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}

func TestScanAll_InProgressReturnsSnapshotWithoutIO(t *testing.T) {
	ctx := context.Background()
	network := memory.New().Add("barrel_1", 27, "storage")
	network.Put("barrel_1", 1, peripheral.Item{Name: "ore", Count: 40})
	cache := inventory.New(network, nil, testConfig(), nil, nil)

	_, err := cache.ScanAll(ctx, false)
	require.NoError(t, err)

	network.Put("barrel_1", 2, peripheral.Item{Name: "ore", Count: 10})

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	network.SetLatency(func(name string, method peripheral.Method) time.Duration {
		if method == peripheral.MethodList {
			once.Do(func() { close(started) })
			<-release
		}
		return 0
	})

	done := make(chan map[string]int)
	go func() {
		stock, _ := cache.ScanAll(ctx, false)
		done <- stock
	}()
	<-started

	calls := network.Calls("")
	snapshot, err := cache.ScanAll(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"ore": 40}, snapshot)
	assert.Equal(t, calls, network.Calls(""))
	assert.True(t, cache.Stats().Scanning)

	close(release)
	assert.Equal(t, map[string]int{"ore": 50}, <-done)
}

func TestRebuildIndexes_Idempotent(t *testing.T) {
	ctx := context.Background()
	cache := inventory.New(newNetwork(), nil, testConfig(), nil, nil)
	_, err := cache.ScanAll(ctx, false)
	require.NoError(t, err)

	cache.RebuildIndexes()
	stock1, ore1, sword1 := cache.Stock(), cache.FindItem("ore"), cache.FindItem("sword:abc")
	cache.RebuildIndexes()
	assert.Equal(t, stock1, cache.Stock())
	assert.Equal(t, ore1, cache.FindItem("ore"))
	assert.Equal(t, sword1, cache.FindItem("sword:abc"))
}

func TestScanOne_EmptySlotRoundTrip(t *testing.T) {
	ctx := context.Background()
	network := newNetwork()
	cache := inventory.New(network, nil, testConfig(), nil, nil)
	_, err := cache.ScanAll(ctx, false)
	require.NoError(t, err)

	network.Put("barrel_2", 9, peripheral.Item{Name: "ingot", Count: 3})
	network.Put("barrel_2", 2, peripheral.Item{})

	rebuilds := cache.Stats().Rebuilds
	require.NoError(t, cache.ScanOne(ctx, "barrel_2", false))
	assert.Equal(t, rebuilds+1, cache.Stats().Rebuilds)
	cache.RebuildIndexes()

	inv, err := network.Open(ctx, "barrel_2")
	require.NoError(t, err)
	size, err := inv.Size(ctx)
	require.NoError(t, err)
	items, err := inv.List(ctx)
	require.NoError(t, err)

	var want []int
	for slot := 1; slot <= size; slot++ {
		if _, ok := items[slot]; !ok {
			want = append(want, slot)
		}
	}
	assert.Equal(t, want, cache.FindEmptySlots("barrel_2"))
	assert.Equal(t, 40, cache.StockOf("ore"))
	assert.Equal(t, 15, cache.StockOf("ingot"))
	assertInvariant(t, cache)
}

func TestScanOne_UnknownContainer(t *testing.T) {
	cache := inventory.New(newNetwork(), nil, testConfig(), nil, nil)
	err := cache.ScanOne(context.Background(), "ghost", false)
	assert.ErrorIs(t, err, inventory.ErrUnknownContainer)
}

func TestScanOne_UnreachableKeepsRecord(t *testing.T) {
	ctx := context.Background()
	network := newNetwork()
	cache := inventory.New(network, nil, testConfig(), nil, nil)
	_, err := cache.ScanAll(ctx, false)
	require.NoError(t, err)
	before, ok := cache.Entry("barrel_1")
	require.True(t, ok)

	network.SetDown("barrel_1", true)
	network.Put("barrel_1", 1, peripheral.Item{Name: "ore", Count: 1})

	require.NoError(t, cache.ScanOne(ctx, "barrel_1", false))
	after, ok := cache.Entry("barrel_1")
	require.True(t, ok)
	assert.Equal(t, before.Slots, after.Slots)
	assert.Equal(t, 104, cache.StockOf("ore"))
	assertInvariant(t, cache)
}

func TestScanOne_DeferredAndBatch(t *testing.T) {
	ctx := context.Background()
	cache := inventory.New(newNetwork(), nil, testConfig(), nil, nil)
	_, err := cache.ScanAll(ctx, false)
	require.NoError(t, err)
	base := cache.Stats().Rebuilds

	require.NoError(t, cache.ScanOne(ctx, "barrel_1", true))
	assert.Equal(t, base, cache.Stats().Rebuilds)

	cache.BeginBatch()
	for i := 0; i < 5; i++ {
		require.NoError(t, cache.ScanOne(ctx, "barrel_1", false))
	}
	assert.Equal(t, base, cache.Stats().Rebuilds)
	assert.True(t, cache.Stats().PendingRebuild)
	assert.True(t, cache.EndBatch())
	assert.Equal(t, base+1, cache.Stats().Rebuilds)
	assert.False(t, cache.InBatch())
	assertInvariant(t, cache)
}

func TestBatch_NestedAndEmpty(t *testing.T) {
	cache := inventory.New(newNetwork(), nil, testConfig(), nil, nil)

	assert.False(t, cache.EndBatch())

	cache.BeginBatch()
	cache.BeginBatch()
	cache.RequestRebuild(false)
	assert.False(t, cache.EndBatch())
	assert.True(t, cache.InBatch())
	assert.True(t, cache.EndBatch())

	cache.BeginBatch()
	assert.False(t, cache.EndBatch())
	assert.Equal(t, int64(1), cache.Stats().Rebuilds)
}

func TestUpdaters(t *testing.T) {
	ctx := context.Background()
	cache := inventory.New(newNetwork(), nil, testConfig(), nil, nil)
	_, err := cache.ScanAll(ctx, false)
	require.NoError(t, err)

	t.Run("removal empties slot at zero", func(t *testing.T) {
		cache.ApplyRemoval(ctx, "barrel_1", 1, "ore", 40)
		assert.Equal(t, 64, cache.StockOf("ore"))
		assert.Contains(t, cache.FindEmptySlots("barrel_1"), 1)
		for _, loc := range cache.FindItem("ore") {
			assert.False(t, loc.Container == "barrel_1" && loc.Slot == 1)
		}
	})

	t.Run("removal beyond slot count floors at zero", func(t *testing.T) {
		cache.ApplyRemoval(ctx, "barrel_2", 4, "sword:abc", 5)
		assert.Equal(t, 0, cache.StockOf("sword:abc"))
		_, ok := cache.Stock()["sword:abc"]
		assert.False(t, ok)
		assert.Empty(t, cache.FindItem("sword:abc"))
	})

	t.Run("addition fills empty slot", func(t *testing.T) {
		cache.ApplyAddition(ctx, "barrel_1", 5, "gem", 7, "")
		assert.Equal(t, 7, cache.StockOf("gem"))
		assert.NotContains(t, cache.FindEmptySlots("barrel_1"), 5)
		assert.Equal(t, []inventory.Location{{Container: "barrel_1", Slot: 5, Count: 7, Storage: true}}, cache.FindItem("gem"))
	})

	t.Run("addition grows existing stack", func(t *testing.T) {
		cache.ApplyAddition(ctx, "barrel_1", 5, "gem", 3, "")
		assert.Equal(t, 10, cache.StockOf("gem"))
		assert.Equal(t, 10, cache.FindItem("gem")[0].Count)
	})

	t.Run("non storage container is located but not stocked", func(t *testing.T) {
		cache.ApplyAddition(ctx, "input", 2, "gem", 4, "")
		assert.Equal(t, 10, cache.StockOf("gem"))
		assert.Len(t, cache.FindItem("gem"), 2)
	})

	t.Run("unknown container is ignored", func(t *testing.T) {
		cache.ApplyAddition(ctx, "ghost", 1, "gem", 4, "")
		cache.ApplyRemoval(ctx, "ghost", 1, "gem", 4)
		assert.Equal(t, 10, cache.StockOf("gem"))
	})

	assertInvariant(t, cache)
}

func TestUpdaters_InvariantUnderRandomSequences(t *testing.T) {
	ctx := context.Background()
	cache := inventory.New(newNetwork(), nil, testConfig(), nil, nil)
	_, err := cache.ScanAll(ctx, false)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	containers := []string{"barrel_1", "barrel_2", "input"}
	items := []string{"ore", "ingot", "gem"}

	for i := 0; i < 500; i++ {
		name := containers[rng.Intn(len(containers))]
		slot := 1 + rng.Intn(5)
		item := items[rng.Intn(len(items))]
		count := 1 + rng.Intn(30)
		switch rng.Intn(3) {
		case 0:
			cache.ApplyRemoval(ctx, name, slot, item, count)
		case 1:
			cache.ApplyAddition(ctx, name, slot, item, count, "")
		default:
			if rng.Intn(10) == 0 {
				cache.RebuildIndexes()
			}
		}
	}
	assertInvariant(t, cache)

	before := cache.Stock()
	cache.RebuildIndexes()
	assert.Equal(t, before, cache.Stock())
}

func TestLoadAndClear(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	first := inventory.New(newNetwork(), store, testConfig(), nil, nil)
	_, err := first.ScanAll(ctx, false)
	require.NoError(t, err)
	first.ApplyAddition(ctx, "barrel_1", 9, "gem", 2, "")

	second := inventory.New(memory.New(), store, testConfig(), nil, nil)
	require.NoError(t, second.Load(ctx))
	assert.Equal(t, first.Stock(), second.Stock())
	assert.Equal(t, first.FindEmptySlots("barrel_1"), second.FindEmptySlots("barrel_1"))

	persisted, err := second.Persisted(ctx)
	require.NoError(t, err)
	assert.Len(t, persisted, 3)
	assert.Equal(t, 2, persisted["barrel_1"].Slots[9].Count)

	require.NoError(t, second.Clear(ctx))
	assert.Empty(t, second.Stock())
	assert.Empty(t, second.Entries())

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLoad_ReclassifiesStorage(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	first := inventory.New(newNetwork(), store, testConfig(), nil, nil)
	_, err := first.ScanAll(ctx, false)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.StorageTags = []string{"storage", "minecraft:chest"}
	cfg.Exclude = []string{"barrel_*"}
	second := inventory.New(memory.New(), store, cfg, nil, nil)
	require.NoError(t, second.Load(ctx))

	assert.Equal(t, []string{"input"}, second.StorageContainers())
	assert.Equal(t, map[string]int{"ore": 5}, second.Stock())
}

func TestClassifier(t *testing.T) {
	c := inventory.NewClassifier([]string{"storage", "minecraft:barrel"}, []string{"output*", ""})

	tests := []struct {
		name string
		info peripheral.Info
		want bool
	}{
		{"tagged", peripheral.Info{Name: "b1", Types: []string{"minecraft:barrel"}}, true},
		{"generic tag", peripheral.Info{Name: "c1", Types: []string{"inventory", "storage"}}, true},
		{"untagged", peripheral.Info{Name: "c2", Types: []string{"minecraft:chest"}}, false},
		{"excluded", peripheral.Info{Name: "output_1", Types: []string{"storage"}}, false},
		{"no tags", peripheral.Info{Name: "x"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsStorage(tt.info))
		})
	}
}

func TestSetParallelConfig(t *testing.T) {
	cache := inventory.New(memory.New(), nil, testConfig(), nil, nil)

	got := cache.SetParallelConfig(inventory.ParallelSettings{Enabled: false, TransferThreads: 2})
	assert.False(t, got.Enabled)
	assert.Equal(t, 2, got.TransferThreads)
	assert.Equal(t, 4, got.ScanThreads)
	assert.Equal(t, 8, got.BatchSize)
	assert.Equal(t, got, cache.Parallel())
	assert.Equal(t, got, cache.Stats().Parallel)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	cache := inventory.New(newNetwork(), nil, testConfig(), nil, nil)
	_, err := cache.ScanAll(ctx, false)
	require.NoError(t, err)

	s := cache.Stats()
	assert.Equal(t, 3, s.Containers)
	assert.Equal(t, 2, s.StorageContainers)
	assert.Equal(t, 23, s.Slots)
	assert.Equal(t, 5, s.UsedSlots)
	assert.Equal(t, 18, s.EmptySlots)
	assert.Equal(t, 117, s.TotalItems)
	assert.Equal(t, int64(1), s.Scans)
	assert.NotNil(t, s.LastScan)
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	cache := inventory.New(newNetwork(), store, testConfig(), nil, nil)
	_, err := cache.ScanAll(ctx, false)
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, inventory.KeyPrefix+"barrel_2"))
	require.NoError(t, store.Set(ctx, inventory.KeyPrefix+"gone", []byte(`{"name":"gone","size":1,"slots":{}}`)))

	require.NoError(t, cache.Sync(ctx))

	persisted, err := cache.Persisted(ctx)
	require.NoError(t, err)
	assert.Len(t, persisted, 3)
	assert.Contains(t, persisted, "barrel_2")
	assert.NotContains(t, persisted, "gone")
}
