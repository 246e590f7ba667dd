package transfer_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"inventory-manager/core/inventory"
	"inventory-manager/core/peripheral"
	"inventory-manager/core/peripheral/memory"
	"inventory-manager/core/transfer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() inventory.Config {
	return inventory.Config{
		StorageTags:     []string{"minecraft:chest", "minecraft:barrel"},
		TransferThreads: 4,
		ScanThreads:     4,
		BatchSize:       2,
		Parallel:        true,
		RetryLimit:      2,
		RetryDelayMs:    0,
		DefaultMaxStack: 64,
	}
}

func setup(t *testing.T, network *memory.Network, cfg inventory.Config) (*inventory.Cache, *transfer.Allocator) {
	t.Helper()
	cache := inventory.New(network, nil, cfg, nil, nil)
	_, err := cache.ScanAll(context.Background(), false)
	require.NoError(t, err)
	network.ResetCalls()
	return cache, transfer.New(cache, cfg, nil, nil)
}

func assertInvariant(t *testing.T, c *inventory.Cache) {
	t.Helper()
	keys := map[string]bool{}
	for _, e := range c.Entries() {
		for _, it := range e.Slots {
			keys[it.Key()] = true
		}
	}
	stock := c.Stock()
	for k := range stock {
		keys[k] = true
	}
	for k := range keys {
		sum := 0
		for _, loc := range c.FindItem(k) {
			if loc.Storage {
				sum += loc.Count
			}
		}
		assert.Equal(t, stock[k], sum, "stock of %s", k)
	}
}

func TestWithdraw_ScenarioA(t *testing.T) {
	ctx := context.Background()
	network := memory.New().
		Add("chest_1", 27, "minecraft:chest").
		Add("barrel_1", 27, "minecraft:barrel").
		Add("output", 9, "minecraft:hopper")
	network.Put("chest_1", 1, peripheral.Item{Name: "ore", Count: 40})
	cache, alloc := setup(t, network, testConfig())

	res, err := alloc.Withdraw(ctx, "ore", 40, "output", 0)
	require.NoError(t, err)
	assert.Equal(t, 40, res.Moved)
	assert.Equal(t, transfer.StatusOK, res.Status)

	assert.Empty(t, network.Contents("chest_1"))
	assert.Equal(t, 40, network.Count("ore", "output"))
	assert.Equal(t, 0, cache.StockOf("ore"))
	assert.Contains(t, cache.FindEmptySlots("chest_1"), 1)
	assert.Equal(t, []inventory.Location{{Container: "output", Slot: 1, Count: 40}}, cache.FindItem("ore"))
	assertInvariant(t, cache)
}

func TestWithdraw_MoreThanAvailable(t *testing.T) {
	ctx := context.Background()
	network := memory.New().
		Add("barrel_1", 9, "minecraft:barrel").
		Add("barrel_2", 9, "minecraft:barrel").
		Add("barrel_3", 9, "minecraft:barrel").
		Add("output", 9, "minecraft:hopper")
	network.Put("barrel_1", 1, peripheral.Item{Name: "ore", Count: 10})
	network.Put("barrel_2", 4, peripheral.Item{Name: "ore", Count: 20})
	network.Put("barrel_3", 2, peripheral.Item{Name: "ore", Count: 30})
	cache, alloc := setup(t, network, testConfig())

	res, err := alloc.Withdraw(ctx, "ore", 100, "output", 0)
	require.NoError(t, err)
	assert.Equal(t, 60, res.Moved)
	assert.Equal(t, transfer.StatusPartial, res.Status)
	assert.Equal(t, 3, network.Calls(peripheral.MethodPushItems))

	assert.Equal(t, 0, cache.StockOf("ore"))
	_, ok := cache.Stock()["ore"]
	assert.False(t, ok)
	for _, loc := range cache.FindItem("ore") {
		assert.False(t, loc.Storage)
	}
	assertInvariant(t, cache)
}

func TestWithdraw_ParallelStopsAtCount(t *testing.T) {
	ctx := context.Background()
	network := memory.New().Add("output", 9, "minecraft:hopper")
	for _, name := range []string{"barrel_1", "barrel_2", "barrel_3", "barrel_4"} {
		network.Add(name, 9, "minecraft:barrel")
		network.Put(name, 1, peripheral.Item{Name: "ore", Count: 20})
	}
	cache, alloc := setup(t, network, testConfig())

	res, err := alloc.Withdraw(ctx, "ore", 50, "output", 0)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Moved)
	assert.Equal(t, transfer.StatusOK, res.Status)
	assert.Equal(t, 3, network.Calls(peripheral.MethodPushItems))
	assert.Equal(t, 30, cache.StockOf("ore"))
	assert.Equal(t, 30, network.Count("ore", "barrel_1", "barrel_2", "barrel_3", "barrel_4"))
	assertInvariant(t, cache)
}

func TestWithdraw_RetriesZeroProgress(t *testing.T) {
	ctx := context.Background()
	network := memory.New().
		Add("barrel_1", 9, "minecraft:barrel").
		Add("output", 9, "minecraft:hopper")
	network.Put("barrel_1", 1, peripheral.Item{Name: "ore", Count: 30})
	cache, alloc := setup(t, network, testConfig())

	network.FailNext("barrel_1", 2)
	res, err := alloc.Withdraw(ctx, "ore", 30, "output", 0)
	require.NoError(t, err)
	assert.Equal(t, 30, res.Moved)
	assert.Equal(t, 3, network.Calls(peripheral.MethodPushItems))
	assert.Equal(t, 0, cache.StockOf("ore"))
}

func TestWithdraw_GivesUpAfterRetryLimit(t *testing.T) {
	ctx := context.Background()
	network := memory.New().
		Add("barrel_1", 9, "minecraft:barrel").
		Add("output", 1, "minecraft:hopper")
	network.Put("barrel_1", 1, peripheral.Item{Name: "ore", Count: 30})
	network.Put("output", 1, peripheral.Item{Name: "dirt", Count: 64})
	cache, alloc := setup(t, network, testConfig())

	res, err := alloc.Withdraw(ctx, "ore", 10, "output", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Moved)
	assert.Equal(t, transfer.StatusPartial, res.Status)
	assert.Equal(t, 3, network.Calls(peripheral.MethodPushItems))
	assert.Equal(t, 30, cache.StockOf("ore"))
}

func TestWithdraw_SkipsUnavailableSource(t *testing.T) {
	ctx := context.Background()
	network := memory.New().
		Add("barrel_1", 9, "minecraft:barrel").
		Add("barrel_2", 9, "minecraft:barrel").
		Add("output", 9, "minecraft:hopper")
	network.Put("barrel_1", 1, peripheral.Item{Name: "ore", Count: 30})
	network.Put("barrel_2", 1, peripheral.Item{Name: "ore", Count: 20})
	cache, alloc := setup(t, network, testConfig())

	network.SetDown("barrel_1", true)
	res, err := alloc.Withdraw(ctx, "ore", 25, "output", 0)
	require.NoError(t, err)
	assert.Equal(t, 20, res.Moved)
	assert.Equal(t, transfer.StatusPartial, res.Status)
	assert.Equal(t, 2, network.Calls(peripheral.MethodPushItems))
	assert.Equal(t, 30, cache.StockOf("ore"))
	assertInvariant(t, cache)
}

func TestWithdraw_DestinationSlot(t *testing.T) {
	ctx := context.Background()
	network := memory.New().
		Add("barrel_1", 9, "minecraft:barrel").
		Add("output", 9, "minecraft:hopper")
	network.Put("barrel_1", 1, peripheral.Item{Name: "sword", NBT: "abc", Count: 1})
	cache, alloc := setup(t, network, testConfig())

	res, err := alloc.Withdraw(ctx, "sword:abc", 1, "output", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Moved)

	it, ok := cache.SlotItem("output", 3)
	require.True(t, ok)
	assert.Equal(t, peripheral.Item{Name: "sword", NBT: "abc", Count: 1}, it)
	assert.Equal(t, 1, network.Contents("output")[3].Count)
	// No refresh scan of the destination is needed.
	assert.Equal(t, 0, network.Calls(peripheral.MethodList))
}

func TestWithdraw_NotFoundAndInvalid(t *testing.T) {
	ctx := context.Background()
	network := memory.New().
		Add("barrel_1", 9, "minecraft:barrel").
		Add("output", 9, "minecraft:hopper")
	_, alloc := setup(t, network, testConfig())

	res, err := alloc.Withdraw(ctx, "diamond", 5, "output", 0)
	require.NoError(t, err)
	assert.Equal(t, transfer.StatusNotFound, res.Status)
	assert.Equal(t, 0, network.Calls(""))

	_, err = alloc.Withdraw(ctx, "diamond", 0, "output", 0)
	assert.ErrorIs(t, err, transfer.ErrInvalidRequest)

	_, err = alloc.Withdraw(ctx, "diamond", 1, "ghost", 0)
	assert.ErrorIs(t, err, peripheral.ErrUnavailable)
}

func TestWithdraw_ConcurrentCallersNeverOverAllocate(t *testing.T) {
	ctx := context.Background()
	network := memory.New().Add("output", 27, "minecraft:hopper")
	for _, name := range []string{"barrel_1", "barrel_2", "barrel_3", "barrel_4", "barrel_5"} {
		network.Add(name, 9, "minecraft:barrel")
		network.Put(name, 1, peripheral.Item{Name: "ore", Count: 20})
	}
	cache, alloc := setup(t, network, testConfig())

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		moved []int
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := alloc.Withdraw(ctx, "ore", 30, "output", 0)
			assert.NoError(t, err)
			mu.Lock()
			moved = append(moved, res.Moved)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Ints(moved)
	assert.Equal(t, []int{10, 30, 30, 30}, moved)
	assert.Equal(t, 0, cache.StockOf("ore"))
	assert.Equal(t, 100, network.Count("ore", "output"))
	assertInvariant(t, cache)
}

func TestDeposit_ScenarioB(t *testing.T) {
	ctx := context.Background()
	network := memory.New().
		Add("barrel_1", 9, "minecraft:barrel").
		Add("barrel_2", 9, "minecraft:barrel").
		Add("input", 5, "minecraft:hopper")
	network.Put("barrel_1", 1, peripheral.Item{Name: "ore", Count: 10})
	network.Put("barrel_2", 1, peripheral.Item{Name: "ore", Count: 54})
	network.Put("input", 1, peripheral.Item{Name: "ore", Count: 10})
	cache, alloc := setup(t, network, testConfig())

	res, err := alloc.Deposit(ctx, "input", "")
	require.NoError(t, err)
	assert.Equal(t, 10, res.Moved)
	assert.Equal(t, transfer.StatusOK, res.Status)
	assert.Nil(t, res.Remaining)

	assert.Equal(t, 64, network.Contents("barrel_2")[1].Count)
	assert.Equal(t, 10, network.Contents("barrel_1")[1].Count)
	assert.Empty(t, network.Contents("input"))
	assert.Equal(t, 74, cache.StockOf("ore"))
	assert.Equal(t, 1, network.Calls(peripheral.MethodPullItems))
	assertInvariant(t, cache)
}

func TestDeposit_OverflowRoundRobin(t *testing.T) {
	ctx := context.Background()
	network := memory.New().
		Add("barrel_1", 4, "minecraft:barrel").
		Add("barrel_2", 4, "minecraft:barrel").
		Add("input", 5, "minecraft:hopper")
	network.Put("input", 1, peripheral.Item{Name: "ore", Count: 64})
	network.Put("input", 2, peripheral.Item{Name: "ingot", Count: 30})
	network.Put("input", 3, peripheral.Item{Name: "gem", Count: 5})
	cache, alloc := setup(t, network, testConfig())

	res, err := alloc.Deposit(ctx, "input", "")
	require.NoError(t, err)
	assert.Equal(t, 99, res.Moved)
	assert.Equal(t, 99, res.Requested)
	assert.Equal(t, transfer.StatusOK, res.Status)

	assert.Equal(t, map[int]peripheral.Item{
		1: {Name: "ore", Count: 64},
		2: {Name: "gem", Count: 5},
	}, network.Contents("barrel_1"))
	assert.Equal(t, map[int]peripheral.Item{
		1: {Name: "ingot", Count: 30},
	}, network.Contents("barrel_2"))

	assert.Equal(t, map[string]int{"ore": 64, "ingot": 30, "gem": 5}, cache.Stock())
	assert.Equal(t, []int{3, 4}, cache.FindEmptySlots("barrel_1"))
	assertInvariant(t, cache)
}

func TestDeposit_SequentialAdvancesWhenFull(t *testing.T) {
	ctx := context.Background()
	network := memory.New().
		Add("barrel_1", 1, "minecraft:barrel").
		Add("barrel_2", 2, "minecraft:barrel").
		Add("input", 5, "minecraft:hopper")
	network.Put("input", 1, peripheral.Item{Name: "ore", Count: 5})
	network.Put("input", 2, peripheral.Item{Name: "ingot", Count: 5})
	network.Put("input", 3, peripheral.Item{Name: "gem", Count: 5})
	cfg := testConfig()
	cfg.Parallel = false
	cache, alloc := setup(t, network, cfg)

	res, err := alloc.Deposit(ctx, "input", "")
	require.NoError(t, err)
	assert.Equal(t, 15, res.Moved)
	assert.Equal(t, "ore", network.Contents("barrel_1")[1].Name)
	assert.Equal(t, "ingot", network.Contents("barrel_2")[1].Name)
	assert.Equal(t, "gem", network.Contents("barrel_2")[2].Name)
	assertInvariant(t, cache)
}

func TestDeposit_StaleEmptySlot(t *testing.T) {
	for _, parallel := range []bool{true, false} {
		t.Run(map[bool]string{true: "Parallel", false: "Sequential"}[parallel], func(t *testing.T) {
			ctx := context.Background()
			network := memory.New().
				Add("barrel_1", 3, "minecraft:barrel").
				Add("input", 5, "minecraft:hopper")
			network.Put("input", 1, peripheral.Item{Name: "ore", Count: 10})
			network.Put("input", 2, peripheral.Item{Name: "dirt", Count: 10})
			cfg := testConfig()
			cfg.Parallel = parallel
			cache, alloc := setup(t, network, cfg)

			// Filled behind the cache, which still lists slot 1 as empty.
			network.Put("barrel_1", 1, peripheral.Item{Name: "gold", Count: 5})

			res, err := alloc.Deposit(ctx, "input", "")
			require.NoError(t, err)
			assert.Equal(t, 20, res.Moved)
			assert.Equal(t, transfer.StatusOK, res.Status)
			assert.Nil(t, res.Remaining)

			assert.Empty(t, network.Contents("input"))
			assert.Equal(t, 10, network.Count("ore", "barrel_1"))
			assert.Equal(t, 10, network.Count("dirt", "barrel_1"))
			assert.Equal(t, 5, network.Count("gold", "barrel_1"))
			assert.Empty(t, cache.FindEmptySlots("barrel_1"))
			assert.Equal(t, map[string]int{"ore": 10, "dirt": 10, "gold": 5}, cache.Stock())
			assertInvariant(t, cache)
		})
	}
}

func TestDeposit_PartialWhenStorageFull(t *testing.T) {
	ctx := context.Background()
	network := memory.New().
		Add("barrel_1", 1, "minecraft:barrel").
		Add("input", 5, "minecraft:hopper")
	network.Put("input", 1, peripheral.Item{Name: "ore", Count: 10})
	network.Put("input", 2, peripheral.Item{Name: "ingot", Count: 10})
	cache, alloc := setup(t, network, testConfig())

	res, err := alloc.Deposit(ctx, "input", "")
	require.NoError(t, err)
	assert.Equal(t, 10, res.Moved)
	assert.Equal(t, transfer.StatusPartial, res.Status)
	assert.Equal(t, map[int]int{2: 10}, res.Remaining)
	assertInvariant(t, cache)
}

func TestDeposit_Filter(t *testing.T) {
	ctx := context.Background()
	network := memory.New().
		Add("barrel_1", 9, "minecraft:barrel").
		Add("input", 5, "minecraft:hopper")
	network.Put("input", 1, peripheral.Item{Name: "ore", Count: 10})
	network.Put("input", 2, peripheral.Item{Name: "ingot", Count: 10})
	cache, alloc := setup(t, network, testConfig())

	res, err := alloc.Deposit(ctx, "input", "ingot")
	require.NoError(t, err)
	assert.Equal(t, 10, res.Moved)
	assert.Equal(t, map[string]int{"ingot": 10}, cache.Stock())
	assert.Equal(t, 10, network.Contents("input")[1].Count)
}

func TestDeposit_RespectsMaxStack(t *testing.T) {
	ctx := context.Background()
	network := memory.New().
		Add("barrel_1", 9, "minecraft:barrel").
		Add("input", 5, "minecraft:hopper").
		SetMaxStack("pearl", 16)
	network.Put("barrel_1", 1, peripheral.Item{Name: "pearl", Count: 10})
	network.Put("input", 1, peripheral.Item{Name: "pearl", Count: 10})
	cache, alloc := setup(t, network, testConfig())

	res, err := alloc.Deposit(ctx, "input", "")
	require.NoError(t, err)
	assert.Equal(t, 10, res.Moved)
	assert.Equal(t, 16, network.Contents("barrel_1")[1].Count)
	assert.Equal(t, 4, network.Contents("barrel_1")[2].Count)
	assert.Equal(t, 20, cache.StockOf("pearl"))
	assertInvariant(t, cache)
}

func TestDeposit_NoStorage(t *testing.T) {
	ctx := context.Background()
	network := memory.New().
		Add("chest_1", 9, "minecraft:dropper").
		Add("input", 5, "minecraft:hopper")
	network.Put("input", 1, peripheral.Item{Name: "ore", Count: 10})
	_, alloc := setup(t, network, testConfig())

	res, err := alloc.Deposit(ctx, "input", "")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Moved)
	assert.Equal(t, transfer.StatusNoStorage, res.Status)

	res, err = alloc.PullSlot(ctx, "input", 1, peripheral.Item{Name: "ore", Count: 10})
	require.NoError(t, err)
	assert.Equal(t, transfer.StatusNoStorage, res.Status)

	assert.Equal(t, 0, network.Calls(""))
	assert.Equal(t, 10, network.Contents("input")[1].Count)
}

func TestDeposit_NoValidStorage(t *testing.T) {
	ctx := context.Background()
	network := memory.New().
		Add("barrel_1", 9, "minecraft:barrel").
		Add("input", 5, "minecraft:hopper")
	network.Put("input", 1, peripheral.Item{Name: "ore", Count: 10})
	_, alloc := setup(t, network, testConfig())

	network.Remove("barrel_1")
	res, err := alloc.Deposit(ctx, "input", "")
	require.NoError(t, err)
	assert.Equal(t, transfer.StatusNoValidStorage, res.Status)
	assert.Equal(t, map[int]int{1: 10}, res.Remaining)
	assert.Equal(t, 0, network.Calls(peripheral.MethodPullItems))
}

func TestDeposit_UnknownSource(t *testing.T) {
	network := memory.New().Add("barrel_1", 9, "minecraft:barrel")
	_, alloc := setup(t, network, testConfig())

	_, err := alloc.Deposit(context.Background(), "ghost", "")
	assert.ErrorIs(t, err, peripheral.ErrUnavailable)
}

func TestPullSlot_BatchRebuildsOnce(t *testing.T) {
	ctx := context.Background()
	network := memory.New().
		Add("barrel_1", 9, "minecraft:barrel").
		Add("barrel_2", 9, "minecraft:barrel").
		Add("input", 5, "minecraft:hopper")
	for slot := 1; slot <= 5; slot++ {
		network.Put("input", slot, peripheral.Item{Name: "ore", Count: 10})
	}
	cache, alloc := setup(t, network, testConfig())
	base := cache.Stats().Rebuilds

	cache.BeginBatch()
	for slot := 1; slot <= 5; slot++ {
		res, err := alloc.PullSlot(ctx, "input", slot, peripheral.Item{Name: "ore", Count: 10})
		require.NoError(t, err)
		assert.Equal(t, 10, res.Moved)
	}
	assert.Equal(t, base, cache.Stats().Rebuilds)
	cache.EndBatch()

	assert.Equal(t, base+1, cache.Stats().Rebuilds)
	assert.Equal(t, 50, cache.StockOf("ore"))
	assert.Equal(t, 0, network.Calls(peripheral.MethodList))
	assertInvariant(t, cache)
}

func TestPullSlot_OutsideBatchRebuilds(t *testing.T) {
	ctx := context.Background()
	network := memory.New().
		Add("barrel_1", 9, "minecraft:barrel").
		Add("input", 5, "minecraft:hopper")
	network.Put("input", 2, peripheral.Item{Name: "ore", Count: 10})
	cache, alloc := setup(t, network, testConfig())
	base := cache.Stats().Rebuilds

	res, err := alloc.PullSlot(ctx, "input", 2, peripheral.Item{Name: "ore", Count: 10})
	require.NoError(t, err)
	assert.Equal(t, 10, res.Moved)
	assert.Equal(t, base+1, cache.Stats().Rebuilds)

	_, err = alloc.PullSlot(ctx, "input", 0, peripheral.Item{Name: "ore", Count: 10})
	assert.ErrorIs(t, err, transfer.ErrInvalidRequest)
}

func TestPullSlotsBatch(t *testing.T) {
	ctx := context.Background()
	network := memory.New().
		Add("barrel_1", 9, "minecraft:barrel").
		Add("input", 5, "minecraft:hopper")
	network.Put("input", 1, peripheral.Item{Name: "ore", Count: 10})
	network.Put("input", 2, peripheral.Item{Name: "ingot", Count: 7})
	cache, alloc := setup(t, network, testConfig())
	base := cache.Stats().Rebuilds

	res, err := alloc.PullSlotsBatch(ctx, "input", []transfer.SlotItem{
		{Slot: 1, Item: peripheral.Item{Name: "ore", Count: 10}},
		{Slot: 2, Item: peripheral.Item{Name: "ingot", Count: 7}},
	})
	require.NoError(t, err)
	assert.Equal(t, 17, res.Moved)
	assert.Equal(t, 17, res.Requested)
	assert.Equal(t, transfer.StatusOK, res.Status)
	assert.Equal(t, base+1, cache.Stats().Rebuilds)
	assert.False(t, cache.InBatch())
}

func TestClearSlots(t *testing.T) {
	ctx := context.Background()
	network := memory.New().
		Add("barrel_1", 9, "minecraft:barrel").
		Add("barrel_2", 9, "minecraft:barrel").
		Add("input", 9, "minecraft:hopper")
	network.Put("barrel_2", 5, peripheral.Item{Name: "ore", Count: 60})
	network.Put("input", 1, peripheral.Item{Name: "ore", Count: 10})
	network.Put("input", 4, peripheral.Item{Name: "ingot", Count: 3})
	cache, alloc := setup(t, network, testConfig())

	res, err := alloc.ClearSlots(ctx, "input", map[int]peripheral.Item{
		1: {Name: "ore", Count: 10},
		4: {Name: "ingot", Count: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, 13, res.Moved)
	assert.Empty(t, network.Contents("input"))
	assert.Equal(t, 64, network.Contents("barrel_2")[5].Count)
	assert.Equal(t, 70, cache.StockOf("ore"))
	assert.Equal(t, 3, cache.StockOf("ingot"))
	assertInvariant(t, cache)
}
