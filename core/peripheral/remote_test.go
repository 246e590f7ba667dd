package peripheral_test

import (
	"context"
	"net"
	"testing"

	"inventory-manager/core/peripheral"
	"inventory-manager/core/peripheral/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startBridge serves a memory network over the bridge protocol.
func startBridge(t *testing.T, network *memory.Network, apiKey string) string {
	t.Helper()
	app := peripheral.NewBridge(network, apiKey)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return "http://" + ln.Addr().String()
}

func TestRemote_RoundTrip(t *testing.T) {
	ctx := context.Background()
	network := memory.New().
		Add("chest_1", 27, "minecraft:chest").
		Add("barrel_1", 27, "minecraft:barrel")
	network.Put("chest_1", 1, peripheral.Item{Name: "ore", Count: 40})

	endpoint := startBridge(t, network, "secret")
	remote := peripheral.NewRemote(peripheral.Config{Endpoint: endpoint, ApiKey: "secret", TimeoutSeconds: 5})

	infos, err := remote.Discover(ctx)
	require.NoError(t, err)
	assert.Len(t, infos, 2)

	chest, err := remote.Open(ctx, "chest_1")
	require.NoError(t, err)

	size, err := chest.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 27, size)

	items, err := chest.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, peripheral.Item{Name: "ore", Count: 40}, items[1])

	detail, err := chest.GetItemDetail(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, 64, detail.MaxCount)

	moved, err := chest.PushItems(ctx, "barrel_1", 1, 15, 0)
	require.NoError(t, err)
	assert.Equal(t, 15, moved)

	barrel, err := remote.Open(ctx, "barrel_1")
	require.NoError(t, err)
	moved, err = barrel.PullItems(ctx, "chest_1", 1, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, 25, moved)
	assert.Equal(t, 25, network.Contents("barrel_1")[5].Count)
}

func TestRemote_Unavailable(t *testing.T) {
	ctx := context.Background()
	network := memory.New().Add("chest_1", 9)
	endpoint := startBridge(t, network, "")
	remote := peripheral.NewRemote(peripheral.Config{Endpoint: endpoint})

	_, err := remote.Open(ctx, "ghost")
	assert.ErrorIs(t, err, peripheral.ErrUnavailable)

	chest, err := remote.Open(ctx, "chest_1")
	require.NoError(t, err)
	network.Remove("chest_1")

	_, err = chest.List(ctx)
	assert.ErrorIs(t, err, peripheral.ErrUnavailable)
}

func TestRemote_Unauthorized(t *testing.T) {
	network := memory.New().Add("chest_1", 9)
	endpoint := startBridge(t, network, "secret")
	remote := peripheral.NewRemote(peripheral.Config{Endpoint: endpoint, ApiKey: "wrong"})

	_, err := remote.Discover(context.Background())
	assert.ErrorContains(t, err, "status 401")
}
