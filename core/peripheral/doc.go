// Package peripheral is the access layer for item containers.
//
// A container is any discrete item holder addressable by name with numbered
// slots (chests, barrels, machines). The package defines the Inventory handle
// the rest of the application talks to, the Network that discovers and opens
// handles, and the sentinel errors used to classify failures.
//
// # Capabilities
//
// Every handle must support list, pushItems, pullItems and getItemDetail.
// Networks verify this once when a handle is opened (see CheckCapabilities),
// so callers never probe a handle per call.
//
// # Implementations
//
//   - Remote: talks to a peripheral bridge over HTTP using the Fiber client.
//   - memory.Network: an in-process simulator used by tests and local runs.
//
// # Usage
//
//	net := peripheral.NewRemote(cfg.Peripheral)
//	infos, err := net.Discover(ctx)
//	chest, err := net.Open(ctx, "minecraft:chest_1")
//	moved, err := chest.PushItems(ctx, "minecraft:barrel_0", 1, 0, 0)
package peripheral
