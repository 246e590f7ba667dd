// Package inventory exposes the inventory cache and the transfer engine over HTTP.
//
// The service owns one inventory.Cache and one transfer.Allocator per process.
// Transfer results are always returned with 200: a partial or refused request is
// described by the "status" field, not by the HTTP code.
//
// # HTTP Endpoints
//
//   - POST /inventory/scan : Full scan (supports ?force=true to rediscover).
//   - POST /inventory/scan/:name : Rescan one container.
//   - GET /inventory/stock : Stock levels of every item key.
//   - GET /inventory/stock/:item : Stock level of one item key.
//   - GET /inventory/items/:item : Slots holding an item key.
//   - GET /inventory/empty : Empty slots (supports ?container=name).
//   - POST /inventory/withdraw : Move items out of storage.
//   - POST /inventory/deposit : Empty a container into storage.
//   - POST /inventory/pull : Deposit known slots.
//   - POST /inventory/clear : Empty known slots in one run.
//   - POST /inventory/batch/begin, POST /inventory/batch/end : Batch mode.
//   - GET /inventory/stats : Cache counters.
//   - GET /inventory/parallel, PUT /inventory/parallel : Parallel settings.
package inventory
