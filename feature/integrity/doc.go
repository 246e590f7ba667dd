// Package integrity provides consistency checks over the inventory cache.
//
// The cache keeps several derived views of the same data (stock levels, item
// locations, empty slots, the persisted records). This package recomputes them
// from the cached container records and reports any disagreement.
//
// # Checks Provided
//
//   - Stock: Stock levels and storage locations must equal the recount of the cached storage slots.
//   - Slots: Every slot of a cached container is either occupied or indexed as empty, never both.
//   - Persistence: The persistent store holds exactly the cached containers, with the same contents.
//   - Schema: The key/value table has the expected columns (SQL store only).
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/stock : Runs stock check (supports ?fix=true to rebuild indexes).
//   - GET /integrity/slots : Runs empty-slot check (supports ?fix=true to rebuild indexes).
//   - GET /integrity/persistence : Runs persistence check (supports ?fix=true to rewrite the store).
//   - GET /integrity/schema : Runs store schema check.
package integrity
