// Package transfer implements the transfer allocator: withdraw, deposit and
// the slot level deposit variants.
//
// Sources and destinations are chosen from the inventory cache indexes. Every
// move is a Transfer that walks a small state machine:
//
//	planned -> attempting -> success | zero_progress (retried up to the limit)
//	        -> applied_to_cache | abandoned
//
// A transfer reaches the cache only after the container confirmed the moved
// amount, and always with that amount. Peripheral faults are caught where the
// call is made and count as zero progress; they never abort a whole request.
//
// Concurrent requests are serialised per item key (withdraw) and per source
// container (deposit family). Requests on different keys run freely.
//
// Statuses:
//
//	""                  everything requested was moved
//	"partial"           less than requested was moved
//	"not_found"         no storage location holds the item
//	"no_storage"        no container is classified as storage
//	"no_valid_storage"  storage exists but none can take items
package transfer
