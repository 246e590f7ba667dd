// Package loader mounts features on the HTTP router.
//
// A feature bundles a service, its handler and the routes that expose it. The
// Manager keeps them in registration order and LoadAll mounts the enabled ones,
// refusing duplicate names:
//
//	mgr := loader.NewManager(log)
//	mgr.Register(inventory.NewFeature(cache, allocator, log))
//	mgr.Register(integrity.NewFeature(cache, db, table, log))
//	if err := mgr.LoadAll(app); err != nil { ... }
package loader
