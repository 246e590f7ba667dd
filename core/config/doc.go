// Package config provides configuration management for the inventory manager.
//
// It utilizes Viper for loading configuration from environment variables and
// an optional .env file (loaded with godotenv).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Log: Logging level and format
//   - Storage: S3/MinIO credentials and bucket settings
//   - Database: MySQL or SQLite connection details
//   - Store: backend of the persisted cache (memory, sql, object)
//   - Peripheral: container network driver and bridge endpoint
//   - Inventory: storage classification, thread limits, batch size, retries
//
// Defaults come from the `default` struct tags. Every key maps to an
// environment variable by upper-casing it and replacing dots with
// underscores, e.g. inventory.transfer_threads -> INVENTORY_TRANSFER_THREADS.
// List values are comma separated (INVENTORY_STORAGE_TAGS=minecraft:chest,minecraft:barrel).
//
// LoadConfig fails when a driver name (store, database, peripheral) is unknown,
// so a typo surfaces at start-up instead of at the first request.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
package config
