package kvstore

// Config holds configuration for the persistent key/value store.
type Config struct {
	// Driver selects the backend (memory, sql, object).
	Driver string `mapstructure:"driver" default:"sql"`
	// Table is the table name used by the sql driver.
	Table string `mapstructure:"table" default:"kv_entries"`
	// Prefix is the object key prefix used by the object driver.
	Prefix string `mapstructure:"prefix" default:"state/"`
}

const (
	DriverMemory = "memory"
	DriverSQL    = "sql"
	DriverObject = "object"
)
