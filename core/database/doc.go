// Package database opens the GORM connection behind the sql store driver.
//
// Connect supports MySQL and SQLite. SQLite is limited to one open connection
// so ":memory:" databases behave as a single shared store in tests.
// GetTableColumns describes a table in dialect-neutral terms; the integrity
// feature uses it to verify the key/value table.
package database
