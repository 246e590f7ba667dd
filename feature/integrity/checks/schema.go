package checks

import (
	"fmt"
	"slices"

	"inventory-manager/core/database"

	"gorm.io/gorm"
)

// ExpectedColumns are the columns of the key/value table.
var ExpectedColumns = []string{"key", "value", "updated_at"}

// SchemaReport strictly types the result of a store schema check.
type SchemaReport struct {
	Table   string   `json:"table"`
	Matched bool     `json:"matched"`
	Columns []string `json:"columns"`
	Missing []string `json:"missing_columns"`
}

// CheckSchema verifies that the key/value table exists with the expected columns.
func CheckSchema(db *gorm.DB, table string) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	cols, err := database.GetTableColumns(db, table)
	if err != nil {
		return nil, err
	}

	report := &SchemaReport{Table: table, Columns: []string{}, Missing: []string{}}
	for _, c := range cols {
		report.Columns = append(report.Columns, c.Name)
	}
	for _, want := range ExpectedColumns {
		if !slices.Contains(report.Columns, want) {
			report.Missing = append(report.Missing, want)
		}
	}
	report.Matched = len(report.Missing) == 0
	return report, nil
}
