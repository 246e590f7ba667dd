package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Column is a dialect-neutral column description. Name and Type are lower case.
type Column struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Nullable   bool   `json:"nullable"`
	PrimaryKey bool   `json:"primary_key"`
}

// GetTableColumns lists the columns of table. SQLite reports an unknown table
// as an empty list; MySQL returns an error.
func GetTableColumns(db *gorm.DB, table string) ([]Column, error) {
	if db == nil {
		return nil, errors.New("database connection is nil")
	}

	var (
		cols []Column
		err  error
	)
	if db.Dialector.Name() == DriverSQLite {
		cols, err = sqliteColumns(db, table)
	} else {
		cols, err = mysqlColumns(db, table)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", table, err)
	}
	return cols, nil
}

// pragmaColumn is a row of PRAGMA table_info.
type pragmaColumn struct {
	Name    string
	Type    string
	Notnull int
	Pk      int
}

// showColumn is a row of SHOW COLUMNS (Default and Extra are ignored).
type showColumn struct {
	Field string
	Type  string
	Null  string
	Key   string
}

func sqliteColumns(db *gorm.DB, table string) ([]Column, error) {
	var rows []pragmaColumn
	if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", table)).Scan(&rows).Error; err != nil {
		return nil, err
	}
	cols := make([]Column, 0, len(rows))
	for _, r := range rows {
		cols = append(cols, Column{
			Name:       strings.ToLower(r.Name),
			Type:       strings.ToLower(r.Type),
			Nullable:   r.Notnull == 0 && r.Pk == 0,
			PrimaryKey: r.Pk > 0,
		})
	}
	return cols, nil
}

func mysqlColumns(db *gorm.DB, table string) ([]Column, error) {
	var rows []showColumn
	if err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", table)).Scan(&rows).Error; err != nil {
		return nil, err
	}
	cols := make([]Column, 0, len(rows))
	for _, r := range rows {
		cols = append(cols, Column{
			Name:       strings.ToLower(r.Field),
			Type:       strings.ToLower(r.Type),
			Nullable:   strings.EqualFold(r.Null, "YES"),
			PrimaryKey: r.Key == "PRI",
		})
	}
	return cols, nil
}
