package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry is one row of the key/value table.
type Entry struct {
	Key       string `gorm:"column:key;primaryKey;size:191"`
	Value     []byte `gorm:"column:value"`
	UpdatedAt time.Time
}

// SQL is a Store persisted into a single table through GORM.
type SQL struct {
	db    *gorm.DB
	table string
}

// NewSQL creates the table if needed and returns the store.
func NewSQL(db *gorm.DB, table string) (*SQL, error) {
	if table == "" {
		table = "kv_entries"
	}
	if err := db.Table(table).AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate %s: %w", table, err)
	}
	return &SQL{db: db, table: table}, nil
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	var e Entry
	err := s.db.WithContext(ctx).Table(s.table).Where("`key` = ?", key).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return e.Value, nil
}

func (s *SQL) Set(ctx context.Context, key string, value []byte) error {
	return s.upsert(ctx, []Entry{{Key: key, Value: value, UpdatedAt: time.Now()}})
}

func (s *SQL) GetAll(ctx context.Context) (map[string][]byte, error) {
	var entries []Entry
	if err := s.db.WithContext(ctx).Table(s.table).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.table, err)
	}
	out := make(map[string][]byte, len(entries))
	for _, e := range entries {
		out[e.Key] = e.Value
	}
	return out, nil
}

func (s *SQL) SetAll(ctx context.Context, values map[string][]byte) error {
	if len(values) == 0 {
		return nil
	}
	now := time.Now()
	entries := make([]Entry, 0, len(values))
	for k, v := range values {
		entries = append(entries, Entry{Key: k, Value: v, UpdatedAt: now})
	}
	return s.upsert(ctx, entries)
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Table(s.table).Where("`key` = ?", key).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *SQL) upsert(ctx context.Context, entries []Entry) error {
	err := s.db.WithContext(ctx).Table(s.table).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).CreateInBatches(entries, 200).Error
	if err != nil {
		return fmt.Errorf("failed to upsert into %s: %w", s.table, err)
	}
	return nil
}
