package database

import (
	"fmt"
	"os"
)

// Status is a diagnostic snapshot of the store used by the admin surface.
type Status struct {
	Path      string           `json:"path"`
	Exists    bool             `json:"exists"`
	SizeKB    float64          `json:"size_kb"`
	Tables    []string         `json:"tables"`
	RowCounts map[string]int64 `json:"row_counts"`
}

// Status reports the store file, its tables and per-table row counts.
func (s *Store) Status() (*Status, error) {
	status := &Status{
		Path:      s.path,
		Exists:    s.Exists(),
		RowCounts: map[string]int64{},
	}

	if info, err := os.Stat(s.path); err == nil {
		status.SizeKB = float64(info.Size()) / 1024
	}

	var tables []string
	err := s.db.
		Raw(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`).
		Scan(&tables).Error
	if err != nil {
		return nil, fmt.Errorf("list store tables: %w", err)
	}
	status.Tables = tables

	for _, table := range tables {
		var n int64
		if err := s.db.Table(table).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count rows in %s: %w", table, err)
		}
		status.RowCounts[table] = n
	}

	return status, nil
}
