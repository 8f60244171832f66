package storage

import (
	"fmt"
	"time"
)

// RecordAccess inserts a record. A zero CreatedAt is set to now.
func (d *DB) RecordAccess(record *AccessRecord) error {
	if record == nil {
		return ErrNilRecord
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	if err := d.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to record access: %w", err)
	}
	return nil
}

// ListRecent returns up to limit records, newest first.
func (d *DB) ListRecent(limit int) ([]AccessRecord, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	var records []AccessRecord
	if err := d.db.Order("created_at DESC, id DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent access records: %w", err)
	}
	return records, nil
}

// ListByStatus returns every record answered with status, newest first.
func (d *DB) ListByStatus(status int) ([]AccessRecord, error) {
	var records []AccessRecord
	if err := d.db.Where("status = ?", status).Order("created_at DESC, id DESC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list access records for status %d: %w", status, err)
	}
	return records, nil
}

// CountByStatus groups all records by status code, ascending.
func (d *DB) CountByStatus() ([]StatusCount, error) {
	var counts []StatusCount
	if err := d.db.Model(&AccessRecord{}).Select("status, COUNT(*) as count").
		Group("status").Order("status").Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to count access records by status: %w", err)
	}
	return counts, nil
}
