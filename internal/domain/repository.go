package domain

import (
	"context"
	"time"
)

// ReadingRepository defines operations for storing/retrieving backlight readings
// This is a PORT - adapters (SQLite, Memory) implement it
type ReadingRepository interface {
	// SaveReading persists a reading and assigns its ID
	SaveReading(ctx context.Context, reading *BacklightReading) error

	// GetReading retrieves a specific reading by ID
	GetReading(ctx context.Context, id int64) (*BacklightReading, error)

	// GetReadingsInRange retrieves all readings within time range.
	// Uses a half-open interval: inclusive start, exclusive end [start, end).
	GetReadingsInRange(ctx context.Context, start, end time.Time) ([]*BacklightReading, error)

	// GetLatestReading retrieves the most recent reading
	GetLatestReading(ctx context.Context) (*BacklightReading, error)

	// DeleteOldReadings removes readings older than specified duration
	DeleteOldReadings(ctx context.Context, olderThan time.Duration) error
}
