package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/domain"
)

// ReadingRepository implements domain.ReadingRepository with SQLite.
// Timestamps are stored as unix nanoseconds so range queries compare integers.
type ReadingRepository struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS backlight_readings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	level REAL NOT NULL,
	brightness INTEGER NOT NULL,
	session TEXT NOT NULL,
	timestamp INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_backlight_readings_timestamp ON backlight_readings(timestamp);
`

// Bounds of the int64 nanosecond range, roughly years 1677 to 2262
var (
	minStoredTime = time.Unix(0, math.MinInt64)
	maxStoredTime = time.Unix(0, math.MaxInt64)
)

// unixNanos saturates instead of wrapping for times outside the int64 range,
// so far-future or far-past query bounds keep their order.
func unixNanos(t time.Time) int64 {
	switch {
	case t.Before(minStoredTime):
		return math.MinInt64
	case t.After(maxStoredTime):
		return math.MaxInt64
	}
	return t.UnixNano()
}

const selectColumns = `SELECT id, level, brightness, session, timestamp FROM backlight_readings`

// NewReadingRepository creates a SQLite-backed repository
func NewReadingRepository(dbPath string) (*ReadingRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &ReadingRepository{db: db}, nil
}

// SaveReading stores a reading in SQLite
func (r *ReadingRepository) SaveReading(ctx context.Context, reading *domain.BacklightReading) error {
	query := `INSERT INTO backlight_readings (level, brightness, session, timestamp) VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		reading.Level, int(reading.Brightness), reading.Session, unixNanos(reading.Timestamp))
	if err != nil {
		return fmt.Errorf("failed to insert reading: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get insert id: %w", err)
	}

	reading.ID = id
	return nil
}

// GetReading retrieves a reading by ID
func (r *ReadingRepository) GetReading(ctx context.Context, id int64) (*domain.BacklightReading, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)

	reading, err := scanReading(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReadingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query reading: %w", err)
	}

	return reading, nil
}

// GetReadingsInRange returns readings with start <= timestamp < end, oldest first
func (r *ReadingRepository) GetReadingsInRange(ctx context.Context, start, end time.Time) ([]*domain.BacklightReading, error) {
	query := selectColumns + `
		WHERE timestamp >= ? AND timestamp < ?
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, unixNanos(start), unixNanos(end))
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}
	defer rows.Close()

	var readings []*domain.BacklightReading
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reading: %w", err)
		}
		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate readings: %w", err)
	}

	return readings, nil
}

// GetLatestReading returns the most recent reading
func (r *ReadingRepository) GetLatestReading(ctx context.Context) (*domain.BacklightReading, error) {
	row := r.db.QueryRowContext(ctx, selectColumns+` ORDER BY timestamp DESC, id DESC LIMIT 1`)

	reading, err := scanReading(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReadingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest reading: %w", err)
	}

	return reading, nil
}

// DeleteOldReadings removes readings older than specified duration
func (r *ReadingRepository) DeleteOldReadings(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)

	_, err := r.db.ExecContext(ctx, `DELETE FROM backlight_readings WHERE timestamp < ?`, unixNanos(cutoff))
	if err != nil {
		return fmt.Errorf("failed to delete old readings: %w", err)
	}

	return nil
}

// Close closes the database connection
func (r *ReadingRepository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReading(s scanner) (*domain.BacklightReading, error) {
	var (
		reading    domain.BacklightReading
		brightness int
		nanos      int64
	)

	if err := s.Scan(&reading.ID, &reading.Level, &brightness, &reading.Session, &nanos); err != nil {
		return nil, err
	}

	reading.Brightness = domain.BrightnessLevel(brightness)
	reading.Timestamp = time.Unix(0, nanos)
	return &reading, nil
}
