package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/domain"
)

// ReadingRepository implements domain.ReadingRepository with in-memory storage
type ReadingRepository struct {
	mu       sync.RWMutex
	readings map[int64]*domain.BacklightReading
	nextID   int64
}

// NewReadingRepository creates an empty in-memory repository
func NewReadingRepository() *ReadingRepository {
	return &ReadingRepository{
		readings: make(map[int64]*domain.BacklightReading),
		nextID:   1,
	}
}

// SaveReading stores a copy of reading and assigns its ID
func (r *ReadingRepository) SaveReading(ctx context.Context, reading *domain.BacklightReading) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if reading.ID == 0 {
		reading.ID = r.nextID
		r.nextID++
	} else if reading.ID >= r.nextID {
		r.nextID = reading.ID + 1
	}

	stored := *reading
	r.readings[reading.ID] = &stored
	return nil
}

// GetReading retrieves a reading by ID
func (r *ReadingRepository) GetReading(ctx context.Context, id int64) (*domain.BacklightReading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reading, exists := r.readings[id]
	if !exists {
		return nil, domain.ErrReadingNotFound
	}

	out := *reading
	return &out, nil
}

// GetReadingsInRange returns readings with start <= timestamp < end, oldest first
func (r *ReadingRepository) GetReadingsInRange(ctx context.Context, start, end time.Time) ([]*domain.BacklightReading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var results []*domain.BacklightReading
	for _, reading := range r.readings {
		if !reading.Timestamp.Before(start) && reading.Timestamp.Before(end) {
			out := *reading
			results = append(results, &out)
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Timestamp.Equal(results[j].Timestamp) {
			return results[i].ID < results[j].ID
		}
		return results[i].Timestamp.Before(results[j].Timestamp)
	})

	return results, nil
}

// GetLatestReading returns the most recent reading; ties go to the higher ID
func (r *ReadingRepository) GetLatestReading(ctx context.Context) (*domain.BacklightReading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *domain.BacklightReading
	for _, reading := range r.readings {
		if latest == nil ||
			reading.Timestamp.After(latest.Timestamp) ||
			(reading.Timestamp.Equal(latest.Timestamp) && reading.ID > latest.ID) {
			latest = reading
		}
	}

	if latest == nil {
		return nil, domain.ErrReadingNotFound
	}

	out := *latest
	return &out, nil
}

// DeleteOldReadings removes readings older than specified duration
func (r *ReadingRepository) DeleteOldReadings(ctx context.Context, olderThan time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-olderThan)

	for id, reading := range r.readings {
		if reading.Timestamp.Before(cutoff) {
			delete(r.readings, id)
		}
	}

	return nil
}
