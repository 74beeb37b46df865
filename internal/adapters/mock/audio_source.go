package mock

import (
	"context"
	"math/rand"
	"sync"

	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/domain"
)

// FakeAudioSource simulates a microphone level meter for development
// This implements the ports.AudioSource interface
type FakeAudioSource struct {
	baseValue float64
	variation float64
}

// NewFakeAudioSource creates a source that returns noisy levels
// baseValue: average level (e.g., 0.15 for background music)
// variation: +/- range (e.g., 0.1 means 0.05-0.25)
func NewFakeAudioSource(baseValue, variation float64) *FakeAudioSource {
	return &FakeAudioSource{
		baseValue: baseValue,
		variation: variation,
	}
}

// ReadLevel returns a simulated level clamped to 0.0-1.0
func (s *FakeAudioSource) ReadLevel(ctx context.Context) (float64, error) {
	variance := (rand.Float64() - 0.5) * 2 * s.variation
	level := s.baseValue + variance

	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}

	return level, nil
}

// Close is a no-op for fake source
func (s *FakeAudioSource) Close() error {
	return nil
}

// SequenceSource replays a fixed list of levels, wrapping around at the end
type SequenceSource struct {
	mu     sync.Mutex
	levels []float64
	next   int
	closed bool
}

// NewSequenceSource creates a source over a copy of levels
func NewSequenceSource(levels ...float64) *SequenceSource {
	owned := make([]float64, len(levels))
	copy(owned, levels)
	return &SequenceSource{levels: owned}
}

// ReadLevel returns the next level in the sequence
func (s *SequenceSource) ReadLevel(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || len(s.levels) == 0 {
		return 0, domain.ErrSourceUnavailable
	}

	level := s.levels[s.next]
	s.next = (s.next + 1) % len(s.levels)
	return level, nil
}

// Close marks the source unavailable
func (s *SequenceSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
