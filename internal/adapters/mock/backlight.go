package mock

import (
	"context"
	"sync"

	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/domain"
)

// Backlight remembers every brightness it was asked to apply
// This implements the ports.Backlight interface
type Backlight struct {
	mu      sync.Mutex
	applied []domain.BrightnessLevel
	err     error
}

// NewBacklight creates an empty capturing backlight
func NewBacklight() *Backlight {
	return &Backlight{}
}

// FailWith makes subsequent SetBrightness calls return err; nil clears it
func (b *Backlight) FailWith(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
}

// SetBrightness records level
func (b *Backlight) SetBrightness(ctx context.Context, level domain.BrightnessLevel) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.err != nil {
		return b.err
	}
	b.applied = append(b.applied, level)
	return nil
}

// Applied returns a copy of every level applied so far
func (b *Backlight) Applied() []domain.BrightnessLevel {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]domain.BrightnessLevel, len(b.applied))
	copy(out, b.applied)
	return out
}

// Close is a no-op
func (b *Backlight) Close() error {
	return nil
}
