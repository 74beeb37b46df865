package ports

import (
	"context"

	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/domain"
)

// AudioSource defines how to sample the audio level
// This is a PORT - adapters (Mock, Sequence) implement it
type AudioSource interface {
	// ReadLevel returns the current normalized audio level, nominally 0.0-1.0
	ReadLevel(ctx context.Context) (float64, error)

	// Close releases any resources
	Close() error
}

// Backlight defines how to drive the display backlight
// This is a PORT - adapters (Serial, Mock) implement it
type Backlight interface {
	// SetBrightness applies a brightness percentage
	SetBrightness(ctx context.Context, level domain.BrightnessLevel) error

	// Close releases any resources
	Close() error
}
