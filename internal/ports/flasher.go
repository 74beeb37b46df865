package ports

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/domain"
)

// Flasher ramps the backlight up and down without listening to audio
type Flasher struct {
	backlight Backlight
	step      time.Duration
	pause     time.Duration
}

// NewFlasher creates a flasher that holds each level for step and waits
// pause between cycles
func NewFlasher(backlight Backlight, step, pause time.Duration) *Flasher {
	return &Flasher{backlight: backlight, step: step, pause: pause}
}

// Start repeats Cycle until the context is cancelled
func (f *Flasher) Start(ctx context.Context) {
	log.Info().
		Dur("step", f.step).
		Dur("pause", f.pause).
		Msg("starting backlight flash pattern")

	for {
		if err := f.Cycle(ctx); err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("stopping backlight flash pattern")
				return
			}
			log.Error().Err(err).Msg("flash cycle failed")
		}
		if !sleep(ctx, f.pause) {
			log.Info().Msg("stopping backlight flash pattern")
			return
		}
	}
}

// Cycle runs one ramp up and down. It stops at the first backlight error.
func (f *Flasher) Cycle(ctx context.Context) error {
	for _, level := range domain.FlashPattern() {
		if err := f.backlight.SetBrightness(ctx, level); err != nil {
			return err
		}
		if !sleep(ctx, f.step) {
			return ctx.Err()
		}
	}
	return nil
}

// sleep waits d and reports false if ctx ended first
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
