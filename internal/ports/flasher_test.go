package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/adapters/mock"
	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/domain"
)

func TestFlasher_CycleAppliesRamp(t *testing.T) {
	backlight := mock.NewBacklight()
	f := NewFlasher(backlight, time.Microsecond, time.Microsecond)

	require.NoError(t, f.Cycle(context.Background()))
	assert.Equal(t, domain.FlashPattern(), backlight.Applied())
}

func TestFlasher_CycleStopsOnBacklightError(t *testing.T) {
	backlight := mock.NewBacklight()
	boom := errors.New("uart gone")
	backlight.FailWith(boom)

	err := NewFlasher(backlight, time.Microsecond, time.Microsecond).Cycle(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, backlight.Applied())
}

func TestFlasher_CycleCancelled(t *testing.T) {
	backlight := mock.NewBacklight()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewFlasher(backlight, time.Hour, time.Hour).Cycle(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, backlight.Applied(), 1)
}

func TestFlasher_StartRepeatsUntilCancelled(t *testing.T) {
	backlight := mock.NewBacklight()
	f := NewFlasher(backlight, time.Microsecond, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.Start(ctx)
		close(done)
	}()

	cycle := len(domain.FlashPattern())
	require.Eventually(t, func() bool {
		return len(backlight.Applied()) > cycle
	}, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("flasher did not stop after cancel")
	}
}
