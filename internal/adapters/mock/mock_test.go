package mock

import (
	"context"
	"testing"

	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/domain"
)

func TestFakeAudioSource_StaysInRange(t *testing.T) {
	source := NewFakeAudioSource(0.9, 0.5)
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		level, err := source.ReadLevel(ctx)
		if err != nil {
			t.Fatalf("ReadLevel failed: %v", err)
		}
		if level < 0 || level > 1 {
			t.Fatalf("level %v outside 0-1", level)
		}
	}
}

func TestFakeAudioSource_NoVariation(t *testing.T) {
	source := NewFakeAudioSource(0.2, 0)

	level, _ := source.ReadLevel(context.Background())
	if level != 0.2 {
		t.Errorf("expected 0.2, got %v", level)
	}
}

func TestSequenceSource_Wraps(t *testing.T) {
	source := NewSequenceSource(0.1, 0.2)
	ctx := context.Background()

	want := []float64{0.1, 0.2, 0.1}
	for i, w := range want {
		got, err := source.ReadLevel(ctx)
		if err != nil {
			t.Fatalf("read %d failed: %v", i, err)
		}
		if got != w {
			t.Errorf("read %d: expected %v, got %v", i, w, got)
		}
	}
}

func TestSequenceSource_ClosedOrEmpty(t *testing.T) {
	ctx := context.Background()

	if _, err := NewSequenceSource().ReadLevel(ctx); err != domain.ErrSourceUnavailable {
		t.Errorf("expected ErrSourceUnavailable for empty sequence, got %v", err)
	}

	source := NewSequenceSource(0.5)
	source.Close()
	if _, err := source.ReadLevel(ctx); err != domain.ErrSourceUnavailable {
		t.Errorf("expected ErrSourceUnavailable after close, got %v", err)
	}
}

func TestBacklight_RecordsLevels(t *testing.T) {
	b := NewBacklight()
	ctx := context.Background()

	_ = b.SetBrightness(ctx, domain.BrightnessLow)
	_ = b.SetBrightness(ctx, domain.BrightnessFull)

	got := b.Applied()
	if len(got) != 2 || got[0] != domain.BrightnessLow || got[1] != domain.BrightnessFull {
		t.Errorf("unexpected applied levels %v", got)
	}
}
