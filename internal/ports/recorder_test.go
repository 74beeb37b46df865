package ports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/adapters/memory"
	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/adapters/mock"
	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/domain"
)

func newTestRecorder(source AudioSource) (*Recorder, *mock.Backlight, *memory.ReadingRepository) {
	backlight := mock.NewBacklight()
	repo := memory.NewReadingRepository()
	r := NewRecorder(source, backlight, domain.DefaultClassifier(), repo, time.Hour, 0)
	return r, backlight, repo
}

func TestRecordOnce_AppliesOnlyChanges(t *testing.T) {
	r, backlight, repo := newTestRecorder(mock.NewSequenceSource(0.02, 0.03, 0.5, 0.12))
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NotNil(t, r.RecordOnce(ctx), "record %d", i)
	}

	assert.Equal(t, []domain.BrightnessLevel{10, 100, 70}, backlight.Applied())

	latest, err := repo.GetLatestReading(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.BrightnessMedium, latest.Brightness)
	assert.Equal(t, r.Session(), latest.Session)
}

func TestRecordOnce_SourceError(t *testing.T) {
	r, backlight, repo := newTestRecorder(mock.NewSequenceSource())
	ctx := context.Background()

	assert.Nil(t, r.RecordOnce(ctx))
	assert.Empty(t, backlight.Applied())

	_, err := repo.GetLatestReading(ctx)
	assert.ErrorIs(t, err, domain.ErrReadingNotFound)
}

func TestRecordOnce_NonFiniteLevel(t *testing.T) {
	r, backlight, _ := newTestRecorder(mock.NewSequenceSource(math.NaN()))

	assert.Nil(t, r.RecordOnce(context.Background()))
	assert.Empty(t, backlight.Applied())
}

func TestRecordOnce_BacklightErrorRetriesNextTick(t *testing.T) {
	r, backlight, repo := newTestRecorder(mock.NewSequenceSource(0.5))
	ctx := context.Background()

	backlight.FailWith(errors.New("uart gone"))
	assert.Nil(t, r.RecordOnce(ctx))

	backlight.FailWith(nil)
	require.NotNil(t, r.RecordOnce(ctx))
	assert.Equal(t, []domain.BrightnessLevel{100}, backlight.Applied())

	readings, err := repo.GetReadingsInRange(ctx, time.Now().Add(-time.Minute), time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Len(t, readings, 1)
}

func TestNewRecorder_UniqueSessions(t *testing.T) {
	a, _, _ := newTestRecorder(mock.NewSequenceSource(0.1))
	b, _, _ := newTestRecorder(mock.NewSequenceSource(0.1))

	assert.NotEmpty(t, a.Session())
	assert.NotEqual(t, a.Session(), b.Session())
}

func TestStart_RecordsUntilCancelled(t *testing.T) {
	backlight := mock.NewBacklight()
	repo := memory.NewReadingRepository()
	r := NewRecorder(mock.NewSequenceSource(0.01, 0.2), backlight, domain.DefaultClassifier(),
		repo, 5*time.Millisecond, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return len(backlight.Applied()) >= 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("recorder did not stop after cancel")
	}

	latest, err := repo.GetLatestReading(context.Background())
	require.NoError(t, err)
	assert.Equal(t, r.Session(), latest.Session)
}

func TestRecordOnce_LogsSilenceAndEmotion(t *testing.T) {
	tests := []struct {
		level   float64
		silent  bool
		emotion string
	}{
		{level: 0.02, silent: true, emotion: "sleepy"},
		{level: 0.2, silent: false, emotion: "neutral"},
		{level: 0.7, silent: false, emotion: "excited"},
	}

	for _, tt := range tests {
		r, _, _ := newTestRecorder(mock.NewSequenceSource(tt.level))
		var buf bytes.Buffer
		r.logger = zerolog.New(&buf).Level(zerolog.InfoLevel)

		require.NotNil(t, r.RecordOnce(context.Background()))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log line: %s", buf.String())
		assert.Equal(t, tt.silent, entry["silent"], "level %v", tt.level)
		assert.Equal(t, tt.emotion, entry["emotion"], "level %v", tt.level)
	}
}
