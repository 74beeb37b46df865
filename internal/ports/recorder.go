package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/domain"
)

const cleanupInterval = 24 * time.Hour

// Recorder samples the audio source, drives the backlight and stores each decision
type Recorder struct {
	source     AudioSource
	backlight  Backlight
	classifier *domain.Classifier
	repo       domain.ReadingRepository
	interval   time.Duration
	retention  time.Duration
	session    string
	logger     zerolog.Logger

	applied    domain.BrightnessLevel
	hasApplied bool
}

// NewRecorder creates a background recorder with a fresh session ID.
// A zero retention keeps readings forever.
func NewRecorder(source AudioSource, backlight Backlight, classifier *domain.Classifier,
	repo domain.ReadingRepository, interval, retention time.Duration) *Recorder {
	session := uuid.NewString()
	return &Recorder{
		source:     source,
		backlight:  backlight,
		classifier: classifier,
		repo:       repo,
		interval:   interval,
		retention:  retention,
		session:    session,
		logger:     log.With().Str("session", session).Logger(),
	}
}

// Session returns the ID stamped on every reading this recorder saves
func (r *Recorder) Session() string {
	return r.session
}

// Start begins periodic sampling
// This runs in a goroutine until context is cancelled
func (r *Recorder) Start(ctx context.Context) {
	r.logger.Info().
		Dur("interval", r.interval).
		Dur("retention", r.retention).
		Msg("starting background recorder")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	cleanupTicker := time.NewTicker(cleanupInterval)
	defer cleanupTicker.Stop()

	// Record immediately on start
	r.RecordOnce(ctx)

	for {
		select {
		case <-ticker.C:
			r.RecordOnce(ctx)

		case <-cleanupTicker.C:
			r.cleanup(ctx)

		case <-ctx.Done():
			r.logger.Info().Msg("stopping background recorder")
			return
		}
	}
}

// RecordOnce samples, classifies, applies and saves a single reading.
// It returns the saved reading, or nil when any step failed.
func (r *Recorder) RecordOnce(ctx context.Context) *domain.BacklightReading {
	r.logger.Debug().Msg("reading audio level")

	level, err := r.source.ReadLevel(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to read audio source")
		return nil
	}

	reading, err := domain.NewBacklightReading(r.classifier, level, r.session)
	if err != nil {
		r.logger.Error().Err(err).Float64("level", level).Msg("failed to create reading")
		return nil
	}

	if !r.hasApplied || reading.Brightness != r.applied {
		if err := r.backlight.SetBrightness(ctx, reading.Brightness); err != nil {
			r.logger.Error().Err(err).Int("brightness", int(reading.Brightness)).Msg("failed to set backlight")
			return nil
		}
		r.applied = reading.Brightness
		r.hasApplied = true
	}

	if err := r.repo.SaveReading(ctx, reading); err != nil {
		r.logger.Error().Err(err).Msg("failed to save reading")
		return nil
	}

	r.logger.Info().
		Float64("level", level).
		Int("brightness", int(reading.Brightness)).
		Bool("silent", reading.IsSilent(r.classifier)).
		Stringer("emotion", domain.EmotionFor(level)).
		Msg("recorded backlight reading")

	return reading
}

func (r *Recorder) cleanup(ctx context.Context) {
	if r.retention <= 0 {
		return
	}
	if err := r.repo.DeleteOldReadings(ctx, r.retention); err != nil {
		r.logger.Error().Err(err).Msg("failed to delete old readings")
		return
	}
	r.logger.Info().Dur("retention", r.retention).Msg("deleted expired readings")
}
