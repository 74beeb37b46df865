package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/domain"
	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/ports"
	"github.com/quentinrf/plant-monitor/services/backlight-service/pkg/pb"
)

// BacklightServiceHandler implements the gRPC BacklightService
type BacklightServiceHandler struct {
	pb.UnimplementedBacklightServiceServer
	repo       domain.ReadingRepository
	source     ports.AudioSource
	classifier *domain.Classifier
}

// NewBacklightServiceHandler creates a new gRPC handler
func NewBacklightServiceHandler(repo domain.ReadingRepository, source ports.AudioSource, classifier *domain.Classifier) *BacklightServiceHandler {
	return &BacklightServiceHandler{
		repo:       repo,
		source:     source,
		classifier: classifier,
	}
}

// Classify maps a level to brightness without touching storage
func (h *BacklightServiceHandler) Classify(ctx context.Context, req *wrapperspb.DoubleValue) (*wrapperspb.Int32Value, error) {
	brightness := h.classifier.Classify(req.GetValue())

	log.Debug().
		Float64("level", req.GetValue()).
		Int("brightness", int(brightness)).
		Msg("Classify called")

	return wrapperspb.Int32(int32(brightness)), nil
}

// GetCurrentBrightness returns the most recent reading
func (h *BacklightServiceHandler) GetCurrentBrightness(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	log.Info().Msg("GetCurrentBrightness called")

	reading, err := h.repo.GetLatestReading(ctx)
	if errors.Is(err, domain.ErrReadingNotFound) {
		// No readings yet - sample the source now
		log.Info().Msg("no readings in database, sampling audio source")

		level, err := h.source.ReadLevel(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to read audio source")
			return nil, status.Error(codes.Internal, "failed to read audio source")
		}

		reading, err = domain.NewBacklightReading(h.classifier, level, domain.ManualSession)
		if err != nil {
			log.Error().Err(err).Float64("level", level).Msg("failed to create reading")
			return nil, status.Error(codes.Internal, "failed to create reading")
		}

		// Save for next time
		if err := h.repo.SaveReading(ctx, reading); err != nil {
			log.Error().Err(err).Msg("failed to save reading")
			// Don't fail - we still have the reading
		}
	} else if err != nil {
		log.Error().Err(err).Msg("failed to get latest reading")
		return nil, status.Error(codes.Internal, "failed to get reading")
	}

	return toProtoReading(reading).Struct(), nil
}

// RecordLevel classifies and stores a level supplied by the caller
func (h *BacklightServiceHandler) RecordLevel(ctx context.Context, req *wrapperspb.DoubleValue) (*structpb.Struct, error) {
	log.Info().Float64("level", req.GetValue()).Msg("RecordLevel called")

	reading, err := domain.NewBacklightReading(h.classifier, req.GetValue(), domain.ManualSession)
	if err != nil {
		log.Error().Err(err).Msg("invalid audio level")
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := h.repo.SaveReading(ctx, reading); err != nil {
		log.Error().Err(err).Msg("failed to save reading")
		return nil, status.Error(codes.Internal, "failed to save reading")
	}

	return toProtoReading(reading).Struct(), nil
}

// GetHistory returns readings within [start_time, end_time) with statistics
func (h *BacklightServiceHandler) GetHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	q, err := pb.HistoryRequestFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	log.Info().
		Int64("start", q.StartTime).
		Int64("end", q.EndTime).
		Msg("GetHistory called")

	if q.EndTime < q.StartTime {
		return nil, status.Error(codes.InvalidArgument, "end_time before start_time")
	}

	readings, err := h.repo.GetReadingsInRange(ctx, time.Unix(q.StartTime, 0), time.Unix(q.EndTime, 0))
	if err != nil {
		log.Error().Err(err).Msg("failed to get readings")
		return nil, status.Error(codes.Internal, "failed to get readings")
	}

	history := pb.History{Readings: make([]pb.Reading, len(readings))}
	for i, r := range readings {
		history.Readings[i] = toProtoReading(r)
	}

	stats := calculateStatistics(readings)
	history.AverageLevel = stats.average
	history.MinLevel = stats.min
	history.MaxLevel = stats.max

	return history.Struct(), nil
}

// toProtoReading converts domain model to its wire form
func toProtoReading(r *domain.BacklightReading) pb.Reading {
	face := domain.Express(r.Level)
	return pb.Reading{
		ID:         r.ID,
		Level:      r.Level,
		Brightness: int32(r.Brightness),
		Session:    r.Session,
		Timestamp:  r.Timestamp.Unix(),
		Emotion:    face.Emotion.String(),
		Speaking:   face.Speaking,
	}
}

// statistics holds calculated statistics
type statistics struct {
	average float64
	min     float64
	max     float64
}

// calculateStatistics computes level stats for a set of readings
func calculateStatistics(readings []*domain.BacklightReading) statistics {
	if len(readings) == 0 {
		return statistics{}
	}

	var sum float64
	lo := readings[0].Level
	hi := readings[0].Level

	for _, r := range readings {
		sum += r.Level
		lo = min(lo, r.Level)
		hi = max(hi, r.Level)
	}

	return statistics{
		average: sum / float64(len(readings)),
		min:     lo,
		max:     hi,
	}
}
