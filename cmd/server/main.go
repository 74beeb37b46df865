package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	grpcAdapter "github.com/quentinrf/plant-monitor/services/backlight-service/internal/adapters/grpc"
	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/adapters/memory"
	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/adapters/mock"
	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/adapters/pcm"
	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/adapters/sqlite"
	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/adapters/uart"
	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/config"
	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/domain"
	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/logging"
	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/ports"
	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/report"
	"github.com/quentinrf/plant-monitor/services/backlight-service/pkg/pb"
	"github.com/quentinrf/plant-monitor/services/backlight-service/pkg/tlsconfig"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if err := logging.Setup(cfg.Log.Level); err != nil {
		log.Fatal().Err(err).Msg("failed to configure logging")
	}

	log.Info().Msg("starting backlight service")

	classifier, err := cfg.Classifier.Build()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid classifier rules")
	}
	log.Info().
		Interface("levels", classifier.Levels()).
		Msg("loaded brightness classifier")

	// Initialize repository
	var repo domain.ReadingRepository
	switch cfg.Storage.Type {
	case "sqlite":
		r, err := sqlite.NewReadingRepository(cfg.Storage.Path)
		if err != nil {
			log.Fatal().Err(err).Str("db_path", cfg.Storage.Path).Msg("failed to open SQLite database")
		}
		defer r.Close()
		repo = r
		log.Info().Str("db_path", cfg.Storage.Path).Msg("initialized SQLite repository")
	default:
		repo = memory.NewReadingRepository()
		log.Info().Msg("initialized in-memory repository")
	}

	// Initialize audio source
	var source ports.AudioSource
	switch cfg.Source.Type {
	case "sequence":
		source = mock.NewSequenceSource(report.SampleLevels...)
		log.Info().Msg("initialized sequence audio source")
	case "pcm":
		m, err := pcm.Open(cfg.Source.Path, cfg.Source.Channels, cfg.Source.Window)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Source.Path).Msg("failed to open PCM stream")
		}
		source = m
		log.Info().
			Str("path", cfg.Source.Path).
			Int("channels", cfg.Source.Channels).
			Int("window", cfg.Source.Window).
			Msg("initialized PCM level meter")
	default:
		source = mock.NewFakeAudioSource(cfg.Source.Base, cfg.Source.Variation)
		log.Info().
			Float64("base", cfg.Source.Base).
			Float64("variation", cfg.Source.Variation).
			Msg("initialized mock audio source")
	}
	defer source.Close()

	// Initialize backlight
	var backlight ports.Backlight
	switch cfg.Backlight.Type {
	case "serial":
		b, err := uart.Open(cfg.Backlight.Port, cfg.Backlight.Baud, cfg.Backlight.Resolution)
		if err != nil {
			log.Fatal().Err(err).Str("port", cfg.Backlight.Port).Msg("failed to open backlight port")
		}
		backlight = b
		log.Info().
			Str("port", cfg.Backlight.Port).
			Int("baud", cfg.Backlight.Baud).
			Uint("resolution", cfg.Backlight.Resolution).
			Msg("initialized serial backlight")
	default:
		backlight = mock.NewBacklight()
		log.Info().Msg("initialized mock backlight")
	}
	defer backlight.Close()

	handler := grpcAdapter.NewBacklightServiceHandler(repo, source, classifier)

	// Configure TLS if certificates are provided
	var serverOpts []grpc.ServerOption
	if cfg.TLS.Cert != "" {
		tlsCfg, err := tlsconfig.LoadServerTLS(cfg.TLS.Cert, cfg.TLS.Key, cfg.TLS.CA)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load TLS config")
		}
		serverOpts = append(serverOpts, grpc.Creds(credentials.NewTLS(tlsCfg)))
		log.Info().Msg("mTLS enabled")
	} else {
		log.Warn().Msg("tls.cert not set, starting without TLS (dev mode only)")
	}

	grpcServer := grpc.NewServer(serverOpts...)
	pb.RegisterBacklightServiceServer(grpcServer, handler)

	listener, err := net.Listen("tcp", net.JoinHostPort("", cfg.Server.Port))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to listen")
	}

	log.Info().Str("port", cfg.Server.Port).Msg("gRPC server listening")

	go func() {
		if err := grpcServer.Serve(listener); err != nil {
			log.Fatal().Err(err).Msg("failed to serve")
		}
	}()

	// Start background loop: the audio recorder or the flash ramp
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recorderDone := make(chan struct{})
	go func() {
		defer close(recorderDone)
		if cfg.Recorder.Mode == "flash" {
			ports.NewFlasher(backlight, cfg.Flash.Step, cfg.Flash.Pause).Start(ctx)
			return
		}
		ports.NewRecorder(source, backlight, classifier, repo, cfg.Recorder.Interval, cfg.Recorder.Retention).Start(ctx)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	cancel()
	<-recorderDone
	grpcServer.GracefulStop()

	log.Info().Msg("server stopped")
}
