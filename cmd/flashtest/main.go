// Command flashtest prints the audio-level to brightness table used to check
// the screen-flash backlight logic. When remote.addr is configured the levels
// are classified by that running service and compared with the local rules.
package main

import (
	"context"
	"crypto/tls"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	grpcAdapter "github.com/quentinrf/plant-monitor/services/backlight-service/internal/adapters/grpc"
	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/config"
	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/logging"
	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/report"
	"github.com/quentinrf/plant-monitor/services/backlight-service/pkg/tlsconfig"
)

const remoteTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	if err := logging.Setup(cfg.Log.Level); err != nil {
		log.Fatal().Err(err).Msg("failed to configure logging")
	}

	classifier, err := cfg.Classifier.Build()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid classifier rules")
	}

	rows := report.Rows(classifier, report.SampleLevels)

	if cfg.Remote.Addr != "" {
		remote, err := remoteRows(cfg)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Remote.Addr).Msg("remote classification failed")
		}
		if diff := report.Mismatches(rows, remote); len(diff) > 0 {
			for _, row := range diff {
				log.Error().
					Float64("level", row.Level).
					Int("brightness", int(row.Brightness)).
					Msg("remote brightness differs from local rules")
			}
			os.Exit(1)
		}
		rows = remote
	}

	if err := report.WriteRows(os.Stdout, rows); err != nil {
		log.Fatal().Err(err).Msg("failed to write report")
	}
}

func remoteRows(cfg *config.Config) ([]report.Row, error) {
	var tlsCfg *tls.Config
	if cfg.TLS.Cert != "" {
		c, err := tlsconfig.LoadClientTLS(cfg.TLS.Cert, cfg.TLS.Key, cfg.TLS.CA)
		if err != nil {
			return nil, err
		}
		tlsCfg = c
	}

	client, err := grpcAdapter.Dial(cfg.Remote.Addr, tlsCfg)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()

	return client.Rows(ctx, report.SampleLevels)
}
