package grpc

import (
	"context"
	"crypto/tls"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/domain"
	"github.com/quentinrf/plant-monitor/services/backlight-service/internal/report"
	"github.com/quentinrf/plant-monitor/services/backlight-service/pkg/pb"
)

// Client classifies levels on a remote BacklightService
type Client struct {
	conn   *grpc.ClientConn
	client pb.BacklightServiceClient
}

// Dial connects to addr. A nil tlsCfg uses plaintext.
func Dial(addr string, tlsCfg *tls.Config) (*Client, error) {
	creds := insecure.NewCredentials()
	if tlsCfg != nil {
		creds = credentials.NewTLS(tlsCfg)
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	return &Client{conn: conn, client: pb.NewBacklightServiceClient(conn)}, nil
}

// Classify asks the service for the brightness of level
func (c *Client) Classify(ctx context.Context, level float64) (domain.BrightnessLevel, error) {
	resp, err := c.client.Classify(ctx, wrapperspb.Double(level))
	if err != nil {
		return 0, fmt.Errorf("classify %v: %w", level, err)
	}
	return domain.BrightnessLevel(resp.GetValue()), nil
}

// Rows classifies every level remotely, in order
func (c *Client) Rows(ctx context.Context, levels []float64) ([]report.Row, error) {
	rows := make([]report.Row, 0, len(levels))
	for _, level := range levels {
		b, err := c.Classify(ctx, level)
		if err != nil {
			return nil, err
		}
		rows = append(rows, report.Row{Level: level, Brightness: b})
	}
	return rows, nil
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}
