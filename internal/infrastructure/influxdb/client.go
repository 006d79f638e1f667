package influxdb

import (
	"context"
	"fmt"
	"net/url"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/nerrad567/solar-grabber/internal/infrastructure/config"
	"github.com/nerrad567/solar-grabber/internal/lineprotocol"
	"github.com/nerrad567/solar-grabber/internal/metric"
)

// Target is one InfluxDB v2 bucket that readings are written to.
//
// Each Publish is a single blocking write of one line-protocol line: no
// batching, no retries. The server assigns the timestamp on receipt.
//
// Thread Safety:
//   - Publish is safe for concurrent use.
//   - Close must be called once, after the last Publish.
type Target struct {
	client      influxdb2.Client
	writeAPI    api.WriteAPIBlocking
	url         string
	measurement string
}

// NewTarget creates a Target for one configured backend.
//
// No connection is made here; an unreachable server is reported by the
// first Publish.
//
// Parameters:
//   - cfg: the backend's URL, org, bucket, token and measurement
//   - timeout: per-request timeout; zero or less means no timeout
//
// Returns:
//   - *Target: ready for Publish
//   - error: ErrInvalidTarget if the URL or a required value is missing
func NewTarget(cfg config.TargetConfig, timeout time.Duration) (*Target, error) {
	u, err := url.Parse(cfg.InfluxURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: influxUrl %q must be an http(s) URL", ErrInvalidTarget, cfg.InfluxURL)
	}
	if cfg.Bucket == "" || cfg.Org == "" || cfg.Measurement == "" {
		return nil, fmt.Errorf("%w: %s: bucket, org and measurement are required", ErrInvalidTarget, cfg.InfluxURL)
	}

	opts := influxdb2.DefaultOptions()
	if timeout > 0 {
		secs := uint(timeout / time.Second)
		if secs == 0 {
			secs = 1
		}
		opts.SetHTTPRequestTimeout(secs)
	}

	client := influxdb2.NewClientWithOptions(cfg.InfluxURL, cfg.Token, opts)

	return &Target{
		client:      client,
		writeAPI:    client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		url:         cfg.InfluxURL,
		measurement: cfg.Measurement,
	}, nil
}

// NewTargets creates a Target for every configured backend, in order.
// On error, targets already created are closed.
func NewTargets(cfgs []config.TargetConfig, timeout time.Duration) ([]*Target, error) {
	targets := make([]*Target, 0, len(cfgs))
	for i, cfg := range cfgs {
		t, err := NewTarget(cfg, timeout)
		if err != nil {
			for _, created := range targets {
				created.Close()
			}
			return nil, fmt.Errorf("targets[%d]: %w", i, err)
		}
		targets = append(targets, t)
	}
	return targets, nil
}

// Name returns the configured server URL.
func (t *Target) Name() string {
	return t.url
}

// Measurement returns the measurement name lines are written under.
func (t *Target) Measurement() string {
	return t.measurement
}

// Publish encodes data as a line under the target's measurement and
// writes it.
func (t *Target) Publish(ctx context.Context, data *metric.PublishData) error {
	line := lineprotocol.Encode(t.measurement, data)
	if err := t.writeAPI.WriteRecord(ctx, line); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, t.url, err)
	}
	return nil
}

// Close releases the underlying HTTP client.
func (t *Target) Close() {
	if t.client == nil {
		return
	}
	t.client.Close()
}
