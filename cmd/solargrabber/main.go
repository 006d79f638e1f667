// solargrabber polls solar micro-inverters and Tasmota smart plugs once
// and writes their readings to one or more InfluxDB v2 buckets.
//
// It is meant to be started periodically (cron, a systemd timer) and
// exits after a single pass over the configured devices.
//
// Configuration comes from either the inline channel (-sources and
// -targets, or SG_SOURCES and SG_INFLUXDBS, both JSON arrays) or a
// config file (-config, SG_CONFIG, default /etc/solargrabber.conf).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/solar-grabber/internal/device"
	"github.com/nerrad567/solar-grabber/internal/grabber"
	"github.com/nerrad567/solar-grabber/internal/infrastructure/config"
	"github.com/nerrad567/solar-grabber/internal/infrastructure/influxdb"
	"github.com/nerrad567/solar-grabber/internal/infrastructure/logging"
	"github.com/nerrad567/solar-grabber/internal/infrastructure/mqtt"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseChannels reads the configuration channel from args, falling back
// to the environment for anything not given on the command line.
func parseChannels(args []string, usage io.Writer) (config.Channels, error) {
	fs := flag.NewFlagSet("solargrabber", flag.ContinueOnError)
	fs.SetOutput(usage)

	var ch config.Channels
	fs.StringVar(&ch.Sources, "sources", os.Getenv("SG_SOURCES"), "JSON array of devices to poll (env SG_SOURCES)")
	fs.StringVar(&ch.Targets, "targets", os.Getenv("SG_INFLUXDBS"), "JSON array of InfluxDB targets (env SG_INFLUXDBS)")
	fs.StringVar(&ch.Path, "config", os.Getenv("SG_CONFIG"), "config file used when no inline sources/targets are given (env SG_CONFIG, default "+config.DefaultPath+")")

	if err := fs.Parse(args); err != nil {
		return config.Channels{}, err
	}
	if fs.NArg() > 0 {
		return config.Channels{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return ch, nil
}

// run is the actual application logic, separated from main for testability.
//
// Only configuration and startup problems are returned as errors. Device
// and target failures are logged and counted; they do not fail the run.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - args: command line arguments without the program name
//   - usage: destination for flag usage output
//
// Returns:
//   - error: nil once every device has been visited, or the startup failure
func run(ctx context.Context, args []string, usage io.Writer) error {
	runID := logging.NewRunID()

	// Use default logger until config is loaded
	log := logging.Default(version, runID)
	log.Debug("starting solargrabber", "commit", commit)

	ch, err := parseChannels(args, usage)
	if err != nil {
		return err
	}

	cfg, err := config.Load(ch)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version, runID)
	log.Debug("configuration loaded",
		"inline", ch.Sources != "",
		"sources", len(cfg.Sources),
		"targets", len(cfg.Targets),
	)

	httpClient := &http.Client{Timeout: cfg.GetHTTPTimeout()}

	sources, err := device.NewAll(cfg.Sources, httpClient)
	if err != nil {
		return fmt.Errorf("configuring sources: %w", err)
	}

	targets, err := influxdb.NewTargets(cfg.Targets, cfg.GetHTTPTimeout())
	if err != nil {
		return fmt.Errorf("configuring targets: %w", err)
	}
	defer func() {
		for _, t := range targets {
			t.Close()
		}
	}()

	publishers := make([]grabber.Publisher, 0, len(targets)+1)
	for _, t := range targets {
		publishers = append(publishers, t)
	}

	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(ctx, cfg.MQTT)
		if mqttErr != nil {
			log.Warn("MQTT mirror unavailable, continuing without it", "error", mqttErr)
		} else {
			mqttClient.SetLogger(log)
			defer func() {
				if closeErr := mqttClient.Close(); closeErr != nil {
					log.Error("error closing MQTT", "error", closeErr)
				}
			}()
			publishers = append(publishers, mqtt.NewMirror(mqttClient, cfg.MQTT.Measurement))
			log.Debug("MQTT mirror connected",
				"broker", mqttClient.Broker(),
				"client_id", mqttClient.ClientID(),
			)
		}
	}

	summary := grabber.Run(ctx, sources, publishers, log)
	log.Info("run complete", summary.LogArgs()...)

	return nil
}
