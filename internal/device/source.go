package device

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/nerrad567/solar-grabber/internal/infrastructure/config"
	"github.com/nerrad567/solar-grabber/internal/metric"
)

// Source is a pollable device.
//
// Poll performs one fetch of the device's status page and returns the
// reading. An error means no reading could be obtained this cycle; it never
// affects other sources. Implementations keep no state between polls.
type Source interface {
	Poll(ctx context.Context) (*metric.PublishData, error)

	// ID returns the display name used in logs.
	ID() string

	// Kind returns the source type as written in configuration.
	Kind() string
}

// factory builds a Source of one kind from its configuration.
type factory func(cfg config.SourceConfig, client *http.Client) (Source, error)

// kinds maps the lower-cased configuration type to its factory.
// A new device kind is one entry here plus its scraper file.
var kinds = map[string]factory{
	strings.ToLower(KindInverter): func(cfg config.SourceConfig, client *http.Client) (Source, error) {
		return NewInverter(cfg, client)
	},
	strings.ToLower(KindTasmota): func(cfg config.SourceConfig, client *http.Client) (Source, error) {
		return NewTasmota(cfg, client)
	},
}

// New builds the Source described by cfg. The type is matched
// case-insensitively. A nil client means http.DefaultClient.
func New(cfg config.SourceConfig, client *http.Client) (Source, error) {
	build, ok := kinds[strings.ToLower(cfg.Type)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Type)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return build(cfg, client)
}

// NewAll builds every configured source, in order. It fails on the first
// invalid entry so that a bad configuration aborts the run before any
// device is polled.
func NewAll(cfgs []config.SourceConfig, client *http.Client) ([]Source, error) {
	sources := make([]Source, 0, len(cfgs))
	for i, cfg := range cfgs {
		src, err := New(cfg, client)
		if err != nil {
			return nil, fmt.Errorf("sources[%d] %q: %w", i, cfg.DeviceName, err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// identity holds the static metadata every kind tags its readings with.
type identity struct {
	name     string
	location string
}

// addTags appends the deviceName tag and, when set, the deviceLocation tag.
func (id identity) addTags(data *metric.PublishData) {
	data.AddTag("deviceName", metric.String(id.name))
	if id.location != "" {
		data.AddTag("deviceLocation", metric.String(id.location))
	}
}
