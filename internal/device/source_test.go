package device

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/nerrad567/solar-grabber/internal/infrastructure/config"
)

func TestNew_Kinds(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.SourceConfig
		wantKind string
	}{
		{
			name:     "inverter",
			cfg:      config.SourceConfig{Type: "Inverter", StatusPageURL: "http://inverter/status.html", DeviceName: "roof"},
			wantKind: KindInverter,
		},
		{
			name:     "inverter lower case",
			cfg:      config.SourceConfig{Type: "inverter", StatusPageURL: "http://inverter", DeviceName: "roof"},
			wantKind: KindInverter,
		},
		{
			name:     "tasmota",
			cfg:      config.SourceConfig{Type: "Tasmota", IP: "10.0.0.5", DeviceName: "plug"},
			wantKind: KindTasmota,
		},
		{
			name:     "tasmota upper case",
			cfg:      config.SourceConfig{Type: "TASMOTA", IP: "10.0.0.5", DeviceName: "plug"},
			wantKind: KindTasmota,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := New(tt.cfg, nil)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if src.Kind() != tt.wantKind {
				t.Errorf("Kind() = %q, want %q", src.Kind(), tt.wantKind)
			}
			if src.ID() != tt.cfg.DeviceName {
				t.Errorf("ID() = %q, want %q", src.ID(), tt.cfg.DeviceName)
			}
		})
	}
}

func TestNew_UnknownKind(t *testing.T) {
	for _, kind := range []string{"", "Shelly", "inverters"} {
		_, err := New(config.SourceConfig{Type: kind, DeviceName: "x"}, nil)
		if !errors.Is(err, ErrUnknownKind) {
			t.Errorf("New(%q) error = %v, want ErrUnknownKind", kind, err)
		}
	}
}

func TestNew_NilClientDefaults(t *testing.T) {
	src, err := New(config.SourceConfig{Type: KindTasmota, IP: "10.0.0.5", DeviceName: "plug"}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := src.(*Tasmota).client; got != http.DefaultClient {
		t.Errorf("client = %v, want http.DefaultClient", got)
	}
}

func TestNew_KeepsClient(t *testing.T) {
	client := &http.Client{}
	src, err := New(config.SourceConfig{Type: KindInverter, StatusPageURL: "http://inverter", DeviceName: "roof"}, client)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := src.(*Inverter).client; got != client {
		t.Error("New() should pass the given client to the source")
	}
}

func TestNewAll_PreservesOrder(t *testing.T) {
	cfgs := []config.SourceConfig{
		{Type: KindTasmota, IP: "10.0.0.5", DeviceName: "plug"},
		{Type: KindInverter, StatusPageURL: "http://inverter", DeviceName: "roof"},
		{Type: KindTasmota, IP: "10.0.0.6", DeviceName: "shed"},
	}

	sources, err := NewAll(cfgs, nil)
	if err != nil {
		t.Fatalf("NewAll() error = %v", err)
	}
	if len(sources) != len(cfgs) {
		t.Fatalf("NewAll() len = %d, want %d", len(sources), len(cfgs))
	}
	for i, src := range sources {
		if src.ID() != cfgs[i].DeviceName {
			t.Errorf("sources[%d].ID() = %q, want %q", i, src.ID(), cfgs[i].DeviceName)
		}
	}
}

func TestNewAll_NamesFailingEntry(t *testing.T) {
	cfgs := []config.SourceConfig{
		{Type: KindTasmota, IP: "10.0.0.5", DeviceName: "plug"},
		{Type: KindTasmota, IP: "not-an-ip", DeviceName: "shed"},
	}

	sources, err := NewAll(cfgs, nil)
	if !errors.Is(err, ErrInvalidSource) {
		t.Fatalf("NewAll() error = %v, want ErrInvalidSource", err)
	}
	if sources != nil {
		t.Errorf("NewAll() sources = %v, want nil on error", sources)
	}
	if !strings.Contains(err.Error(), `sources[1] "shed"`) {
		t.Errorf("error %q should name the failing entry", err)
	}
}

func TestNewAll_Empty(t *testing.T) {
	sources, err := NewAll(nil, nil)
	if err != nil {
		t.Fatalf("NewAll(nil) error = %v", err)
	}
	if len(sources) != 0 {
		t.Errorf("NewAll(nil) len = %d, want 0", len(sources))
	}
}
