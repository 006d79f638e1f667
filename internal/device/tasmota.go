package device

import (
	"context"
	"fmt"
	"net/http"
	"net/netip"
	"regexp"

	"github.com/nerrad567/solar-grabber/internal/infrastructure/config"
	"github.com/nerrad567/solar-grabber/internal/metric"
)

// KindTasmota is the configuration type of Tasmota smart plugs.
const KindTasmota = "Tasmota"

// The /?m=1 fragment is a table of label cells followed by value cells:
//
//	{s}Active Power{m}</td><td style='text-align:left'>344</td>
var (
	tasmotaCurrentPower = regexp.MustCompile(`Active Power[^>]*>[^>]*>([^<]*)`)
	tasmotaYieldToday   = regexp.MustCompile(`Energy Today[^>]*>[^>]*>([^<]*)`)
	tasmotaTotalYield   = regexp.MustCompile(`Energy Total[^>]*>[^>]*>([^<]*)`)
)

// Tasmota polls a Tasmota smart plug with energy monitoring.
//
// Unlike Inverter, an all-zero reading is published: a plug that is
// switched off or idle legitimately draws nothing.
type Tasmota struct {
	identity
	ip     netip.Addr
	client *http.Client
}

// NewTasmota builds a Tasmota source. ip must be an IPv4 address.
func NewTasmota(cfg config.SourceConfig, client *http.Client) (*Tasmota, error) {
	ip, err := netip.ParseAddr(cfg.IP)
	if err != nil || !ip.Is4() {
		return nil, fmt.Errorf("%w: tasmota ip %q must be an IPv4 address", ErrInvalidSource, cfg.IP)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Tasmota{
		identity: identity{name: cfg.DeviceName, location: cfg.DeviceLocation},
		ip:       ip,
		client:   client,
	}, nil
}

// ID returns the configured device name.
func (t *Tasmota) ID() string {
	return t.name
}

// Kind returns KindTasmota.
func (t *Tasmota) Kind() string {
	return KindTasmota
}

// Poll fetches the plug's status fragment once and extracts the reading.
func (t *Tasmota) Poll(ctx context.Context) (*metric.PublishData, error) {
	body, err := fetchPage(ctx, t.client, t.statusURL(), nil)
	if err != nil {
		return nil, err
	}
	return t.parse(body)
}

func (t *Tasmota) statusURL() string {
	return fmt.Sprintf("http://%s/?m=1", t.ip)
}

func (t *Tasmota) parse(body string) (*metric.PublishData, error) {
	currentPower, err := matchFloat(tasmotaCurrentPower, body, "current power")
	if err != nil {
		return nil, err
	}
	yieldToday, err := matchFloat(tasmotaYieldToday, body, "yield today")
	if err != nil {
		return nil, err
	}
	totalYield, err := matchFloat(tasmotaTotalYield, body, "total yield")
	if err != nil {
		return nil, err
	}

	data := metric.NewPublishData()
	t.addTags(data)
	data.AddField("currentPower", metric.Float(currentPower))
	data.AddField("yieldToday", metric.Float(yieldToday))
	data.AddField("totalYield", metric.Float(totalYield))
	return data, nil
}
