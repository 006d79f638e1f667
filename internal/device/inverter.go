package device

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"

	"github.com/nerrad567/solar-grabber/internal/infrastructure/config"
	"github.com/nerrad567/solar-grabber/internal/metric"
)

// KindInverter is the configuration type of micro-inverters.
const KindInverter = "Inverter"

// The inverter status page embeds its readings as JS variables:
//
//	var cover_mid = "238483342   ";
//	var webdata_now_p = "998";
var (
	inverterSerial       = regexp.MustCompile(`var cover_mid\s*=\s*"?([^;"]+)\s*"?;`)
	inverterCurrentPower = regexp.MustCompile(`var webdata_now_p\s*=\s*"?([^;"]+)\s*"?;`)
	inverterYieldToday   = regexp.MustCompile(`var webdata_today_e\s*=\s*"?([^;"]+)\s*"?;`)
	inverterTotalYield   = regexp.MustCompile(`var webdata_total_e\s*=\s*"?([^;"]+)\s*"?;`)
)

// Inverter polls a solar micro-inverter's status page over HTTP Basic auth.
type Inverter struct {
	identity
	statusPageURL string
	auth          basicAuth
	client        *http.Client
}

// NewInverter builds an Inverter from its configuration. statusPageUrl must
// be an absolute http or https URL.
func NewInverter(cfg config.SourceConfig, client *http.Client) (*Inverter, error) {
	u, err := url.Parse(cfg.StatusPageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: inverter statusPageUrl %q must be an http(s) URL", ErrInvalidSource, cfg.StatusPageURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Inverter{
		identity:      identity{name: cfg.DeviceName, location: cfg.DeviceLocation},
		statusPageURL: cfg.StatusPageURL,
		auth:          basicAuth{user: cfg.User, password: cfg.Password},
		client:        client,
	}, nil
}

// ID returns the configured device name.
func (i *Inverter) ID() string {
	return i.name
}

// Kind returns KindInverter.
func (i *Inverter) Kind() string {
	return KindInverter
}

// Poll fetches the status page once and extracts the current reading.
func (i *Inverter) Poll(ctx context.Context) (*metric.PublishData, error) {
	body, err := fetchPage(ctx, i.client, i.statusPageURL, &i.auth)
	if err != nil {
		return nil, err
	}
	return i.parse(body)
}

// parse extracts the serial number and the three energy values from a
// status page.
//
// A page where power, today's yield and total yield are all exactly zero
// is rejected with ErrNoData: the inverter reports that while it boots or
// sleeps, and the zeros would otherwise land in the series as a real
// reading.
func (i *Inverter) parse(body string) (*metric.PublishData, error) {
	serial, err := matchText(inverterSerial, body, "device sn")
	if err != nil {
		return nil, err
	}
	currentPower, err := matchFloat(inverterCurrentPower, body, "current power")
	if err != nil {
		return nil, err
	}
	yieldToday, err := matchFloat(inverterYieldToday, body, "yield today")
	if err != nil {
		return nil, err
	}
	totalYield, err := matchFloat(inverterTotalYield, body, "total yield")
	if err != nil {
		return nil, err
	}

	if currentPower == 0 && yieldToday == 0 && totalYield == 0 {
		return nil, fmt.Errorf("%w: filtering out device %q data (all values are zero)", ErrNoData, serial)
	}

	data := metric.NewPublishData()
	i.addTags(data)
	data.AddTag("device", metric.String(serial))
	data.AddField("currentPower", metric.Float(currentPower))
	data.AddField("yieldToday", metric.Float(yieldToday))
	data.AddField("totalYield", metric.Float(totalYield))
	return data, nil
}
