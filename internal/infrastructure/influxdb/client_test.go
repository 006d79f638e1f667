package influxdb_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/solar-grabber/internal/infrastructure/config"
	"github.com/nerrad567/solar-grabber/internal/infrastructure/influxdb"
	"github.com/nerrad567/solar-grabber/internal/metric"
)

// writeRequest is what the fake server saw for one write.
type writeRequest struct {
	method string
	path   string
	org    string
	bucket string
	auth   string
	body   string
}

// fakeInflux records write requests and answers with status.
type fakeInflux struct {
	mu       sync.Mutex
	requests []writeRequest
	status   int
}

func (f *fakeInflux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, writeRequest{
		method: r.Method,
		path:   r.URL.Path,
		org:    r.URL.Query().Get("org"),
		bucket: r.URL.Query().Get("bucket"),
		auth:   r.Header.Get("Authorization"),
		body:   string(body),
	})
	status := f.status
	f.mu.Unlock()

	if status == 0 {
		status = http.StatusNoContent
	}
	if status >= 300 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, `{"code":"internal error","message":"boom"}`)
		return
	}
	w.WriteHeader(status)
}

func (f *fakeInflux) last(t *testing.T) writeRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("no write request received")
	}
	return f.requests[len(f.requests)-1]
}

func testTarget(url string) config.TargetConfig {
	return config.TargetConfig{
		InfluxURL:   url,
		Bucket:      "solar",
		Org:         "home",
		Token:       "tok",
		Measurement: "solar power",
	}
}

func inverterReading() *metric.PublishData {
	data := metric.NewPublishData()
	data.AddTag("deviceName", metric.String("the thing"))
	data.AddTag("deviceLocation", metric.String("backyard"))
	data.AddTag("device", metric.String("238483342"))
	data.AddField("currentPower", metric.Float(998))
	data.AddField("yieldToday", metric.Float(99))
	data.AddField("totalYield", metric.Float(1010.2))
	return data
}

// =============================================================================
// Construction Tests
// =============================================================================

func TestNewTarget_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*config.TargetConfig)
	}{
		{"empty url", func(c *config.TargetConfig) { c.InfluxURL = "" }},
		{"no scheme", func(c *config.TargetConfig) { c.InfluxURL = "influx:8086" }},
		{"bad scheme", func(c *config.TargetConfig) { c.InfluxURL = "udp://influx:8089" }},
		{"missing bucket", func(c *config.TargetConfig) { c.Bucket = "" }},
		{"missing org", func(c *config.TargetConfig) { c.Org = "" }},
		{"missing measurement", func(c *config.TargetConfig) { c.Measurement = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testTarget("http://influx:8086")
			tt.modify(&cfg)
			_, err := influxdb.NewTarget(cfg, time.Second)
			if !errors.Is(err, influxdb.ErrInvalidTarget) {
				t.Errorf("NewTarget() error = %v, want ErrInvalidTarget", err)
			}
		})
	}
}

func TestNewTarget_Accessors(t *testing.T) {
	target, err := influxdb.NewTarget(testTarget("http://influx:8086"), 0)
	if err != nil {
		t.Fatalf("NewTarget() error = %v", err)
	}
	defer target.Close()

	if target.Name() != "http://influx:8086" {
		t.Errorf("Name() = %q", target.Name())
	}
	if target.Measurement() != "solar power" {
		t.Errorf("Measurement() = %q", target.Measurement())
	}
}

func TestNewTargets_IndexInError(t *testing.T) {
	cfgs := []config.TargetConfig{testTarget("http://a:8086"), testTarget("nope")}

	targets, err := influxdb.NewTargets(cfgs, time.Second)
	if !errors.Is(err, influxdb.ErrInvalidTarget) {
		t.Fatalf("NewTargets() error = %v, want ErrInvalidTarget", err)
	}
	if targets != nil {
		t.Error("NewTargets() should return no targets on error")
	}
	if !strings.Contains(err.Error(), "targets[1]") {
		t.Errorf("error %q should name the failing entry", err)
	}
}

// =============================================================================
// Publish Tests
// =============================================================================

func TestPublish_WritesLine(t *testing.T) {
	fake := &fakeInflux{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	target, err := influxdb.NewTarget(testTarget(srv.URL), 5*time.Second)
	if err != nil {
		t.Fatalf("NewTarget() error = %v", err)
	}
	defer target.Close()

	if err := target.Publish(context.Background(), inverterReading()); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	req := fake.last(t)
	if req.method != http.MethodPost {
		t.Errorf("method = %s, want POST", req.method)
	}
	if req.path != "/api/v2/write" {
		t.Errorf("path = %s, want /api/v2/write", req.path)
	}
	if req.org != "home" || req.bucket != "solar" {
		t.Errorf("org, bucket = %q, %q", req.org, req.bucket)
	}
	if req.auth != "Token tok" {
		t.Errorf("Authorization = %q, want %q", req.auth, "Token tok")
	}

	want := `solar\ power,deviceName=the\ thing,deviceLocation=backyard,device=238483342 currentPower=998,yieldToday=99,totalYield=1010.2`
	if got := strings.TrimRight(req.body, "\n"); got != want {
		t.Errorf("body =\n%s\nwant\n%s", got, want)
	}
}

func TestPublish_KeepsBasePath(t *testing.T) {
	fake := &fakeInflux{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	target, err := influxdb.NewTarget(testTarget(srv.URL+"/influx"), time.Second)
	if err != nil {
		t.Fatalf("NewTarget() error = %v", err)
	}
	defer target.Close()

	if err := target.Publish(context.Background(), inverterReading()); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if got := fake.last(t).path; got != "/influx/api/v2/write" {
		t.Errorf("path = %s, want /influx/api/v2/write", got)
	}
}

func TestPublish_ServerError(t *testing.T) {
	fake := &fakeInflux{status: http.StatusInternalServerError}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	target, err := influxdb.NewTarget(testTarget(srv.URL), time.Second)
	if err != nil {
		t.Fatalf("NewTarget() error = %v", err)
	}
	defer target.Close()

	err = target.Publish(context.Background(), inverterReading())
	if !errors.Is(err, influxdb.ErrWriteFailed) {
		t.Fatalf("Publish() error = %v, want ErrWriteFailed", err)
	}
	if !strings.Contains(err.Error(), srv.URL) {
		t.Errorf("error %q should name the target", err)
	}
}

func TestPublish_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	target, err := influxdb.NewTarget(testTarget(url), time.Second)
	if err != nil {
		t.Fatalf("NewTarget() error = %v", err)
	}
	defer target.Close()

	if err := target.Publish(context.Background(), inverterReading()); !errors.Is(err, influxdb.ErrWriteFailed) {
		t.Errorf("Publish() error = %v, want ErrWriteFailed", err)
	}
}

func TestPublish_OneRequestPerReading(t *testing.T) {
	fake := &fakeInflux{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	target, err := influxdb.NewTarget(testTarget(srv.URL), time.Second)
	if err != nil {
		t.Fatalf("NewTarget() error = %v", err)
	}
	defer target.Close()

	for i := 0; i < 3; i++ {
		if err := target.Publish(context.Background(), inverterReading()); err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.requests) != 3 {
		t.Errorf("requests = %d, want 3 (no batching)", len(fake.requests))
	}
}
