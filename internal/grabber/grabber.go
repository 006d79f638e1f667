package grabber

import (
	"context"

	"github.com/nerrad567/solar-grabber/internal/device"
	"github.com/nerrad567/solar-grabber/internal/metric"
)

// Publisher delivers a reading to one backend.
//
// Name identifies the backend in logs; for an InfluxDB target it is the
// configured URL.
type Publisher interface {
	Publish(ctx context.Context, data *metric.PublishData) error
	Name() string
}

// SourcePublisher is a Publisher that routes readings by the device they
// came from. Run calls PublishSource instead of Publish when a publisher
// implements it.
type SourcePublisher interface {
	Publisher
	PublishSource(ctx context.Context, src device.Source, data *metric.PublishData) error
}

// Logger is the logging interface used by Run.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Summary counts what one run did.
type Summary struct {
	// Sources is the number of configured sources.
	Sources int

	// Polled is the number of sources that returned a reading.
	Polled int

	// PollFailures is the number of sources whose poll failed.
	PollFailures int

	// Published is the number of successful publisher deliveries.
	Published int

	// PublishFailures is the number of failed publisher deliveries.
	PublishFailures int

	// Skipped is the number of sources not polled because ctx was done.
	Skipped int
}

// LogArgs returns the summary as key/value pairs for a single log record.
func (s Summary) LogArgs() []any {
	return []any{
		"sources", s.Sources,
		"polled", s.Polled,
		"poll_failures", s.PollFailures,
		"published", s.Published,
		"publish_failures", s.PublishFailures,
		"skipped", s.Skipped,
	}
}

// Run polls every source once, in order, and hands each reading to every
// publisher, in order.
//
// A failed poll or publish is logged with the device or target name and
// the loop moves on; one bad device or backend never stops the others.
// Only cancellation of ctx ends the run early, in which case the sources
// not yet polled are counted as skipped.
//
// Parameters:
//   - ctx: cancels the run between and during polls
//   - sources: devices to poll, from device.NewAll
//   - publishers: backends to deliver each reading to
//   - log: destination for per-device and per-target failures (nil discards)
//
// Returns:
//   - Summary: counts of what happened
func Run(ctx context.Context, sources []device.Source, publishers []Publisher, log Logger) Summary {
	if log == nil {
		log = noopLogger{}
	}

	sum := Summary{Sources: len(sources)}
	for i, src := range sources {
		if ctx.Err() != nil {
			sum.Skipped = len(sources) - i
			log.Warn("run cancelled, skipping remaining devices",
				"skipped", sum.Skipped,
				"error", ctx.Err(),
			)
			break
		}

		data, err := src.Poll(ctx)
		if err != nil {
			sum.PollFailures++
			log.Error("error polling device",
				"device", src.ID(),
				"kind", src.Kind(),
				"error", err,
			)
			continue
		}
		sum.Polled++
		log.Debug("device polled",
			"device", src.ID(),
			"kind", src.Kind(),
			"values", data.Len(),
		)

		for _, pub := range publishers {
			if err := publish(ctx, pub, src, data); err != nil {
				sum.PublishFailures++
				log.Error("error publishing reading",
					"device", src.ID(),
					"target", pub.Name(),
					"error", err,
				)
				continue
			}
			sum.Published++
		}
	}
	return sum
}

func publish(ctx context.Context, pub Publisher, src device.Source, data *metric.PublishData) error {
	if sp, ok := pub.(SourcePublisher); ok {
		return sp.PublishSource(ctx, src, data)
	}
	return pub.Publish(ctx, data)
}
