package mqtt

import (
	"context"
	"fmt"

	"github.com/nerrad567/solar-grabber/internal/device"
	"github.com/nerrad567/solar-grabber/internal/lineprotocol"
	"github.com/nerrad567/solar-grabber/internal/metric"
)

// Maximum payload size for MQTT messages (1MB).
const maxPayloadSize = 1 << 20

// unknownKind is the kind topic level for readings published without
// their source.
const unknownKind = "unknown"

// Publish sends a message to the specified MQTT topic.
//
// Parameters:
//   - ctx: cancels the wait for acknowledgment
//   - topic: The topic to publish to (e.g., "solargrabber/state/inverter/roof")
//   - payload: The message payload (max 1MB)
//   - qos: Quality of Service level (0, 1, or 2)
//   - retained: Whether the broker should retain the message for new subscribers
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (c *Client) Publish(ctx context.Context, topic string, payload []byte, qos byte, retained bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if qos > maxQoS {
		return ErrInvalidQoS
	}
	if len(payload) > maxPayloadSize {
		return fmt.Errorf("%w: payload size %d exceeds maximum %d bytes", ErrPublishFailed, len(payload), maxPayloadSize)
	}

	if !c.IsConnected() {
		return ErrNotConnected
	}

	if err := wait(ctx, c.client.Publish(topic, qos, retained, payload), defaultPublishTimeout); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPublishFailed, topic, err)
	}
	return nil
}

// Mirror publishes every reading to the broker as a line-protocol line,
// one topic per device.
//
// Mirror is a publish target for grabber.Run. Readings are not retained.
type Mirror struct {
	client      *Client
	measurement string
	qos         byte
}

// NewMirror returns a Mirror publishing through client. Lines are encoded
// under measurement.
func NewMirror(client *Client, measurement string) *Mirror {
	return &Mirror{
		client:      client,
		measurement: measurement,
		qos:         byte(client.cfg.QoS),
	}
}

// Name returns the broker URL.
func (m *Mirror) Name() string {
	return m.client.Broker()
}

// PublishSource publishes data to <prefix>/state/<kind>/<device-id>.
func (m *Mirror) PublishSource(ctx context.Context, src device.Source, data *metric.PublishData) error {
	return m.publish(ctx, m.client.Topics().State(src.Kind(), src.ID()), data)
}

// Publish publishes data under the "unknown" kind, using the deviceName
// tag as the device level.
func (m *Mirror) Publish(ctx context.Context, data *metric.PublishData) error {
	var id string
	if v, ok := data.Get("deviceName"); ok {
		id, _ = v.AsString()
	}
	return m.publish(ctx, m.client.Topics().State(unknownKind, id), data)
}

func (m *Mirror) publish(ctx context.Context, topic string, data *metric.PublishData) error {
	line := lineprotocol.Encode(m.measurement, data)
	return m.client.Publish(ctx, topic, []byte(line), m.qos, false)
}
