package mqtt

import (
	"context"
	"fmt"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/solar-grabber/internal/infrastructure/config"
)

// Client wraps paho.mqtt.golang for a short-lived publisher.
//
// It connects once, announces "online" on the status topic, publishes,
// and announces "offline" on Close. A Last Will covers the case where
// the process dies before Close.
//
// Thread Safety:
//   - All methods are safe for concurrent use from multiple goroutines.
type Client struct {
	client   pahomqtt.Client
	cfg      config.MQTTConfig
	clientID string
	topics   Topics

	// connected tracks current connection state.
	connected bool
	connMu    sync.RWMutex

	// logger for connection loss (optional, set via SetLogger).
	logger   Logger
	loggerMu sync.RWMutex
}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Connect establishes a connection to the MQTT broker.
//
// It performs the following setup:
//  1. Builds connection options from config (broker URL, auth, TLS)
//  2. Configures Last Will and Testament (LWT) on the status topic
//  3. Connects, bounded by ctx and the connect timeout
//  4. Publishes retained online status to <prefix>/system/status
//
// Parameters:
//   - ctx: cancels the connection attempt
//   - cfg: MQTT configuration; cfg.Enabled is not consulted
//
// Returns:
//   - *Client: Connected client ready for use
//   - error: ErrConnectionFailed if the broker cannot be reached
func Connect(ctx context.Context, cfg config.MQTTConfig) (*Client, error) {
	if cfg.QoS < 0 || cfg.QoS > maxQoS {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQoS, cfg.QoS)
	}

	c := &Client{
		cfg:      cfg,
		clientID: uniqueClientID(cfg.Broker.ClientID),
		topics:   NewTopics(cfg.TopicPrefix),
	}

	opts := buildClientOptions(cfg, c.clientID)
	configureLWT(opts, c.topics, c.clientID)
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.handleDisconnect(err)
	})

	c.client = pahomqtt.NewClient(opts)
	if err := wait(ctx, c.client.Connect(), defaultConnectTimeout); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnectionFailed, brokerURL(cfg.Broker), err)
	}

	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	if err := c.Publish(ctx, c.topics.SystemStatus(), []byte(statusPayload("online", c.clientID, "")), byte(cfg.QoS), true); err != nil {
		c.client.Disconnect(0)
		return nil, fmt.Errorf("%w: announcing online status: %w", ErrConnectionFailed, err)
	}

	return c, nil
}

// handleDisconnect is called when the connection is lost.
func (c *Client) handleDisconnect(err error) {
	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	if logger := c.getLogger(); logger != nil {
		logger.Warn("MQTT connection lost",
			"broker", brokerURL(c.cfg.Broker),
			"error", err,
		)
	}
}

// Close publishes graceful offline status and disconnects.
//
// Returns:
//   - error: always nil (connection already closed is not an error)
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	if c.IsConnected() {
		token := c.client.Publish(c.topics.SystemStatus(), byte(c.cfg.QoS), true,
			statusPayload("offline", c.clientID, "graceful_shutdown"))
		token.WaitTimeout(defaultPublishTimeout)
	}

	c.client.Disconnect(defaultDisconnectQuiesce)

	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	return nil
}

// IsConnected returns the current connection state.
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected && c.client != nil && c.client.IsConnected()
}

// ClientID returns the client ID presented to the broker.
func (c *Client) ClientID() string {
	return c.clientID
}

// Topics returns the topic builders for the configured prefix.
func (c *Client) Topics() Topics {
	return c.topics
}

// Broker returns the broker URL.
func (c *Client) Broker() string {
	return brokerURL(c.cfg.Broker)
}

// SetLogger sets a logger for connection loss warnings.
func (c *Client) SetLogger(logger Logger) {
	c.loggerMu.Lock()
	c.logger = logger
	c.loggerMu.Unlock()
}

// getLogger returns the current logger (may be nil).
func (c *Client) getLogger() Logger {
	c.loggerMu.RLock()
	defer c.loggerMu.RUnlock()
	return c.logger
}

// wait blocks until token completes, ctx is done or timeout elapses.
func wait(ctx context.Context, token pahomqtt.Token, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("%w after %v", ErrTimeout, timeout)
	}
}
