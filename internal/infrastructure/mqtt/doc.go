// Package mqtt mirrors solargrabber readings to an MQTT broker.
//
// When the mqtt section of the configuration is enabled, each reading
// that is written to InfluxDB is also published, encoded as a
// line-protocol line, to a per-device topic:
//
//	<prefix>/state/<kind>/<device-id>
//
// The client announces itself on <prefix>/system/status with retained
// JSON "online"/"offline" messages. A Last Will publishes "offline" if the
// process dies without closing the connection.
//
// # Usage
//
//	client, err := mqtt.Connect(ctx, cfg.MQTT)
//	if err != nil {
//	    log.Warn("MQTT mirror disabled", "error", err)
//	} else {
//	    defer client.Close()
//	    publishers = append(publishers, mqtt.NewMirror(client, cfg.MQTT.Measurement))
//	}
//
// The mirror is best effort: a broker that cannot be reached leaves the
// run unaffected.
package mqtt
