package mqtt

import (
	"fmt"
	"strings"
)

// Topics builds the mirror's topic names under a configurable prefix.
//
//	topics := mqtt.NewTopics("solargrabber")
//	topics.State("Inverter", "roof")
//	// Returns: "solargrabber/state/inverter/roof"
type Topics struct {
	prefix string
}

// NewTopics returns topic builders rooted at prefix. Surrounding slashes
// are removed.
func NewTopics(prefix string) Topics {
	return Topics{prefix: strings.Trim(prefix, "/")}
}

// Prefix returns the root all topics share.
func (t Topics) Prefix() string {
	return t.prefix
}

// State returns the topic a device's readings are mirrored to.
//
// Example: solargrabber/state/tasmota/garage-plug
func (t Topics) State(kind, deviceID string) string {
	return fmt.Sprintf("%s/state/%s/%s", t.prefix, segment(strings.ToLower(kind)), segment(deviceID))
}

// SystemStatus returns the topic for process online/offline status.
//
// Example: solargrabber/system/status
func (t Topics) SystemStatus() string {
	return t.prefix + "/system/status"
}

// AllStates returns a subscription filter matching every State topic.
//
// Example: solargrabber/state/#
func (t Topics) AllStates() string {
	return t.prefix + "/state/#"
}

// segment makes s usable as a single topic level. Level separators and
// wildcards are not allowed in published topic names.
func segment(s string) string {
	if s == "" {
		return "_"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '+', '#', 0:
			return '_'
		}
		return r
	}, s)
}
