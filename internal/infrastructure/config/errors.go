package config

import "errors"

// Sentinel errors for configuration loading.
//
// Both abort the run before any device is polled:
//
//	if errors.Is(err, config.ErrPartialChannel) {
//	    // only one of SG_SOURCES / SG_INFLUXDBS was set
//	}
var (
	// ErrInvalidConfig indicates missing, malformed or contradictory values.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrPartialChannel indicates that only one of the inline sources and
	// targets values was supplied.
	ErrPartialChannel = errors.New("config: supply both sources and targets or neither")
)
