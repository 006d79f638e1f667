package influxdb

import "errors"

// Sentinel errors for InfluxDB operations.
//
// These errors can be checked using errors.Is() for specific handling:
//
//	if errors.Is(err, influxdb.ErrWriteFailed) {
//	    // server unreachable or rejected the line
//	}
var (
	// ErrInvalidTarget indicates a target configuration that cannot be used.
	ErrInvalidTarget = errors.New("influxdb: invalid target")

	// ErrWriteFailed indicates a write operation failed, either in transport
	// or because the server answered with a non-2xx status.
	ErrWriteFailed = errors.New("influxdb: write failed")
)
