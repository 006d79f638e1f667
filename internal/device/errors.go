package device

import "errors"

// Sentinel errors for device construction and polling.
//
// Poll errors all mean "no reading this cycle" to the caller; the
// sentinels let tests and logs tell the cause apart:
//
//	if errors.Is(err, device.ErrNoData) {
//	    // inverter asleep or rebooting
//	}
var (
	// ErrUnknownKind indicates a source type with no registered implementation.
	ErrUnknownKind = errors.New("device: unknown source type")

	// ErrInvalidSource indicates a source configuration missing values its
	// kind requires.
	ErrInvalidSource = errors.New("device: invalid source configuration")

	// ErrFetchFailed indicates the status page could not be requested or read.
	ErrFetchFailed = errors.New("device: fetching status page failed")

	// ErrFieldNotFound indicates an expected marker is absent from the page.
	ErrFieldNotFound = errors.New("device: field not found")

	// ErrInvalidNumber indicates captured text is not a base-10 number.
	ErrInvalidNumber = errors.New("device: field is not a number")

	// ErrNoData indicates a device answered but reported no usable reading.
	ErrNoData = errors.New("device: no data")
)
