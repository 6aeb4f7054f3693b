package protocol

import "errors"

// Error taxonomy shared by the whole backend. Callers match these with
// errors.Is; transport failures are passed through wrapped and do not match
// any of them.
var (
	// ErrInvalidArgs indicates bad caller input, such as a fingerprint of
	// the wrong length.
	ErrInvalidArgs = errors.New("invalid arguments")

	// ErrProtocol indicates a framing byte mismatch in a device answer.
	// Exchanges failing with ErrProtocol are retried transparently.
	ErrProtocol = errors.New("unexpected answer byte")

	// ErrTimeout indicates the transport deadline expired before the full
	// answer arrived. Exchanges failing with ErrTimeout are retried
	// transparently.
	ErrTimeout = errors.New("timeout receiving data")

	// ErrCancelled indicates the operation was aborted cooperatively.
	ErrCancelled = errors.New("operation cancelled")

	// ErrDataFormat indicates device data that violates the configured
	// memory layout, such as a ring buffer pointer out of range.
	ErrDataFormat = errors.New("unexpected data format")
)
