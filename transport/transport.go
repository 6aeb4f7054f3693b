// Package transport abstracts the raw byte link to the dive computer.
//
// Two kinds of link exist: plain byte streams (serial, IrDA bridges) and
// frame-oriented links (BLE GATT notifications), where every read delivers
// one whole frame. The device layer adapts frame-oriented links back to
// byte-stream semantics; implementations here only report their kind.
package transport

import (
	"io"
	"time"
)

// Kind discriminates between byte-stream and frame-oriented links.
type Kind int

const (
	// KindStream delivers bytes with no framing, like a serial port.
	KindStream Kind = iota

	// KindFrame delivers fixed-maximum-size frames; a single read returns
	// at most one frame.
	KindFrame
)

// Direction selects which buffered data Purge discards.
type Direction int

const (
	DirectionInput Direction = 1 << iota
	DirectionOutput

	DirectionAll = DirectionInput | DirectionOutput
)

// Parity settings for serial links.
type Parity int

const (
	ParityNone Parity = iota
	ParityOdd
	ParityEven
)

// StopBits settings for serial links.
type StopBits int

const (
	StopBitsOne StopBits = iota
	StopBitsTwo
)

// FlowControl settings for serial links.
type FlowControl int

const (
	FlowControlNone FlowControl = iota
	FlowControlHardware
)

// LineConfig holds the serial line discipline. Frame-oriented transports
// ignore it.
type LineConfig struct {
	BaudRate    int
	DataBits    int
	Parity      Parity
	StopBits    StopBits
	FlowControl FlowControl
}

// Transport is the raw link to the device. Implementations are not
// internally synchronized; a transport is exclusively owned by one device
// session at a time.
//
// Read returns 0, nil when the configured timeout expires with no data; the
// caller maps that to its timeout error.
type Transport interface {
	io.ReadWriteCloser

	// Kind reports whether the link is byte-stream or frame-oriented.
	Kind() Kind

	// Configure sets the line discipline. A no-op on links without one.
	Configure(cfg LineConfig) error

	// SetTimeout sets the deadline applied to each Read call.
	SetTimeout(d time.Duration) error

	// SetDTR asserts or deasserts the DTR line. A no-op on links without
	// control lines.
	SetDTR(v bool) error

	// SetRTS asserts or deasserts the RTS line. A no-op on links without
	// control lines.
	SetRTS(v bool) error

	// Purge discards buffered data in the given direction.
	Purge(d Direction) error
}
