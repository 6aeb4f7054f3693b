package device

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/diveframe/go-iconhd/protocol"
	"github.com/diveframe/go-iconhd/transport"
)

// frameCacheSize is the receive cache capacity for frame-oriented
// transports: the largest BLE notification frame.
const frameCacheSize = 20

// Device is one open session on an Icon HD family dive computer. It owns the
// transport exclusively for the session lifetime and is not safe for
// concurrent use.
type Device struct {
	transport  transport.Transport
	layout     protocol.Layout
	model      uint32
	packetsize int

	fingerprint [protocol.FingerprintSize]byte
	version     [protocol.VersionSize]byte

	// Receive cache for frame-oriented transports. Invariant:
	// offset+available <= len(cache).
	cache     [frameCacheSize]byte
	available int
	offset    int

	cfg config
}

// Open starts a session on the given transport: it configures the 115200 8E1
// line discipline, fetches the version packet and autodetects the model and
// memory layout. On success the transport is owned by the session until
// Close; on failure it stays with the caller.
func Open(ctx context.Context, t transport.Transport, opts ...Option) (*Device, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil transport", protocol.ErrInvalidArgs)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	d := &Device{
		transport: t,
		cfg:       cfg,
	}

	if err := t.Configure(transport.LineConfig{
		BaudRate:    115200,
		DataBits:    8,
		Parity:      transport.ParityEven,
		StopBits:    transport.StopBitsOne,
		FlowControl: transport.FlowControlNone,
	}); err != nil {
		return nil, fmt.Errorf("configure transport: %w", err)
	}

	if err := t.SetTimeout(readTimeout); err != nil {
		return nil, fmt.Errorf("set timeout: %w", err)
	}

	if err := t.SetDTR(false); err != nil {
		return nil, fmt.Errorf("clear DTR: %w", err)
	}
	if err := t.SetRTS(false); err != nil {
		return nil, fmt.Errorf("clear RTS: %w", err)
	}

	// Start from a sane state.
	if err := t.Purge(transport.DirectionAll); err != nil {
		return nil, fmt.Errorf("purge transport: %w", err)
	}

	if err := d.transfer(ctx, protocol.BuildVersionCmd(), d.version[:]); err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}

	d.model = protocol.IdentifyModel(d.version[:])
	d.layout, d.packetsize = protocol.LayoutForModel(d.model)

	d.cfg.logger.Debug().
		Str("product", protocol.ProductName(d.version[:])).
		Uint32("model", d.model).
		Int("packetsize", d.packetsize).
		Msg("session opened")

	return d, nil
}

// Close releases the session and its transport.
func (d *Device) Close() error {
	return d.transport.Close()
}

// Model returns the detected model code, or 0 if the product name was not
// recognized.
func (d *Device) Model() uint32 {
	return d.model
}

// Layout returns the memory layout of the detected model.
func (d *Device) Layout() protocol.Layout {
	return d.layout
}

// Version returns a copy of the raw version packet.
func (d *Device) Version() []byte {
	version := make([]byte, len(d.version))
	copy(version, d.version[:])
	return version
}

// SetFingerprint stores the download boundary for ForEach. The data must be
// exactly protocol.FingerprintSize bytes; an empty slice clears the boundary
// so the next enumeration walks the entire ring buffer.
func (d *Device) SetFingerprint(data []byte) error {
	if len(data) != 0 && len(data) != len(d.fingerprint) {
		return fmt.Errorf("%w: fingerprint must be %d bytes, got %d",
			protocol.ErrInvalidArgs, len(d.fingerprint), len(data))
	}

	if len(data) != 0 {
		copy(d.fingerprint[:], data)
	} else {
		d.fingerprint = [protocol.FingerprintSize]byte{}
	}

	return nil
}

// SerialNumber reads the device serial number.
func (d *Device) SerialNumber(ctx context.Context) (uint32, error) {
	var serial [4]byte
	if err := d.Read(ctx, protocol.SerialNumberAddress, serial[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(serial[:]), nil
}

// emitProgress, emitVendor and emitInfo invoke the respective callbacks if
// configured.
func (d *Device) emitProgress(p Progress) {
	if d.cfg.onProgress != nil {
		d.cfg.onProgress(p)
	}
}

func (d *Device) emitVendor() {
	if d.cfg.onVendor != nil {
		d.cfg.onVendor(d.version[:])
	}
}

func (d *Device) emitInfo(info DeviceInfo) {
	if d.cfg.onInfo != nil {
		d.cfg.onInfo(info)
	}
}
