// Package simulator provides an in-memory Icon HD dive computer that speaks
// the real wire protocol over the transport interface. It backs the test
// suite and the mock_device example: sessions opened on a simulator behave
// like sessions on hardware, including framing, timeouts and fault
// injection.
package simulator

import (
	"bytes"
	"encoding/binary"
	"time"

	"github.com/diveframe/go-iconhd/protocol"
	"github.com/diveframe/go-iconhd/transport"
)

// frameSize is the notification frame size the simulator uses when it plays
// a frame-oriented transport.
const frameSize = 20

// Device simulates one dive computer. It implements transport.Transport:
// bytes written to it feed a command parser, and responses are queued for
// subsequent reads. The zero value is not usable; use New.
type Device struct {
	memory  []byte
	version [protocol.VersionSize]byte
	kind    transport.Kind

	// Command parser state: opcode received, payload still expected.
	opcode  []byte
	payload []byte
	want    int

	out bytes.Buffer

	// Fault injection.
	corruptAcks     int
	corruptTrailers int
	dropAnswers     int
	readErr         error
	writeErr        error

	// Commands counts recognized opcodes; Exchanges counts completed
	// command/response exchanges.
	Commands  int
	Exchanges int
}

var _ transport.Transport = (*Device)(nil)

// New creates a simulator for the given product name. The device memory is
// sized from the model's layout and initialized to 0xFF, like erased flash.
func New(product string) *Device {
	d := &Device{kind: transport.KindStream}

	copy(d.version[protocol.ProductNameOffset:], product)

	layout, _ := protocol.LayoutForModel(protocol.IdentifyModel(d.version[:]))
	d.memory = make([]byte, layout.MemSize)
	for i := range d.memory {
		d.memory[i] = 0xFF
	}

	return d
}

// SetFrameKind makes the simulator behave like a frame-oriented (BLE)
// transport: each read delivers at most one 20-byte frame.
func (d *Device) SetFrameKind() {
	d.kind = transport.KindFrame
}

// Memory exposes the backing memory image for test setup.
func (d *Device) Memory() []byte {
	return d.memory
}

// SetSerial stores the serial number in device memory.
func (d *Device) SetSerial(serial uint32) {
	binary.LittleEndian.PutUint32(d.memory[protocol.SerialNumberAddress:], serial)
}

// SetEOP stores the ring buffer write pointer at the given candidate
// address.
func (d *Device) SetEOP(address, eop uint32) {
	binary.LittleEndian.PutUint32(d.memory[address:], eop)
}

// CorruptNextAcks corrupts the ACK byte of the next n exchanges.
func (d *Device) CorruptNextAcks(n int) {
	d.corruptAcks = n
}

// CorruptNextTrailers corrupts the EOP byte of the next n exchanges.
func (d *Device) CorruptNextTrailers(n int) {
	d.corruptTrailers = n
}

// DropNextAnswers swallows the answer of the next n exchanges after the ACK,
// so the host read times out.
func (d *Device) DropNextAnswers(n int) {
	d.dropAnswers = n
}

// FailReads makes every subsequent read fail with err, simulating a broken
// link.
func (d *Device) FailReads(err error) {
	d.readErr = err
}

// FailWrites makes every subsequent write fail with err.
func (d *Device) FailWrites(err error) {
	d.writeErr = err
}

func (d *Device) Kind() transport.Kind {
	return d.kind
}

func (d *Device) Configure(cfg transport.LineConfig) error { return nil }

func (d *Device) SetTimeout(timeout time.Duration) error { return nil }

func (d *Device) SetDTR(v bool) error { return nil }

func (d *Device) SetRTS(v bool) error { return nil }

func (d *Device) Purge(dir transport.Direction) error {
	if dir&transport.DirectionInput != 0 {
		d.out.Reset()
	}
	return nil
}

func (d *Device) Close() error { return nil }

// Read serves queued response bytes. With no data queued it reports a
// timeout the way a serial port does: zero bytes, no error.
func (d *Device) Read(p []byte) (int, error) {
	if d.readErr != nil {
		return 0, d.readErr
	}
	if d.out.Len() == 0 {
		return 0, nil
	}

	n := len(p)
	if d.kind == transport.KindFrame && n > frameSize {
		n = frameSize
	}
	if n > d.out.Len() {
		n = d.out.Len()
	}
	return d.out.Read(p[:n])
}

// Write feeds the command parser. The device acknowledges a recognized
// opcode immediately and answers once the full payload has arrived.
func (d *Device) Write(p []byte) (int, error) {
	if d.writeErr != nil {
		return 0, d.writeErr
	}

	for _, b := range p {
		d.consume(b)
	}
	return len(p), nil
}

func (d *Device) consume(b byte) {
	if len(d.opcode) < 2 {
		d.opcode = append(d.opcode, b)
		if len(d.opcode) < 2 {
			return
		}

		// Opcode complete: acknowledge and decide the payload size.
		switch {
		case bytes.Equal(d.opcode, protocol.BuildVersionCmd()):
			d.want = 0
		case bytes.Equal(d.opcode, protocol.BuildReadCmd(0, 0)[:2]):
			d.want = 8
		default:
			// Unknown command: stay silent, the host will time out.
			d.opcode = nil
			return
		}

		d.Commands++
		if !d.ack() {
			// A corrupted ACK makes the host abandon the exchange;
			// drop the pending command so the retried opcode bytes are
			// parsed from a clean state.
			d.opcode = nil
			d.want = 0
			return
		}
		if d.want == 0 {
			d.answer()
		}
		return
	}

	d.payload = append(d.payload, b)
	if len(d.payload) == d.want {
		d.answer()
	}
}

// ack queues the ACK byte and reports whether the exchange goes on. A
// corrupted ACK ends it: the host never sends the payload.
func (d *Device) ack() bool {
	if d.corruptAcks > 0 {
		d.corruptAcks--
		d.out.WriteByte(^byte(protocol.Ack))
		return false
	}
	d.out.WriteByte(protocol.Ack)
	return true
}

func (d *Device) answer() {
	opcode, payload := d.opcode, d.payload
	d.opcode = nil
	d.payload = nil
	d.Exchanges++

	if d.dropAnswers > 0 {
		d.dropAnswers--
		return
	}

	switch {
	case bytes.Equal(opcode, protocol.BuildVersionCmd()):
		d.out.Write(d.version[:])
	default: // memory read
		address := binary.LittleEndian.Uint32(payload[0:])
		length := binary.LittleEndian.Uint32(payload[4:])
		end := uint64(address) + uint64(length)
		if end > uint64(len(d.memory)) {
			// Out-of-range read: no answer, the host times out.
			return
		}
		d.out.Write(d.memory[address:end])
	}

	if d.corruptTrailers > 0 {
		d.corruptTrailers--
		d.out.WriteByte(^byte(protocol.Eop))
		return
	}
	d.out.WriteByte(protocol.Eop)
}
