package device

import (
	"fmt"

	"github.com/diveframe/go-iconhd/protocol"
	"github.com/diveframe/go-iconhd/transport"
)

// readFull reads exactly len(data) bytes from the transport. Frame-oriented
// transports deliver whole frames, so incoming frames are staged in the
// receive cache and served across calls; byte-stream transports are read
// directly. A read returning no data within the transport timeout fails with
// ErrTimeout.
func (d *Device) readFull(data []byte) error {
	frames := d.transport.Kind() == transport.KindFrame

	nbytes := 0
	for nbytes < len(data) {
		if frames {
			if d.available == 0 {
				// Read one frame into the cache.
				n, err := d.transport.Read(d.cache[:])
				if err != nil {
					return fmt.Errorf("transport read: %w", err)
				}
				if n == 0 {
					return protocol.ErrTimeout
				}
				d.available = n
				d.offset = 0
			}

			length := d.available
			if nbytes+length > len(data) {
				length = len(data) - nbytes
			}

			copy(data[nbytes:nbytes+length], d.cache[d.offset:d.offset+length])
			d.available -= length
			d.offset += length
			nbytes += length
		} else {
			n, err := d.transport.Read(data[nbytes:])
			if err != nil {
				return fmt.Errorf("transport read: %w", err)
			}
			if n == 0 {
				return protocol.ErrTimeout
			}
			nbytes += n
		}
	}

	return nil
}

// writeFull writes all of data to the transport, chunked to the frame size
// on frame-oriented transports.
func (d *Device) writeFull(data []byte) error {
	frames := d.transport.Kind() == transport.KindFrame

	nbytes := 0
	for nbytes < len(data) {
		length := len(data) - nbytes
		if frames && length > len(d.cache) {
			length = len(d.cache)
		}

		n, err := d.transport.Write(data[nbytes : nbytes+length])
		if err != nil {
			return fmt.Errorf("transport write: %w", err)
		}
		if n == 0 {
			return protocol.ErrTimeout
		}
		nbytes += n
	}

	return nil
}
