package device

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"

	"github.com/diveframe/go-iconhd/protocol"
	"github.com/diveframe/go-iconhd/rbstream"
)

// ForEach walks the profile ring buffer backwards from the device's write
// pointer and invokes callback once per dive, newest first, until the stored
// fingerprint is reached, the ring start is reached, or the callback returns
// false. Records that are only partially present (overwritten at the wrap
// boundary) or fail the stored-length cross-check terminate the walk cleanly:
// every dive delivered before the stop stays delivered, and the error is nil.
func (d *Device) ForEach(ctx context.Context, callback DiveCallback) error {
	layout := d.layout
	ringlen := layout.RBProfileEnd - layout.RBProfileBegin

	progress := Progress{Maximum: ringlen + 4}
	d.emitProgress(progress)

	d.emitVendor()

	serial, err := d.SerialNumber(ctx)
	if err != nil {
		return fmt.Errorf("read serial number: %w", err)
	}
	progress.Current += 4
	d.emitProgress(progress)

	d.emitInfo(DeviceInfo{
		Model:    d.model,
		Firmware: 0,
		Serial:   serial,
	})

	// Locate the end of the profile data. The candidate pointer addresses
	// are tried in a fixed order; the first non-sentinel value wins.
	eop := uint32(protocol.Sentinel32)
	for _, address := range protocol.EopAddresses {
		var pointer [4]byte
		if err := d.Read(ctx, address, pointer[:]); err != nil {
			return fmt.Errorf("read ring pointer: %w", err)
		}

		progress.Maximum += 4
		progress.Current += 4
		d.emitProgress(progress)

		eop = binary.LittleEndian.Uint32(pointer[:])
		if eop != protocol.Sentinel32 {
			break
		}
	}
	if eop < layout.RBProfileBegin || eop >= layout.RBProfileEnd {
		if eop == protocol.Sentinel32 {
			// No dives available.
			return nil
		}
		return fmt.Errorf("%w: ring pointer 0x%08X outside [0x%08X, 0x%08X)",
			protocol.ErrDataFormat, eop, layout.RBProfileBegin, layout.RBProfileEnd)
	}

	stream, err := rbstream.New(d, 1, uint32(d.packetsize),
		layout.RBProfileBegin, layout.RBProfileEnd, eop)
	if err != nil {
		return err
	}

	// One read helper keeping the progress monotonic in consumed bytes.
	read := func(data []byte) error {
		if err := stream.Read(ctx, data); err != nil {
			return err
		}
		progress.Current += uint32(len(data))
		d.emitProgress(progress)
		return nil
	}

	mini := protocol.MiniHeaderSize(d.model)

	// The walk consumes records newest to oldest into one scratch buffer,
	// with offset marking the start of the most recently consumed record.
	buffer := make([]byte, ringlen)
	offset := int(ringlen)
	for offset >= mini+4 {
		// Read the mini header: enough to learn the dive type and the
		// sample count, which together determine the record shape.
		if err := read(buffer[offset-mini : offset]); err != nil {
			return fmt.Errorf("read dive header: %w", err)
		}

		divetype, nsamples := protocol.MiniHeaderFields(d.model, buffer[offset-mini:])
		if divetype == protocol.Sentinel16 || nsamples == protocol.Sentinel16 {
			// Uninitialized data: reached the unwritten part of the ring.
			break
		}

		mode := int(divetype & 0x03)
		geo := protocol.RecordGeometry(d.model, mode)
		if offset < geo.HeaderSize {
			break
		}

		// Read the rest of the header.
		if err := read(buffer[offset-geo.HeaderSize : offset-mini]); err != nil {
			return fmt.Errorf("read dive header: %w", err)
		}
		header := buffer[offset-geo.HeaderSize : offset]

		// If the ring does not hold the whole record, the oldest dive has
		// been partially overwritten with newer data; stop without it.
		nbytes := protocol.RecordSize(d.model, geo, int(nsamples), header)
		if offset < nbytes {
			break
		}

		// Read the remainder of the dive.
		if err := read(buffer[offset-nbytes : offset-geo.HeaderSize]); err != nil {
			return fmt.Errorf("read dive: %w", err)
		}

		// Move to the start of the dive.
		offset -= nbytes

		// Cross-check against the length stored in the record itself; a
		// mismatch means we walked past the last valid dive.
		length := int(binary.LittleEndian.Uint32(buffer[offset:]))
		if length != nbytes {
			break
		}

		fp := buffer[offset+length-geo.HeaderSize+geo.FingerprintOffset:][:len(d.fingerprint)]
		if bytes.Equal(fp, d.fingerprint[:]) {
			// This dive and everything older was downloaded before.
			break
		}

		if callback != nil && !callback(buffer[offset:offset+length], fp) {
			break
		}
	}

	return nil
}
