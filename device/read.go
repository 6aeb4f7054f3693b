package device

import (
	"context"
	"fmt"

	"github.com/diveframe/go-iconhd/protocol"
)

// Read fills data with device memory starting at address, split into
// packetsize-bounded chunks.
func (d *Device) Read(ctx context.Context, address uint32, data []byte) error {
	nbytes := 0
	for nbytes < len(data) {
		length := len(data) - nbytes
		if length > d.packetsize {
			length = d.packetsize
		}

		cmd := protocol.BuildReadCmd(address, uint32(length))
		if err := d.transfer(ctx, cmd, data[nbytes:nbytes+length]); err != nil {
			return fmt.Errorf("read 0x%08X: %w", address, err)
		}

		nbytes += length
		address += uint32(length)
	}

	return nil
}

// Dump downloads the entire device memory. The returned buffer is exactly
// Layout().MemSize bytes. The raw version packet is delivered through the
// vendor callback before the download starts, and progress is reported per
// chunk.
func (d *Device) Dump(ctx context.Context) ([]byte, error) {
	d.emitVendor()

	buffer := make([]byte, d.layout.MemSize)
	progress := Progress{Maximum: d.layout.MemSize}
	d.emitProgress(progress)

	var address uint32
	for address < d.layout.MemSize {
		length := d.layout.MemSize - address
		if length > uint32(d.packetsize) {
			length = uint32(d.packetsize)
		}

		cmd := protocol.BuildReadCmd(address, length)
		if err := d.transfer(ctx, cmd, buffer[address:address+length]); err != nil {
			return nil, fmt.Errorf("read 0x%08X: %w", address, err)
		}

		address += length
		progress.Current = address
		d.emitProgress(progress)
	}

	return buffer, nil
}
