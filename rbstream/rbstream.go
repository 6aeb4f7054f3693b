// Package rbstream reads a circular memory region backwards.
//
// Dive computers keep their profile data in a ring buffer where the newest
// bytes sit just before the write pointer. A Stream is anchored at that
// pointer and serves reads that end at a cursor moving towards older data,
// wrapping from the start of the region to its end. Device memory is fetched
// in packet-sized chunks through an internal cache, so callers can issue many
// small reads without one device round trip each.
package rbstream

import (
	"context"
	"fmt"

	"github.com/diveframe/go-iconhd/protocol"
)

// MemoryReader fetches device memory. *device.Device satisfies it.
type MemoryReader interface {
	Read(ctx context.Context, address uint32, data []byte) error
}

// Stream reads backwards from a write pointer over the ring [begin, end).
type Stream struct {
	dev        MemoryReader
	pagesize   uint32
	packetsize uint32
	begin      uint32
	end        uint32

	// addr is the address just past the oldest byte fetched so far; the
	// next cache fill ends there.
	addr uint32

	cache []byte
	avail int

	// remaining is the number of bytes not yet consumed; the ring holds
	// end-begin readable bytes in total.
	remaining uint32
}

// New creates a stream over [begin, end) anchored at the write pointer eop.
// Device memory is fetched in chunks of at most packetsize bytes, aligned to
// pagesize relative to begin.
func New(dev MemoryReader, pagesize, packetsize, begin, end, eop uint32) (*Stream, error) {
	if dev == nil || pagesize == 0 || packetsize < pagesize || begin >= end {
		return nil, fmt.Errorf("%w: bad ring stream parameters", protocol.ErrInvalidArgs)
	}
	if eop < begin || eop >= end {
		return nil, fmt.Errorf("%w: write pointer 0x%08X outside [0x%08X, 0x%08X)",
			protocol.ErrInvalidArgs, eop, begin, end)
	}
	return &Stream{
		dev:        dev,
		pagesize:   pagesize,
		packetsize: packetsize,
		begin:      begin,
		end:        end,
		addr:       eop,
		cache:      make([]byte, packetsize),
		remaining:  end - begin,
	}, nil
}

// Remaining reports how many bytes are left before the stream arrives back
// at the write pointer.
func (s *Stream) Remaining() uint32 {
	return s.remaining
}

// Read fills data with the len(data) bytes ending at the current cursor and
// moves the cursor backwards by that amount. Reading past the full ring
// length fails with ErrInvalidArgs.
func (s *Stream) Read(ctx context.Context, data []byte) error {
	if uint32(len(data)) > s.remaining {
		return fmt.Errorf("%w: read of %d bytes exceeds %d remaining",
			protocol.ErrInvalidArgs, len(data), s.remaining)
	}

	// data is filled back to front: its last byte is the newest.
	n := len(data)
	for n > 0 {
		if s.avail == 0 {
			if err := s.fill(ctx); err != nil {
				return err
			}
		}
		k := s.avail
		if k > n {
			k = n
		}
		copy(data[n-k:n], s.cache[s.avail-k:s.avail])
		s.avail -= k
		n -= k
	}

	s.remaining -= uint32(len(data))
	return nil
}

// fill fetches the next chunk of older data, ending where the previous chunk
// began and wrapping from begin to end.
func (s *Stream) fill(ctx context.Context) error {
	if s.addr == s.begin {
		s.addr = s.end
	}

	lo := s.begin
	if s.addr-s.begin > s.packetsize {
		lo = s.addr - s.packetsize
		// Keep device reads page aligned.
		lo -= (lo - s.begin) % s.pagesize
	}

	n := s.addr - lo
	if err := s.dev.Read(ctx, lo, s.cache[:n]); err != nil {
		return err
	}
	s.addr = lo
	s.avail = int(n)
	return nil
}
