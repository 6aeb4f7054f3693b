package protocol

import "encoding/binary"

// Geometry describes the shape of a dive record for one model and dive mode.
//
// A record is stored as:
//
//	[length (4 bytes, LE)][samples...][header (HeaderSize bytes)]
//
// with the header at the end, so the newest fields are the closest to the
// ring buffer write pointer.
type Geometry struct {
	// HeaderSize is the size of the full dive header.
	HeaderSize int

	// SampleSize is the size of one profile sample.
	SampleSize int

	// FingerprintOffset is the offset of the fingerprint inside the header.
	FingerprintOffset int
}

// MiniHeaderSize returns the number of trailing header bytes that must be
// read before the shape of the record is known. For the older models this is
// the whole header; the Smart family stores only the type and sample count
// fields there.
func MiniHeaderSize(model uint32) int {
	switch model {
	case IconHDNet:
		return 0x80
	case QuadAir:
		return 0x84
	case Smart, SmartAir:
		return 4
	case SmartApnea:
		return 6
	default:
		return 0x5C
	}
}

// MiniHeaderFields extracts the dive type and sample count from the first
// four bytes of the mini header. The field order differs between the Smart
// family and the rest of the range.
func MiniHeaderFields(model uint32, mini []byte) (divetype, nsamples uint16) {
	if model == Smart || model == SmartApnea || model == SmartAir {
		divetype = binary.LittleEndian.Uint16(mini[2:])
		nsamples = binary.LittleEndian.Uint16(mini[0:])
	} else {
		divetype = binary.LittleEndian.Uint16(mini[0:])
		nsamples = binary.LittleEndian.Uint16(mini[2:])
	}
	return divetype, nsamples
}

// RecordGeometry returns the record shape for a model and dive mode. The
// dive mode only matters for the Smart, whose freedive records use a shorter
// header and smaller samples than its other modes.
func RecordGeometry(model uint32, mode int) Geometry {
	geo := Geometry{HeaderSize: 0x5C, SampleSize: 8, FingerprintOffset: 6}
	switch model {
	case IconHDNet:
		geo.HeaderSize = 0x80
		geo.SampleSize = 12
	case QuadAir:
		geo.HeaderSize = 0x84
		geo.SampleSize = 12
	case Smart:
		if mode == Freedive {
			geo.HeaderSize = 0x2E
			geo.SampleSize = 6
			geo.FingerprintOffset = 0x20
		} else {
			geo.HeaderSize = 0x5C
			geo.SampleSize = 8
			geo.FingerprintOffset = 2
		}
	case SmartApnea:
		geo.HeaderSize = 0x50
		geo.SampleSize = 14
		geo.FingerprintOffset = 0x40
	case SmartAir:
		geo.HeaderSize = 0x84
		geo.SampleSize = 12
		geo.FingerprintOffset = 2
	}
	return geo
}

// Header offsets of the Smart Apnea fields feeding its record size
// correction.
const (
	apneaSettingsOffset = 0x1C
	apneaDivetimeOffset = 0x24
)

// RecordSize computes the total record size in bytes from the sample count
// and the full header. Some models append auxiliary data not accounted for
// by the sample count: one group adds an 8-byte block per 4 samples, the
// Smart Apnea adds a run of 2-byte samples derived from the dive time and
// the encoded sample rate.
func RecordSize(model uint32, geo Geometry, nsamples int, header []byte) int {
	nbytes := 4 + geo.HeaderSize + nsamples*geo.SampleSize
	switch model {
	case IconHDNet, QuadAir, SmartAir:
		nbytes += (nsamples / 4) * 8
	case SmartApnea:
		settings := binary.LittleEndian.Uint16(header[apneaSettingsOffset:])
		divetime := binary.LittleEndian.Uint32(header[apneaDivetimeOffset:])
		samplerate := 1 << ((settings >> 9) & 0x03)
		nbytes += int(divetime) * samplerate * 2
	}
	return nbytes
}
