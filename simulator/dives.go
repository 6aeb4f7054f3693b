package simulator

import (
	"encoding/binary"

	"github.com/diveframe/go-iconhd/protocol"
)

// Dive describes one simulated dive record.
type Dive struct {
	// Mode is the dive mode (protocol.Air, ...), stored in the low bits of
	// the record type field.
	Mode int

	// NSamples is the profile sample count.
	NSamples int

	// Fingerprint is the record's 10-byte fingerprint.
	Fingerprint []byte

	// DiveTime and SampleRateExp feed the Smart Apnea record size
	// correction; ignored for other models.
	DiveTime      uint32
	SampleRateExp int
}

// BuildRecord assembles one on-device dive record for the given model:
// the little-endian length prefix, a deterministic sample area seeded with
// seed, and the trailing header carrying the type, sample count and
// fingerprint fields.
func BuildRecord(model uint32, dive Dive, seed byte) []byte {
	geo := protocol.RecordGeometry(model, dive.Mode)
	mini := protocol.MiniHeaderSize(model)

	header := make([]byte, geo.HeaderSize)
	for i := range header {
		header[i] = seed
	}

	// The type and sample count fields open the trailing mini header. The
	// Smart family stores the count first.
	fields := header[geo.HeaderSize-mini:]
	divetype := uint16(0x4 | dive.Mode)
	if model == protocol.Smart || model == protocol.SmartApnea || model == protocol.SmartAir {
		binary.LittleEndian.PutUint16(fields[0:], uint16(dive.NSamples))
		binary.LittleEndian.PutUint16(fields[2:], divetype)
	} else {
		binary.LittleEndian.PutUint16(fields[0:], divetype)
		binary.LittleEndian.PutUint16(fields[2:], uint16(dive.NSamples))
	}

	if model == protocol.SmartApnea {
		binary.LittleEndian.PutUint16(header[0x1C:], uint16(dive.SampleRateExp&0x03)<<9)
		binary.LittleEndian.PutUint32(header[0x24:], dive.DiveTime)
	}

	copy(header[geo.FingerprintOffset:geo.FingerprintOffset+protocol.FingerprintSize], dive.Fingerprint)

	nbytes := protocol.RecordSize(model, geo, dive.NSamples, header)
	record := make([]byte, nbytes)
	binary.LittleEndian.PutUint32(record[0:], uint32(nbytes))
	for i := 4; i < nbytes-geo.HeaderSize; i++ {
		record[i] = seed ^ byte(i)
	}
	copy(record[nbytes-geo.HeaderSize:], header)

	return record
}

// LoadDives writes the records into the profile ring buffer, oldest first,
// and points the write pointer past the newest one. It returns the raw
// records in the order a download delivers them: newest first.
func (d *Device) LoadDives(dives ...Dive) [][]byte {
	model := protocol.IdentifyModel(d.version[:])
	layout, _ := protocol.LayoutForModel(model)

	records := make([][]byte, 0, len(dives))
	address := layout.RBProfileBegin
	for i, dive := range dives {
		record := BuildRecord(model, dive, byte(0x30+i))
		copy(d.memory[address:], record)
		address += uint32(len(record))
		records = append([][]byte{record}, records...)
	}

	d.SetEOP(protocol.EopAddresses[0], address)
	return records
}
