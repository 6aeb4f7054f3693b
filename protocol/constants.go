package protocol

// Frame markers.
const (
	// Ack is the acknowledge byte sent by the device after the two opcode
	// bytes of a command have been received.
	Ack = 0xAA

	// Eop is the end-of-answer byte trailing every response.
	Eop = 0xEA
)

// MaxRetries is the number of retries after a corrupted packet, on top of the
// initial attempt.
const MaxRetries = 4

// Model codes, as reported through the version packet product name.
const (
	Matrix     = 0x0F
	Smart      = 0x000010
	SmartApnea = 0x010010
	IconHD     = 0x14
	IconHDNet  = 0x15
	PuckPro    = 0x18
	NemoWide2  = 0x19
	Puck2      = 0x1F
	QuadAir    = 0x23
	SmartAir   = 0x24
	Quad       = 0x29
)

// Dive modes, stored in the two low bits of a record's type field.
const (
	Air = iota
	Gauge
	Nitrox
	Freedive
)

// Version packet geometry.
const (
	// VersionSize is the size of the version packet.
	VersionSize = 140

	// ProductNameOffset is the offset of the product name field inside the
	// version packet.
	ProductNameOffset = 0x46

	// ProductNameSize is the size of the product name field. Shorter names
	// are NUL padded.
	ProductNameSize = 16
)

// FingerprintSize is the size of a dive fingerprint.
const FingerprintSize = 10

// Fixed memory addresses.
const (
	// SerialNumberAddress holds the 32-bit little-endian serial number.
	SerialNumberAddress = 0x0C
)

// EopAddresses are the candidate addresses of the profile ring buffer write
// pointer, tried in order. A pointer reading Sentinel32 means "try the next
// address", or "empty log" if no candidate is left.
var EopAddresses = [...]uint32{0x2001, 0x3001}

// Sentinel values marking absent or uninitialized fields.
const (
	Sentinel32 = 0xFFFFFFFF
	Sentinel16 = 0xFFFF
)
