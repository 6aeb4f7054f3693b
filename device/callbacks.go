package device

// Progress reports how far a download has advanced, in bytes. Current never
// decreases during one operation; Maximum may grow as the operation learns
// how much there is to read.
type Progress struct {
	Current uint32
	Maximum uint32
}

// ProgressCallback receives progress updates during memory dumps and dive
// enumeration. Implementations should return quickly.
type ProgressCallback func(Progress)

// DeviceInfo identifies the connected dive computer.
type DeviceInfo struct {
	// Model is the detected model code (protocol.Puck2, ...); 0 if the
	// product name was not recognized.
	Model uint32

	// Firmware is always 0: the Icon HD version packet does not expose a
	// numeric firmware revision.
	Firmware uint32

	// Serial is the device serial number.
	Serial uint32
}

// DeviceInfoCallback receives the device identity once per enumeration,
// before the first dive is delivered.
type DeviceInfoCallback func(DeviceInfo)

// VendorCallback receives the raw 140-byte version packet.
type VendorCallback func(data []byte)

// DiveCallback is invoked once per dive, newest first, with the full record
// bytes (including the 4-byte length prefix) and the record's fingerprint.
// Both slices are only valid for the duration of the call. Returning false
// stops the enumeration without error.
type DiveCallback func(dive, fingerprint []byte) bool
