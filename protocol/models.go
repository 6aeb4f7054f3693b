package protocol

import "bytes"

// models maps product names, as found in the version packet, to model codes.
// The order matters: the first exact match wins.
var models = []struct {
	name string
	id   uint32
}{
	{"Matrix", Matrix},
	{"Smart", Smart},
	{"Smart Apnea", SmartApnea},
	{"Icon HD", IconHD},
	{"Icon AIR", IconHDNet},
	{"Puck Pro", PuckPro},
	{"Nemo Wide 2", NemoWide2},
	{"Puck 2", Puck2},
	{"Quad Air", QuadAir},
	{"Smart Air", SmartAir},
	{"Quad", Quad},
}

// paddedName returns the name as it appears on the wire: NUL padded to the
// full product name field width.
func paddedName(name string) []byte {
	padded := make([]byte, ProductNameSize)
	copy(padded, name)
	return padded
}

// IdentifyModel resolves a version packet to a model code by comparing the
// product name field against the known names. Unrecognized names, or version
// packets that are too short, yield model 0.
func IdentifyModel(version []byte) uint32 {
	if len(version) < ProductNameOffset+ProductNameSize {
		return 0
	}
	field := version[ProductNameOffset : ProductNameOffset+ProductNameSize]
	for _, m := range models {
		if bytes.Equal(field, paddedName(m.name)) {
			return m.id
		}
	}
	return 0
}

// ProductName extracts the product name from a version packet, with the NUL
// padding stripped.
func ProductName(version []byte) string {
	if len(version) < ProductNameOffset+ProductNameSize {
		return ""
	}
	field := version[ProductNameOffset : ProductNameOffset+ProductNameSize]
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	return string(field)
}
