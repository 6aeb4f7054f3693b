// Package protocol implements the Mares Icon HD family communication protocol.
//
// This package provides the wire-level constants, command builders and lookup
// tables shared by the whole Icon HD model family (Matrix, Smart, Smart Apnea,
// Icon HD, Icon AIR, Puck Pro, Nemo Wide 2, Puck 2, Quad Air, Smart Air, Quad).
// It performs no I/O.
//
// # Protocol Overview
//
// Each exchange is a single command/response pair:
//
//	Command:  [OPCODE][SUBOP][PAYLOAD...]
//	Response: [ACK][ANSWER...][EOP]
//
// Where:
//   - ACK = acknowledge marker (0xAA), sent after the first two command bytes
//   - EOP = end of answer marker (0xEA)
//
// The device acknowledges the two opcode bytes before the rest of the command
// is sent, so a command is always written in two parts.
//
// # Command Builders
//
// Use the Build* functions to create command frames:
//
//	cmd := protocol.BuildVersionCmd()
//	cmd := protocol.BuildReadCmd(address, length)
//
// # Model Detection
//
// The 140-byte answer to the version command carries a 16-byte product name
// at a fixed offset. IdentifyModel resolves it to a model code, and
// LayoutForModel maps the model code to its memory layout and packet size:
//
//	model := protocol.IdentifyModel(version)
//	layout, packetsize := protocol.LayoutForModel(model)
//
// # Dive Record Geometry
//
// Dive records in the profile ring buffer are variable length; their shape
// depends on the model and, for some models, on the dive mode. RecordGeometry
// and RecordSize encode the per-model header size, sample size, fingerprint
// offset and the auxiliary block corrections. These values are reverse
// engineered from real devices and must be preserved as-is.
package protocol
