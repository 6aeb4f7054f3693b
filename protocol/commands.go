package protocol

import "encoding/binary"

// Command opcodes. Every command starts with a two-byte opcode that the
// device acknowledges before the payload is transferred.
var (
	cmdVersion = [2]byte{0xC2, 0x67}
	cmdRead    = [2]byte{0xE7, 0x42}
)

// BuildVersionCmd builds the version command. The answer is VersionSize
// bytes.
func BuildVersionCmd() []byte {
	return []byte{cmdVersion[0], cmdVersion[1]}
}

// BuildReadCmd builds a memory read command for the given address and length.
// The answer is length bytes.
func BuildReadCmd(address, length uint32) []byte {
	cmd := make([]byte, 10)
	cmd[0] = cmdRead[0]
	cmd[1] = cmdRead[1]
	binary.LittleEndian.PutUint32(cmd[2:], address)
	binary.LittleEndian.PutUint32(cmd[6:], length)
	return cmd
}
