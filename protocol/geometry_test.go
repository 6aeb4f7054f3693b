package protocol

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMiniHeaderSize(t *testing.T) {
	assert.Equal(t, 0x5C, MiniHeaderSize(Puck2))
	assert.Equal(t, 0x5C, MiniHeaderSize(IconHD))
	assert.Equal(t, 0x80, MiniHeaderSize(IconHDNet))
	assert.Equal(t, 0x84, MiniHeaderSize(QuadAir))
	assert.Equal(t, 4, MiniHeaderSize(Smart))
	assert.Equal(t, 4, MiniHeaderSize(SmartAir))
	assert.Equal(t, 6, MiniHeaderSize(SmartApnea))
}

func TestMiniHeaderFields(t *testing.T) {
	mini := []byte{0x01, 0x00, 0x20, 0x00}

	// Most models store the type first.
	divetype, nsamples := MiniHeaderFields(Puck2, mini)
	assert.Equal(t, uint16(0x01), divetype)
	assert.Equal(t, uint16(0x20), nsamples)

	// The Smart family stores the sample count first.
	divetype, nsamples = MiniHeaderFields(Smart, mini)
	assert.Equal(t, uint16(0x20), divetype)
	assert.Equal(t, uint16(0x01), nsamples)
}

func TestRecordGeometry(t *testing.T) {
	tests := []struct {
		name  string
		model uint32
		mode  int
		geo   Geometry
	}{
		{"default", Puck2, Air, Geometry{0x5C, 8, 6}},
		{"icon air", IconHDNet, Nitrox, Geometry{0x80, 12, 6}},
		{"quad air", QuadAir, Air, Geometry{0x84, 12, 6}},
		{"smart scuba", Smart, Air, Geometry{0x5C, 8, 2}},
		{"smart freedive", Smart, Freedive, Geometry{0x2E, 6, 0x20}},
		{"smart apnea", SmartApnea, Freedive, Geometry{0x50, 14, 0x40}},
		{"smart air", SmartAir, Air, Geometry{0x84, 12, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.geo, RecordGeometry(tt.model, tt.mode))
		})
	}
}

func TestRecordSize(t *testing.T) {
	geo := RecordGeometry(Puck2, Air)
	assert.Equal(t, 4+0x5C+10*8, RecordSize(Puck2, geo, 10, make([]byte, geo.HeaderSize)))
}

func TestRecordSizeAuxBlocks(t *testing.T) {
	// One 8-byte block per full group of 4 samples.
	geo := RecordGeometry(IconHDNet, Air)
	header := make([]byte, geo.HeaderSize)
	assert.Equal(t, 4+0x80+10*12+2*8, RecordSize(IconHDNet, geo, 10, header))
	assert.Equal(t, 4+0x80+3*12, RecordSize(IconHDNet, geo, 3, header))
}

func TestRecordSizeSmartApnea(t *testing.T) {
	geo := RecordGeometry(SmartApnea, Freedive)
	header := make([]byte, geo.HeaderSize)

	// samplerate = 1 << ((settings >> 9) & 3) = 4, divetime = 90.
	binary.LittleEndian.PutUint16(header[0x1C:], 2<<9)
	binary.LittleEndian.PutUint32(header[0x24:], 90)

	assert.Equal(t, 4+0x50+5*14+90*4*2, RecordSize(SmartApnea, geo, 5, header))
}
