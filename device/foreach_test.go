package device

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diveframe/go-iconhd/protocol"
	"github.com/diveframe/go-iconhd/simulator"
)

func fp(b byte) []byte {
	return bytes.Repeat([]byte{b}, protocol.FingerprintSize)
}

// collect runs an enumeration and returns the delivered records and
// fingerprints, copied out of the callback's transient slices.
func collect(t *testing.T, dev *Device) (dives [][]byte, prints [][]byte) {
	t.Helper()

	err := dev.ForEach(context.Background(), func(dive, fingerprint []byte) bool {
		dives = append(dives, append([]byte(nil), dive...))
		prints = append(prints, append([]byte(nil), fingerprint...))
		return true
	})
	require.NoError(t, err)
	return dives, prints
}

func TestForEachNewestFirst(t *testing.T) {
	dev, sim := openSimulated(t, "Puck 2")
	records := sim.LoadDives(
		simulator.Dive{Mode: protocol.Air, NSamples: 4, Fingerprint: fp(1)},
		simulator.Dive{Mode: protocol.Nitrox, NSamples: 7, Fingerprint: fp(2)},
		simulator.Dive{Mode: protocol.Gauge, NSamples: 2, Fingerprint: fp(3)},
	)

	dives, prints := collect(t, dev)

	require.Equal(t, records, dives)
	assert.Equal(t, [][]byte{fp(3), fp(2), fp(1)}, prints)
}

func TestForEachEmptyRing(t *testing.T) {
	// Factory-fresh device: both pointer candidates read as the sentinel.
	dev, _ := openSimulated(t, "Puck 2")

	dives, _ := collect(t, dev)
	assert.Empty(t, dives)
}

func TestForEachPointerAtRingStart(t *testing.T) {
	dev, sim := openSimulated(t, "Puck 2")
	sim.SetEOP(protocol.EopAddresses[0], dev.Layout().RBProfileBegin)

	dives, _ := collect(t, dev)
	assert.Empty(t, dives)
}

func TestForEachSecondPointerCandidate(t *testing.T) {
	dev, sim := openSimulated(t, "Puck 2")
	records := sim.LoadDives(
		simulator.Dive{Mode: protocol.Air, NSamples: 4, Fingerprint: fp(1)},
	)

	// Move the write pointer to the second candidate address; the first
	// reads as the sentinel.
	eop := binary.LittleEndian.Uint32(sim.Memory()[protocol.EopAddresses[0]:])
	sim.SetEOP(protocol.EopAddresses[0], protocol.Sentinel32)
	sim.SetEOP(protocol.EopAddresses[1], eop)

	dives, _ := collect(t, dev)
	assert.Equal(t, records, dives)
}

func TestForEachPointerOutOfRange(t *testing.T) {
	dev, sim := openSimulated(t, "Puck 2")
	sim.SetEOP(protocol.EopAddresses[0], dev.Layout().RBProfileBegin-4)

	err := dev.ForEach(context.Background(), nil)
	assert.ErrorIs(t, err, protocol.ErrDataFormat)
}

func TestForEachLengthMismatchStops(t *testing.T) {
	dev, sim := openSimulated(t, "Puck 2")
	records := sim.LoadDives(
		simulator.Dive{Mode: protocol.Air, NSamples: 4, Fingerprint: fp(1)},
		simulator.Dive{Mode: protocol.Air, NSamples: 5, Fingerprint: fp(2)},
		simulator.Dive{Mode: protocol.Air, NSamples: 6, Fingerprint: fp(3)},
	)

	// Corrupt the stored length of the oldest record, which sits at the
	// start of the ring.
	begin := dev.Layout().RBProfileBegin
	stored := binary.LittleEndian.Uint32(sim.Memory()[begin:])
	binary.LittleEndian.PutUint32(sim.Memory()[begin:], stored+1)

	// The two newer dives are delivered before the walk stops cleanly.
	dives, _ := collect(t, dev)
	assert.Equal(t, records[:2], dives)
}

func TestForEachTruncatedRecordStops(t *testing.T) {
	dev, sim := openSimulated(t, "Puck 2")

	// Craft a header whose sample count declares a record larger than the
	// whole ring: the profile data was overwritten at the wrap boundary.
	begin := dev.Layout().RBProfileBegin
	geo := protocol.RecordGeometry(protocol.Puck2, protocol.Air)
	header := sim.Memory()[begin+4 : begin+4+uint32(geo.HeaderSize)]
	binary.LittleEndian.PutUint16(header[0:], 0x4|protocol.Air)
	binary.LittleEndian.PutUint16(header[2:], 0x8000)
	sim.SetEOP(protocol.EopAddresses[0], begin+4+uint32(geo.HeaderSize))

	dives, _ := collect(t, dev)
	assert.Empty(t, dives)
}

func TestForEachFingerprintBoundary(t *testing.T) {
	dev, sim := openSimulated(t, "Puck 2")
	records := sim.LoadDives(
		simulator.Dive{Mode: protocol.Air, NSamples: 4, Fingerprint: fp(1)},
		simulator.Dive{Mode: protocol.Air, NSamples: 5, Fingerprint: fp(2)},
		simulator.Dive{Mode: protocol.Air, NSamples: 6, Fingerprint: fp(3)},
	)

	// Only dives newer than the fingerprinted one are delivered.
	require.NoError(t, dev.SetFingerprint(fp(2)))
	dives, prints := collect(t, dev)
	assert.Equal(t, records[:1], dives)
	assert.Equal(t, [][]byte{fp(3)}, prints)

	// Clearing the fingerprint re-enables the full download.
	require.NoError(t, dev.SetFingerprint(nil))
	dives, _ = collect(t, dev)
	assert.Equal(t, records, dives)
}

func TestForEachCallbackStops(t *testing.T) {
	dev, sim := openSimulated(t, "Puck 2")
	records := sim.LoadDives(
		simulator.Dive{Mode: protocol.Air, NSamples: 4, Fingerprint: fp(1)},
		simulator.Dive{Mode: protocol.Air, NSamples: 5, Fingerprint: fp(2)},
	)

	var dives [][]byte
	err := dev.ForEach(context.Background(), func(dive, fingerprint []byte) bool {
		dives = append(dives, append([]byte(nil), dive...))
		return false
	})
	require.NoError(t, err)
	assert.Equal(t, records[:1], dives)
}

func TestForEachEvents(t *testing.T) {
	var infos []DeviceInfo
	var progress []Progress

	sim := simulator.New("Puck 2")
	sim.SetSerial(777)
	dev, err := Open(context.Background(), sim,
		WithDeviceInfoCallback(func(info DeviceInfo) { infos = append(infos, info) }),
		WithProgressCallback(func(p Progress) { progress = append(progress, p) }),
	)
	require.NoError(t, err)
	sim.LoadDives(
		simulator.Dive{Mode: protocol.Air, NSamples: 4, Fingerprint: fp(1)},
	)

	require.NoError(t, dev.ForEach(context.Background(), func(dive, fingerprint []byte) bool { return true }))

	require.Len(t, infos, 1)
	assert.Equal(t, DeviceInfo{Model: protocol.Puck2, Firmware: 0, Serial: 777}, infos[0])

	require.NotEmpty(t, progress)
	last := Progress{}
	for _, p := range progress {
		assert.GreaterOrEqual(t, p.Current, last.Current, "progress must never decrease")
		assert.LessOrEqual(t, p.Current, p.Maximum)
		last = p
	}
}

func TestForEachSmartModes(t *testing.T) {
	// The Smart mixes record shapes: freedive records use a shorter
	// header and smaller samples than the scuba modes, and the type and
	// sample count fields are stored count-first.
	dev, sim := openSimulated(t, "Smart")
	records := sim.LoadDives(
		simulator.Dive{Mode: protocol.Air, NSamples: 5, Fingerprint: fp(1)},
		simulator.Dive{Mode: protocol.Freedive, NSamples: 8, Fingerprint: fp(2)},
		simulator.Dive{Mode: protocol.Nitrox, NSamples: 3, Fingerprint: fp(3)},
	)

	dives, prints := collect(t, dev)
	require.Equal(t, records, dives)
	assert.Equal(t, [][]byte{fp(3), fp(2), fp(1)}, prints)
}

func TestForEachSmartApnea(t *testing.T) {
	dev, sim := openSimulated(t, "Smart Apnea")
	records := sim.LoadDives(
		simulator.Dive{Mode: protocol.Freedive, NSamples: 3, Fingerprint: fp(1), DiveTime: 10, SampleRateExp: 1},
		simulator.Dive{Mode: protocol.Freedive, NSamples: 5, Fingerprint: fp(2), DiveTime: 25, SampleRateExp: 2},
	)

	dives, _ := collect(t, dev)
	require.Equal(t, records, dives)
}

func TestForEachFrameTransport(t *testing.T) {
	sim := simulator.New("Puck 2")
	sim.SetFrameKind()
	dev, err := Open(context.Background(), sim)
	require.NoError(t, err)

	records := sim.LoadDives(
		simulator.Dive{Mode: protocol.Air, NSamples: 4, Fingerprint: fp(1)},
		simulator.Dive{Mode: protocol.Air, NSamples: 9, Fingerprint: fp(2)},
	)

	dives, _ := collect(t, dev)
	assert.Equal(t, records, dives)
}
