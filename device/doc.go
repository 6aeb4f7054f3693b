// Package device provides a high-level API for downloading dive logs from
// Mares Icon HD family dive computers.
//
// # Overview
//
// A Device is one open session on a dive computer, over a serial or BLE
// transport. Opening a session configures the link, fetches the version
// packet and autodetects the model and its memory layout. The session then
// supports addressed memory reads, full memory dumps and dive enumeration.
//
// # Basic Usage
//
//	port, err := transport.OpenSerial("/dev/ttyUSB0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dev, err := device.Open(context.Background(), port)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	err = dev.ForEach(context.Background(), func(dive, fingerprint []byte) bool {
//	    store(dive, fingerprint)
//	    return true
//	})
//
// # Incremental Downloads
//
// Every dive record carries a 10-byte fingerprint. Store the fingerprint of
// the newest downloaded dive and hand it back on the next session; the
// enumeration then stops as soon as it reaches a dive that was already
// retrieved:
//
//	dev.SetFingerprint(lastFingerprint)
//	err = dev.ForEach(ctx, callback)
//
// Dives are always delivered newest first. The dive and fingerprint slices
// passed to the callback are only valid for the duration of the call.
//
// # Configuration Options
//
// Customize behaviour with functional options:
//
//	dev, err := device.Open(ctx, port,
//	    device.WithLogger(logger),
//	    device.WithProgressCallback(progressFunc),
//	    device.WithDeviceInfoCallback(infoFunc),
//	    device.WithVendorCallback(vendorFunc),
//	)
//
// # Cancellation
//
// All operations take a context. Cancellation is cooperative: the context is
// polled once per command/response exchange, so an in-flight exchange runs
// to completion before the operation returns ErrCancelled.
//
// # Error Handling
//
// Failures are reported as error values matching the sentinels in the
// protocol package via errors.Is. Corrupted exchanges (protocol.ErrProtocol,
// protocol.ErrTimeout) are retried transparently up to protocol.MaxRetries
// times; transport failures are passed through wrapped and never retried.
// Ring buffer anomalies found while enumerating (truncated record, length
// mismatch, uninitialized data) terminate the walk cleanly with a nil error:
// the caller keeps every dive delivered before the stop.
package device
