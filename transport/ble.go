package transport

import (
	"fmt"
	"strings"
	"time"

	"tinygo.org/x/bluetooth"
)

// UART-style GATT service exposed by the BLE bridge.
const (
	bleServiceUUID = "6e400001-b5a3-f393-e0a9-e50e24dcca9e"
	bleWriteUUID   = "6e400002-b5a3-f393-e0a9-e50e24dcca9e"
	bleNotifyUUID  = "6e400003-b5a3-f393-e0a9-e50e24dcca9e"
)

// bleFrameSize is the largest notification frame the bridge sends.
const bleFrameSize = 20

// bleScanWindow bounds the scan for the requested peripheral.
const bleScanWindow = 30 * time.Second

// BLE is a frame-oriented transport over a GATT write/notify characteristic
// pair. Incoming notifications are queued as whole frames; each Read
// delivers at most one frame.
type BLE struct {
	device  bluetooth.Device
	tx      bluetooth.DeviceCharacteristic
	rx      bluetooth.DeviceCharacteristic
	frames  chan []byte
	timeout time.Duration
}

var _ Transport = (*BLE)(nil)

// OpenBLE scans for the peripheral with the given address (or, if the
// address does not match, the given name prefix), connects and subscribes to
// the UART-style service.
func OpenBLE(address string) (*BLE, error) {
	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("enable adapter: %w", err)
	}

	var found bluetooth.ScanResult
	matched := false
	stop := time.AfterFunc(bleScanWindow, func() { adapter.StopScan() })
	err := adapter.Scan(func(a *bluetooth.Adapter, result bluetooth.ScanResult) {
		if strings.EqualFold(result.Address.String(), address) ||
			strings.HasPrefix(result.LocalName(), address) {
			found = result
			matched = true
			a.StopScan()
		}
	})
	stop.Stop()
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if !matched {
		return nil, fmt.Errorf("peripheral %q not found", address)
	}

	device, err := adapter.Connect(found.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", found.Address.String(), err)
	}

	t := &BLE{
		device:  device,
		frames:  make(chan []byte, 64),
		timeout: time.Second,
	}
	if err := t.subscribe(); err != nil {
		device.Disconnect()
		return nil, err
	}
	return t, nil
}

func (t *BLE) subscribe() error {
	svcUUID, err := bluetooth.ParseUUID(bleServiceUUID)
	if err != nil {
		return err
	}
	writeUUID, err := bluetooth.ParseUUID(bleWriteUUID)
	if err != nil {
		return err
	}
	notifyUUID, err := bluetooth.ParseUUID(bleNotifyUUID)
	if err != nil {
		return err
	}

	svcs, err := t.device.DiscoverServices([]bluetooth.UUID{svcUUID})
	if err != nil {
		return fmt.Errorf("discover services: %w", err)
	}
	if len(svcs) == 0 {
		return fmt.Errorf("service %s not found", bleServiceUUID)
	}

	chars, err := svcs[0].DiscoverCharacteristics([]bluetooth.UUID{writeUUID, notifyUUID})
	if err != nil {
		return fmt.Errorf("discover characteristics: %w", err)
	}
	if len(chars) < 2 {
		return fmt.Errorf("write/notify characteristics not found")
	}
	t.tx = chars[0]
	t.rx = chars[1]

	err = t.rx.EnableNotifications(func(buf []byte) {
		frame := make([]byte, len(buf))
		copy(frame, buf)
		select {
		case t.frames <- frame:
		default:
			// Queue full; the session is out of sync anyway and will
			// purge and retry.
		}
	})
	if err != nil {
		return fmt.Errorf("enable notifications: %w", err)
	}
	return nil
}

func (t *BLE) Kind() Kind {
	return KindFrame
}

// Configure is a no-op: BLE links have no line discipline.
func (t *BLE) Configure(cfg LineConfig) error {
	return nil
}

func (t *BLE) SetTimeout(d time.Duration) error {
	t.timeout = d
	return nil
}

// SetDTR is a no-op: BLE links have no control lines.
func (t *BLE) SetDTR(v bool) error {
	return nil
}

// SetRTS is a no-op: BLE links have no control lines.
func (t *BLE) SetRTS(v bool) error {
	return nil
}

func (t *BLE) Purge(d Direction) error {
	if d&DirectionInput != 0 {
		for {
			select {
			case <-t.frames:
			default:
				return nil
			}
		}
	}
	return nil
}

// Read delivers one queued notification frame, truncated to len(p). On
// timeout it returns 0, nil.
func (t *BLE) Read(p []byte) (int, error) {
	select {
	case frame := <-t.frames:
		n := copy(p, frame)
		return n, nil
	case <-time.After(t.timeout):
		return 0, nil
	}
}

func (t *BLE) Write(p []byte) (int, error) {
	return t.tx.WriteWithoutResponse(p)
}

func (t *BLE) Close() error {
	return t.device.Disconnect()
}
