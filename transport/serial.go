package transport

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// Serial is a byte-stream transport over a serial port.
type Serial struct {
	port serial.Port
}

var _ Transport = (*Serial)(nil)

// OpenSerial opens the serial port at path. The line discipline is left at
// the driver default until Configure is called.
func OpenSerial(path string) (*Serial, error) {
	port, err := serial.Open(path, &serial.Mode{BaudRate: 9600})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Serial{port: port}, nil
}

func (s *Serial) Kind() Kind {
	return KindStream
}

func (s *Serial) Configure(cfg LineConfig) error {
	if cfg.FlowControl != FlowControlNone {
		return fmt.Errorf("flow control not supported")
	}

	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
	}
	switch cfg.Parity {
	case ParityNone:
		mode.Parity = serial.NoParity
	case ParityOdd:
		mode.Parity = serial.OddParity
	case ParityEven:
		mode.Parity = serial.EvenParity
	}
	switch cfg.StopBits {
	case StopBitsOne:
		mode.StopBits = serial.OneStopBit
	case StopBitsTwo:
		mode.StopBits = serial.TwoStopBits
	}

	if err := s.port.SetMode(mode); err != nil {
		return fmt.Errorf("set mode: %w", err)
	}
	return nil
}

func (s *Serial) SetTimeout(d time.Duration) error {
	return s.port.SetReadTimeout(d)
}

func (s *Serial) SetDTR(v bool) error {
	return s.port.SetDTR(v)
}

func (s *Serial) SetRTS(v bool) error {
	return s.port.SetRTS(v)
}

func (s *Serial) Purge(d Direction) error {
	if d&DirectionInput != 0 {
		if err := s.port.ResetInputBuffer(); err != nil {
			return err
		}
	}
	if d&DirectionOutput != 0 {
		if err := s.port.ResetOutputBuffer(); err != nil {
			return err
		}
	}
	return nil
}

// Read reads up to len(p) bytes. On timeout it returns 0, nil, matching the
// underlying library.
func (s *Serial) Read(p []byte) (int, error) {
	return s.port.Read(p)
}

func (s *Serial) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

func (s *Serial) Close() error {
	return s.port.Close()
}
