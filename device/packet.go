package device

import (
	"context"
	"errors"
	"fmt"

	"github.com/diveframe/go-iconhd/protocol"
	"github.com/diveframe/go-iconhd/transport"
)

// packet performs one command/response exchange: send the two opcode bytes,
// require the ACK byte, send the command payload, read the answer, require
// the EOP byte. The context is polled once here, before any byte moves.
func (d *Device) packet(ctx context.Context, command, answer []byte) error {
	if len(command) < 2 {
		return fmt.Errorf("%w: command shorter than opcode", protocol.ErrInvalidArgs)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", protocol.ErrCancelled, err)
	}

	// Send the command header.
	if err := d.writeFull(command[:2]); err != nil {
		return fmt.Errorf("send command: %w", err)
	}

	var header [1]byte
	if err := d.readFull(header[:]); err != nil {
		return fmt.Errorf("receive ack: %w", err)
	}
	if header[0] != protocol.Ack {
		return fmt.Errorf("%w: ack 0x%02X", protocol.ErrProtocol, header[0])
	}

	// Send the command payload.
	if len(command) > 2 {
		if err := d.writeFull(command[2:]); err != nil {
			return fmt.Errorf("send command: %w", err)
		}
	}

	if err := d.readFull(answer); err != nil {
		return fmt.Errorf("receive answer: %w", err)
	}

	var trailer [1]byte
	if err := d.readFull(trailer[:]); err != nil {
		return fmt.Errorf("receive eop: %w", err)
	}
	if trailer[0] != protocol.Eop {
		return fmt.Errorf("%w: eop 0x%02X", protocol.ErrProtocol, trailer[0])
	}

	return nil
}

// transfer performs one exchange with retries. A corrupted packet
// (ErrProtocol) or a timeout is discarded and the exchange repeated, up to
// protocol.MaxRetries retries; every other failure propagates unchanged.
// This is the only retry boundary in the backend.
func (d *Device) transfer(ctx context.Context, command, answer []byte) error {
	nretries := 0
	for {
		err := d.packet(ctx, command, answer)
		if err == nil {
			return nil
		}

		if !errors.Is(err, protocol.ErrProtocol) && !errors.Is(err, protocol.ErrTimeout) {
			return err
		}
		if nretries >= protocol.MaxRetries {
			return err
		}
		nretries++

		d.cfg.logger.Debug().
			Err(err).
			Int("attempt", nretries).
			Msg("discarding corrupted packet")

		// Discard any garbage bytes before the next attempt.
		d.available = 0
		d.offset = 0
		d.transport.Purge(transport.DirectionInput)
	}
}
