// Package device implements an Arduino serial link,
// which answers one measurement line per sensor command.
package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"
)

// ArduinoDevice represents a serial-connected Arduino that takes measurements on request.
type ArduinoDevice struct {
	ID          string
	Device      string
	Baud        int
	ReadTimeout time.Duration
	ResetDelay  time.Duration
	Serial      *SerialDevice

	connected atomic.Bool
	log       *slog.Logger
}

// NewArduinoDevice creates a new Arduino device handler.
func NewArduinoDevice(id, device string, baud int) *ArduinoDevice {
	return &ArduinoDevice{
		ID:          id,
		Device:      device,
		Baud:        baud,
		ReadTimeout: 2 * time.Second,
		log:         slog.Default().With("component", "arduino", "id", id),
	}
}

// Attach uses an already opened serial device instead of opening Device.
func (arduino *ArduinoDevice) Attach(sd *SerialDevice) {
	arduino.Serial = sd
	arduino.connected.Store(sd != nil)
}

// --- Implementation of Device interface ---

// Open initializes the Arduino serial connection and waits for the board to reset.
func (arduino *ArduinoDevice) Open() error {
	if arduino.Serial != nil {
		return nil
	}
	serialDevice, err := NewSerialDevice(arduino.Device, arduino.Baud)
	if err != nil {
		return fmt.Errorf("open arduino serial failed: %w", err)
	}
	// opening the port toggles DTR, which resets most boards
	time.Sleep(arduino.ResetDelay)
	arduino.Attach(serialDevice)
	arduino.log.Debug("serial port open", "device", arduino.Device, "baud", arduino.Baud)
	return nil
}

// Connected reports whether the serial port is open.
func (arduino *ArduinoDevice) Connected() bool {
	return arduino.connected.Load()
}

// Close terminates the serial connection safely.
func (arduino *ArduinoDevice) Close() error {
	if arduino.Serial == nil {
		return nil
	}
	arduino.connected.Store(false)
	err := arduino.Serial.Close()
	arduino.Serial = nil
	return err
}

// ReadLine reads a single line of data from the Arduino.
func (arduino *ArduinoDevice) ReadLine(timeout time.Duration) (string, error) {
	if arduino.Serial == nil {
		return "", ErrNotOpen
	}
	return arduino.Serial.ReadLine(timeout)
}

// WriteLine writes a command or message to the Arduino.
func (arduino *ArduinoDevice) WriteLine(line string) error {
	if arduino.Serial == nil {
		return ErrNotOpen
	}
	return arduino.Serial.WriteLine(line)
}

// --- Additional behavior ---

// Query sends command, waits for the board to measure, then reads one reply line.
// Input left over from an earlier command is discarded first, so a late reply
// is never taken as the answer to this one.
// After wait the read keeps going for up to ReadTimeout rather than only taking
// what is already buffered. It returns ErrNoResponse when nothing arrived.
func (arduino *ArduinoDevice) Query(ctx context.Context, command string, wait time.Duration) (string, error) {
	if arduino.Serial == nil {
		return "", ErrNotOpen
	}
	if err := arduino.Serial.Discard(); err != nil {
		return "", fmt.Errorf("discard stale input: %w", err)
	}
	if err := arduino.WriteLine(command); err != nil {
		return "", fmt.Errorf("write %q: %w", command, err)
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
	}

	line, err := arduino.ReadLine(arduino.ReadTimeout)
	if err != nil {
		if errors.Is(err, ErrNoResponse) {
			return "", err
		}
		return "", fmt.Errorf("read reply to %q: %w", command, err)
	}
	return strings.TrimSpace(line), nil
}

// Simulate plays the board side of the link: every command line read from the port
// is answered with reply(command) until stop is closed.
func (arduino *ArduinoDevice) Simulate(stop <-chan struct{}, reply func(command string) string) error {
	if err := arduino.Open(); err != nil {
		return err
	}
	defer func() {
		if err := arduino.Close(); err != nil {
			arduino.log.Warn("failed to close arduino device", "err", err)
		}
	}()

	arduino.log.Info("simulator started", "device", arduino.Device, "baud", arduino.Baud)

	for {
		select {
		case <-stop:
			arduino.log.Info("simulation stopped")
			return nil
		default:
		}

		// a command split across read windows is kept buffered until its newline
		dataIn, err := arduino.Serial.ReadFullLine(200 * time.Millisecond)
		if err != nil {
			if !errors.Is(err, ErrNoResponse) {
				arduino.log.Warn("simulate read error", "err", err)
				time.Sleep(200 * time.Millisecond)
			}
			continue
		}
		command := strings.TrimSpace(dataIn)
		if command == "" {
			continue
		}

		answer := reply(command)
		if err := arduino.WriteLine(answer); err != nil {
			arduino.log.Warn("simulate write error", "err", err)
		} else {
			arduino.log.Debug("simulate reply", "command", command, "reply", answer)
		}
	}
}
