// Package device defines a unified interface for the kiosk's hardware links:
// the Arduino sensor board on a serial port and the ESC/POS receipt printer on USB.
package device

import (
	"errors"
	"time"
)

// Errors shared by device implementations.
var (
	ErrNotOpen    = errors.New("serial port not open")
	ErrNoResponse = errors.New("no data before read timeout")
)

// Device defines an abstract interface for line-based communication devices.
type Device interface {
	// ReadLine reads a single line terminated by '\n'.
	// If timeout > 0, it must return after timeout even if no data available.
	ReadLine(timeout time.Duration) (string, error)

	// WriteLine writes s followed by '\n' to the device.
	WriteLine(s string) error

	// Close closes the device and releases underlying resources.
	Close() error
}

var (
	_ Device = (*SerialDevice)(nil)
	_ Device = (*ArduinoDevice)(nil)
)
