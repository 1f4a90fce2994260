// Package device implements SerialDevice using go.bug.st/serial,
// which provides real serial communication support for the Arduino sensor board.
package device

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	serial "go.bug.st/serial"
)

// Port is the subset of serial.Port used by SerialDevice.
type Port interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}

// SerialDevice implements Device on top of a serial port.
// ReadLine returns a partial line when it times out, so a reply missing its
// terminator is still delivered; ReadFullLine keeps partial bytes for the next read.
type SerialDevice struct {
	mu      sync.Mutex
	port    Port
	pending []byte
}

// OpenPort opens dev at baud with 8N1 framing.
func OpenPort(dev string, baud int) (serial.Port, error) {
	return serial.Open(dev, &serial.Mode{
		BaudRate: baud,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	})
}

// NewSerialDevice creates and opens a serial device with the given path and baudrate.
func NewSerialDevice(dev string, baud int) (*SerialDevice, error) {
	p, err := OpenPort(dev, baud)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial %s: %w", dev, err)
	}
	return &SerialDevice{port: p}, nil
}

// NewSerialDeviceFromPort wraps an already opened port.
func NewSerialDeviceFromPort(p Port) *SerialDevice {
	return &SerialDevice{port: p}
}

// Close closes the underlying serial connection.
func (s *SerialDevice) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	s.pending = nil
	return err
}

// ReadLine reads a single line from the serial port, blocking until newline or timeout.
// The returned line keeps its terminator. With no bytes received before the timeout
// it returns ErrNoResponse; with some bytes it returns them as a partial line.
func (s *SerialDevice) ReadLine(timeout time.Duration) (string, error) {
	return s.readLine(timeout, true)
}

// ReadFullLine is ReadLine for a reader that must not split lines: bytes received
// without a newline stay buffered and the call returns ErrNoResponse.
func (s *SerialDevice) ReadFullLine(timeout time.Duration) (string, error) {
	return s.readLine(timeout, false)
}

func (s *SerialDevice) readLine(timeout time.Duration, partial bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return "", ErrNotOpen
	}
	if line, ok := s.takeLine(); ok {
		return line, nil
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	buf := make([]byte, 256)
	for {
		wait := serial.NoTimeout
		if timeout > 0 {
			wait = time.Until(deadline)
			if wait <= 0 {
				if !partial {
					return "", ErrNoResponse
				}
				return s.takePartial()
			}
		}
		if err := s.port.SetReadTimeout(wait); err != nil {
			return "", fmt.Errorf("set read timeout: %w", err)
		}
		n, err := s.port.Read(buf)
		if n > 0 {
			s.pending = append(s.pending, buf[:n]...)
			if line, ok := s.takeLine(); ok {
				return line, nil
			}
		}
		if err != nil {
			return "", err
		}
	}
}

// Discard drops buffered input, both read-ahead bytes and the driver's input buffer.
func (s *SerialDevice) Discard() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return ErrNotOpen
	}
	s.pending = nil
	return s.port.ResetInputBuffer()
}

// WriteLine writes a single line followed by '\n' to the serial port.
func (s *SerialDevice) WriteLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.port == nil {
		return ErrNotOpen
	}
	_, err := s.port.Write(append([]byte(line), '\n'))
	return err
}

func (s *SerialDevice) takeLine() (string, bool) {
	i := bytes.IndexByte(s.pending, '\n')
	if i < 0 {
		return "", false
	}
	line := string(s.pending[:i+1])
	s.pending = s.pending[i+1:]
	return line, true
}

func (s *SerialDevice) takePartial() (string, error) {
	if len(s.pending) == 0 {
		return "", ErrNoResponse
	}
	line := string(s.pending)
	s.pending = nil
	return line, nil
}
