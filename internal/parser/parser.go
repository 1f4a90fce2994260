// Package parser converts between sensor names and the Arduino's plaintext wire format.
//
// Command wire format (host -> board):
//
//	SENSOR_NAME\n
//
// Reply wire format (board -> host), one line per command:
//
//	VALUE\n        e.g. 36.5, 172, 120/80
package parser

import (
	"errors"
	"strings"
	"unicode/utf8"

	"VitalsKiosk/internal/model"
)

// ErrInvalidEncoding is returned for reply bytes that are not UTF-8.
var ErrInvalidEncoding = errors.New("reply is not valid utf-8")

// EncodeCommand returns the command line for a sensor, without the terminator.
func EncodeCommand(name model.SensorName) string {
	return string(name)
}

// DecodeCommand parses a command line received by the board.
func DecodeCommand(line string) (model.SensorName, bool) {
	return model.ParseSensorName(strings.TrimSpace(line))
}

// DecodeReply turns a raw reply line into the stored reading.
// Surrounding whitespace and the line terminator are removed; an empty reply is kept as "".
func DecodeReply(line string) (string, error) {
	if !utf8.ValidString(line) {
		return "", ErrInvalidEncoding
	}
	return strings.TrimSpace(line), nil
}

// ErrorValue formats a failed fetch the way it is stored and served to pollers.
func ErrorValue(err error) string {
	return "Error: " + err.Error()
}
