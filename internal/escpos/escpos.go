// Package escpos encodes receipt print jobs into the ESC/POS byte stream
// understood by thermal receipt printers.
//
// A job is an ordered list of Commands. Encode concatenates their bytes so the
// whole receipt can be written to the printer in a single transfer.
package escpos

import (
	"fmt"
	"strings"
)

const (
	esc = 0x1b
	gs  = 0x1d
	nul = 0x00
)

// Align is the justification set by ESC a.
type Align byte

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Font is the character font set by ESC M.
type Font byte

const (
	FontA Font = iota
	FontB
)

// Command is one print primitive of a job.
type Command interface {
	AppendTo(b []byte) ([]byte, error)
}

// Encode returns the bytes of cmds in order.
func Encode(cmds ...Command) ([]byte, error) {
	var b []byte
	for i, cmd := range cmds {
		var err error
		if b, err = cmd.AppendTo(b); err != nil {
			return nil, fmt.Errorf("[escpos] command %d (%T): %w", i, cmd, err)
		}
	}
	return b, nil
}

// Init resets the printer to its power-on settings.
type Init struct{}

func (Init) AppendTo(b []byte) ([]byte, error) {
	return append(b, esc, '@'), nil
}

// Text prints s as is; include "\n" to end the line.
type Text string

func (t Text) AppendTo(b []byte) ([]byte, error) {
	return append(b, t...), nil
}

// Lines prints each entry followed by a line feed. An empty entry is a blank line.
type Lines []string

func (l Lines) AppendTo(b []byte) ([]byte, error) {
	for _, line := range l {
		b = append(b, line...)
		b = append(b, '\n')
	}
	return b, nil
}

// Style selects the justification and font for the following text.
type Style struct {
	Align Align
	Font  Font
}

func (s Style) AppendTo(b []byte) ([]byte, error) {
	if s.Align > AlignRight {
		return b, fmt.Errorf("invalid align %d", s.Align)
	}
	if s.Font > FontB {
		return b, fmt.Errorf("invalid font %d", s.Font)
	}
	return append(b, esc, 'a', byte(s.Align), esc, 'M', byte(s.Font)), nil
}

// Feed prints n empty lines.
type Feed int

func (f Feed) AppendTo(b []byte) ([]byte, error) {
	if f < 0 {
		return b, fmt.Errorf("negative feed %d", int(f))
	}
	return append(b, strings.Repeat("\n", int(f))...), nil
}

// cutFeed moves the last printed line past the cutter.
const cutFeed = 6

// Cut feeds the paper clear of the print head and performs a full cut.
type Cut struct{}

func (Cut) AppendTo(b []byte) ([]byte, error) {
	b = append(b, strings.Repeat("\n", cutFeed)...)
	return append(b, gs, 'V', 0), nil
}
