package escpos

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBarcode is returned for a code the barcode type cannot carry.
var ErrInvalidBarcode = errors.New("invalid barcode")

// HRI positions for the human readable digits.
const (
	HRINone byte = iota
	HRIAbove
	HRIBelow
	HRIBoth
)

// barcodeTypes maps names to the GS k function A type byte.
var barcodeTypes = map[string]byte{
	"UPC-A": 0,
	"UPC-E": 1,
	"EAN13": 2,
	"EAN8":  3,
}

// Barcode prints Code with GS k. Height is in dots (1-255), Width is the module width (2-6).
type Barcode struct {
	Code     string
	Type     string
	Height   int
	Width    int
	Position byte
	Font     Font
	Center   bool
}

func (bc Barcode) AppendTo(b []byte) ([]byte, error) {
	kind, ok := barcodeTypes[strings.ToUpper(bc.Type)]
	if !ok {
		return b, fmt.Errorf("%w: unsupported type %q", ErrInvalidBarcode, bc.Type)
	}
	if err := validateBarcode(kind, bc.Code); err != nil {
		return b, err
	}
	if bc.Height < 1 || bc.Height > 255 {
		return b, fmt.Errorf("barcode height %d out of range 1-255", bc.Height)
	}
	if bc.Width < 2 || bc.Width > 6 {
		return b, fmt.Errorf("barcode width %d out of range 2-6", bc.Width)
	}
	if bc.Position > HRIBoth {
		return b, fmt.Errorf("invalid hri position %d", bc.Position)
	}

	if bc.Center {
		b = append(b, esc, 'a', byte(AlignCenter))
	}
	b = append(b,
		gs, 'h', byte(bc.Height),
		gs, 'w', byte(bc.Width),
		gs, 'f', byte(bc.Font),
		gs, 'H', bc.Position,
		gs, 'k', kind)
	b = append(b, bc.Code...)
	return append(b, nul), nil
}

func validateBarcode(kind byte, code string) error {
	for _, c := range code {
		if c < '0' || c > '9' {
			return fmt.Errorf("%w: %q is not numeric", ErrInvalidBarcode, code)
		}
	}
	var lengths []int
	switch kind {
	case 0:
		lengths = []int{11, 12}
	case 1:
		lengths = []int{6, 7, 8, 11, 12}
	case 2:
		lengths = []int{12, 13}
	case 3:
		lengths = []int{7, 8}
	}
	valid := false
	for _, n := range lengths {
		valid = valid || len(code) == n
	}
	if !valid {
		return fmt.Errorf("%w: %q has %d digits", ErrInvalidBarcode, code, len(code))
	}
	if kind == 2 && len(code) == 13 && code[12] != EANCheckDigit(code[:12]) {
		return fmt.Errorf("%w: %q check digit mismatch", ErrInvalidBarcode, code)
	}
	return nil
}

// EANCheckDigit returns the check digit of the EAN/UPC data digits.
func EANCheckDigit(digits string) byte {
	sum := 0
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		// weights alternate 3,1 from the rightmost data digit
		if (len(digits)-1-i)%2 == 0 {
			d *= 3
		}
		sum += d
	}
	return byte('0' + (10-sum%10)%10)
}
