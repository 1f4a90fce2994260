package escpos

import (
	"errors"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// qrQuietZone is the white border around the symbol, in modules.
const qrQuietZone = 1

// QR prints Content as a QR code bitmap of Size dots per module.
// EC selects the error correction level: 0=L 1=M 2=Q 3=H.
type QR struct {
	Content    string
	Size       int
	EC         int
	Center     bool
	PaperWidth int
}

func qrLevel(ec int) (qrcode.RecoveryLevel, error) {
	switch ec {
	case 0:
		return qrcode.Low, nil
	case 1:
		return qrcode.Medium, nil
	case 2:
		return qrcode.High, nil
	case 3:
		return qrcode.Highest, nil
	}
	return 0, fmt.Errorf("invalid qr error correction %d", ec)
}

// Raster renders the symbol with its quiet zone.
func (q QR) Raster() (*Raster, error) {
	if q.Content == "" {
		return nil, errors.New("empty qr content")
	}
	if q.Size < 1 || q.Size > 16 {
		return nil, fmt.Errorf("qr size %d out of range 1-16", q.Size)
	}
	level, err := qrLevel(q.EC)
	if err != nil {
		return nil, err
	}
	code, err := qrcode.New(q.Content, level)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	code.DisableBorder = true
	modules := code.Bitmap()

	side := (len(modules) + 2*qrQuietZone) * q.Size
	r := NewRaster(side, side)
	for my, row := range modules {
		for mx, black := range row {
			if !black {
				continue
			}
			top := (my + qrQuietZone) * q.Size
			left := (mx + qrQuietZone) * q.Size
			for y := top; y < top+q.Size; y++ {
				for x := left; x < left+q.Size; x++ {
					r.Set(x, y)
				}
			}
		}
	}
	return r, nil
}

func (q QR) AppendTo(b []byte) ([]byte, error) {
	r, err := q.Raster()
	if err != nil {
		return b, err
	}
	return Image{Raster: r, Center: q.Center, PaperWidth: q.PaperWidth}.AppendTo(b)
}
