package escpos

import (
	"errors"
	"image"
	"image/color"
)

// maxRasterRows is the tallest band sent in one GS v 0 command;
// taller images are split so the printer buffer does not overflow.
const maxRasterRows = 960

// Raster is a 1-bit bitmap packed eight dots per byte, most significant bit leftmost.
// A set bit prints a black dot.
type Raster struct {
	Width  int
	Height int
	Bits   []byte
}

// NewRaster allocates a white raster.
func NewRaster(width, height int) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		Bits:   make([]byte, (width+7)/8*height),
	}
}

// RasterFromImage thresholds img at mid gray. Transparent pixels print white.
func RasterFromImage(img image.Image) *Raster {
	bounds := img.Bounds()
	r := NewRaster(bounds.Dx(), bounds.Dy())
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			_, _, _, a := c.RGBA()
			if a < 0x8000 {
				continue
			}
			if color.GrayModel.Convert(c).(color.Gray).Y < 0x80 {
				r.Set(x, y)
			}
		}
	}
	return r
}

// BytesPerRow is the packed width of one row.
func (r *Raster) BytesPerRow() int {
	return (r.Width + 7) / 8
}

// Set marks the dot at x, y black.
func (r *Raster) Set(x, y int) {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return
	}
	r.Bits[y*r.BytesPerRow()+x/8] |= 0x80 >> uint(x%8)
}

// At reports whether the dot at x, y is black.
func (r *Raster) At(x, y int) bool {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height {
		return false
	}
	return r.Bits[y*r.BytesPerRow()+x/8]&(0x80>>uint(x%8)) != 0
}

// Centered returns r placed in the middle of a raster width dots wide.
// A raster at least that wide is returned unchanged.
func (r *Raster) Centered(width int) *Raster {
	if r.Width >= width {
		return r
	}
	out := NewRaster(width, r.Height)
	left := (width - r.Width) / 2
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			if r.At(x, y) {
				out.Set(left+x, y)
			}
		}
	}
	return out
}

// Image prints a raster bitmap with GS v 0, optionally centered on PaperWidth.
type Image struct {
	Raster     *Raster
	Center     bool
	PaperWidth int
}

func (img Image) AppendTo(b []byte) ([]byte, error) {
	r := img.Raster
	if r == nil || r.Width == 0 || r.Height == 0 {
		return b, errors.New("empty raster")
	}
	if img.Center {
		r = r.Centered(img.PaperWidth)
	}
	return appendRaster(b, r)
}

func appendRaster(b []byte, r *Raster) ([]byte, error) {
	row := r.BytesPerRow()
	if row > 0xffff {
		return b, errors.New("raster too wide")
	}
	for top := 0; top < r.Height; top += maxRasterRows {
		rows := min(maxRasterRows, r.Height-top)
		b = append(b, gs, 'v', '0', 0,
			byte(row), byte(row>>8),
			byte(rows), byte(rows>>8))
		b = append(b, r.Bits[top*row:(top+rows)*row]...)
	}
	return b, nil
}
