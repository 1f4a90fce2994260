// Package receipt builds the health report print job from the configured content.
package receipt

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/draw"

	"VitalsKiosk/internal/escpos"
)

var bw = color.Palette{color.Black, color.White}

// LoadLogo decodes the image at path and prepares it for the printer:
// scaled to width dots keeping the aspect ratio, flattened onto white and
// dithered to 1 bit with Floyd-Steinberg.
func LoadLogo(path string, width int) (*escpos.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open logo: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode logo %s: %w", path, err)
	}
	return Dither(src, width)
}

// Dither scales src to width dots and converts it to a 1-bit raster.
func Dither(src image.Image, width int) (*escpos.Raster, error) {
	sb := src.Bounds()
	if sb.Dx() == 0 || sb.Dy() == 0 {
		return nil, errors.New("empty logo image")
	}
	if width <= 0 {
		return nil, fmt.Errorf("invalid paper width %d", width)
	}
	height := int(float64(sb.Dy()) * float64(width) / float64(sb.Dx()))
	if height < 1 {
		height = 1
	}

	rect := image.Rect(0, 0, width, height)
	flat := image.NewRGBA(rect)
	draw.Draw(flat, rect, image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(flat, rect, src, sb, draw.Over, nil)

	mono := image.NewPaletted(rect, bw)
	draw.FloydSteinberg.Draw(mono, rect, flat, image.Point{})
	return escpos.RasterFromImage(mono), nil
}
