package escpos

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBasicCommands(t *testing.T) {
	b, err := Encode(
		Init{},
		Style{Align: AlignLeft, Font: FontB},
		Text("Prescription\n"),
		Lines{"a", ""},
		Feed(2),
	)
	require.NoError(t, err)

	want := []byte{0x1b, '@', 0x1b, 'a', 0, 0x1b, 'M', 1}
	want = append(want, "Prescription\na\n\n\n\n"...)
	assert.Equal(t, want, b)
}

func TestCutFeedsSixLines(t *testing.T) {
	b, err := Encode(Cut{})
	require.NoError(t, err)
	assert.Equal(t, []byte("\n\n\n\n\n\n\x1dV\x00"), b)
}

func TestEncodeWrapsCommandError(t *testing.T) {
	_, err := Encode(Init{}, Style{Font: 7})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command 1")
}

func TestRasterFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 10, 2))
	img.Set(0, 0, color.Black)
	img.Set(9, 1, color.Black)
	img.Set(1, 0, color.NRGBA{A: 0}) // transparent prints white
	img.Set(2, 0, color.White)

	r := RasterFromImage(img)
	assert.Equal(t, 10, r.Width)
	assert.Equal(t, 2, r.BytesPerRow())
	assert.Equal(t, []byte{0x80, 0x00, 0x00, 0x40}, r.Bits)
	assert.True(t, r.At(0, 0))
	assert.False(t, r.At(1, 0))
	assert.False(t, r.At(20, 0))
}

func TestImageHeaderAndCentering(t *testing.T) {
	r := NewRaster(8, 1)
	r.Set(0, 0)

	b, err := Encode(Image{Raster: r, Center: true, PaperWidth: 24})
	require.NoError(t, err)
	// 24 dots = 3 bytes per row, image moved 8 dots right
	assert.Equal(t, []byte{0x1d, 'v', '0', 0, 3, 0, 1, 0, 0x00, 0x80, 0x00}, b)

	_, err = Encode(Image{})
	assert.Error(t, err)
}

func TestImageFragmentsTallRasters(t *testing.T) {
	r := NewRaster(8, maxRasterRows+10)
	b, err := Encode(Image{Raster: r})
	require.NoError(t, err)

	header := []byte{0x1d, 'v', '0', 0}
	assert.Equal(t, 2, bytes.Count(b, header))
	assert.Equal(t, []byte{0x1d, 'v', '0', 0, 1, 0, 0xc0, 0x03}, b[:8])
	second := 8 + maxRasterRows
	assert.Equal(t, []byte{0x1d, 'v', '0', 0, 1, 0, 10, 0}, b[second:second+8])
	assert.Len(t, b, 16+maxRasterRows+10)
}

func TestQRRaster(t *testing.T) {
	q := QR{Content: "https://healthport.com", Size: 8, EC: 1, Center: true, PaperWidth: 384}
	r, err := q.Raster()
	require.NoError(t, err)

	assert.Equal(t, r.Width, r.Height)
	assert.Zero(t, r.Width%8)
	assert.Less(t, r.Width, 384)
	// quiet zone is white, the finder pattern corner is black
	assert.False(t, r.At(0, 0))
	assert.False(t, r.At(7, 7))
	assert.True(t, r.At(8, 8))

	b, err := Encode(q)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1d, 'v', '0', 0, 48, 0}, b[:6], "centered on 384 dots")
}

func TestQRRejectsBadParameters(t *testing.T) {
	for _, q := range []QR{
		{Content: "", Size: 8, EC: 1},
		{Content: "x", Size: 0, EC: 1},
		{Content: "x", Size: 17, EC: 1},
		{Content: "x", Size: 8, EC: 4},
	} {
		_, err := Encode(q)
		assert.Error(t, err, "%+v", q)
	}
}

func TestBarcodeEAN13(t *testing.T) {
	bc := Barcode{Code: "123456789012", Type: "EAN13", Height: 64, Width: 2, Position: HRIBelow, Font: FontA, Center: true}
	b, err := Encode(bc)
	require.NoError(t, err)

	want := []byte{0x1b, 'a', 1, 0x1d, 'h', 64, 0x1d, 'w', 2, 0x1d, 'f', 0, 0x1d, 'H', 2, 0x1d, 'k', 2}
	want = append(want, "123456789012"...)
	want = append(want, 0)
	assert.Equal(t, want, b)
}

func TestBarcodeValidation(t *testing.T) {
	valid := Barcode{Type: "ean13", Height: 64, Width: 2, Position: HRIBelow}

	for _, code := range []string{"123456789012", "1234567890128"} {
		bc := valid
		bc.Code = code
		_, err := Encode(bc)
		assert.NoError(t, err, code)
	}

	for _, code := range []string{"1234567890127", "12345678901", "12345678901a", ""} {
		bc := valid
		bc.Code = code
		_, err := Encode(bc)
		assert.ErrorIs(t, err, ErrInvalidBarcode, code)
	}

	bc := valid
	bc.Code, bc.Type = "123456789012", "CODE39"
	_, err := Encode(bc)
	assert.ErrorIs(t, err, ErrInvalidBarcode)

	bc = valid
	bc.Code, bc.Height = "123456789012", 0
	_, err = Encode(bc)
	assert.Error(t, err)
}

func TestEANCheckDigit(t *testing.T) {
	assert.Equal(t, byte('8'), EANCheckDigit("123456789012"))
	assert.Equal(t, byte('1'), EANCheckDigit("400638133393"))
	assert.Equal(t, byte('0'), EANCheckDigit("000000000000"))
}
