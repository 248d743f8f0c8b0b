package xlstamp

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// createTestPNG generates a small PNG image for testing.
func createTestPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			img.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestSniffFormat(t *testing.T) {
	assert.Equal(t, "png", sniffFormat(createTestPNG(t)))
	assert.Equal(t, "jpg", sniffFormat([]byte{0xff, 0xd8, 0xff}))
	assert.Equal(t, "gif", sniffFormat([]byte("GIF89a...")))
	assert.Equal(t, "bmp", sniffFormat([]byte("BM....")))
	assert.Equal(t, "tiff", sniffFormat([]byte("II*\x00....")))
	assert.Equal(t, "tiff", sniffFormat([]byte("MM\x00*....")))
	assert.Equal(t, "", sniffFormat([]byte("not an image")))
	assert.Equal(t, "", sniffFormat(nil))
}

func TestDecodeImage_PNG(t *testing.T) {
	img, format, err := decodeImage(createTestPNG(t))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())
}

func TestDecodeImage_BMPAndTIFF(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))

	var bmpBuf bytes.Buffer
	require.NoError(t, bmp.Encode(&bmpBuf, src))
	_, format, err := decodeImage(bmpBuf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "bmp", format)

	var tiffBuf bytes.Buffer
	require.NoError(t, tiff.Encode(&tiffBuf, src, nil))
	_, format, err = decodeImage(tiffBuf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "tiff", format)
}

func TestDecodeImage_Garbage(t *testing.T) {
	_, _, err := decodeImage([]byte("definitely not an image"))
	assert.Error(t, err)
}

func TestEncodeJPEG(t *testing.T) {
	img, _, err := decodeImage(createTestPNG(t))
	require.NoError(t, err)

	jpg, err := encodeJPEG(img, 90)
	require.NoError(t, err)
	assert.Equal(t, "jpg", sniffFormat(jpg))

	decoded, format, err := decodeImage(jpg)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 10, decoded.Bounds().Dx())
}
