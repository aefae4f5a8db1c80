package pdf

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitImage_Proportional(t *testing.T) {
	// 2:1 image, bounded by height: 40mm target height wins over width
	w, h := fitImage(FitProportional, 200, 100, 180, 40)
	assert.InDelta(t, 80, w, 0.001)
	assert.InDelta(t, 40, h, 0.001)

	// bounded by width: narrow page
	w, h = fitImage(FitProportional, 200, 100, 60, 40)
	assert.InDelta(t, 60, w, 0.001)
	assert.InDelta(t, 30, h, 0.001)
}

func TestFitImage_FixedHeight(t *testing.T) {
	w, h := fitImage(FitFixedHeight, 100, 100, 180, 35)
	assert.InDelta(t, 35, w, 0.001)
	assert.InDelta(t, 35, h, 0.001)

	// width overflow clamps to available width
	w, h = fitImage(FitFixedHeight, 1000, 100, 180, 35)
	assert.InDelta(t, 180, w, 0.001)
	assert.Less(t, h, 35.0)
}

func TestFitImage_FullWidth(t *testing.T) {
	w, h := fitImage(FitFullWidth, 200, 50, 180, 35)
	assert.InDelta(t, 180, w, 0.001)
	assert.InDelta(t, 45, h, 0.001)

	// tall image hits the height ceiling
	w, h = fitImage(FitFullWidth, 100, 200, 180, 35)
	assert.InDelta(t, maxFooterHeightMM, h, 0.001)
	assert.InDelta(t, maxFooterHeightMM/2, w, 0.001)
}

func TestFitImage_DegenerateInput(t *testing.T) {
	w, h := fitImage(FitProportional, 0, 0, 180, 35)
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestParseFitMode(t *testing.T) {
	assert.Equal(t, FitFixedHeight, ParseFitMode("fixed-height"))
	assert.Equal(t, FitFullWidth, ParseFitMode(" FULL-WIDTH "))
	assert.Equal(t, FitProportional, ParseFitMode("nonsense"))
}

// testPNG encodes a small in-memory PNG.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	typ, w, h, err := decodeImage(testPNG(t, 120, 60))
	require.NoError(t, err)
	assert.Equal(t, "PNG", typ)
	assert.Equal(t, 120, w)
	assert.Equal(t, 60, h)

	_, _, _, err = decodeImage([]byte("not an image"))
	assert.Error(t, err)
}
