package etikett

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jpegBytes returns an encoded JPEG of the given dimensions.
func jpegBytes(t *testing.T, w int, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil))
	return buf.Bytes()
}

func writeJPEG(t *testing.T, path string, w int, h int) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, jpegBytes(t, w, h), 0o644))
}

func decodeConfig(t *testing.T, path string) (string, int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	ic, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return format, ic.Width, ic.Height
}

func TestConvertStandard(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.jpg")
	out := filepath.Join(dir, "out.jpg")
	writeJPEG(t, src, 300, 200)

	n := NewNormalizer(2000, 90)
	require.NoError(t, n.Convert(src, out))

	format, w, h := decodeConfig(t, out)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 300, w, "standard path must not resize")
	assert.Equal(t, 200, h, "standard path must not resize")
}

func TestConvertStandardPNG(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.jpg")
	require.NoError(t, imgio.Save(src, image.NewRGBA(image.Rect(0, 0, 64, 48)), imgio.PNGEncoder()))

	n := NewNormalizer(2000, 90)
	require.NoError(t, n.Convert(src, out))

	format, w, h := decodeConfig(t, out)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 64, w)
	assert.Equal(t, 48, h)
}

func TestConvertMissingSource(t *testing.T) {
	dir := t.TempDir()
	n := NewNormalizer(2000, 90)

	err := n.Convert(filepath.Join(dir, "nope.jpg"), filepath.Join(dir, "out.jpg"))
	require.Error(t, err)
	assert.Equal(t, ErrDecode, KindOf(err))
	assert.NoFileExists(t, filepath.Join(dir, "out.jpg"))
}

func TestConvertRAWUpscales(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.jpg")

	n := &Normalizer{
		MinEdge: 100,
		Quality: 90,
		ExtractRAW: func(string) ([]byte, error) {
			return jpegBytes(t, 40, 80), nil
		},
	}

	require.NoError(t, n.ConvertRAW("fake.cr3", out))

	format, w, h := decodeConfig(t, out)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, w, "smaller edge must meet the minimum exactly")
	assert.Equal(t, 200, h, "aspect ratio must hold")
}

func TestConvertRAWLargeEnough(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.jpg")

	n := &Normalizer{
		MinEdge: 100,
		Quality: 90,
		ExtractRAW: func(string) ([]byte, error) {
			return jpegBytes(t, 150, 120), nil
		},
	}

	require.NoError(t, n.ConvertRAW("fake.cr3", out))

	_, w, h := decodeConfig(t, out)
	assert.Equal(t, 150, w)
	assert.Equal(t, 120, h)
}

func TestConvertRAWExtractError(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.jpg")

	n := &Normalizer{
		MinEdge: 100,
		Quality: 90,
		ExtractRAW: func(string) ([]byte, error) {
			return nil, fmt.Errorf("no such file")
		},
	}

	err := n.ConvertRAW("fake.cr3", out)
	require.Error(t, err)
	assert.Equal(t, ErrDecode, KindOf(err))
	assert.NoFileExists(t, out)
}

func TestFitMinEdge(t *testing.T) {
	tests := []struct {
		name  string
		w     int
		h     int
		min   int
		wantW int
		wantH int
	}{
		{name: "portrait below minimum", w: 40, h: 80, min: 100, wantW: 100, wantH: 200},
		{name: "landscape below minimum", w: 80, h: 40, min: 100, wantW: 200, wantH: 100},
		{name: "square below minimum", w: 50, h: 50, min: 100, wantW: 100, wantH: 100},
		{name: "one edge below minimum", w: 120, h: 60, min: 100, wantW: 200, wantH: 100},
		{name: "already large enough", w: 150, h: 100, min: 100, wantW: 150, wantH: 100},
		{name: "exactly at minimum", w: 100, h: 100, min: 100, wantW: 100, wantH: 100},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := fitMinEdge(image.NewRGBA(image.Rect(0, 0, tc.w, tc.h)), tc.min)
			assert.Equal(t, tc.wantW, got.Bounds().Dx())
			assert.Equal(t, tc.wantH, got.Bounds().Dy())
		})
	}
}
