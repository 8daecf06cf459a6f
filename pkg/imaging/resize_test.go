package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit(t *testing.T) {
	tests := []struct {
		w, h, limit  int
		wantW, wantH int
	}{
		{400, 300, 800, 400, 300},
		{1600, 400, 800, 800, 200},
		{400, 1600, 800, 200, 800},
		{800, 800, 800, 800, 800},
		{5000, 1, 800, 800, 1},
	}
	for _, tt := range tests {
		w, h := Fit(tt.w, tt.h, tt.limit)
		assert.Equal(t, tt.wantW, w, "width for %dx%d", tt.w, tt.h)
		assert.Equal(t, tt.wantH, h, "height for %dx%d", tt.w, tt.h)
	}
}

func TestToJPEGResizesPNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1600, 400))
	for x := 0; x < 1600; x++ {
		src.Set(x, 10, color.NRGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	res, err := ToJPEG(buf.Bytes(), 800, 82)
	require.NoError(t, err)

	assert.Equal(t, "png", res.Format)
	assert.Equal(t, 800, res.Width)
	assert.Equal(t, 200, res.Height)

	out, err := jpeg.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 800, 200), out.Bounds())
}

func TestToJPEGRejectsGarbage(t *testing.T) {
	_, err := ToJPEG([]byte("not an image"), 800, 82)
	assert.Error(t, err)
}

func TestToJPEGRejectsOversizedCanvas(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"wide side", MaxSourceSide + 1, 10},
		{"pixel budget", 8000, 6000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, tt.w, tt.h))))

			_, err := ToJPEG(buf.Bytes(), 800, 82)
			assert.ErrorIs(t, err, ErrTooManyPixels)
		})
	}
}
