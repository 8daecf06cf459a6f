// Package imaging normalises uploaded profile photos to bounded-size JPEGs.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Source images larger than this are refused before decoding.
const (
	MaxSourceSide   = 10000
	MaxSourcePixels = 40_000_000
)

// ErrTooManyPixels is returned when the declared canvas exceeds the source limits.
var ErrTooManyPixels = errors.New("image dimensions exceed limit")

// Result is the re-encoded image.
type Result struct {
	Data   []byte
	Width  int
	Height int
	Format string // format of the source image
}

// Fit returns the size of a w x h image scaled down to fit in a
// maxDimension square, keeping aspect ratio. Images already inside the box
// are left as they are.
func Fit(w, h, maxDimension int) (int, int) {
	if w <= maxDimension && h <= maxDimension {
		return w, h
	}
	if w >= h {
		nh := int(float64(h) * float64(maxDimension) / float64(w))
		if nh < 1 {
			nh = 1
		}
		return maxDimension, nh
	}
	nw := int(float64(w) * float64(maxDimension) / float64(h))
	if nw < 1 {
		nw = 1
	}
	return nw, maxDimension
}

// ToJPEG decodes data, scales it to fit maxDimension and encodes it as JPEG.
// Transparent areas are flattened onto white.
func ToJPEG(data []byte, maxDimension, quality int) (*Result, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}
	if cfg.Width > MaxSourceSide || cfg.Height > MaxSourceSide ||
		int64(cfg.Width)*int64(cfg.Height) > MaxSourcePixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	newWidth, newHeight := Fit(bounds.Dx(), bounds.Dy(), maxDimension)

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &Result{
		Data:   buf.Bytes(),
		Width:  newWidth,
		Height: newHeight,
		Format: format,
	}, nil
}
