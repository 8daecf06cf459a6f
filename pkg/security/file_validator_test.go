package security

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestValidateImage(t *testing.T) {
	pngData := pngBytes(t)

	tests := []struct {
		name     string
		filename string
		data     []byte
		valid    bool
		errPart  string
	}{
		{"png ok", "photo.PNG", pngData, true, ""},
		{"no extension", "photo", pngData, false, "no extension"},
		{"pdf not allowed", "cv.pdf", []byte("%PDF-1.4"), false, "not allowed"},
		{"spoofed jpg", "photo.jpg", pngData, false, "does not match"},
		{"riff but not webp", "clip.webp", []byte("RIFF\x00\x00\x00\x00WAVEfmt "), false, "MIME type not allowed"},
		{"too large", "big.png", make([]byte, MaxImageBytes+1), false, "exceeds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateImage(tt.filename, tt.data)
			assert.Equal(t, tt.valid, res.Valid, res.Error)
			if tt.errPart != "" {
				assert.Contains(t, res.Error, tt.errPart)
			}
		})
	}
}

func TestAllowedImageExtensions(t *testing.T) {
	assert.Equal(t, []string{".gif", ".jpeg", ".jpg", ".png", ".webp"}, AllowedImageExtensions())

	res := ValidateImage("cv.pdf", []byte("%PDF-1.4"))
	assert.Equal(t, "file extension not allowed: .pdf (allowed: .gif, .jpeg, .jpg, .png, .webp)", res.Error)
}
