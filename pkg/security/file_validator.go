package security

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageBytes bounds profile image uploads.
const MaxImageBytes = 5 << 20

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool
	Extension    string
	DetectedMIME string
	Error        string
}

// Magic byte signatures per allowed image extension.
var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".gif":  {{0x47, 0x49, 0x46, 0x38, 0x37, 0x61}, {0x47, 0x49, 0x46, 0x38, 0x39, 0x61}},
	".webp": {{0x52, 0x49, 0x46, 0x46}},
}

var imageMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// ValidateImage checks extension, magic bytes and sniffed MIME type.
// All three must agree on an allowed image format.
func ValidateImage(filename string, data []byte) FileValidationResult {
	var result FileValidationResult

	if len(data) > MaxImageBytes {
		result.Error = fmt.Sprintf("file exceeds %d MB", MaxImageBytes>>20)
		return result
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	signatures, ok := magicBytes[ext]
	if !ok {
		result.Error = fmt.Sprintf("file extension not allowed: %s (allowed: %s)", ext, strings.Join(AllowedImageExtensions(), ", "))
		return result
	}

	if !hasSignature(data, signatures) {
		result.Error = "file content does not match extension"
		return result
	}

	detected := mimetype.Detect(data)
	result.DetectedMIME = detected.String()
	if !imageMIMETypes[baseMIME(result.DetectedMIME)] {
		result.Error = "MIME type not allowed: " + result.DetectedMIME
		return result
	}

	result.Valid = true
	return result
}

func hasSignature(data []byte, signatures [][]byte) bool {
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

func baseMIME(m string) string {
	if i := strings.IndexByte(m, ';'); i >= 0 {
		return strings.TrimSpace(m[:i])
	}
	return m
}

// AllowedImageExtensions returns the sorted extension whitelist for error messages.
func AllowedImageExtensions() []string {
	exts := make([]string, 0, len(magicBytes))
	for ext := range magicBytes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
