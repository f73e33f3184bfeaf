// Package filehandler lists browsable directories and scans image trees for
// the selection engine.
//
// Recognized image types are exactly PNG, JPEG, BMP and WebP. Metadata
// inspection is pure Go: dimensions come from image.DecodeConfig (with the
// x/image BMP and WebP decoders registered) and capture dates from
// evanoberholster/imagemeta.
package filehandler

import (
	"path/filepath"
	"strings"
)

// SupportedImageExtensions maps the recognized image extensions to their MIME type.
// Matching is case-insensitive.
var SupportedImageExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".bmp":  "image/bmp",
	".webp": "image/webp",
}

// IsImage returns true if the file extension corresponds to a recognized image.
func IsImage(ext string) bool {
	_, ok := SupportedImageExtensions[strings.ToLower(ext)]
	return ok
}

// IsImagePath reports whether path has a recognized image extension.
func IsImagePath(path string) bool {
	return IsImage(filepath.Ext(path))
}

// ExtensionForMIME returns the canonical extension for an image MIME type,
// defaulting to ".png" for unknown types.
func ExtensionForMIME(mimeType string) string {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/bmp":
		return ".bmp"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
