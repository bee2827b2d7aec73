package application

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxFileSize is the upload size ceiling (5 MiB).
const MaxFileSize = 5 * 1024 * 1024

// allowedExtensions is the upload extension allow-list. Matching is
// case-insensitive.
var allowedExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}

// ValidateUpload checks a declared filename and payload size against the
// allow-list and size ceiling. It is pure: no disk or store access.
func ValidateUpload(filename string, sizeBytes int64) error {
	ext := strings.ToLower(filepath.Ext(filename))

	allowed := false
	for _, candidate := range allowedExtensions {
		if ext == candidate {
			allowed = true
			break
		}
	}
	if !allowed {
		return reject(fmt.Sprintf(
			"unsupported file type, allowed: %s", strings.Join(allowedExtensions, ", "),
		))
	}

	if sizeBytes > MaxFileSize {
		return reject(fmt.Sprintf(
			"file exceeds the maximum size of %dMB", MaxFileSize/(1024*1024),
		))
	}

	return nil
}
