package util

import (
	"errors"
	"strings"
)

// DefaultFileName replaces a missing upload name.
const DefaultFileName = "file.pdf"

// ErrInvalidFileName is returned for names that carry a parent-directory segment.
var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName removes path separators and rejects traversal patterns.
// An empty name is replaced with DefaultFileName before sanitizing.
func SanitizeFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	if s == "" {
		s = DefaultFileName
	}
	if strings.Contains(s, "..") {
		return "", ErrInvalidFileName
	}
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "\x00", "")
	if s == "" {
		return "", ErrInvalidFileName
	}
	return s, nil
}
