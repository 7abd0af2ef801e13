package errors

import (
	"strconv"
	"strings"
	"unicode"
)

// Limits on identifier and path length. Node ids end up in DOT documents
// and cache keys.
const (
	maxNodeIDLength = 256
	maxPathLength   = 4096
)

// ValidateNodeID rejects empty ids, ids longer than 256 bytes and ids
// containing control characters. Spaces and non-ASCII letters are allowed.
func ValidateNodeID(id string) error {
	if reason := checkText(id, maxNodeIDLength); reason != "" {
		return New(ErrCodeInvalidNodeID, "id %q %s", truncate(id, 32), reason)
	}
	return nil
}

// ValidatePath applies the same rules to a file path given on the command
// line, with a 4096 byte limit.
func ValidatePath(path string) error {
	if reason := checkText(path, maxPathLength); reason != "" {
		return New(ErrCodeInvalidPath, "path %s", reason)
	}
	return nil
}

func checkText(s string, limit int) string {
	switch {
	case s == "":
		return "is empty"
	case len(s) > limit:
		return "is longer than " + strconv.Itoa(limit) + " bytes"
	case strings.ContainsFunc(s, unicode.IsControl):
		return "contains control characters"
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
