package errors

import (
	"strings"
	"unicode"
)

const maxPathLength = 1024

// pathRules run in order; the first failing rule names the problem.
var pathRules = []struct {
	bad  func(string) bool
	desc string
}{
	{func(p string) bool { return len(p) > maxPathLength }, "is longer than 1024 characters"},
	{func(p string) bool { return strings.IndexFunc(p, unicode.IsControl) >= 0 }, "contains control characters"},
	{func(p string) bool { return strings.HasPrefix(p, "/") }, "must be relative to the source root"},
	{func(p string) bool { return strings.ContainsRune(p, '\\') }, "uses backslashes"},
	{func(p string) bool { return hasSegment(p, "..") }, "escapes the source root"},
}

// ValidatePath checks a slash-separated file path taken from a source
// record. The empty path names the root and is valid.
func ValidatePath(path string) error {
	for _, r := range pathRules {
		if r.bad(path) {
			return New(ErrCodeInvalidPath, "path %q %s", truncate(path), r.desc)
		}
	}
	return nil
}

// ValidateExtension checks a single-suffix extension filter such as ".md".
func ValidateExtension(ext string) error {
	switch {
	case len(ext) < 2 || ext[0] != '.':
		return New(ErrCodeInvalidConfig, "extension %q must start with a dot", ext)
	case strings.ContainsAny(ext[1:], "./\\*?"):
		return New(ErrCodeInvalidConfig, "extension %q must be a single suffix", ext)
	}
	return nil
}

func hasSegment(path, seg string) bool {
	for elem := range strings.SplitSeq(path, "/") {
		if elem == seg {
			return true
		}
	}
	return false
}

func truncate(s string) string {
	const keep = 64
	if len(s) <= keep {
		return s
	}
	return s[:keep] + "..."
}
