package scratch

import (
	"path/filepath"
	"strings"
)

// UnderRoot reports whether path lies inside root. Containment is decided
// on cleaned paths via filepath.Rel, never by string prefix, so a sibling
// folder sharing a prefix (scratchbook vs scratchbook2) is not a false
// positive. The root itself does not count as being under the root.
func UnderRoot(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	if rel == "." || rel == ".." {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// SanitizeStem sanitizes a formatted filename stem for safe use as a single
// path component. Separators and ".." sequences become dashes, control
// characters are dropped, and an empty result falls back to "scratch".
func SanitizeStem(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, "..", "-")

	var b strings.Builder
	for _, r := range s {
		if r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}
	s = b.String()

	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	s = strings.Trim(s, "-")

	if s == "" {
		return "scratch"
	}
	return s
}
