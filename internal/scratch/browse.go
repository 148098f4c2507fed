package scratch

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// PreviewMaxLen is the rune limit for first-line previews.
const PreviewMaxLen = 80

// absoluteAgeCutoff is the point past which ages render as absolute dates.
const absoluteAgeCutoff = 7 * 24 * time.Hour

// Entry describes one saved scratch file.
type Entry struct {
	Path    string    `json:"path"`
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mtime"`
}

// List walks root recursively (date subfolders included) and returns the
// scratch files sorted newest-modified-first. A missing root yields an
// empty listing, not an error; unreadable entries are skipped.
func List(root string) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			// Skip unreadable subtrees instead of aborting the listing.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		entries = append(entries, Entry{
			Path:    path,
			Name:    d.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ModTime.After(entries[j].ModTime)
	})
	return entries, nil
}

// Preview reads the first non-empty line of the file at path, truncated to
// PreviewMaxLen runes with an ellipsis. Read errors and files with no
// visible content both yield "(empty)".
func Preview(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return "(empty)"
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > PreviewMaxLen {
			runes := []rune(line)
			return string(runes[:PreviewMaxLen]) + "…"
		}
		return line
	}
	return "(empty)"
}

// RelativeAge formats how long ago t was relative to now: "just now" under
// a minute, then "Nm ago", "Nh ago", "Nd ago", and an absolute YYYY-MM-DD
// date once the age passes seven days.
func RelativeAge(t, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < absoluteAgeCutoff:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
