// Package config loads scratchbook settings from a JSON file, applying
// documented defaults for anything the file leaves out.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Defaults for settings not present in the config file.
const (
	DefaultFolderName       = "scratchbook"
	DefaultExtension        = ".txt"
	DefaultFilenameFormat   = "scratch_%Y%m%d_%H%M%S"
	DefaultMinContentLength = 1
)

// Settings is an immutable snapshot of scratchbook configuration, resolved
// once per operation.
type Settings struct {
	// ScratchbookFolder is the root folder scratch files are saved under.
	// Always an absolute, expanded path.
	ScratchbookFolder string

	// AutoSaveOnClose saves untitled and scratchbook buffers when closed.
	AutoSaveOnClose bool

	// AutoSaveOnFocusLost saves when a buffer loses focus.
	AutoSaveOnFocusLost bool

	// CloseAfterSave closes a buffer once it has been saved.
	CloseAfterSave bool

	// AutoDetectExtension infers the extension from content; when false,
	// DefaultExt is used for every new scratch file.
	AutoDetectExtension bool

	// DefaultExt is the extension used when auto-detection is off.
	DefaultExt string

	// FilenameFormat is a strftime-style pattern for new filenames.
	FilenameFormat string

	// MinContentLength is the minimum trimmed content length required
	// before an untitled buffer is persisted.
	MinContentLength int

	// OrganizeByDate inserts a YEAR/MONTH subfolder under the root.
	OrganizeByDate bool

	// IndexDisabled turns off the SQLite search index.
	IndexDisabled bool

	// DisabledTools lists MCP tool names to exclude from registration.
	DisabledTools []string
}

// settingsFile mirrors the on-disk JSON. Booleans are pointers so an absent
// key can fall back to a true default.
type settingsFile struct {
	ScratchbookFolder   string   `json:"scratchbook_folder"`
	AutoSaveOnClose     *bool    `json:"auto_save_on_close"`
	AutoSaveOnFocusLost *bool    `json:"auto_save_on_focus_lost"`
	CloseAfterSave      *bool    `json:"close_after_save"`
	AutoDetectExtension *bool    `json:"auto_detect_extension"`
	DefaultExtension    string   `json:"default_extension"`
	FilenameFormat      string   `json:"filename_format"`
	MinContentLength    *int     `json:"min_content_length"`
	OrganizeByDate      *bool    `json:"organize_by_date"`
	IndexDisabled       *bool    `json:"index_disabled"`
	DisabledTools       []string `json:"disabled_tools"`
}

// DefaultSettings returns settings with every key at its default.
// The scratchbook folder defaults to ~/scratchbook.
func DefaultSettings() (*Settings, error) {
	folder, err := ExpandFolder("")
	if err != nil {
		return nil, err
	}
	return &Settings{
		ScratchbookFolder:   folder,
		AutoSaveOnClose:     true,
		AutoSaveOnFocusLost: true,
		CloseAfterSave:      false,
		AutoDetectExtension: true,
		DefaultExt:          DefaultExtension,
		FilenameFormat:      DefaultFilenameFormat,
		MinContentLength:    DefaultMinContentLength,
		OrganizeByDate:      false,
	}, nil
}

// Load loads settings from baseDir/config.json. A missing file yields
// defaults. The baseDir parameter allows tests to use t.TempDir() instead
// of ~/.scratchbook.
func Load(baseDir string) (*Settings, error) {
	settings, err := DefaultSettings()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return nil, err
	}

	var file settingsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	if file.ScratchbookFolder != "" {
		folder, err := ExpandFolder(file.ScratchbookFolder)
		if err != nil {
			return nil, err
		}
		settings.ScratchbookFolder = folder
	}
	applyBool(&settings.AutoSaveOnClose, file.AutoSaveOnClose)
	applyBool(&settings.AutoSaveOnFocusLost, file.AutoSaveOnFocusLost)
	applyBool(&settings.CloseAfterSave, file.CloseAfterSave)
	applyBool(&settings.AutoDetectExtension, file.AutoDetectExtension)
	applyBool(&settings.OrganizeByDate, file.OrganizeByDate)
	applyBool(&settings.IndexDisabled, file.IndexDisabled)
	if file.DefaultExtension != "" {
		settings.DefaultExt = normalizeExtension(file.DefaultExtension)
	}
	if file.FilenameFormat != "" {
		settings.FilenameFormat = file.FilenameFormat
	}
	if file.MinContentLength != nil && *file.MinContentLength >= 0 {
		settings.MinContentLength = *file.MinContentLength
	}
	settings.DisabledTools = cleanStringSlice(file.DisabledTools)

	return settings, nil
}

// ExpandFolder resolves a configured scratchbook folder to an absolute
// path: ~ and environment variables are expanded, relative paths are
// anchored under the user's home directory, and an empty value falls back
// to ~/scratchbook.
func ExpandFolder(raw string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if raw == "" {
		return filepath.Join(home, DefaultFolderName), nil
	}

	expanded := os.ExpandEnv(raw)
	if expanded == "~" {
		expanded = home
	} else if strings.HasPrefix(expanded, "~/") || strings.HasPrefix(expanded, `~\`) {
		expanded = filepath.Join(home, expanded[2:])
	}

	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(home, expanded)
	}

	return filepath.Clean(expanded), nil
}

// normalizeExtension ensures a configured extension carries a leading dot.
func normalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if ext == "" {
		return DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// cleanStringSlice trims entries and drops blanks and duplicates.
func cleanStringSlice(in []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// applyBool copies an optional file value over a default.
func applyBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
