package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFile(t *testing.T) {
	settings, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	home, _ := os.UserHomeDir()
	if settings.ScratchbookFolder != filepath.Join(home, DefaultFolderName) {
		t.Errorf("ScratchbookFolder = %q, want ~/%s", settings.ScratchbookFolder, DefaultFolderName)
	}
	if !settings.AutoSaveOnClose {
		t.Error("AutoSaveOnClose should default to true")
	}
	if !settings.AutoSaveOnFocusLost {
		t.Error("AutoSaveOnFocusLost should default to true")
	}
	if settings.CloseAfterSave {
		t.Error("CloseAfterSave should default to false")
	}
	if !settings.AutoDetectExtension {
		t.Error("AutoDetectExtension should default to true")
	}
	if settings.DefaultExt != ".txt" {
		t.Errorf("DefaultExt = %q, want .txt", settings.DefaultExt)
	}
	if settings.FilenameFormat != DefaultFilenameFormat {
		t.Errorf("FilenameFormat = %q, want %q", settings.FilenameFormat, DefaultFilenameFormat)
	}
	if settings.MinContentLength != 1 {
		t.Errorf("MinContentLength = %d, want 1", settings.MinContentLength)
	}
	if settings.OrganizeByDate {
		t.Error("OrganizeByDate should default to false")
	}
}

func TestLoad_Overrides(t *testing.T) {
	baseDir := t.TempDir()
	content := `{
		"scratchbook_folder": "` + filepath.ToSlash(filepath.Join(baseDir, "notes")) + `",
		"auto_save_on_close": false,
		"auto_save_on_focus_lost": false,
		"close_after_save": true,
		"auto_detect_extension": false,
		"default_extension": "md",
		"filename_format": "note_%Y-%m-%d",
		"min_content_length": 10,
		"organize_by_date": true
	}`
	if err := os.WriteFile(filepath.Join(baseDir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	settings, err := Load(baseDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if settings.ScratchbookFolder != filepath.Join(baseDir, "notes") {
		t.Errorf("ScratchbookFolder = %q", settings.ScratchbookFolder)
	}
	if settings.AutoSaveOnClose {
		t.Error("AutoSaveOnClose = true, want false")
	}
	if settings.AutoSaveOnFocusLost {
		t.Error("AutoSaveOnFocusLost = true, want false")
	}
	if !settings.CloseAfterSave {
		t.Error("CloseAfterSave = false, want true")
	}
	if settings.AutoDetectExtension {
		t.Error("AutoDetectExtension = true, want false")
	}
	if settings.DefaultExt != ".md" {
		t.Errorf("DefaultExt = %q, want .md (dot added)", settings.DefaultExt)
	}
	if settings.FilenameFormat != "note_%Y-%m-%d" {
		t.Errorf("FilenameFormat = %q", settings.FilenameFormat)
	}
	if settings.MinContentLength != 10 {
		t.Errorf("MinContentLength = %d, want 10", settings.MinContentLength)
	}
	if !settings.OrganizeByDate {
		t.Error("OrganizeByDate = false, want true")
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	baseDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(baseDir, "config.json"), []byte("{not json"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(baseDir); err == nil {
		t.Error("Load should fail on invalid JSON")
	}
}

func TestExpandFolder(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SCRATCH_DIR", filepath.Join(home, "from-env"))

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty defaults under home", "", filepath.Join(home, "scratchbook")},
		{"tilde expansion", "~/notes", filepath.Join(home, "notes")},
		{"bare tilde", "~", home},
		{"env var expansion", "$SCRATCH_DIR", filepath.Join(home, "from-env")},
		{"relative anchored under home", "stuff/scratch", filepath.Join(home, "stuff", "scratch")},
		{"absolute kept", filepath.Join(home, "abs"), filepath.Join(home, "abs")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandFolder(tt.raw)
			if err != nil {
				t.Fatalf("ExpandFolder(%q) failed: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("ExpandFolder(%q) = %q, want %q", tt.raw, got, tt.want)
			}
			if !filepath.IsAbs(got) {
				t.Errorf("ExpandFolder(%q) = %q, not absolute", tt.raw, got)
			}
		})
	}
}
