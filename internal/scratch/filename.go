package scratch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ncruces/go-strftime"

	"scratchbook/internal/classify"
	"scratchbook/internal/config"
)

// GeneratePath builds a unique destination path for new scratch content.
// The stem is the timestamp formatted per the configured strftime pattern;
// the extension comes from the classifier when auto-detection is on, else
// the configured default. With organize_by_date, a YEAR/MONTH subfolder is
// inserted between the root and the filename. The destination directory is
// created (including intermediate levels) before the path is probed for
// uniqueness: an existing path gets _1, _2, ... appended before the
// extension until an unused one is found.
func GeneratePath(content string, settings *config.Settings, now time.Time) (string, error) {
	stem := SanitizeStem(strftime.Format(settings.FilenameFormat, now))

	ext := settings.DefaultExt
	if settings.AutoDetectExtension {
		ext = string(classify.Detect(content))
	}

	folder := settings.ScratchbookFolder
	if settings.OrganizeByDate {
		folder = filepath.Join(folder, now.Format("2006"), now.Format("01"))
	}

	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", err
	}

	path := filepath.Join(folder, stem+ext)
	for counter := 1; pathExists(path); counter++ {
		path = filepath.Join(folder, fmt.Sprintf("%s_%d%s", stem, counter, ext))
	}
	return path, nil
}

// pathExists reports whether anything exists at path.
func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
