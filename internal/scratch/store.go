package scratch

import (
	"strings"
	"time"

	"scratchbook/internal/config"
	"scratchbook/internal/errors"
	"scratchbook/internal/index"
)

// SaveNew persists content straight to a new scratchbook file, outside any
// editor buffer. This is the path the CLI and MCP surfaces use: content-type
// detection, unique naming and indexing behave exactly as a first buffer
// save, but there is no buffer to rebind.
func SaveNew(content string, settings *config.Settings, ix *index.Index) (string, error) {
	if len(strings.TrimSpace(content)) < settings.MinContentLength {
		return "", errors.NewInvalidRequest("content is empty")
	}

	path, err := GeneratePath(content, settings, time.Now())
	if err != nil {
		return "", errors.NewSaveFailed(settings.ScratchbookFolder, err)
	}
	if err := writeFile(path, content); err != nil {
		return "", errors.NewSaveFailed(path, err)
	}

	if ix != nil {
		recordFile(ix, path, content)
	}
	return path, nil
}
