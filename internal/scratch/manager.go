// Package scratch implements the buffer binding manager: deciding whether
// an editor buffer needs a new scratchbook file, an in-place update, or no
// action at all, plus filename generation, debounced re-saves, bulk close,
// and the browse/search operations over saved scratch files.
package scratch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scratchbook/internal/config"
	"scratchbook/internal/editor"
	"scratchbook/internal/errors"
	"scratchbook/internal/index"
)

// DebounceDelay is how long after the last observed edit a deferred save
// of a bound scratch buffer fires.
const DebounceDelay = time.Second

// Manager owns the buffer-to-file binding lifecycle for one settings
// snapshot. It is not safe for concurrent use; like the host editor, all
// calls are expected on a single cooperative event loop.
type Manager struct {
	host     editor.Host
	settings *config.Settings
	idx      *index.Index // optional; nil disables indexing

	// pending tracks buffer IDs with a deferred save scheduled. Entries
	// are inserted on a qualifying edit and removed when the deferred
	// callback runs, whatever its outcome.
	pending map[string]bool

	now func() time.Time
}

// NewManager creates a Manager. idx may be nil to disable the search index.
func NewManager(host editor.Host, settings *config.Settings, idx *index.Index) *Manager {
	return &Manager{
		host:     host,
		settings: settings,
		idx:      idx,
		pending:  make(map[string]bool),
		now:      time.Now,
	}
}

// Settings returns the settings snapshot this manager operates under.
func (m *Manager) Settings() *config.Settings { return m.settings }

// Save persists buf to the scratchbook, resolving the buffer's binding
// state first:
//
//   - Unbound (untitled): content below the minimum length is a no-op
//     ("" and nil are returned); otherwise a new unique file is created,
//     the buffer is retargeted to it and marked scratch.
//   - Bound to a scratchbook file: the file is overwritten in place,
//     unconditionally. The minimum-length gate only guards file creation;
//     a bound buffer cleared to nothing still persists as empty.
//   - Bound to a file outside the scratchbook: never touched; no-op.
//
// The resolved path is returned, or "" when nothing was saved. Success is
// announced through the host status line; notification of failures is the
// caller's choice (see ManualSave and the On* event handlers).
func (m *Manager) Save(buf editor.Buffer) (string, error) {
	content := buf.Text()

	existing := buf.FilePath()
	if existing != "" {
		if !UnderRoot(m.settings.ScratchbookFolder, existing) {
			// Bound-External: a user file saved elsewhere on disk.
			return "", nil
		}
		if err := writeFile(existing, content); err != nil {
			return "", errors.NewSaveFailed(existing, err)
		}
		m.record(existing, content)
		m.host.Status(fmt.Sprintf("ScratchBook: Updated %s", filepath.Base(existing)))
		return existing, nil
	}

	// Unbound: too little content means no file gets created.
	if len(strings.TrimSpace(content)) < m.settings.MinContentLength {
		return "", nil
	}

	// First save: create a new scratchbook file and bind the buffer to it.
	path, err := GeneratePath(content, m.settings, m.now())
	if err != nil {
		return "", errors.NewSaveFailed(m.settings.ScratchbookFolder, err)
	}
	if err := writeFile(path, content); err != nil {
		return "", errors.NewSaveFailed(path, err)
	}
	buf.Retarget(path)
	buf.SetScratch(true)
	m.record(path, content)
	m.host.Status(fmt.Sprintf("ScratchBook: Saved to %s", filepath.Base(path)))
	return path, nil
}

// ManualSave is the explicit, user-initiated save: failures surface as a
// blocking error notification, and close_after_save is honored.
func (m *Manager) ManualSave(buf editor.Buffer) (string, error) {
	path, err := m.Save(buf)
	if err != nil {
		m.host.Error(err.Error())
		return "", err
	}
	if path == "" {
		m.host.Status("ScratchBook: Nothing to save")
		return "", nil
	}
	if m.settings.CloseAfterSave {
		buf.Close()
	}
	return path, nil
}

// OnPreClose auto-saves a closing buffer when auto_save_on_close is set.
func (m *Manager) OnPreClose(buf editor.Buffer) {
	if m.settings.AutoSaveOnClose {
		m.autoSave(buf)
	}
}

// OnDeactivated auto-saves a buffer losing focus when
// auto_save_on_focus_lost is set.
func (m *Manager) OnDeactivated(buf editor.Buffer) {
	if m.settings.AutoSaveOnFocusLost {
		m.autoSave(buf)
	}
}

// autoSave is the background save path: failures degrade to a transient
// status message, never a blocking notification.
func (m *Manager) autoSave(buf editor.Buffer) {
	if _, err := m.Save(buf); err != nil {
		m.host.Status(fmt.Sprintf("ScratchBook: Failed to save - %v", err))
	}
}

// OnModified schedules a debounced re-save of a bound scratch buffer.
// Buffers not bound to a scratchbook file are ignored. Each edit schedules
// its own one-shot callback; the host scheduler has no cancellation
// handle, so rapid edits produce redundant writes of the latest content
// rather than stale ones. The callback re-validates the buffer before
// writing and clears the pending marker regardless of outcome.
func (m *Manager) OnModified(buf editor.Buffer) {
	path := buf.FilePath()
	if path == "" || !UnderRoot(m.settings.ScratchbookFolder, path) {
		return
	}

	id := buf.ID()
	m.pending[id] = true
	m.host.ScheduleOnce(DebounceDelay, func() {
		defer delete(m.pending, id)
		if !buf.Valid() {
			return
		}
		current := buf.FilePath()
		if current == "" || !UnderRoot(m.settings.ScratchbookFolder, current) {
			return
		}
		content := buf.Text()
		if err := writeFile(current, content); err != nil {
			m.host.Status(fmt.Sprintf("ScratchBook: Failed to save - %v", err))
			return
		}
		buf.SetScratch(true)
		m.record(current, content)
	})
}

// PendingSaves returns how many buffers have a deferred save outstanding.
func (m *Manager) PendingSaves() int { return len(m.pending) }

// CloseAll saves and closes every untitled or scratchbook-bound buffer in
// win, returning the number of buffers closed. Bound-external buffers are
// left open and untouched.
func (m *Manager) CloseAll(win editor.Window) int {
	closed := 0
	for _, buf := range win.Buffers() {
		path := buf.FilePath()
		untitled := path == ""
		bound := path != "" && UnderRoot(m.settings.ScratchbookFolder, path)
		if !untitled && !bound {
			continue
		}
		m.autoSave(buf)
		buf.SetScratch(true) // suppress the host's save prompt
		buf.Close()
		closed++
	}
	m.host.Status(fmt.Sprintf("ScratchBook: Closed %d scratch tab(s)", closed))
	return closed
}

// NewScratch opens a fresh untitled buffer pre-marked as scratch.
func (m *Manager) NewScratch(win editor.Window) editor.Buffer {
	buf := win.NewBuffer()
	buf.SetScratch(true)
	m.host.Status("ScratchBook: New scratch buffer created")
	return buf
}

// record updates the search index for a saved file. The index is derived
// state; failures never affect the save that triggered them.
func (m *Manager) record(path, content string) {
	if m.idx == nil {
		return
	}
	recordFile(m.idx, path, content)
}

// recordFile best-effort indexes one file's metadata and content.
func recordFile(ix *index.Index, path, content string) {
	mtime := time.Now()
	if info, err := os.Stat(path); err == nil {
		mtime = info.ModTime()
	}
	_ = ix.Record(index.FileEntry{
		Path:      path,
		Name:      filepath.Base(path),
		Ext:       filepath.Ext(path),
		Size:      int64(len(content)),
		ModTime:   mtime.Unix(),
		FirstLine: firstNonEmptyLine(content),
	}, content)
}

// writeFile overwrites path with content as UTF-8 text.
func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

// firstNonEmptyLine returns the first non-blank line of content, trimmed.
func firstNonEmptyLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
