package editor

import (
	"crypto/rand"
	"os"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// MemHost is an in-memory Host. Scheduled callbacks are queued rather than
// run on real timers; Drain executes them in scheduling order, modeling the
// host editor's single-threaded cooperative loop.
type MemHost struct {
	window   *MemWindow
	timers   []func()
	statuses []string
	errors   []string
}

// NewMemHost creates a MemHost with one empty window.
func NewMemHost() *MemHost {
	h := &MemHost{}
	h.window = &MemWindow{host: h}
	return h
}

// Window returns the active window.
func (h *MemHost) Window() Window { return h.window }

// MemWindow returns the active window with its concrete type, for tests
// that need SetText and friends.
func (h *MemHost) MemWindow() *MemWindow { return h.window }

// ScheduleOnce queues fn; nothing runs until Drain is called.
func (h *MemHost) ScheduleOnce(_ time.Duration, fn func()) {
	h.timers = append(h.timers, fn)
}

// Drain runs every queued callback in order and returns how many ran.
// Callbacks queued while draining run in the same pass.
func (h *MemHost) Drain() int {
	ran := 0
	for len(h.timers) > 0 {
		fn := h.timers[0]
		h.timers = h.timers[1:]
		fn()
		ran++
	}
	return ran
}

// PendingTimers returns the number of queued callbacks.
func (h *MemHost) PendingTimers() int { return len(h.timers) }

// Status records a transient status message.
func (h *MemHost) Status(msg string) { h.statuses = append(h.statuses, msg) }

// Error records a blocking error notification.
func (h *MemHost) Error(msg string) { h.errors = append(h.errors, msg) }

// Statuses returns the recorded status messages.
func (h *MemHost) Statuses() []string { return h.statuses }

// Errors returns the recorded error notifications.
func (h *MemHost) Errors() []string { return h.errors }

// MemWindow is an in-memory Window.
type MemWindow struct {
	host    *MemHost
	buffers []*MemBuffer
}

// Buffers returns the open buffers.
func (w *MemWindow) Buffers() []Buffer {
	out := make([]Buffer, 0, len(w.buffers))
	for _, b := range w.buffers {
		if b.valid {
			out = append(out, b)
		}
	}
	return out
}

// NewBuffer opens a new untitled buffer.
func (w *MemWindow) NewBuffer() Buffer {
	b := &MemBuffer{id: newID(), valid: true, window: w}
	w.buffers = append(w.buffers, b)
	return b
}

// OpenFile opens a buffer backed by path, reading its content from disk.
// An already-open buffer for the same path is returned instead.
func (w *MemWindow) OpenFile(path string) Buffer {
	for _, b := range w.buffers {
		if b.valid && b.path == path {
			return b
		}
	}
	b := &MemBuffer{id: newID(), valid: true, window: w, path: path}
	if data, err := os.ReadFile(path); err == nil {
		b.text = string(data)
	}
	w.buffers = append(w.buffers, b)
	return b
}

// MemBuffer is an in-memory Buffer.
type MemBuffer struct {
	id      string
	text    string
	path    string
	scratch bool
	valid   bool
	window  *MemWindow
}

// ID returns the buffer's ULID.
func (b *MemBuffer) ID() string { return b.id }

// Text returns the buffer content.
func (b *MemBuffer) Text() string { return b.text }

// SetText replaces the buffer content. Hosts feed edits through this;
// it is not part of the Buffer interface the core consumes.
func (b *MemBuffer) SetText(text string) { b.text = text }

// FilePath returns the backing file path, or "" if untitled.
func (b *MemBuffer) FilePath() string { return b.path }

// Retarget rebinds the buffer to path.
func (b *MemBuffer) Retarget(path string) { b.path = path }

// SetScratch sets the scratch flag.
func (b *MemBuffer) SetScratch(scratch bool) { b.scratch = scratch }

// IsScratch reports the scratch flag.
func (b *MemBuffer) IsScratch() bool { return b.scratch }

// Valid reports whether the buffer is still open.
func (b *MemBuffer) Valid() bool { return b.valid }

// Close marks the buffer invalid.
func (b *MemBuffer) Close() { b.valid = false }

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// newID generates a ULID for a buffer identifier.
func newID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		// crypto/rand never fails in practice; fall back to a zero ULID
		// rather than panicking inside the host.
		return ulid.ULID{}.String()
	}
	return id.String()
}
