// Package editor defines the narrow capability set the scratchbook core
// needs from a host editor. The core never owns buffer lifetime; it reads
// and writes through these interfaces, and a real editor integration
// implements them out of tree. An in-memory implementation lives in
// memory.go and backs tests, the CLI and the MCP handlers.
package editor

import "time"

// Buffer is an opaque reference to an open editor buffer.
type Buffer interface {
	// ID returns a stable identifier, unique for the buffer's lifetime.
	ID() string

	// Text returns the buffer's current content.
	Text() string

	// FilePath returns the backing file path, or "" for an untitled buffer.
	FilePath() string

	// Retarget rebinds the buffer to the given backing file path.
	Retarget(path string)

	// SetScratch marks the buffer as a scratch buffer; the host will not
	// prompt to save it on close.
	SetScratch(scratch bool)

	// IsScratch reports whether the scratch flag is set.
	IsScratch() bool

	// Valid reports whether the buffer is still open in the host.
	Valid() bool

	// Close closes the buffer in the host. The backing file, if any, is
	// left on disk.
	Close()
}

// Window enumerates and creates buffers.
type Window interface {
	// Buffers returns the open buffers in this window.
	Buffers() []Buffer

	// NewBuffer opens a new untitled buffer.
	NewBuffer() Buffer

	// OpenFile opens (or focuses) a buffer backed by the given path.
	OpenFile(path string) Buffer
}

// Host is the editor-side collaborator: scheduling, notifications, and
// access to the active window.
type Host interface {
	// Window returns the active window.
	Window() Window

	// ScheduleOnce schedules fn to run once after delay on the host's
	// cooperative event loop. There is no cancellation handle; callbacks
	// must re-validate their targets when they fire.
	ScheduleOnce(delay time.Duration, fn func())

	// Status shows a transient, non-blocking status message.
	Status(msg string)

	// Error shows a blocking error notification.
	Error(msg string)
}
