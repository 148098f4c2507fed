// Package errors defines the structured error type shared by the CLI, MCP
// and web surfaces.
package errors

import "fmt"

// ErrorCode represents a scratchbook error code.
type ErrorCode string

const (
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST" // 400
	ErrNotFound       ErrorCode = "NOT_FOUND"       // 404
	ErrSaveFailed     ErrorCode = "SAVE_FAILED"     // 500
	ErrInternal       ErrorCode = "INTERNAL"        // 500
)

// ScratchError represents a structured error with code, status, and details.
type ScratchError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *ScratchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *ScratchError {
	return &ScratchError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing scratch file.
func NewNotFound(path string) *ScratchError {
	return &ScratchError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("scratch file not found: %s", path),
		Details: map[string]any{"path": path},
	}
}

// NewSaveFailed creates a 500 error for a failed filesystem write.
func NewSaveFailed(path string, err error) *ScratchError {
	return &ScratchError{
		Code:    ErrSaveFailed,
		Status:  500,
		Message: fmt.Sprintf("failed to save %s: %v", path, err),
		Details: map[string]any{"path": path},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *ScratchError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ScratchError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a ScratchError with the given code.
func Is(err error, code ErrorCode) bool {
	if sErr, ok := err.(*ScratchError); ok {
		return sErr.Code == code
	}
	return false
}
