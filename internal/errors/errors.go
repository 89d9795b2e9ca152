package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents an OtterClip error code.
type ErrorCode string

const (
	ErrNotFound             ErrorCode = "NOT_FOUND"
	ErrContentUnavailable   ErrorCode = "CONTENT_UNAVAILABLE"
	ErrNotCopyable          ErrorCode = "NOT_COPYABLE"
	ErrInvalidRule          ErrorCode = "INVALID_RULE"
	ErrClipboardUnavailable ErrorCode = "CLIPBOARD_UNAVAILABLE"
	ErrStorage              ErrorCode = "STORAGE"
	ErrInternal             ErrorCode = "INTERNAL"
)

// ClipError is a structured error with code and details.
type ClipError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
	Err     error
}

// Error implements the error interface.
func (e *ClipError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ClipError) Unwrap() error { return e.Err }

// NewNotFound creates an error for an item id that is not in history.
func NewNotFound(id string) *ClipError {
	return &ClipError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("item not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewContentUnavailable creates an error for an item whose payload was released.
func NewContentUnavailable(id string) *ClipError {
	return &ClipError{
		Code:    ErrContentUnavailable,
		Message: "copy failed: content unavailable",
		Details: map[string]any{"id": id},
	}
}

// NewNotCopyable creates an error for items of a kind that cannot be written back.
func NewNotCopyable(id, kind string) *ClipError {
	return &ClipError{
		Code:    ErrNotCopyable,
		Message: fmt.Sprintf("%s items cannot be copied", kind),
		Details: map[string]any{"id": id, "kind": kind},
	}
}

// NewInvalidRule wraps a sanitization rule problem.
func NewInvalidRule(err error) *ClipError {
	return &ClipError{
		Code:    ErrInvalidRule,
		Message: err.Error(),
		Err:     err,
	}
}

// NewClipboardUnavailable wraps a failure talking to the system clipboard.
func NewClipboardUnavailable(err error) *ClipError {
	return &ClipError{
		Code:    ErrClipboardUnavailable,
		Message: fmt.Sprintf("clipboard unavailable: %v", err),
		Err:     err,
	}
}

// NewStorage wraps a durable storage failure.
func NewStorage(op string, err error) *ClipError {
	return &ClipError{
		Code:    ErrStorage,
		Message: fmt.Sprintf("%s: %v", op, err),
		Details: map[string]any{"op": op},
		Err:     err,
	}
}

// NewInternal creates an error for unexpected internal failures.
func NewInternal(err error) *ClipError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &ClipError{
		Code:    ErrInternal,
		Message: msg,
		Err:     err,
	}
}

// Is checks if err is, or wraps, a ClipError with the given code.
func Is(err error, code ErrorCode) bool {
	var cErr *ClipError
	if stderrors.As(err, &cErr) {
		return cErr.Code == code
	}
	return false
}
