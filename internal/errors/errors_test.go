package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"
)

func TestIs(t *testing.T) {
	err := NewContentUnavailable("01H")
	if !Is(err, ErrContentUnavailable) {
		t.Fatal("expected CONTENT_UNAVAILABLE")
	}
	if Is(err, ErrNotFound) {
		t.Fatal("did not expect NOT_FOUND")
	}
	if Is(io.EOF, ErrInternal) {
		t.Fatal("plain errors carry no code")
	}
}

func TestIsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("copy: %w", NewNotFound("abc"))
	if !Is(err, ErrNotFound) {
		t.Fatal("expected code to survive wrapping")
	}
}

func TestUnwrapCause(t *testing.T) {
	err := NewStorage("save", io.ErrUnexpectedEOF)
	if !stderrors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatal("expected cause to be reachable")
	}
	if err.Error() != "STORAGE: save: unexpected EOF" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestNewInternalNil(t *testing.T) {
	if NewInternal(nil).Message != "internal error" {
		t.Fatal("expected default message")
	}
}
