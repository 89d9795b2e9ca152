package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

type recordingCopier struct {
	ids []string
}

func (r *recordingCopier) CopyToClipboard(_ context.Context, id string) error {
	r.ids = append(r.ids, id)
	return nil
}

func TestTextItemFallsBackToOriginal(t *testing.T) {
	it := NewTextItem("hello", nil, time.Now())
	if it.Text() != "hello" || it.Sanitized() {
		t.Fatalf("expected original text, got %q", it.Text())
	}

	masked := "he" + MaskToken
	it = NewTextItem("hello", &masked, time.Now())
	if it.Text() != masked || !it.Sanitized() {
		t.Fatalf("expected sanitized text, got %q", it.Text())
	}
}

func TestImageUnloadKeepsMetadata(t *testing.T) {
	it := NewImageItem([]byte{1, 2, 3}, time.Now())
	if !it.ImageLoaded() {
		t.Fatalf("expected payload loaded")
	}
	if !it.Unload() {
		t.Fatalf("expected unload to free payload")
	}
	if it.ImageLoaded() || it.Unload() {
		t.Fatalf("expected payload gone")
	}
	if it.ImageSize != 3 || it.Fingerprint == "" || it.Kind != KindImage {
		t.Fatalf("metadata lost after unload: %+v", it)
	}
}

func TestValidate(t *testing.T) {
	if err := NewTextItem("x", nil, time.Now()).Validate(); err != nil {
		t.Fatal(err)
	}
	if err := NewUnknownItem(time.Now()).Validate(); err != nil {
		t.Fatal(err)
	}
	bad := NewTextItem("x", nil, time.Now())
	bad.Image = []byte{1}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidItem) {
		t.Fatalf("expected ErrInvalidItem, got %v", err)
	}
}

func TestItemCopyResolvesOwnerByID(t *testing.T) {
	c := &recordingCopier{}
	RegisterOwner("engine-a", c)

	it := NewTextItem("hello", nil, time.Now())
	it.Attach("engine-a")
	if err := it.CopyToClipboard(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(c.ids) != 1 || c.ids[0] != it.ID {
		t.Fatalf("expected copy routed to owner, got %v", c.ids)
	}

	ReleaseOwner("engine-a")
	if err := it.CopyToClipboard(context.Background()); !errors.Is(err, ErrOwnerReleased) {
		t.Fatalf("expected ErrOwnerReleased, got %v", err)
	}
}

func TestDetachedItemHasNoOwner(t *testing.T) {
	it := NewUnknownItem(time.Now())
	if err := it.CopyToClipboard(context.Background()); !errors.Is(err, ErrOwnerReleased) {
		t.Fatalf("expected ErrOwnerReleased, got %v", err)
	}
}
