package core

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
)

// Item is one captured clipboard event. Exactly one of OriginalText or
// Image is populated, per Kind; Unknown items carry neither.
type Item struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`

	OriginalText  string  `json:"original_text,omitempty"`
	SanitizedText *string `json:"sanitized_text,omitempty"`

	// Image is nil once the payload has been unloaded under memory pressure.
	// ImageSize keeps the original length for display.
	Image     []byte `json:"image,omitempty"`
	ImageSize int    `json:"image_size,omitempty"`

	Fingerprint string    `json:"fingerprint"`
	CreatedAt   time.Time `json:"created_at"`

	owner string
}

var ErrInvalidItem = errors.New("invalid item")

func NewTextItem(text string, sanitized *string, at time.Time) *Item {
	return &Item{
		ID:            ulid.Make().String(),
		Kind:          KindText,
		OriginalText:  text,
		SanitizedText: sanitized,
		Fingerprint:   Fingerprint(text),
		CreatedAt:     at,
	}
}

func NewImageItem(data []byte, at time.Time) *Item {
	return &Item{
		ID:          ulid.Make().String(),
		Kind:        KindImage,
		Image:       data,
		ImageSize:   len(data),
		Fingerprint: FingerprintBytes(data),
		CreatedAt:   at,
	}
}

func NewUnknownItem(at time.Time) *Item {
	return &Item{
		ID:        ulid.Make().String(),
		Kind:      KindUnknown,
		CreatedAt: at,
	}
}

// Text returns the text that should be exposed for copy-back: the sanitized
// variant when present, else the original.
func (it *Item) Text() string {
	if it.SanitizedText != nil {
		return *it.SanitizedText
	}
	return it.OriginalText
}

// Sanitized reports whether a rule changed the captured text.
func (it *Item) Sanitized() bool {
	return it.SanitizedText != nil && *it.SanitizedText != it.OriginalText
}

func (it *Item) ImageLoaded() bool {
	return it.Kind == KindImage && it.Image != nil
}

// Unload releases the image payload and reports whether anything was freed.
func (it *Item) Unload() bool {
	if !it.ImageLoaded() {
		return false
	}
	it.Image = nil
	return true
}

// Validate checks the kind/payload invariant.
func (it *Item) Validate() error {
	if it.ID == "" {
		return errors.Join(ErrInvalidItem, errors.New("missing id"))
	}
	switch it.Kind {
	case KindText:
		if it.OriginalText == "" || it.Image != nil {
			return errors.Join(ErrInvalidItem, errors.New("text item must carry text only"))
		}
	case KindImage:
		if it.OriginalText != "" || it.SanitizedText != nil {
			return errors.Join(ErrInvalidItem, errors.New("image item must not carry text"))
		}
	case KindUnknown:
		if it.OriginalText != "" || it.Image != nil {
			return errors.Join(ErrInvalidItem, errors.New("unknown item must carry no payload"))
		}
	default:
		return errors.Join(ErrInvalidItem, errors.New("unknown kind "+string(it.Kind)))
	}
	return nil
}

// Owner returns the identifier of the engine this item belongs to.
func (it *Item) Owner() string { return it.owner }

// Attach rebinds the item to an engine identifier.
func (it *Item) Attach(owner string) { it.owner = owner }

// CopyToClipboard writes the item back to the system clipboard through its
// owning engine. The engine is resolved by identifier at call time.
func (it *Item) CopyToClipboard(ctx context.Context) error {
	c, ok := lookupOwner(it.owner)
	if !ok {
		return ErrOwnerReleased
	}
	return c.CopyToClipboard(ctx, it.ID)
}
