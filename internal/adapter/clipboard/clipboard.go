package clipboard

import (
	"context"
	"errors"
)

var ErrUnsupported = errors.New("clipboard access not implemented for this OS yet")

// Pasteboard is the system clipboard as seen by the engine. ChangeCount must
// increase whenever the clipboard content changes; the poller compares it
// between ticks and reads content only when it moved.
type Pasteboard interface {
	ChangeCount(ctx context.Context) (int64, error)
	ReadText(ctx context.Context) (string, bool, error)
	ReadImage(ctx context.Context) ([]byte, bool, error)
	WriteText(ctx context.Context, text string) error
	WriteImage(ctx context.Context, png []byte) error
}

// Device is a clipboard without a native change counter. Wrap it with
// NewCounting to get a Pasteboard.
type Device interface {
	ReadText(ctx context.Context) (string, bool, error)
	ReadImage(ctx context.Context) ([]byte, bool, error)
	WriteText(ctx context.Context, text string) error
	WriteImage(ctx context.Context, png []byte) error
}
