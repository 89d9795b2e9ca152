package storage

import (
	"context"

	"github.com/its-jojoo/otterclip/internal/core"
)

// Store is durable history storage. Save replaces whatever was stored with
// the given ordered sequence (most recent first); Load returns it in the same
// order; Erase removes it.
type Store interface {
	Save(ctx context.Context, items []core.Item) error
	Load(ctx context.Context) ([]core.Item, error)
	Erase(ctx context.Context) error
	Close() error
}
