package core

import (
	"context"
	"errors"
	"sync"
)

// Copier is implemented by the engine that owns items.
type Copier interface {
	CopyToClipboard(ctx context.Context, id string) error
}

var ErrOwnerReleased = errors.New("item owner is no longer registered")

// owners maps engine identifiers to engines. Items only ever hold the key.
var owners sync.Map

func RegisterOwner(id string, c Copier) {
	owners.Store(id, c)
}

func ReleaseOwner(id string) {
	owners.Delete(id)
}

func lookupOwner(id string) (Copier, bool) {
	if id == "" {
		return nil, false
	}
	v, ok := owners.Load(id)
	if !ok {
		return nil, false
	}
	return v.(Copier), true
}
