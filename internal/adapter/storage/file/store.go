// Package file stores history as a single versioned JSON blob.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/its-jojoo/otterclip/internal/core"
)

const snapshotVersion = 1

type snapshot struct {
	Version   int         `json:"version"`
	Items     []core.Item `json:"items"`
	UpdatedAt string      `json:"updated_at,omitempty"`
}

type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

// Save writes the blob with a temp file + rename so a crash never leaves a
// half-written file behind.
func (s *Store) Save(ctx context.Context, items []core.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if items == nil {
		items = []core.Item{}
	}
	data, err := json.Marshal(snapshot{
		Version:   snapshotVersion,
		Items:     items,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeBlob(data)
}

func (s *Store) writeBlob(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, s.path)
}

// Load returns nothing, without error, when no blob exists yet.
func (s *Store) Load(ctx context.Context) ([]core.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported history snapshot version %d", snap.Version)
	}
	return snap.Items, nil
}

func (s *Store) Erase(ctx context.Context) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) Close() error { return nil }
