package clipboard

import (
	"context"
	"sync"
)

// Memory is an in-process pasteboard with a native change counter. It backs
// the dev console on platforms without clipboard access, and tests.
type Memory struct {
	mu    sync.RWMutex
	count int64
	text  *string
	image []byte

	writes int
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) ChangeCount(ctx context.Context) (int64, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.count, nil
}

func (m *Memory) ReadText(ctx context.Context) (string, bool, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.text == nil {
		return "", false, nil
	}
	return *m.text, true, nil
}

func (m *Memory) ReadImage(ctx context.Context) ([]byte, bool, error) {
	_ = ctx
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.image == nil {
		return nil, false, nil
	}
	return append([]byte(nil), m.image...), true, nil
}

func (m *Memory) WriteText(ctx context.Context, text string) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = &text
	m.image = nil
	m.count++
	m.writes++
	return nil
}

func (m *Memory) WriteImage(ctx context.Context, png []byte) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	m.image = append([]byte(nil), png...)
	m.text = nil
	m.count++
	m.writes++
	return nil
}

// Touch bumps the change counter without content, like a copy of a file
// reference or another type the engine cannot read.
func (m *Memory) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = nil
	m.image = nil
	m.count++
}

// Writes reports how many Write calls were made.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}
