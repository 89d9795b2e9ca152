package clipboard

import (
	"context"
	"sync"

	"github.com/its-jojoo/otterclip/internal/core"
)

// Counting derives a change counter from content fingerprints for devices
// that do not expose one. Each ChangeCount call reads the clipboard.
type Counting struct {
	Device

	mu    sync.Mutex
	last  string
	count int64
}

func NewCounting(d Device) *Counting {
	return &Counting{Device: d}
}

func (c *Counting) ChangeCount(ctx context.Context) (int64, error) {
	fp, err := c.fingerprint(ctx)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if fp != c.last {
		c.last = fp
		c.count++
	}
	return c.count, nil
}

func (c *Counting) fingerprint(ctx context.Context) (string, error) {
	if img, ok, err := c.ReadImage(ctx); err == nil && ok {
		return "image:" + core.FingerprintBytes(img), nil
	}
	txt, ok, err := c.ReadText(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", nil
	}
	return "text:" + core.Fingerprint(txt), nil
}
