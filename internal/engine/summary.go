package engine

import (
	"fmt"
	"time"

	"github.com/its-jojoo/otterclip/internal/core"
)

const previewLen = 80

// Summary is the read-only view of one history entry.
type Summary struct {
	ID             string    `json:"id"`
	Kind           core.Kind `json:"kind"`
	Preview        string    `json:"preview"`
	Hint           core.Hint `json:"hint,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	ImageAvailable bool      `json:"image_available"`
	ImageSize      int       `json:"image_size,omitempty"`
	Sanitized      bool      `json:"sanitized"`
}

func summarize(items []core.Item) []Summary {
	out := make([]Summary, 0, len(items))
	for i := range items {
		out = append(out, summaryOf(&items[i]))
	}
	return out
}

func summaryOf(it *core.Item) Summary {
	s := Summary{
		ID:        it.ID,
		Kind:      it.Kind,
		CreatedAt: it.CreatedAt,
	}
	switch it.Kind {
	case core.KindText:
		text := it.Text()
		s.Preview = core.Preview(text, previewLen)
		s.Hint = core.DetectHint(text)
		s.Sanitized = it.Sanitized()
	case core.KindImage:
		s.ImageAvailable = it.ImageLoaded()
		s.ImageSize = it.ImageSize
		if s.ImageAvailable {
			s.Preview = fmt.Sprintf("[image %s]", humanBytes(it.ImageSize))
		} else {
			s.Preview = fmt.Sprintf("[image %s, unloaded]", humanBytes(it.ImageSize))
		}
	default:
		s.Preview = "[unsupported content]"
	}
	return s
}

func humanBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
