package capture

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/its-jojoo/otterclip/internal/adapter/clipboard"
	"github.com/its-jojoo/otterclip/internal/core"
)

// MaxTextLen caps captured text, in bytes. Longer text is cut at the last
// rune boundary before the cap.
const MaxTextLen = 32_000

// Content is what the pasteboard held at one change.
type Content struct {
	Kind  core.Kind
	Text  string
	Image []byte
}

// Extract reads the current pasteboard payload. Image wins over text when
// both are offered. ok is false when the change carries only whitespace
// text and should not be recorded.
func Extract(ctx context.Context, pb clipboard.Pasteboard) (c Content, ok bool, err error) {
	img, hasImg, err := pb.ReadImage(ctx)
	if err != nil {
		return Content{}, false, err
	}
	if hasImg && len(img) > 0 {
		return Content{Kind: core.KindImage, Image: img}, true, nil
	}

	txt, hasTxt, err := pb.ReadText(ctx)
	if err != nil {
		return Content{}, false, err
	}
	if hasTxt {
		if strings.TrimSpace(txt) == "" {
			return Content{}, false, nil
		}
		return Content{Kind: core.KindText, Text: truncate(txt, MaxTextLen)}, true, nil
	}

	return Content{Kind: core.KindUnknown}, true, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
