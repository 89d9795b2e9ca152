//go:build darwin

package clipboard

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Darwin talks to NSPasteboard through pbpaste/pbcopy for text and JXA
// (osascript) for the change counter and PNG data.
type Darwin struct{}

func NewDarwin() *Darwin { return &Darwin{} }

// System returns the pasteboard for this OS.
func System() (Pasteboard, error) { return NewDarwin(), nil }

const jxaPrelude = `ObjC.import("AppKit"); var pb = $.NSPasteboard.generalPasteboard;`

func (d *Darwin) ChangeCount(ctx context.Context) (int64, error) {
	out, err := runJXA(ctx, jxaPrelude+` pb.changeCount;`, nil)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
}

func (d *Darwin) ReadText(ctx context.Context) (string, bool, error) {
	cmd := exec.CommandContext(ctx, "pbpaste")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", false, err
	}
	if out.Len() == 0 {
		return "", false, nil
	}
	return out.String(), true, nil
}

func (d *Darwin) ReadImage(ctx context.Context) ([]byte, bool, error) {
	out, err := runJXA(ctx, jxaPrelude+`
var data = pb.dataForType($.NSPasteboardTypePNG);
data.isNil() ? "" : data.base64EncodedStringWithOptions(0).js;`, nil)
	if err != nil {
		return nil, false, err
	}
	encoded := strings.TrimSpace(string(out))
	if encoded == "" {
		return nil, false, nil
	}
	img, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, false, fmt.Errorf("decode pasteboard png: %w", err)
	}
	return img, true, nil
}

func (d *Darwin) WriteText(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, "pbcopy")
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

func (d *Darwin) WriteImage(ctx context.Context, png []byte) error {
	if len(png) == 0 {
		return fmt.Errorf("clipboard: empty image")
	}
	// The payload travels on stdin so large images don't hit argv limits.
	_, err := runJXA(ctx, jxaPrelude+`
ObjC.import("Foundation");
var input = $.NSFileHandle.fileHandleWithStandardInput.readDataToEndOfFile;
var b64 = $.NSString.alloc.initWithDataEncoding(input, $.NSUTF8StringEncoding);
var data = $.NSData.alloc.initWithBase64EncodedStringOptions(b64, 0);
pb.clearContents;
pb.setDataForType(data, $.NSPasteboardTypePNG);`, strings.NewReader(base64.StdEncoding.EncodeToString(png)))
	return err
}

func runJXA(ctx context.Context, script string, stdin *strings.Reader) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "osascript", "-l", "JavaScript", "-e", script)
	if stdin != nil {
		cmd.Stdin = stdin
	}
	return cmd.Output()
}
