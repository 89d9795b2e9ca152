//go:build linux

package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// X11 reads and writes the CLIPBOARD selection through xclip or xsel.
type X11 struct{}

func NewX11() *X11 { return &X11{} }

// System returns the pasteboard for this OS. X11 has no change counter, so
// one is derived from content fingerprints.
func System() (Pasteboard, error) {
	if _, err := exec.LookPath("xclip"); err == nil {
		return NewCounting(NewX11()), nil
	}
	if _, err := exec.LookPath("xsel"); err == nil {
		return NewCounting(NewX11()), nil
	}
	return nil, fmt.Errorf("%w: xclip or xsel required for X11 clipboard access", ErrUnsupported)
}

func (x *X11) ReadText(ctx context.Context) (string, bool, error) {
	data, err := readClipboardTarget(ctx, "UTF8_STRING")
	if err != nil || len(data) == 0 {
		return "", false, nil
	}
	return string(data), true, nil
}

func (x *X11) ReadImage(ctx context.Context) ([]byte, bool, error) {
	data, err := readClipboardTarget(ctx, "image/png")
	if err != nil || len(data) == 0 {
		return nil, false, nil
	}
	return data, true, nil
}

func (x *X11) WriteText(ctx context.Context, text string) error {
	return writeClipboardTarget(ctx, "UTF8_STRING", []byte(text))
}

func (x *X11) WriteImage(ctx context.Context, png []byte) error {
	return writeClipboardTarget(ctx, "image/png", png)
}

// A missing target makes xclip exit non-zero; callers treat that as absent.
func readClipboardTarget(ctx context.Context, target string) ([]byte, error) {
	if path, err := exec.LookPath("xclip"); err == nil {
		return exec.CommandContext(ctx, path, "-selection", "clipboard", "-t", target, "-o").Output()
	}
	if target != "UTF8_STRING" {
		return nil, errors.New("clipboard: xsel only supports text")
	}
	if path, err := exec.LookPath("xsel"); err == nil {
		return exec.CommandContext(ctx, path, "-b", "-o").Output()
	}
	return nil, errors.New("clipboard: xclip or xsel required for X11 clipboard access")
}

func writeClipboardTarget(ctx context.Context, target string, data []byte) error {
	if len(data) == 0 {
		return errors.New("clipboard: empty data")
	}
	if path, err := exec.LookPath("xclip"); err == nil {
		cmd := exec.CommandContext(ctx, path, "-selection", "clipboard", "-t", target, "-i")
		cmd.Stdin = bytes.NewReader(data)
		return cmd.Run()
	}
	if target != "UTF8_STRING" {
		return errors.New("clipboard: xsel only supports text")
	}
	if path, err := exec.LookPath("xsel"); err == nil {
		cmd := exec.CommandContext(ctx, path, "-b", "-i")
		cmd.Stdin = bytes.NewReader(data)
		return cmd.Run()
	}
	return errors.New("clipboard: xclip or xsel required for X11 clipboard access")
}
