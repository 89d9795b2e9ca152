//go:build !darwin && !linux

package clipboard

// System reports that no system clipboard is available on this OS.
func System() (Pasteboard, error) { return nil, ErrUnsupported }
