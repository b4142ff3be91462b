//go:build !unix

package terminal

// CellPixelSize is not available on this platform.
func CellPixelSize(int) (w, h int, ok bool) { return 0, 0, false }
