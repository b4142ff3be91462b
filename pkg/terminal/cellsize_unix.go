//go:build unix

package terminal

import "golang.org/x/sys/unix"

// CellPixelSize returns the size of one character cell in pixels. ok is
// false when the terminal does not report its pixel size.
func CellPixelSize(fd int) (w, h int, ok bool) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 || ws.Xpixel == 0 || ws.Ypixel == 0 {
		return 0, 0, false
	}
	return int(ws.Xpixel / ws.Col), int(ws.Ypixel / ws.Row), true
}
