package cli

import (
	"os"

	"github.com/matzehuels/lanegraph/pkg/errors"
	"github.com/matzehuels/lanegraph/pkg/protocol"
	"github.com/matzehuels/lanegraph/pkg/terminal"
)

// session describes the terminal the graph is printed to.
type session struct {
	// tty is the controlling terminal, used for protocol queries. It is nil
	// when there is none.
	tty *os.File

	// interactive is true when stdout is a terminal.
	interactive bool

	cols, rows   int
	cellW, cellH int
}

// openSession inspects stdout and opens the controlling terminal.
func openSession() *session {
	s := &session{interactive: terminal.IsTerminal(int(os.Stdout.Fd()))}
	if tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0); err == nil {
		s.tty = tty
	}

	for _, fd := range s.fds() {
		if cols, rows, err := terminal.Size(fd); err == nil {
			s.cols, s.rows = cols, rows
			break
		}
	}
	for _, fd := range s.fds() {
		if w, h, ok := terminal.CellPixelSize(fd); ok {
			s.cellW, s.cellH = w, h
			break
		}
	}
	return s
}

// fds returns stdout (when it is a terminal) and the controlling terminal.
func (s *session) fds() []int {
	var fds []int
	if s.interactive {
		fds = append(fds, int(os.Stdout.Fd()))
	}
	if s.tty != nil {
		fds = append(fds, int(s.tty.Fd()))
	}
	return fds
}

// Close releases the controlling terminal.
func (s *session) Close() {
	if s.tty != nil {
		_ = s.tty.Close()
	}
}

// protocol resolves the image protocol from the flag or the config.
func (s *session) protocol(flag, configured string) (protocol.Protocol, error) {
	name := flag
	if name == "" {
		name = configured
	}
	mode, err := protocol.Parse(name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidProtocol, err, "protocol")
	}
	return protocol.New(mode, os.Getenv, s.tty), nil
}
