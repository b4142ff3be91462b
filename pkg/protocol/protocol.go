// Package protocol encodes row images as terminal inline-image escape
// sequences.
//
// Two protocols are supported:
//
//   - [ITerm2]: the iTerm2 inline image protocol, also spoken by WezTerm
//     and several other emulators.
//   - [Kitty]: the kitty graphics protocol using unicode placeholders, so
//     an image occupies ordinary text cells and scrolls with them.
//
// [Detect] chooses between them from the environment and, when a terminal
// is attached, by asking the terminal directly.
package protocol

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Protocol turns PNG bytes into a string that displays the image inline
// across cellWidth terminal columns of a single line.
type Protocol interface {
	Encode(png []byte, cellWidth int) string
	// ClearLine discards images placed on screen line y (0-based).
	ClearLine(w io.Writer, y int)
	Name() string
}

// Mode is the protocol selection requested by the user.
type Mode int

const (
	ModeAuto Mode = iota
	ModeITerm2
	ModeKitty
)

func (m Mode) String() string {
	switch m {
	case ModeITerm2:
		return "iterm"
	case ModeKitty:
		return "kitty"
	default:
		return "auto"
	}
}

// Parse parses "auto", "iterm" or "kitty".
func Parse(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "iterm", "iterm2":
		return ModeITerm2, nil
	case "kitty":
		return ModeKitty, nil
	}
	return ModeAuto, fmt.Errorf("unknown protocol %q (want auto, iterm or kitty)", s)
}

// Getenv looks up an environment variable; os.Getenv satisfies it.
type Getenv func(string) string

// QueryTimeout bounds how long Detect waits for the terminal to answer.
const QueryTimeout = 500 * time.Millisecond

// New returns the protocol for mode. ModeAuto runs [Detect].
func New(mode Mode, getenv Getenv, tty *os.File) Protocol {
	if getenv == nil {
		getenv = os.Getenv
	}
	switch mode {
	case ModeITerm2:
		return ITerm2{}
	case ModeKitty:
		return NewKitty(DetectPassthru(getenv))
	}
	return Detect(getenv, tty)
}

// Detect picks kitty when the environment names a terminal known to
// support it or when tty answers the kitty support query, and iTerm2
// otherwise. A nil tty skips the query.
func Detect(getenv Getenv, tty *os.File) Protocol {
	passthru := DetectPassthru(getenv)
	if kittyEnv(getenv) {
		return NewKitty(passthru)
	}
	if tty != nil {
		if ok, err := QueryKitty(tty, passthru, QueryTimeout); err == nil && ok {
			return NewKitty(passthru)
		}
	}
	return ITerm2{}
}

func kittyEnv(getenv Getenv) bool {
	if getenv("KITTY_WINDOW_ID") != "" || getenv("TERM") == "xterm-kitty" {
		return true
	}
	// Not WezTerm: it lacks unicode placeholders.
	return getenv("TERM_PROGRAM") == "ghostty"
}
