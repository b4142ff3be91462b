package protocol

import "strings"

// Passthru is the multiplexer wrapping needed for escape sequences to
// reach the outer terminal.
type Passthru int

const (
	PassthruNone Passthru = iota
	PassthruTmux
)

// DetectPassthru reports tmux when TERM or TERM_PROGRAM names it.
func DetectPassthru(getenv Getenv) Passthru {
	if strings.HasPrefix(getenv("TERM"), "tmux") || getenv("TERM_PROGRAM") == "tmux" {
		return PassthruTmux
	}
	return PassthruNone
}

// escapes returns the prefix of a wrapped sequence, the ESC byte as it
// must be written inside it, and the suffix.
func (p Passthru) escapes() (start, esc, end string) {
	if p == PassthruTmux {
		return "\x1bPtmux;", "\x1b\x1b", "\x1b\\"
	}
	return "", "\x1b", ""
}

// wrap builds a sequence with seq, which writes ESC as esc.
func (p Passthru) wrap(seq func(esc string) string) string {
	start, esc, end := p.escapes()
	return start + seq(esc) + end
}
