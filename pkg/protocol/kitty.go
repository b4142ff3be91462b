package protocol

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
)

// kittyChunkSize is the largest base64 payload of one graphics command.
const kittyChunkSize = 4096

// placeholder is the kitty unicode placeholder character.
const placeholder = '\U0010EEEE'

// Kitty encodes images with the kitty graphics protocol
// (https://sw.kovidgoyal.net/kitty/graphics-protocol/). Each image is
// transmitted once and displayed through unicode placeholder cells.
//
// Image ids combine the process id with a per-encoder counter, so a rerun
// never reuses the ids of images a terminal still holds from the previous
// run.
type Kitty struct {
	passthru Passthru
	pid      uint32
	counter  atomic.Uint32
}

// NewKitty returns a kitty encoder wrapping its sequences for passthru.
func NewKitty(passthru Passthru) *Kitty {
	return &Kitty{passthru: passthru, pid: uint32(uint16(os.Getpid()))}
}

func (k *Kitty) Name() string { return "kitty" }

// Passthru returns the multiplexer wrapping in use.
func (k *Kitty) Passthru() Passthru { return k.passthru }

func (k *Kitty) nextID() uint32 {
	n := uint16(k.counter.Add(1))
	return k.pid<<16 | uint32(n)
}

// Encode transmits the image and returns it followed by cellWidth
// placeholder cells. The placeholders carry the image id as their
// foreground color and leave that color set.
func (k *Kitty) Encode(png []byte, cellWidth int) string {
	return k.encode(png, cellWidth, 1, k.nextID())
}

func (k *Kitty) encode(png []byte, cols, rows int, id uint32) string {
	data := base64.StdEncoding.EncodeToString(png)

	var b strings.Builder
	b.WriteString(k.passthru.wrap(func(esc string) string {
		var s strings.Builder
		for i := 0; i == 0 || i < len(data); i += kittyChunkSize {
			chunk := data[i:min(i+kittyChunkSize, len(data))]
			s.WriteString(esc + "_G")
			if i == 0 {
				fmt.Fprintf(&s, "q=2,a=T,f=100,C=1,U=1,c=%d,r=%d,i=%d,", cols, rows, id)
			}
			if i+kittyChunkSize < len(data) {
				s.WriteString("m=1;")
			} else {
				s.WriteString("m=0;")
			}
			s.WriteString(chunk)
			s.WriteString(esc + "\\")
		}
		return s.String()
	}))

	fmt.Fprintf(&b, "\x1b[38;2;%d;%d;%dm", id>>16&0xff, id>>8&0xff, id&0xff)
	msb := diacritic(int(id >> 24 & 0xff))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			b.WriteRune(placeholder)
			b.WriteRune(diacritic(y))
			b.WriteRune(diacritic(x))
			b.WriteRune(msb)
		}
	}
	return b.String()
}

// diacritic returns the mark for n, or the mark for 0 when n is past the
// end of the table.
func diacritic(n int) rune {
	if n < 0 || n >= len(placeholderDiacritics) {
		return placeholderDiacritics[0]
	}
	return placeholderDiacritics[n]
}

// ClearLine deletes every image intersecting screen line y.
func (k *Kitty) ClearLine(w io.Writer, y int) {
	_, _ = io.WriteString(w, k.passthru.wrap(func(esc string) string {
		return fmt.Sprintf("%s_Ga=d,d=Y,y=%d;%s\\", esc, y+1, esc)
	}))
}
