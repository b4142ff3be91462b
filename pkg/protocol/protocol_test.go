package protocol

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) Getenv {
	return func(k string) string { return vars[k] }
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeAuto, false},
		{"auto", ModeAuto, false},
		{"iterm", ModeITerm2, false},
		{"ITerm2", ModeITerm2, false},
		{"kitty", ModeKitty, false},
		{"sixel", ModeAuto, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, "kitty", ModeKitty.String())
}

func TestITerm2Encode(t *testing.T) {
	got := ITerm2{}.Encode([]byte("png"), 4)
	assert.Equal(t, "\x1b]1337;File=size=3;width=4;height=1;preserveAspectRatio=0;inline=1:cG5n\a", got)

	var buf bytes.Buffer
	ITerm2{}.ClearLine(&buf, 3)
	assert.Zero(t, buf.Len())
}

func TestKittyEncodeSingleChunk(t *testing.T) {
	k := &Kitty{pid: 0x1234}
	id := uint32(0x12340001)
	got := k.encode([]byte("png"), 2, 1, id)

	cell := func(x int) string {
		return string([]rune{placeholder, placeholderDiacritics[0], placeholderDiacritics[x], placeholderDiacritics[0x12]})
	}
	want := fmt.Sprintf("\x1b_Gq=2,a=T,f=100,C=1,U=1,c=2,r=1,i=%d,m=0;cG5n\x1b\\", id) +
		"\x1b[38;2;52;0;1m" + cell(0) + cell(1)
	assert.Equal(t, want, got)
}

func TestKittyEncodeChunks(t *testing.T) {
	k := NewKitty(PassthruNone)
	png := bytes.Repeat([]byte{0xAB}, 4000) // 5336 base64 bytes
	got := k.Encode(png, 3)

	assert.Equal(t, 2, strings.Count(got, "\x1b_G"))
	assert.Equal(t, 1, strings.Count(got, "q=2,a=T"))
	first := strings.Index(got, "m=1;")
	last := strings.Index(got, "m=0;")
	require.True(t, first > 0 && last > first, "m=1 must precede m=0")

	payload := got[first+len("m=1;") : strings.Index(got[first:], "\x1b\\")+first]
	assert.Len(t, payload, kittyChunkSize)
	assert.Equal(t, 3, strings.Count(got, string(placeholder)))
}

func TestKittyImageIDs(t *testing.T) {
	k := NewKitty(PassthruNone)
	a, b := k.nextID(), k.nextID()
	assert.Equal(t, a+1, b)
	assert.Equal(t, k.pid, a>>16)
	assert.Equal(t, uint32(1), a&0xffff)

	// Each encoder counts on its own.
	assert.Equal(t, a, NewKitty(PassthruNone).nextID())
}

func TestKittyTmuxPassthru(t *testing.T) {
	k := &Kitty{passthru: PassthruTmux}
	got := k.encode([]byte("png"), 1, 1, 7)
	assert.True(t, strings.HasPrefix(got, "\x1bPtmux;\x1b\x1b_Gq=2"), got)
	assert.Contains(t, got, "cG5n\x1b\x1b\\\x1b\\\x1b[38;2;0;0;7m")

	var buf bytes.Buffer
	k.ClearLine(&buf, 0)
	assert.Equal(t, "\x1bPtmux;\x1b\x1b_Ga=d,d=Y,y=1;\x1b\x1b\\\x1b\\", buf.String())
}

func TestKittyClearLine(t *testing.T) {
	var buf bytes.Buffer
	NewKitty(PassthruNone).ClearLine(&buf, 3)
	assert.Equal(t, "\x1b_Ga=d,d=Y,y=4;\x1b\\", buf.String())
}

func TestDiacritic(t *testing.T) {
	assert.Len(t, placeholderDiacritics, 297)
	assert.Equal(t, rune(0x0305), diacritic(0))
	assert.Equal(t, rune(0x030D), diacritic(1))
	assert.Equal(t, rune(0x0305), diacritic(297))
}

func TestDetectPassthru(t *testing.T) {
	assert.Equal(t, PassthruTmux, DetectPassthru(env(map[string]string{"TERM": "tmux-256color"})))
	assert.Equal(t, PassthruTmux, DetectPassthru(env(map[string]string{"TERM_PROGRAM": "tmux"})))
	assert.Equal(t, PassthruNone, DetectPassthru(env(map[string]string{"TERM": "xterm-256color"})))
}

func TestDetectFromEnvironment(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		want string
	}{
		{"kitty window", map[string]string{"KITTY_WINDOW_ID": "1"}, "kitty"},
		{"kitty term", map[string]string{"TERM": "xterm-kitty"}, "kitty"},
		{"ghostty", map[string]string{"TERM_PROGRAM": "ghostty"}, "kitty"},
		{"wezterm", map[string]string{"TERM_PROGRAM": "WezTerm"}, "iterm"},
		{"unknown", map[string]string{"TERM_PROGRAM": "Apple_Terminal"}, "iterm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(env(tt.vars), nil).Name())
		})
	}
}

func TestNewExplicitMode(t *testing.T) {
	vars := env(map[string]string{"KITTY_WINDOW_ID": "1", "TERM": "tmux"})
	assert.Equal(t, "iterm", New(ModeITerm2, vars, nil).Name())

	p := New(ModeKitty, vars, nil)
	require.IsType(t, &Kitty{}, p)
	assert.Equal(t, PassthruTmux, p.(*Kitty).Passthru())
}

func TestQueryKitty(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  bool
	}{
		{"supported", "\x1b_Gi=9999;OK\x1b\\\x1b[?62;22c", true},
		{"device attributes only", "\x1b[?62;22c", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ptmx, tty, err := pty.Open()
			require.NoError(t, err)
			defer ptmx.Close()
			defer tty.Close()

			done := make(chan struct{})
			go func() {
				defer close(done)
				var seen []byte
				buf := make([]byte, 256)
				for !bytes.Contains(seen, []byte("[0c")) {
					n, err := ptmx.Read(buf)
					if err != nil {
						return
					}
					seen = append(seen, buf[:n]...)
				}
				_, _ = ptmx.Write([]byte(tt.reply))
			}()

			got, err := QueryKitty(tty, PassthruNone, 2*time.Second)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			<-done
		})
	}
}

func TestQueryKittyTimeout(t *testing.T) {
	ptmx, tty, err := pty.Open()
	require.NoError(t, err)
	defer ptmx.Close()
	defer tty.Close()

	start := time.Now()
	got, err := QueryKitty(tty, PassthruNone, 100*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, got)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestDeviceAttributesDone(t *testing.T) {
	assert.True(t, deviceAttributesDone([]byte("\x1b_Gi=9999;OK\x1b\\\x1b[?62c")))
	assert.False(t, deviceAttributesDone([]byte("\x1b_Gi=9999;OK\x1b\\")))
	assert.False(t, deviceAttributesDone([]byte("abc")))
	assert.False(t, deviceAttributesDone(nil))
}
