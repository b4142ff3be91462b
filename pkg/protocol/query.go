package protocol

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

const (
	saveCursor    = "\x1b7"
	restoreCursor = "\x1b8"
	kittyOK       = "\x1b_Gi=9999;OK"
)

// QueryKitty asks the terminal behind tty whether it speaks the kitty
// graphics protocol. The kitty query is followed by a primary device
// attributes request, which every terminal answers, so the reply is read
// until that answer or until timeout. tty is put in raw mode for the
// duration of the query.
func QueryKitty(tty *os.File, passthru Passthru, timeout time.Duration) (bool, error) {
	fd, err := descriptor(tty)
	if err != nil {
		return false, err
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return false, err
	}
	defer func() { _ = term.Restore(fd, state) }()

	query := saveCursor +
		passthru.wrap(func(esc string) string { return esc + "_Gi=9999,s=1,v=1,a=q,t=d,f=24;AAAA" + esc + "\\" }) +
		passthru.wrap(func(esc string) string { return esc + "[0c" }) +
		restoreCursor
	if _, err := io.WriteString(tty, query); err != nil {
		return false, err
	}

	reply, err := readReply(tty, timeout)
	if err != nil {
		return false, err
	}
	return bytes.Contains(reply, []byte(kittyOK)), nil
}

// descriptor returns the fd of f without switching it to blocking mode,
// which os.File.Fd would do and which would disable read deadlines.
func descriptor(f *os.File) (int, error) {
	rc, err := f.SyscallConn()
	if err != nil {
		return 0, err
	}
	var fd int
	if err := rc.Control(func(p uintptr) { fd = int(p) }); err != nil {
		return 0, err
	}
	return fd, nil
}

// readReply reads until a device attributes answer (ESC [ ? ... c) ends the
// reply or the deadline passes.
func readReply(r *os.File, timeout time.Duration) ([]byte, error) {
	deadline := time.Now().Add(timeout)
	if err := r.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	defer func() { _ = r.SetReadDeadline(time.Time{}) }()

	var reply []byte
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		reply = append(reply, buf[:n]...)
		if deviceAttributesDone(reply) {
			return reply, nil
		}
		switch {
		case errors.Is(err, os.ErrDeadlineExceeded), errors.Is(err, io.EOF):
			return reply, nil
		case err != nil:
			return reply, err
		}
	}
}

func deviceAttributesDone(reply []byte) bool {
	if len(reply) == 0 || reply[len(reply)-1] != 'c' {
		return false
	}
	i := bytes.LastIndexByte(reply, 0x1b)
	return i >= 0 && bytes.HasPrefix(reply[i+1:], []byte("[?"))
}
