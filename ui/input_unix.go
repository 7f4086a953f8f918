//go:build unix

package ui

import (
	"errors"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"golang.org/x/sys/unix"

	"github.com/ftahirops/gputemp/engine"
)

// TermInput reads key presses from a terminal file descriptor using poll(2).
type TermInput struct {
	fd      int
	buf     [64]byte
	pending []byte
}

// NewTermInput reads from f, normally os.Stdin in raw mode.
func NewTermInput(f *os.File) *TermInput {
	return &TermInput{fd: int(f.Fd())}
}

// Poll waits up to timeout for input and returns the next key. Keys typed
// together in one read are returned one per call.
func (in *TermInput) Poll(timeout time.Duration) (engine.Event, bool, error) {
	if len(in.pending) > 0 {
		return in.next(), true, nil
	}

	fds := []unix.PollFd{{Fd: int32(in.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, int(timeout.Milliseconds()))
	if err != nil {
		if errors.Is(err, unix.EINTR) {
			return engine.Event{}, false, nil
		}
		return engine.Event{}, false, err
	}
	if n == 0 {
		return engine.Event{}, false, nil
	}
	if fds[0].Revents&unix.POLLIN == 0 {
		return engine.Event{}, false, io.EOF
	}

	m, err := unix.Read(in.fd, in.buf[:])
	if err != nil {
		if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
			return engine.Event{}, false, nil
		}
		return engine.Event{}, false, err
	}
	if m == 0 {
		return engine.Event{}, false, io.EOF
	}
	in.pending = append(in.pending[:0], in.buf[:m]...)
	return in.next(), true, nil
}

func (in *TermInput) next() engine.Event {
	r, size := utf8.DecodeRune(in.pending)
	in.pending = in.pending[size:]
	return engine.Event{Key: r}
}
