//go:build linux || darwin

package cmd

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"
	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// screen collects what the line mode writes. onWrite runs under the lock
// before the bytes are stored.
type screen struct {
	mu      sync.Mutex
	buf     bytes.Buffer
	onWrite func(p []byte)
}

func (s *screen) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onWrite != nil {
		s.onWrite(p)
	}
	return s.buf.Write(p)
}

func (s *screen) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestLineMode_QuitKey(t *testing.T) {
	ptmx, tty, err := pty.Open()
	require.NoError(t, err)
	defer ptmx.Close()
	defer tty.Close()

	cooked, err := term.GetState(tty.Fd())
	require.NoError(t, err)

	src := &stubSource{temp: 50, load: 55, name: "NVIDIA X"}
	ta := newTestApp(t, src)
	out := &screen{}
	var atFarewell *term.State
	out.onWrite = func(p []byte) {
		if bytes.Contains(p, []byte("Program terminated.")) {
			atFarewell, _ = term.GetState(tty.Fd())
		}
	}
	ta.stdin = tty
	ta.stdout = out

	done := make(chan error, 1)
	go func() { done <- ta.execute("--interval", "50ms") }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "GPU: NVIDIA X")
	}, 2*time.Second, 10*time.Millisecond)

	raw, err := term.GetState(tty.Fd())
	require.NoError(t, err)
	assert.NotEqual(t, cooked, raw, "terminal not in raw mode while running")

	_, err = ptmx.Write([]byte("q"))
	require.NoError(t, err)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("line mode did not stop on q")
	}

	got := out.String()
	assert.True(t, strings.HasPrefix(got, ansi.EraseEntireScreen+ansi.CursorHomePosition), "screen not cleared: %q", got)
	assert.Contains(t, got, "\rGPU: NVIDIA X Temperature: 50 °C, Load: 55%")
	assert.True(t, strings.HasSuffix(got, "\nProgram terminated.\n"), "got %q", got)

	restored, err := term.GetState(tty.Fd())
	require.NoError(t, err)
	assert.Equal(t, cooked, restored)
	assert.Equal(t, cooked, atFarewell, "farewell printed before the terminal was restored")
	assert.True(t, src.closed)
}
