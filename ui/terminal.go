package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"
)

// Terminal holds stdin in raw mode for the lifetime of a session.
type Terminal struct {
	in    *os.File
	out   io.Writer
	state *term.State
}

// OpenTerminal switches in to raw mode and clears the screen on out.
// Restore must be called on every exit path.
func OpenTerminal(in *os.File, out io.Writer) (*Terminal, error) {
	if !term.IsTerminal(in.Fd()) {
		return nil, fmt.Errorf("%s is not a terminal", in.Name())
	}
	state, err := term.MakeRaw(in.Fd())
	if err != nil {
		return nil, fmt.Errorf("enable raw mode: %w", err)
	}
	t := &Terminal{in: in, out: out, state: state}
	if _, err := io.WriteString(out, ansi.EraseEntireScreen+ansi.CursorHomePosition); err != nil {
		t.Restore()
		return nil, fmt.Errorf("clear screen: %w", err)
	}
	return t, nil
}

// Restore returns the terminal to the mode it had before OpenTerminal.
// It is safe to call more than once.
func (t *Terminal) Restore() error {
	if t == nil || t.state == nil {
		return nil
	}
	state := t.state
	t.state = nil
	if err := term.Restore(t.in.Fd(), state); err != nil {
		return fmt.Errorf("disable raw mode: %w", err)
	}
	return nil
}

// Farewell prints the termination message after the status line.
func Farewell(out io.Writer) error {
	_, err := fmt.Fprintln(out, "\nProgram terminated.")
	return err
}
