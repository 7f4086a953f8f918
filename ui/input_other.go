//go:build !unix

package ui

import (
	"bufio"
	"os"
	"time"

	"github.com/ftahirops/gputemp/engine"
)

type readResult struct {
	r   rune
	err error
}

// TermInput reads key presses from f on a background reader.
type TermInput struct {
	keys chan readResult
}

// NewTermInput starts reading runes from f.
func NewTermInput(f *os.File) *TermInput {
	in := &TermInput{keys: make(chan readResult)}
	go func() {
		br := bufio.NewReader(f)
		for {
			r, _, err := br.ReadRune()
			in.keys <- readResult{r: r, err: err}
			if err != nil {
				return
			}
		}
	}()
	return in
}

// Poll waits up to timeout for the next key.
func (in *TermInput) Poll(timeout time.Duration) (engine.Event, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case k := <-in.keys:
		if k.err != nil {
			return engine.Event{}, false, k.err
		}
		return engine.Event{Key: k.r}, true, nil
	case <-timer.C:
		return engine.Event{}, false, nil
	}
}
