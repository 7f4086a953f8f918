package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// State is a step of the poll-render cycle.
type State int

const (
	StatePolling State = iota
	StateRendering
	StateAwaitingInput
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StatePolling:
		return "polling"
	case StateRendering:
		return "rendering"
	case StateAwaitingInput:
		return "awaiting-input"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// QuitKey ends the loop when pressed during the input wait.
const QuitKey = 'q'

// DefaultInterval is how long each cycle waits for input.
const DefaultInterval = time.Second

// Event is a terminal input event.
type Event struct {
	Key rune
}

// Display renders one cycle.
type Display interface {
	Show(c Cycle) error
}

// Input waits up to timeout for one input event. ok is false on timeout.
type Input interface {
	Poll(timeout time.Duration) (ev Event, ok bool, err error)
}

// Loop drives Polling -> Rendering -> AwaitingInput until the quit key.
type Loop struct {
	ticker   Ticker
	display  Display
	input    Input
	interval time.Duration
	log      *zap.Logger

	// MaxCycles stops the loop after that many cycles; 0 runs until quit.
	MaxCycles int

	state State
}

// NewLoop wires a ticker, display and input together.
func NewLoop(ticker Ticker, display Display, input Input, interval time.Duration, log *zap.Logger) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		ticker:   ticker,
		display:  display,
		input:    input,
		interval: interval,
		log:      log.With(zap.String("package", "engine")),
	}
}

// State returns the loop's current state.
func (l *Loop) State() State { return l.state }

// Run executes cycles until the quit key is read, MaxCycles is reached or
// ctx is cancelled. Only display and input failures are returned as errors.
func (l *Loop) Run(ctx context.Context) error {
	cycles := 0
	for {
		if err := ctx.Err(); err != nil {
			l.enter(StateTerminated)
			return err
		}

		l.enter(StatePolling)
		c := l.ticker.Tick(ctx)

		l.enter(StateRendering)
		if err := l.display.Show(c); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		cycles++
		if l.MaxCycles > 0 && cycles >= l.MaxCycles {
			l.enter(StateTerminated)
			return nil
		}

		l.enter(StateAwaitingInput)
		ev, ok, err := l.input.Poll(l.interval)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if ok {
			l.log.Debug("input event", zap.String("key", string(ev.Key)))
			if ev.Key == QuitKey {
				l.enter(StateTerminated)
				return nil
			}
		}
	}
}

func (l *Loop) enter(s State) {
	l.state = s
	if ce := l.log.Check(zap.DebugLevel, "state"); ce != nil {
		ce.Write(zap.Stringer("state", s))
	}
}
