package ui

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftahirops/gputemp/engine"
	"github.com/ftahirops/gputemp/model"
)

func colorStyles() Styles {
	r := lipgloss.NewRenderer(&bytes.Buffer{})
	r.SetColorProfile(termenv.TrueColor)
	return NewStyles(r)
}

func okCycle(temp, load float64, name string) engine.Cycle {
	return engine.Cycle{
		Reading:  model.Reading{Temperature: temp, Load: load, Model: name},
		Severity: engine.Classify(temp, engine.DefaultWarnThreshold),
	}
}

func TestPlainLine(t *testing.T) {
	c := okCycle(72, 55, "NVIDIA X")
	assert.Equal(t, "GPU: NVIDIA X Temperature: 72 °C, Load: 55%", PlainLine(c))

	c = okCycle(64.5, 0, "Unknown")
	assert.Equal(t, "GPU: Unknown Temperature: 64.5 °C, Load: 0%", PlainLine(c))

	c = engine.Cycle{Err: errors.New("failed to execute command: not found"), Severity: model.SeverityError}
	assert.Equal(t, "Error: failed to execute command: not found", PlainLine(c))
}

func TestStyledLine_WarningHighlightsTemperature(t *testing.T) {
	s := colorStyles()
	c := okCycle(72, 55, "NVIDIA X")
	require.Equal(t, model.SeverityWarning, c.Severity)

	got := StyledLine(c, s)
	assert.NotEqual(t, PlainLine(c), got)
	assert.Contains(t, got, s.Warning.Render("72"))
	assert.True(t, strings.HasPrefix(got, "GPU: NVIDIA X Temperature: \x1b["))
	assert.True(t, strings.HasSuffix(got, " °C, Load: 55%"))
}

func TestStyledLine_BoundaryIsPlain(t *testing.T) {
	s := colorStyles()
	for _, temp := range []float64{70, 69.5, 20} {
		c := okCycle(temp, 10, "NVIDIA X")
		assert.Equal(t, PlainLine(c), StyledLine(c, s), "temp=%v", temp)
	}
}

func TestLineDisplay_OverwritesInPlace(t *testing.T) {
	var buf bytes.Buffer
	d := NewLineDisplay(&buf, colorStyles())

	require.NoError(t, d.Show(okCycle(50, 20, "A")))
	require.NoError(t, d.Show(okCycle(51, 21, "A")))

	out := buf.String()
	assert.NotContains(t, out, "\n")
	assert.Equal(t, 2, strings.Count(out, "\r"))
	assert.True(t, strings.HasPrefix(out, "\rGPU: A Temperature: 50 °C, Load: 20%\x1b[K"))
}

func TestLineDisplay_FlushesBufferedWriter(t *testing.T) {
	var buf bytes.Buffer
	d := NewLineDisplay(bufio.NewWriter(&buf), colorStyles())

	require.NoError(t, d.Show(okCycle(50, 20, "A")))
	assert.Equal(t, "\rGPU: A Temperature: 50 °C, Load: 20%\x1b[K", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("closed") }

func TestLineDisplay_WriteError(t *testing.T) {
	d := NewLineDisplay(failingWriter{}, colorStyles())
	assert.EqualError(t, d.Show(okCycle(1, 1, "A")), "closed")
}

func TestFarewell(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Farewell(&buf))
	assert.Equal(t, "\nProgram terminated.\n", buf.String())
}

func TestOpenTerminal_RejectsNonTerminal(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	_, err = OpenTerminal(r, &bytes.Buffer{})
	assert.Error(t, err)

	var nilTerm *Terminal
	assert.NoError(t, nilTerm.Restore())
}

// --- TUI ---

type stubTicker struct {
	cycle engine.Cycle
	calls int
}

func (s *stubTicker) Tick(ctx context.Context) engine.Cycle {
	s.calls++
	return s.cycle
}

func TestModel_QuitKeys(t *testing.T) {
	m := NewModel(context.Background(), &stubTicker{}, time.Second, 70, colorStyles())
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(key)
		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.Nil(t, cmd)
}

func TestModel_CollectCycle(t *testing.T) {
	st := &stubTicker{cycle: okCycle(80, 40, "NVIDIA L4")}
	m := NewModel(context.Background(), st, time.Second, 70, colorStyles())

	msg := m.Init()()
	assert.Equal(t, 1, st.calls)

	next, cmd := m.Update(msg)
	assert.NotNil(t, cmd)
	nm := next.(Model)
	require.NotNil(t, nm.cycle)
	assert.Equal(t, 1, nm.cycles)

	view := nm.View()
	assert.Contains(t, view, "NVIDIA L4")
	assert.Contains(t, view, "40%")
	assert.Contains(t, view, "q: quit")

	_, cmd = nm.Update(tickMsg(time.Now()))
	require.NotNil(t, cmd)
	assert.IsType(t, cycleMsg{}, cmd())
	assert.Equal(t, 2, st.calls)
}

func TestModel_ViewError(t *testing.T) {
	st := &stubTicker{cycle: engine.Cycle{Err: errors.New("command failed"), Severity: model.SeverityError}}
	m := NewModel(context.Background(), st, time.Second, 70, colorStyles())
	next, _ := m.Update(m.Init()())
	assert.Contains(t, next.(Model).View(), "Error: command failed")

	assert.Contains(t, m.View(), "waiting for first reading")
}

func TestModel_TrendAfterTwoReadings(t *testing.T) {
	st := &stubTicker{cycle: okCycle(60, 10, "NVIDIA L4")}
	m := NewModel(context.Background(), st, time.Second, 70, colorStyles())

	next, _ := m.Update(m.Init()())
	assert.NotContains(t, next.(Model).View(), "Trend")

	st.cycle = okCycle(75, 10, "NVIDIA L4")
	next, _ = next.(Model).Update(cycleMsg(st.cycle))
	nm := next.(Model)
	assert.Equal(t, 2, nm.history.Len())
	assert.Contains(t, nm.View(), "Trend")

	st.cycle = engine.Cycle{Err: errors.New("gone"), Severity: model.SeverityError}
	next, _ = nm.Update(cycleMsg(st.cycle))
	assert.Equal(t, 2, next.(Model).history.Len(), "failed cycles are not recorded")
}

type blockingTicker struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingTicker) Tick(ctx context.Context) engine.Cycle {
	close(b.started)
	select {
	case <-b.release:
	case <-ctx.Done():
	}
	return engine.Cycle{Err: ctx.Err(), Severity: model.SeverityError}
}

func TestModel_ShutdownWaitsForPoll(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	bt := &blockingTicker{started: make(chan struct{}), release: make(chan struct{})}
	m := NewModel(ctx, bt, time.Second, 70, colorStyles())

	polled := make(chan tea.Msg, 1)
	go func() { polled <- m.Init()() }()
	<-bt.started

	stopped := make(chan struct{})
	go func() {
		m.Shutdown()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Shutdown returned while a poll was running")
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Shutdown did not return after the poll finished")
	}
	assert.IsType(t, cycleMsg{}, <-polled)

	// Polls scheduled after shutdown do nothing.
	_, cmd := m.Update(tickMsg(time.Now()))
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
}
