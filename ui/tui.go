package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/ftahirops/gputemp/engine"
	"github.com/ftahirops/gputemp/util"
)

type tickMsg time.Time

type cycleMsg engine.Cycle

// historySize is how many readings the temperature trend keeps.
const historySize = 120

// Model is the bubbletea model for the full-screen view.
type Model struct {
	ctx       context.Context
	ticker    engine.Ticker
	interval  time.Duration
	threshold float64
	styles    Styles
	now       func() time.Time
	polls     *pollGate

	cycle   *engine.Cycle
	history *engine.History
	started time.Time
	updated time.Time
	cycles  int
	width   int
}

// NewModel creates a TUI model polling ticker every interval.
func NewModel(ctx context.Context, ticker engine.Ticker, interval time.Duration, threshold float64, styles Styles) Model {
	return Model{
		ctx:       ctx,
		ticker:    ticker,
		interval:  interval,
		threshold: threshold,
		styles:    styles,
		now:       time.Now,
		polls:     &pollGate{},
		history:   engine.NewHistory(historySize),
		started:   time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.collectOnce()
}

// Shutdown stops further polls and waits for the one in flight, if any.
// Call it after the program has returned and before reading engine stats
// or closing the metric source.
func (m Model) Shutdown() {
	m.polls.close()
}

// pollGate tracks the poll running in a command goroutine. bubbletea
// does not wait for commands when the program quits.
type pollGate struct {
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func (g *pollGate) enter() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return false
	}
	g.wg.Add(1)
	return true
}

func (g *pollGate) close() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
	g.wg.Wait()
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) collectOnce() tea.Cmd {
	return func() tea.Msg {
		if !m.polls.enter() {
			return nil
		}
		defer m.polls.wg.Done()
		return cycleMsg(m.ticker.Tick(m.ctx))
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case cycleMsg:
		c := engine.Cycle(msg)
		m.cycle = &c
		m.updated = m.now()
		m.cycles++
		if !c.Failed() {
			m.history.Push(c.Reading)
		}
		// Next poll starts only after this one has been shown.
		return m, tick(m.interval)
	case tickMsg:
		return m, m.collectOnce()
	}
	return m, nil
}

func (m Model) View() string {
	s := m.styles
	var sb strings.Builder

	sb.WriteString(s.Title.Render("GPU Temperature Monitor"))
	sb.WriteString("\n\n")

	if m.cycle == nil {
		sb.WriteString(s.Label.Render("waiting for first reading..."))
	} else if m.cycle.Failed() {
		sb.WriteString(s.Error.Render(PlainLine(*m.cycle)))
	} else {
		r := m.cycle.Reading
		temp := util.FormatFloat(r.Temperature) + " °C"
		if st, ok := s.temperature(m.cycle.Severity); ok {
			temp = st.Render(temp)
		} else {
			temp = s.OK.Render(temp)
		}
		rows := []string{
			s.Label.Render("GPU         ") + s.Value.Render(r.Model),
			s.Label.Render("Temperature ") + temp,
			s.Label.Render("Load        ") + s.Value.Render(util.FormatFloat(r.Load)+"%"),
		}
		sb.WriteString(s.Panel.Render(strings.Join(rows, "\n")))
	}

	if temps := m.history.Temperatures(); len(temps) > 1 {
		width := 60
		if m.width > 0 && m.width-12 < width {
			width = m.width - 12
		}
		lo, hi := tempRange(temps, m.threshold)
		sb.WriteString("\n")
		sb.WriteString(s.Label.Render("Trend       "))
		sb.WriteString(sparkline(temps, width, lo, hi, func(v float64) lipgloss.Style {
			if st, ok := s.temperature(engine.Classify(v, m.threshold)); ok {
				return st
			}
			return s.OK
		}))
	}

	sb.WriteString("\n\n")
	if !m.updated.IsZero() {
		sb.WriteString(s.Help.Render(fmt.Sprintf("updated %s · %d cycles · up %s · warn above %s °C",
			humanize.RelTime(m.updated, m.now(), "ago", "from now"),
			m.cycles,
			strings.TrimSpace(humanize.RelTime(m.started, m.now(), "", "")),
			util.FormatFloat(m.threshold))))
		sb.WriteString("\n")
	}
	sb.WriteString(s.Help.Render("q: quit"))
	sb.WriteString("\n")
	return sb.String()
}
