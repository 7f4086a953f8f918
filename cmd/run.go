package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/ftahirops/gputemp/collector"
	"github.com/ftahirops/gputemp/config"
	"github.com/ftahirops/gputemp/engine"
	"github.com/ftahirops/gputemp/logging"
	"github.com/ftahirops/gputemp/model"
	"github.com/ftahirops/gputemp/ui"
)

// session is the logger and metric source shared by every mode.
type session struct {
	log      *zap.Logger
	source   collector.Source
	closeLog func() error
}

func (a *app) openSession(cfg config.Config, opts logging.Options) (*session, error) {
	opts.File = cfg.LogFile
	opts.Level = cfg.LogLevel
	log, closeLog, err := logging.New(a.fs, opts)
	if err != nil {
		return nil, err
	}
	src, err := a.openSource(cfg.CollectorOptions(), log)
	if err != nil {
		log.Error("Failed to open metric source", zap.String("backend", cfg.Backend), zap.Error(err))
		closeLog()
		return nil, fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}
	log.Debug("configuration", zap.Any("config", cfg))
	return &session{log: log, source: src, closeLog: closeLog}, nil
}

func (s *session) Close() {
	if err := s.source.Close(); err != nil {
		s.log.Warn("Failed to close metric source", zap.Error(err))
	}
	s.closeLog()
}

// runLine is the default mode: one status line rewritten in place until q.
func (a *app) runLine(ctx context.Context, cfg config.Config) error {
	s, err := a.openSession(cfg, logging.Options{Console: a.stderr, RawTerminal: true})
	if err != nil {
		return err
	}
	defer s.Close()

	term, err := ui.OpenTerminal(a.stdin, a.stdout)
	if err != nil {
		s.log.Error("Failed to set up terminal", zap.Error(err))
		return err
	}
	defer term.Restore()
	s.log.Info("Starting gpu_temp_reader", zap.String("backend", s.source.Name()))

	eng := engine.NewEngine(s.source, cfg.WarnThreshold, s.log)
	display := ui.NewLineDisplay(a.stdout, ui.NewStyles(lipgloss.NewRenderer(a.stdout)))
	loop := engine.NewLoop(eng, display, ui.NewTermInput(a.stdin), cfg.Interval, s.log)
	loop.MaxCycles = a.count

	runErr := loop.Run(ctx)
	restoreErr := term.Restore()
	if runErr != nil {
		s.log.Error("Monitoring stopped", zap.Error(runErr))
		return runErr
	}
	if restoreErr != nil {
		return restoreErr
	}
	if err := ui.Farewell(a.stdout); err != nil {
		return err
	}
	s.log.Info("Exiting gpu_temp_reader", zap.Object("stats", eng.Stats()))
	return nil
}

// jsonReading is the --json output.
type jsonReading struct {
	model.Reading
	Severity  string  `json:"severity"`
	Warning   bool    `json:"warning"`
	Threshold float64 `json:"threshold"`
}

// runJSON takes a single reading and prints it.
func (a *app) runJSON(ctx context.Context, cfg config.Config) error {
	s, err := a.openSession(cfg, logging.Options{Console: a.stderr})
	if err != nil {
		return err
	}
	defer s.Close()

	c := engine.NewEngine(s.source, cfg.WarnThreshold, s.log).Tick(ctx)
	if c.Failed() {
		return fmt.Errorf("read temperature: %w", c.Err)
	}

	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReading{
		Reading:   c.Reading,
		Severity:  c.Severity.String(),
		Warning:   c.Severity == model.SeverityWarning,
		Threshold: cfg.WarnThreshold,
	})
}

// runTUI runs the full-screen bubbletea view. Console logging is off so
// it does not tear the screen; the log file still gets everything.
func (a *app) runTUI(ctx context.Context, cfg config.Config) error {
	s, err := a.openSession(cfg, logging.Options{})
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	eng := engine.NewEngine(s.source, cfg.WarnThreshold, s.log)
	styles := ui.NewStyles(lipgloss.NewRenderer(a.stdout))
	m := ui.NewModel(ctx, eng, cfg.Interval, cfg.WarnThreshold, styles)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(a.stdin),
		tea.WithOutput(a.stdout),
	)
	_, err = p.Run()
	// A poll may still be running if q arrived mid-query.
	cancel()
	m.Shutdown()
	s.log.Info("Exiting gpu_temp_reader", zap.Object("stats", eng.Stats()))
	return err
}
