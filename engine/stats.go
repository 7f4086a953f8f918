package engine

import (
	"go.uber.org/zap/zapcore"

	"github.com/ftahirops/gputemp/model"
)

// Stats summarizes a monitoring session.
type Stats struct {
	Cycles        int
	TempFailures  int
	LoadFailures  int
	ModelFailures int
	WarningCycles int
	MaxTemp       float64
}

func (s *Stats) record(c Cycle) {
	s.Cycles++
	if c.Err != nil {
		s.TempFailures++
		return
	}
	if c.LoadErr != nil {
		s.LoadFailures++
	}
	if c.ModelErr != nil {
		s.ModelFailures++
	}
	if c.Severity == model.SeverityWarning {
		s.WarningCycles++
	}
	if s.successes() == 1 || c.Reading.Temperature > s.MaxTemp {
		s.MaxTemp = c.Reading.Temperature
	}
}

func (s *Stats) successes() int { return s.Cycles - s.TempFailures }

// MarshalLogObject lets Stats be logged with zap.Object.
func (s Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("cycles", s.Cycles)
	enc.AddInt("temperature_failures", s.TempFailures)
	enc.AddInt("load_failures", s.LoadFailures)
	enc.AddInt("model_failures", s.ModelFailures)
	enc.AddInt("warning_cycles", s.WarningCycles)
	if s.successes() > 0 {
		enc.AddFloat64("max_temperature", s.MaxTemp)
	}
	return nil
}
