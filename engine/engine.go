package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ftahirops/gputemp/collector"
	"github.com/ftahirops/gputemp/model"
	"github.com/ftahirops/gputemp/util"
)

// Cycle is the outcome of one poll.
type Cycle struct {
	Reading  model.Reading
	Severity model.Severity

	// Err is set when the temperature query failed. Reading is then empty
	// and load/model were not queried.
	Err error

	// LoadErr and ModelErr record absorbed failures; Reading holds the fallbacks.
	LoadErr  error
	ModelErr error
}

// Failed reports whether the cycle has no reading to show.
func (c Cycle) Failed() bool { return c.Err != nil }

// Engine polls a metric source and classifies each reading.
type Engine struct {
	source    collector.Source
	threshold float64
	log       *zap.Logger
	stats     Stats
	now       func() time.Time
}

// NewEngine creates an engine reading from source.
func NewEngine(source collector.Source, threshold float64, log *zap.Logger) *Engine {
	return &Engine{
		source:    source,
		threshold: threshold,
		log:       log.With(zap.String("package", "engine")),
		now:       time.Now,
	}
}

// Threshold returns the warning threshold in degrees Celsius.
func (e *Engine) Threshold() float64 { return e.threshold }

// Stats returns the counters accumulated so far.
func (e *Engine) Stats() Stats { return e.stats }

// Tick performs one poll. Temperature is queried first; if it fails the
// cycle ends there. Load and model failures fall back to 0 and "Unknown".
func (e *Engine) Tick(ctx context.Context) Cycle {
	var c Cycle
	ts := e.now()

	temp, err := e.source.Temperature(ctx)
	if err != nil {
		e.log.Error("Failed to get GPU temperature", zap.Error(err))
		c.Err = err
		c.Severity = model.SeverityError
		e.stats.record(c)
		return c
	}

	load, err := e.source.Load(ctx)
	if err != nil {
		e.log.Error("Failed to get GPU load", zap.Error(err))
		c.LoadErr = err
		load = model.FallbackLoad
	}

	name, err := e.source.Model(ctx)
	if err != nil {
		e.log.Error("Failed to get GPU model", zap.Error(err))
		c.ModelErr = err
		name = model.FallbackModel
	}

	c.Reading = model.Reading{
		Timestamp:   ts,
		Temperature: temp,
		Load:        load,
		Model:       name,
	}
	c.Severity = Classify(temp, e.threshold)
	e.stats.record(c)

	e.log.Info("GPU: "+name+" Temperature: "+util.FormatFloat(temp)+" °C, Load: "+util.FormatFloat(load)+"%",
		zap.Float64("temperature", temp),
		zap.Float64("load", load),
		zap.String("model", name),
		zap.Stringer("severity", c.Severity),
	)
	return c
}
