package model

import "time"

// Metric identifies one of the values queried from the GPU on every cycle.
type Metric int

const (
	MetricTemperature Metric = iota
	MetricLoad
	MetricModel
)

func (m Metric) String() string {
	switch m {
	case MetricTemperature:
		return "temperature"
	case MetricLoad:
		return "load"
	case MetricModel:
		return "model"
	}
	return "unknown"
}

// Fallbacks used when load or model cannot be read.
const (
	FallbackLoad  = 0.0
	FallbackModel = "Unknown"
)

// Reading is one cycle's worth of GPU telemetry.
type Reading struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"` // degrees Celsius
	Load        float64   `json:"load"`        // utilization percent
	Model       string    `json:"model"`
}

// Severity classifies a reading for display.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityOK:
		return "OK"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	}
	return "UNKNOWN"
}
