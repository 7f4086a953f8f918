package collector

import (
	"errors"
	"fmt"

	"github.com/ftahirops/gputemp/model"
)

// ErrorKind tags why a metric query failed.
type ErrorKind int

const (
	// SpawnFailed means the query process could not be started.
	SpawnFailed ErrorKind = iota
	// NonZeroExit means the process ran and exited with a failure status.
	NonZeroExit
	// DecodeFailed means stdout was not valid text.
	DecodeFailed
	// ParseFailed means stdout did not hold the expected number.
	ParseFailed
	// DriverFailed means the management library returned an error code.
	DriverFailed
)

func (k ErrorKind) String() string {
	switch k {
	case SpawnFailed:
		return "spawn failed"
	case NonZeroExit:
		return "non-zero exit"
	case DecodeFailed:
		return "decode failed"
	case ParseFailed:
		return "parse failed"
	case DriverFailed:
		return "driver failed"
	}
	return "unknown"
}

// QueryError reports a failed metric query together with its cause.
type QueryError struct {
	Metric model.Metric
	Kind   ErrorKind
	Stderr string // NonZeroExit only
	Err    error
}

func (e *QueryError) Error() string {
	switch e.Kind {
	case SpawnFailed:
		return fmt.Sprintf("failed to execute command: %v", e.Err)
	case NonZeroExit:
		return fmt.Sprintf("command failed with %v, stderr: %s", e.Err, e.Stderr)
	case DecodeFailed:
		return fmt.Sprintf("failed to decode output: %v", e.Err)
	case ParseFailed:
		return fmt.Sprintf("failed to parse %s: %v", e.Metric, e.Err)
	}
	return fmt.Sprintf("%s query %s: %v", e.Metric, e.Kind, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// IsKind reports whether err is a QueryError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var qe *QueryError
	return errors.As(err, &qe) && qe.Kind == kind
}
