package collector

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Source is a backend able to read the three per-cycle GPU metrics.
type Source interface {
	Name() string
	Temperature(ctx context.Context) (float64, error)
	Load(ctx context.Context) (float64, error)
	Model(ctx context.Context) (string, error)
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSMI  = "smi"
	BackendNVML = "nvml"
)

// Options selects and configures a Source.
type Options struct {
	Backend  string
	Tool     string
	GPUIndex int
	Timeout  time.Duration
}

// Open creates the Source named by opts.Backend.
func Open(opts Options, log *zap.Logger) (Source, error) {
	switch opts.Backend {
	case "", BackendSMI:
		return NewSMICollector(opts.Tool, opts.GPUIndex, opts.Timeout, ExecRunner{}, log), nil
	case BackendNVML:
		c, err := NewNVMLCollector(opts.GPUIndex, log)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown backend %q", opts.Backend)
}
