//go:build !linux || !cgo

package collector

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

var errNVMLUnsupported = errors.New("nvml backend requires linux and cgo")

// NVMLCollector is unavailable on this build.
type NVMLCollector struct{}

// NewNVMLCollector always fails on builds without NVML support.
func NewNVMLCollector(gpuIndex int, log *zap.Logger) (*NVMLCollector, error) {
	return nil, errNVMLUnsupported
}

func (c *NVMLCollector) Name() string { return "nvml" }

func (c *NVMLCollector) Temperature(ctx context.Context) (float64, error) {
	return 0, errNVMLUnsupported
}

func (c *NVMLCollector) Load(ctx context.Context) (float64, error) {
	return 0, errNVMLUnsupported
}

func (c *NVMLCollector) Model(ctx context.Context) (string, error) {
	return "", errNVMLUnsupported
}

func (c *NVMLCollector) Close() error { return nil }
