//go:build linux && cgo

package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
	"go.uber.org/zap"

	"github.com/ftahirops/gputemp/model"
)

// NVMLCollector reads GPU metrics through the NVIDIA management library
// instead of spawning nvidia-smi.
type NVMLCollector struct {
	device nvml.Device
	log    *zap.Logger
}

// NewNVMLCollector initializes NVML and opens the device at gpuIndex
// (device 0 when gpuIndex is negative). Call Close to shut NVML down.
func NewNVMLCollector(gpuIndex int, log *zap.Logger) (*NVMLCollector, error) {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return nil, fmt.Errorf("failed to initialize nvml: %s", nvml.ErrorString(ret))
	}
	if gpuIndex < 0 {
		gpuIndex = 0
	}
	device, ret := nvml.DeviceGetHandleByIndex(gpuIndex)
	if ret != nvml.SUCCESS {
		nvml.Shutdown()
		return nil, fmt.Errorf("failed to open gpu %d: %s", gpuIndex, nvml.ErrorString(ret))
	}
	return &NVMLCollector{
		device: device,
		log:    log.With(zap.String("package", "collector"), zap.String("backend", "nvml")),
	}, nil
}

func (c *NVMLCollector) Name() string { return "nvml" }

func (c *NVMLCollector) Temperature(ctx context.Context) (float64, error) {
	temp, ret := c.device.GetTemperature(nvml.TEMPERATURE_GPU)
	if ret != nvml.SUCCESS {
		return 0, nvmlError(model.MetricTemperature, ret)
	}
	return float64(temp), nil
}

func (c *NVMLCollector) Load(ctx context.Context) (float64, error) {
	rates, ret := c.device.GetUtilizationRates()
	if ret != nvml.SUCCESS {
		return 0, nvmlError(model.MetricLoad, ret)
	}
	return float64(rates.Gpu), nil
}

func (c *NVMLCollector) Model(ctx context.Context) (string, error) {
	name, ret := c.device.GetName()
	if ret != nvml.SUCCESS {
		return "", nvmlError(model.MetricModel, ret)
	}
	return strings.TrimSpace(name), nil
}

// Close shuts NVML down.
func (c *NVMLCollector) Close() error {
	if ret := nvml.Shutdown(); ret != nvml.SUCCESS {
		c.log.Warn("nvml shutdown failed", zap.String("error", nvml.ErrorString(ret)))
		return fmt.Errorf("failed to shutdown nvml: %s", nvml.ErrorString(ret))
	}
	return nil
}

func nvmlError(m model.Metric, ret nvml.Return) error {
	return &QueryError{Metric: m, Kind: DriverFailed, Err: errors.New(nvml.ErrorString(ret))}
}
