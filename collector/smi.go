package collector

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/ftahirops/gputemp/model"
	"github.com/ftahirops/gputemp/util"
)

// DefaultTool is the vendor query binary looked up on PATH.
const DefaultTool = "nvidia-smi"

var errInvalidUTF8 = errors.New("output is not valid UTF-8")

// queryArgs maps each metric to its nvidia-smi argument set.
var queryArgs = map[model.Metric][]string{
	model.MetricTemperature: {"--query-gpu=temperature.gpu", "--format=csv,noheader,nounits"},
	model.MetricLoad:        {"--query-gpu=utilization.gpu", "--format=csv,noheader,nounits"},
	model.MetricModel:       {"--query-gpu=name", "--format=csv,noheader"},
}

// exitCoder is satisfied by *exec.ExitError.
type exitCoder interface {
	ExitCode() int
}

// SMICollector reads GPU metrics by running nvidia-smi once per metric.
type SMICollector struct {
	Tool     string
	GPUIndex int           // -1 queries the tool's default device list
	Timeout  time.Duration // 0 waits for the tool indefinitely

	runner Runner
	log    *zap.Logger
}

// NewSMICollector creates a collector that invokes tool through runner.
func NewSMICollector(tool string, gpuIndex int, timeout time.Duration, runner Runner, log *zap.Logger) *SMICollector {
	if tool == "" {
		tool = DefaultTool
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &SMICollector{
		Tool:     tool,
		GPUIndex: gpuIndex,
		Timeout:  timeout,
		runner:   runner,
		log:      log.With(zap.String("package", "collector"), zap.String("backend", "smi")),
	}
}

func (c *SMICollector) Name() string { return "nvidia-smi" }

// Temperature returns the GPU core temperature in degrees Celsius.
func (c *SMICollector) Temperature(ctx context.Context) (float64, error) {
	return c.queryFloat(ctx, model.MetricTemperature)
}

// Load returns the GPU utilization percentage.
func (c *SMICollector) Load(ctx context.Context) (float64, error) {
	return c.queryFloat(ctx, model.MetricLoad)
}

// Model returns the GPU product name.
func (c *SMICollector) Model(ctx context.Context) (string, error) {
	out, err := c.query(ctx, model.MetricModel)
	if err != nil {
		return "", err
	}
	return util.FirstLine(out), nil
}

// Close is a no-op; every query is a short-lived process.
func (c *SMICollector) Close() error { return nil }

func (c *SMICollector) args(m model.Metric) []string {
	args := append([]string(nil), queryArgs[m]...)
	if c.GPUIndex >= 0 {
		args = append(args, "--id="+strconv.Itoa(c.GPUIndex))
	}
	return args
}

func (c *SMICollector) queryFloat(ctx context.Context, m model.Metric) (float64, error) {
	out, err := c.query(ctx, m)
	if err != nil {
		return 0, err
	}
	v, err := util.ParseFloat64(out)
	if err != nil {
		return 0, &QueryError{Metric: m, Kind: ParseFailed, Err: err}
	}
	return v, nil
}

func (c *SMICollector) query(ctx context.Context, m model.Metric) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	args := c.args(m)
	start := time.Now()
	stdout, stderr, err := c.runner.Run(ctx, c.Tool, args...)
	c.log.Debug("query finished",
		zap.Stringer("metric", m),
		zap.Strings("args", args),
		zap.Duration("took", time.Since(start)),
		zap.ByteString("stdout", stdout),
		zap.Error(err),
	)
	if err != nil {
		var ec exitCoder
		if errors.As(err, &ec) {
			return "", &QueryError{Metric: m, Kind: NonZeroExit, Stderr: strings.TrimSpace(string(stderr)), Err: err}
		}
		return "", &QueryError{Metric: m, Kind: SpawnFailed, Err: err}
	}
	if !utf8.Valid(stdout) {
		return "", &QueryError{Metric: m, Kind: DecodeFailed, Err: errInvalidUTF8}
	}
	return string(stdout), nil
}
