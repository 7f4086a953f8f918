package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ftahirops/gputemp/collector"
	"github.com/ftahirops/gputemp/engine"
	"github.com/ftahirops/gputemp/logging"
)

// Name is the config file base name; the extension picks the format.
const Name = "gputemp"

// Config keys, shared by the config file, environment and flags.
const (
	KeyTool          = "tool"
	KeyBackend       = "backend"
	KeyGPUIndex      = "gpu_index"
	KeyInterval      = "interval"
	KeyWarnThreshold = "warn_threshold"
	KeyQueryTimeout  = "query_timeout"
	KeyLogFile       = "log_file"
	KeyLogLevel      = "log_level"
)

// Config holds user-configurable settings.
type Config struct {
	Tool          string        `mapstructure:"tool" yaml:"tool"`
	Backend       string        `mapstructure:"backend" yaml:"backend"`
	GPUIndex      int           `mapstructure:"gpu_index" yaml:"gpu_index"`
	Interval      time.Duration `mapstructure:"interval" yaml:"interval"`
	WarnThreshold float64       `mapstructure:"warn_threshold" yaml:"warn_threshold"`
	QueryTimeout  time.Duration `mapstructure:"query_timeout" yaml:"query_timeout"`
	LogFile       string        `mapstructure:"log_file" yaml:"log_file"`
	LogLevel      string        `mapstructure:"log_level" yaml:"log_level"`
}

// Default returns a config with the built-in defaults.
func Default() Config {
	return Config{
		Tool:          collector.DefaultTool,
		Backend:       collector.BackendSMI,
		GPUIndex:      -1,
		Interval:      engine.DefaultInterval,
		WarnThreshold: engine.DefaultWarnThreshold,
		QueryTimeout:  0,
		LogFile:       logging.DefaultFile,
		LogLevel:      "info",
	}
}

// SearchPaths returns the directories searched for gputemp.yaml, in order:
// the working directory, $XDG_CONFIG_HOME/gputemp, ~/.config/gputemp.
func SearchPaths() []string {
	paths := []string{"."}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		paths = append(paths, filepath.Join(dir, Name))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", Name))
	}
	return paths
}

// NewViper returns a viper instance reading from fs with defaults set.
func NewViper(fs afero.Fs, paths ...string) *viper.Viper {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigName(Name)
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix(strings.ToUpper(Name))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault(KeyTool, d.Tool)
	v.SetDefault(KeyBackend, d.Backend)
	v.SetDefault(KeyGPUIndex, d.GPUIndex)
	v.SetDefault(KeyInterval, d.Interval)
	v.SetDefault(KeyWarnThreshold, d.WarnThreshold)
	v.SetDefault(KeyQueryTimeout, d.QueryTimeout)
	v.SetDefault(KeyLogFile, d.LogFile)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	return v
}

// Load reads the config file (file if set, else the first match in the
// search paths), overlays environment and bound flags, and validates.
// A missing file in the search paths is not an error.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	var errs []error
	if c.Interval <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %s", KeyInterval, c.Interval))
	}
	if c.QueryTimeout < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative, got %s", KeyQueryTimeout, c.QueryTimeout))
	}
	switch c.Backend {
	case collector.BackendSMI, collector.BackendNVML:
	default:
		errs = append(errs, fmt.Errorf("unknown %s %q (want %s or %s)", KeyBackend, c.Backend, collector.BackendSMI, collector.BackendNVML))
	}
	if c.Backend == collector.BackendSMI && c.Tool == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", KeyTool))
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid %s %q", KeyLogLevel, c.LogLevel))
	}
	return errors.Join(errs...)
}

// YAML renders the effective config.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// CollectorOptions maps the config onto collector.Open options.
func (c Config) CollectorOptions() collector.Options {
	return collector.Options{
		Backend:  c.Backend,
		Tool:     c.Tool,
		GPUIndex: c.GPUIndex,
		Timeout:  c.QueryTimeout,
	}
}
