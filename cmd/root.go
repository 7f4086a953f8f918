package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ftahirops/gputemp/collector"
	"github.com/ftahirops/gputemp/config"
)

// Version is set at build time via ldflags.
var Version = "0.1.0"

// app carries the process collaborators so commands can be tested
// without a real terminal, filesystem or GPU.
type app struct {
	fs          afero.Fs
	stdin       *os.File
	stdout      io.Writer
	stderr      io.Writer
	configPaths []string
	openSource  func(collector.Options, *zap.Logger) (collector.Source, error)

	v          *viper.Viper
	configFile string
	count      int
	tui        bool
	jsonMode   bool
}

func newApp() *app {
	return &app{
		fs:          afero.NewOsFs(),
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		configPaths: config.SearchPaths(),
		openSource:  collector.Open,
	}
}

func newRootCmd(a *app) *cobra.Command {
	a.v = config.NewViper(a.fs, a.configPaths...)

	root := &cobra.Command{
		Use:   "gputemp",
		Short: "Show live GPU temperature, load and model",
		Long: `gputemp polls nvidia-smi once per interval and keeps a single status line
up to date. The temperature is highlighted above the warning threshold.
Press q to quit.`,
		Example: `  gputemp                       status line, 1s refresh
  gputemp --threshold 80        warn above 80 °C
  gputemp --gpu 1 --interval 2s second GPU, 2s refresh
  gputemp --tui                 full-screen view
  gputemp --json | jq .temperature
  gputemp --backend nvml        read through NVML instead of nvidia-smi`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			switch {
			case a.jsonMode && a.tui:
				return fmt.Errorf("--json and --tui are mutually exclusive")
			case a.jsonMode:
				return a.runJSON(cmd.Context(), cfg)
			case a.tui:
				return a.runTUI(cmd.Context(), cfg)
			}
			return a.runLine(cmd.Context(), cfg)
		},
	}

	d := config.Default()
	pf := root.PersistentFlags()
	pf.StringVarP(&a.configFile, "config", "c", "", "config file (default: gputemp.yaml in ., $XDG_CONFIG_HOME/gputemp, ~/.config/gputemp)")
	pf.String("tool", d.Tool, "GPU query tool")
	pf.String("backend", d.Backend, "metric backend: smi or nvml")
	pf.Int("gpu", d.GPUIndex, "GPU index to query (-1: tool default)")
	pf.Duration("interval", d.Interval, "refresh interval / input wait per cycle")
	pf.Float64("threshold", d.WarnThreshold, "warn when temperature is above this many °C")
	pf.Duration("timeout", d.QueryTimeout, "per-query timeout (0 disables)")
	pf.String("log-file", d.LogFile, "debug log file, truncated on start")
	pf.String("log-level", d.LogLevel, "terminal log level")

	root.Flags().IntVar(&a.count, "count", 0, "stop after N cycles (0 = until q)")
	root.Flags().BoolVar(&a.tui, "tui", false, "full-screen interactive view")
	root.Flags().BoolVar(&a.jsonMode, "json", false, "print one reading as JSON and exit")

	for key, flag := range map[string]string{
		config.KeyTool:          "tool",
		config.KeyBackend:       "backend",
		config.KeyGPUIndex:      "gpu",
		config.KeyInterval:      "interval",
		config.KeyWarnThreshold: "threshold",
		config.KeyQueryTimeout:  "timeout",
		config.KeyLogFile:       "log-file",
		config.KeyLogLevel:      "log-level",
	} {
		cobra.CheckErr(a.v.BindPFlag(key, pf.Lookup(flag)))
	}

	root.AddCommand(newVersionCmd(), newConfigCmd(a))
	return root
}

func (a *app) loadConfig() (config.Config, error) {
	return config.Load(a.v, a.configFile)
}

// Run parses flags and starts the application.
func Run() error {
	return newRootCmd(newApp()).ExecuteContext(context.Background())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and exit",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gputemp v%s\n", Version)
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			out, err := cfg.YAML()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})
	return configCmd
}
