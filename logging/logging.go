// Package logging builds the process logger: a short human-readable
// stream on the terminal and a full debug trace in a log file.
package logging

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultFile is created (truncated) in the working directory on every run.
const DefaultFile = "gpu_temp_reader.log"

// Options configures New.
type Options struct {
	// File receives every entry at debug level. Empty disables it.
	File string
	// Level is the minimum level written to Console.
	Level string
	// Console is the interactive sink, normally os.Stderr.
	Console io.Writer
	// RawTerminal ends console lines with CRLF so they stay aligned while
	// the terminal is in raw mode.
	RawTerminal bool
}

// New returns a logger teeing to the console and the log file, plus a
// close func that flushes and closes the file.
func New(fs afero.Fs, opts Options) (*zap.Logger, func() error, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	if opts.RawTerminal {
		consoleCfg.LineEnding = "\r\n"
	}
	cores := []zapcore.Core{}
	if opts.Console != nil {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleCfg),
			zapcore.AddSync(opts.Console),
			level,
		))
	}

	closeFn := func() error { return nil }
	if opts.File != "" {
		f, err := fs.Create(opts.File)
		if err != nil {
			return nil, nil, fmt.Errorf("create log file: %w", err)
		}
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(fileCfg),
			zapcore.AddSync(f),
			zapcore.DebugLevel,
		))
		closeFn = func() error {
			_ = f.Sync()
			return f.Close()
		}
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return log, func() error {
		_ = log.Sync()
		return closeFn()
	}, nil
}
