// Package logging builds the zap logger used by the items CLI.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options select where and how much to log.
type Options struct {
	Level   string // debug, info, warn, error
	File    string // empty disables logging unless Stderr is set
	Stderr  bool   // only safe outside the alternate screen
	Verbose bool   // forces debug
}

// New returns a production zap logger, or a no-op logger when there is no sink.
// The interactive view owns the terminal, so it never logs to stderr.
func New(opt Options) (*zap.Logger, error) {
	var paths []string
	if opt.File != "" {
		paths = append(paths, opt.File)
	}
	if opt.Stderr {
		paths = append(paths, "stderr")
	}
	if len(paths) == 0 {
		return zap.NewNop(), nil
	}

	level, err := parseLevel(opt.Level)
	if err != nil {
		return nil, err
	}
	if opt.Verbose {
		level = zapcore.DebugLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = paths
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func parseLevel(s string) (zapcore.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return l, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}
