// Package logging builds the charmbracelet logger used across kubetree and
// keeps client-go's klog output off the terminal.
package logging

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"k8s.io/klog/v2"

	"github.com/Taishi66/kube-tree/internal/config"
)

// New returns a logger writing to w at the given level.
func New(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "kubetree",
		ReportTimestamp: true,
	}), nil
}

// Open returns a logger for cfg. Output goes to cfg.File when set, to
// fallback otherwise. The returned function closes the log file.
func Open(cfg config.LogConfig, fallback io.Writer) (*log.Logger, func() error, error) {
	if cfg.File == "" {
		logger, err := New(fallback, cfg.Level)
		return logger, func() error { return nil }, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger, err := New(f, cfg.Level)
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	return logger, f.Close, nil
}

// SilenceKlog suppresses klog output (used by the k8s client library).
func SilenceKlog() {
	klog.SetOutput(io.Discard)
	klog.LogToStderr(false)

	// Prevent klog from adding flags
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fs)
	_ = fs.Set("logtostderr", "false")
	_ = fs.Set("alsologtostderr", "false")
}
