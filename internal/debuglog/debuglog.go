// Package debuglog writes structured diagnostics to a file. A TUI owns
// the terminal, so logging goes nowhere unless LOGMUX_DEBUG is set.
package debuglog

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

var logger = log.New(io.Discard)

// Init routes diagnostics to a file when LOGMUX_DEBUG=1. It returns a
// close function for the underlying file.
func Init() func() {
	if os.Getenv("LOGMUX_DEBUG") != "1" {
		return func() {}
	}
	path := filepath.Join(os.TempDir(), "logmux-debug.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return func() {}
	}
	logger = log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Level:           log.DebugLevel,
	})
	logger.Info("debug logging enabled", "path", path)
	return func() { f.Close() }
}

func Debug(msg string, kv ...any) { logger.Debug(msg, kv...) }
func Info(msg string, kv ...any)  { logger.Info(msg, kv...) }
func Warn(msg string, kv ...any)  { logger.Warn(msg, kv...) }
func Error(msg string, kv ...any) { logger.Error(msg, kv...) }
