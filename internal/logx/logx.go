// Package logx holds the process-wide structured logger.
package logx

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stderr, false)
)

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Init replaces the logger. Debug records are only emitted when verbose is set.
func Init(w io.Writer, verbose bool) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(w, verbose)
}

func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
