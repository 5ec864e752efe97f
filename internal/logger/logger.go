package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that writes to a file
func NewFileLogger(path string) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	l := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})

	cleanup := func() {
		f.Close()
	}

	return &Logger{Logger: l}, cleanup, nil
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// ServerStarted logs the web server coming up
func (l *Logger) ServerStarted(addr, apiBase string) {
	l.Info("server started",
		"addr", addr,
		"api", apiBase)
}

// RequestFailed logs a failed call to the content API
func (l *Logger) RequestFailed(method, path string, err error) {
	l.Error("api request failed",
		"method", method,
		"path", path,
		"error", err)
}

// RenderFailed logs a document that fell back to the error fragment
func (l *Logger) RenderFailed(nodeID string, err error) {
	l.Error("render failed",
		"node", nodeID,
		"error", err)
}

// NodeSaved logs a successful create or update
func (l *Logger) NodeSaved(nodeID, title string) {
	l.Info("node saved",
		"node", nodeID,
		"title", title)
}

// NodeDeleted logs a node removal
func (l *Logger) NodeDeleted(nodeID string) {
	l.Info("node deleted",
		"node", nodeID)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(apiBase, listenAddr string, timeout time.Duration) {
	l.Debug("config loaded",
		"api", apiBase,
		"listen", listenAddr,
		"timeout", timeout)
}

// StylesLoaded logs a styles override file being picked up
func (l *Logger) StylesLoaded(path string) {
	l.Debug("styles loaded",
		"path", path)
}
