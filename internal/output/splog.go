// Package output provides logging and styled terminal output for repick.
package output

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Splog provides structured logging and output
type Splog struct {
	writer    io.Writer
	debugMode bool
	fileLog   *slog.Logger
}

// NewSplog creates a new splog instance. When REPICK_LOG_FILE is set, debug
// output is additionally appended to that file with rotation.
func NewSplog(debug bool) *Splog {
	s := &Splog{
		writer:    os.Stdout,
		debugMode: debug,
	}

	if logFile := os.Getenv("REPICK_LOG_FILE"); logFile != "" {
		handler := slog.NewTextHandler(newFileLogger(logFile), &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
		s.fileLog = slog.New(handler)
	}

	return s
}

// newFileLogger creates a lumberjack logger with configuration from environment variables
func newFileLogger(logFilePath string) *lumberjack.Logger {
	config := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    1,  // megabytes
		MaxBackups: 2,
		MaxAge:     30, // days
	}

	if maxSizeStr := os.Getenv("REPICK_LOG_MAX_SIZE"); maxSizeStr != "" {
		if maxSize, err := strconv.Atoi(maxSizeStr); err == nil && maxSize > 0 {
			config.MaxSize = maxSize
		}
	}

	if maxBackupsStr := os.Getenv("REPICK_LOG_MAX_BACKUPS"); maxBackupsStr != "" {
		if maxBackups, err := strconv.Atoi(maxBackupsStr); err == nil && maxBackups >= 0 {
			config.MaxBackups = maxBackups
		}
	}

	return config
}

// SetWriter redirects console output, used by tests.
func (s *Splog) SetWriter(w io.Writer) {
	s.writer = w
}

// Info writes an info message
func (s *Splog) Info(format string, args ...interface{}) {
	fmt.Fprintf(s.writer, format+"\n", args...)
	if s.fileLog != nil {
		s.fileLog.Info(fmt.Sprintf(format, args...))
	}
}

// Warn writes a warning message
func (s *Splog) Warn(format string, args ...interface{}) {
	fmt.Fprintf(s.writer, WarnStyle().Render("⚠")+" "+format+"\n", args...)
	if s.fileLog != nil {
		s.fileLog.Warn(fmt.Sprintf(format, args...))
	}
}

// Error writes an error message
func (s *Splog) Error(format string, args ...interface{}) {
	fmt.Fprintf(s.writer, ErrorStyle().Render("✗")+" "+format+"\n", args...)
	if s.fileLog != nil {
		s.fileLog.Error(fmt.Sprintf(format, args...))
	}
}

// Debug writes a debug message, shown on the console only in debug mode
func (s *Splog) Debug(format string, args ...interface{}) {
	if s.debugMode {
		fmt.Fprintf(s.writer, format+"\n", args...)
	}
	if s.fileLog != nil {
		s.fileLog.Debug(fmt.Sprintf(format, args...))
	}
}

// Newline writes a newline
func (s *Splog) Newline() {
	fmt.Fprintln(s.writer)
}
