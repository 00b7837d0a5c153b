// Package logger provides the process-wide structured logger used by
// every Splitux component.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

var (
	Logger        *log.Logger
	currentWriter io.Writer = os.Stderr
	uiNotifier    func(level, message string)
)

func init() {
	Logger = log.New(os.Stderr)

	// A process started with SPLITUX_QUIET_HELPER=1 suppresses logging
	// entirely so stdout stays clean for whatever is parsing it.
	if os.Getenv("SPLITUX_QUIET_HELPER") == "1" {
		Logger.SetLevel(log.FatalLevel + 1)
		return
	}

	SetLevel(strings.ToUpper(os.Getenv("LOG_LEVEL")))
}

// SetUINotifier registers a callback invoked on every log line, used by
// the fullscreen progress program (internal/ui) to mirror log output
// into its own view.
func SetUINotifier(notifier func(level, message string)) {
	uiNotifier = notifier
}

func notifyUI(level, message string) {
	if uiNotifier != nil {
		uiNotifier(level, message)
	}
}

func Info(msg interface{}, keyvals ...interface{}) {
	Logger.Info(msg, keyvals...)
	notifyUI("INFO", fmt.Sprintf("%v", msg))
}

func Debug(msg interface{}, keyvals ...interface{}) {
	Logger.Debug(msg, keyvals...)
	if Logger.GetLevel() <= log.DebugLevel {
		notifyUI("DEBUG", fmt.Sprintf("%v", msg))
	}
}

func Warn(msg interface{}, keyvals ...interface{}) {
	Logger.Warn(msg, keyvals...)
	notifyUI("WARN", fmt.Sprintf("%v", msg))
}

func Error(msg interface{}, keyvals ...interface{}) {
	Logger.Error(msg, keyvals...)
	notifyUI("ERROR", fmt.Sprintf("%v", msg))
}

func Infof(format string, args ...interface{}) {
	Logger.Infof(format, args...)
	notifyUI("INFO", fmt.Sprintf(format, args...))
}

func Debugf(format string, args ...interface{}) {
	Logger.Debugf(format, args...)
	if Logger.GetLevel() <= log.DebugLevel {
		notifyUI("DEBUG", fmt.Sprintf(format, args...))
	}
}

func Warnf(format string, args ...interface{}) {
	Logger.Warnf(format, args...)
	notifyUI("WARN", fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...interface{}) {
	Logger.Errorf(format, args...)
	notifyUI("ERROR", fmt.Sprintf(format, args...))
}

// SetLevel sets the log level from a string; unrecognized values fall
// back to INFO.
func SetLevel(level string) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		Logger.SetLevel(log.DebugLevel)
	case "WARN", "WARNING":
		Logger.SetLevel(log.WarnLevel)
	case "ERROR":
		Logger.SetLevel(log.ErrorLevel)
	case "FATAL":
		Logger.SetLevel(log.FatalLevel)
	default:
		Logger.SetLevel(log.InfoLevel)
	}
}

// SetOutput redirects logger output, preserving the current level.
func SetOutput(w io.Writer) {
	currentWriter = w
	level := Logger.GetLevel()
	Logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	Logger.SetLevel(level)
}

// SetupFileLogging points the logger at $XDG_STATE_HOME/splitux/splitux.log
// (or ~/.local/state/splitux as a fallback) so launch output survives
// after a full-screen progress program takes over the terminal.
func SetupFileLogging(prefix string) (*os.File, error) {
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	logDir := filepath.Join(stateDir, "splitux")
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logPath := filepath.Join(logDir, "splitux.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", logPath, err)
	}

	fmt.Fprintf(logFile, "\n%s %s: === launch started ===\n", time.Now().Format("15:04:05"), prefix)

	level := Logger.GetLevel()
	currentWriter = logFile
	Logger = log.NewWithOptions(logFile, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          prefix,
	})
	Logger.SetLevel(level)

	return logFile, nil
}

// Get returns the underlying charmbracelet/log logger.
func Get() *log.Logger {
	return Logger
}
