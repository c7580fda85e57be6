// internal/logger/logger.go
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level is a logging priority.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = map[Level]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
}

var (
	std          = log.New(os.Stdout, "", log.LstdFlags)
	currentLevel = InfoLevel
)

// ParseLevel maps "debug", "info", "warn"/"warning" and "error" (any case)
// to a Level. Unknown values fall back to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Initialize sets the global level. Debug output includes the caller's file and line.
func Initialize(level string) {
	currentLevel = ParseLevel(level)
	if currentLevel == DebugLevel {
		std.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
		return
	}
	std.SetFlags(log.Ldate | log.Ltime)
}

// SetOutput redirects log output, mostly for tests.
func SetOutput(w io.Writer) { std.SetOutput(w) }

// Enabled reports whether messages at level l are written.
func Enabled(l Level) bool { return l >= currentLevel }

func output(level Level, format string, v ...interface{}) {
	if !Enabled(level) {
		return
	}
	std.SetPrefix("[" + levelNames[level] + "] ")
	_ = std.Output(3, fmt.Sprintf(format, v...))
}

func Debug(format string, v ...interface{}) { output(DebugLevel, format, v...) }
func Info(format string, v ...interface{})  { output(InfoLevel, format, v...) }
func Warn(format string, v ...interface{})  { output(WarnLevel, format, v...) }
func Error(format string, v ...interface{}) { output(ErrorLevel, format, v...) }
