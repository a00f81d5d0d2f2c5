package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

// LogFile is where the server keeps a copy of everything it logs
const LogFile = "app.log"

// ParseLogLevel maps LOG_LEVEL values onto fiber's levels
func ParseLogLevel(level string) (fiberlog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return fiberlog.LevelTrace, nil
	case "debug":
		return fiberlog.LevelDebug, nil
	case "", "info":
		return fiberlog.LevelInfo, nil
	case "warn", "warning":
		return fiberlog.LevelWarn, nil
	case "error":
		return fiberlog.LevelError, nil
	}
	return fiberlog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// SetupLogger sends the fiber logger and the standard logger to stderr and to
// path. The caller closes the returned file.
func SetupLogger(level, path string) (*os.File, error) {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	out := io.MultiWriter(os.Stderr, file)
	fiberlog.SetOutput(out)
	fiberlog.SetLevel(lvl)
	log.SetOutput(out)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	return file, nil
}
