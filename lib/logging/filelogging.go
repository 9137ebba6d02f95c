package logging

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/ziflex/lecho/v3"
)

// Logger returns the process-wide lecho logger, writing to STDOUT or, when
// a path is configured, to a per-start log file.
func Logger(logFilePath string) *lecho.Logger {
	logger := lecho.New(
		os.Stdout, // default to STDOUT
		lecho.WithLevel(log.DEBUG),
		lecho.WithTimestamp(),
	)
	// check if a log file config is set
	if logFilePath != "" {
		file, err := GetLoggingFile(logFilePath)
		if err != nil {
			logger.Errorf("failed to create logging file: %v", err)
			return logger
		}
		logger.SetOutput(file)
	}

	return logger
}

// GetLoggingFile opens the log file for the current start, stamping the
// start time into the configured name so restarts do not clobber old logs.
func GetLoggingFile(path string) (*os.File, error) {
	stamp := time.Now().Format("2006-01-02 15:04:05")
	extension := filepath.Ext(path)
	if extension != "" {
		path = strings.Replace(path, extension, stamp+extension, 1)
	} else {
		path = path + stamp
	}

	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}
