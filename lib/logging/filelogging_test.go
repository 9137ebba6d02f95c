package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetLoggingFile(t *testing.T) {
	dir := t.TempDir()

	file, err := GetLoggingFile(filepath.Join(dir, "server.log"))
	assert.NoError(t, err)
	defer file.Close()

	_, err = file.WriteString("started\n")
	assert.NoError(t, err)

	// the start time is stamped into the file name before the extension
	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.NotEqual(t, "server.log", entries[0].Name())
	assert.Equal(t, ".log", filepath.Ext(entries[0].Name()))
}

func TestLoggerFallsBackToStdout(t *testing.T) {
	logger := Logger(filepath.Join(t.TempDir(), "missing-dir", "server.log"))
	assert.NotNil(t, logger)
}
