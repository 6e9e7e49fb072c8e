package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Levels(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")

	logger, closeFn, err := NewLogger(Options{})
	require.NoError(t, err)
	defer closeFn()
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	verbose, closeVerbose, err := NewLogger(Options{Verbose: true})
	require.NoError(t, err)
	defer closeVerbose()
	assert.Equal(t, logrus.DebugLevel, verbose.GetLevel())
}

func TestNewLogger_EnvLevelWins(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")

	logger, closeFn, err := NewLogger(Options{Verbose: true})
	require.NoError(t, err)
	defer closeFn()

	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
}

func TestNewLogger_LogFile(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "scraper.log")

	logger, closeFn, err := NewLogger(Options{LogFile: path})
	require.NoError(t, err)

	WithRunID(logger).Info("Starting website search")
	closeFn()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Starting website search")
	assert.Contains(t, string(data), "run_id=")
}

func TestNewLogger_BadLogFile(t *testing.T) {
	_, _, err := NewLogger(Options{LogFile: filepath.Join(t.TempDir(), "missing", "scraper.log")})
	assert.Error(t, err)
}
