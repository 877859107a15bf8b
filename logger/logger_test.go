package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel("WARNING"))
	assert.Equal(t, logrus.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("nonsense"))
}

func TestLineFormatter(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{LogLevel: "debug"}))
	var buf bytes.Buffer
	SetOutput(&buf)

	WithFields(logrus.Fields{"page": 7, "offset": 4076}).Debugf("inserted record")

	line := buf.String()
	assert.Contains(t, line, "[DEBU]")
	assert.Contains(t, line, "inserted record offset=4076 page=7")
	assert.Contains(t, line, "logger_test.go")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestLevelFilters(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{LogLevel: "warn"}))
	var buf bytes.Buffer
	SetOutput(&buf)

	Infof("hidden")
	Warnf("shown %d", 1)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown 1")
}

func TestInfoLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "info.log")
	require.NoError(t, InitLogger(LogConfig{LogLevel: "info", InfoLogPath: path}))

	Infof("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")

	require.NoError(t, InitLogger(LogConfig{LogLevel: "info"}))
}

func TestInitLoggerClosesPreviousFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.log")
	require.NoError(t, InitLogger(LogConfig{LogLevel: "info", InfoLogPath: path}))
	require.Len(t, logFiles, 1)
	f := logFiles[0]

	require.NoError(t, InitLogger(LogConfig{LogLevel: "info"}))
	assert.Empty(t, logFiles)
	assert.ErrorIs(t, f.Close(), os.ErrClosed)
}

func TestInitLoggerReportsOpenError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	err := InitLogger(LogConfig{LogLevel: "info", ErrorLogPath: filepath.Join(blocker, "error.log")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open error log")

	// the fallback logger still works
	var buf bytes.Buffer
	SetOutput(&buf)
	Errorf("still logging")
	assert.Contains(t, buf.String(), "still logging")

	require.NoError(t, InitLogger(LogConfig{LogLevel: "info"}))
}
