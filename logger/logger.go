package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// Logger carries debug, info and warn output.
	Logger *logrus.Logger
	// ErrorLogger carries error output, stderr by default.
	ErrorLogger *logrus.Logger

	// files opened by the last InitLogger
	logFiles []*os.File
)

type LogConfig struct {
	InfoLogPath  string
	ErrorLogPath string
	LogLevel     string
}

// LineFormatter renders one entry per line:
//
//	[15:04:05 MST 2006/01/02] [INFO] (disk_manager.go:diskmanager.(*DiskManager).WritePage:88) msg
type LineFormatter struct {
	TimestampFormat string
}

func (f *LineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	layout := f.TimestampFormat
	if layout == "" {
		layout = "15:04:05 MST 2006/01/02"
	}

	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}

	msg := strings.TrimRight(entry.Message, "\n")
	line := fmt.Sprintf("[%s] [%s] (%s) %s", entry.Time.Format(layout), level, caller(), msg)

	if len(entry.Data) > 0 {
		keys := make([]string, 0, len(entry.Data))
		for k := range entry.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			line += fmt.Sprintf(" %s=%v", k, entry.Data[k])
		}
	}

	return []byte(line + "\n"), nil
}

// caller walks past logrus and this package to the frame that logged.
func caller() string {
	for i := 2; i < 20; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		if strings.Contains(file, "sirupsen") ||
			strings.Contains(file, "/logrus/") ||
			strings.HasSuffix(file, "/logger/logger.go") {
			continue
		}
		return fmt.Sprintf("%s:%s:%d", filepath.Base(file), filepath.Base(runtime.FuncForPC(pc).Name()), line)
	}
	return "unknown:unknown:0"
}

func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

// InitLogger replaces both loggers and closes any log files opened by the
// previous call. A log file that cannot be opened falls back to the standard
// stream, and the first such error is returned.
func InitLogger(config LogConfig) error {
	for _, f := range logFiles {
		f.Close()
	}
	logFiles = nil

	formatter := &LineFormatter{}
	level := ParseLevel(config.LogLevel)

	Logger = logrus.New()
	Logger.SetFormatter(formatter)
	Logger.SetLevel(level)
	Logger.SetOutput(os.Stdout)

	ErrorLogger = logrus.New()
	ErrorLogger.SetFormatter(formatter)
	ErrorLogger.SetLevel(level)
	ErrorLogger.SetOutput(os.Stderr)

	var firstErr error
	if config.InfoLogPath != "" {
		if f, err := openLogFile(config.InfoLogPath); err != nil {
			firstErr = errors.Wrapf(err, "open info log %s", config.InfoLogPath)
		} else {
			Logger.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	if config.ErrorLogPath != "" {
		if f, err := openLogFile(config.ErrorLogPath); err != nil {
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "open error log %s", config.ErrorLogPath)
			}
		} else {
			ErrorLogger.SetOutput(io.MultiWriter(os.Stderr, f))
		}
	}

	return firstErr
}

// SetOutput points both loggers at w. Tests use it to capture output.
func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
	ErrorLogger.SetOutput(w)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}
	logFiles = append(logFiles, f)
	return f, nil
}

func init() {
	_ = InitLogger(LogConfig{LogLevel: "info"})
}

func Debugf(format string, args ...interface{}) {
	Logger.Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	Logger.Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	Logger.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	ErrorLogger.Errorf(format, args...)
}

func Fatalf(format string, args ...interface{}) {
	ErrorLogger.Fatalf(format, args...)
}

// WithFields returns an entry on the main logger carrying structured fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Logger.WithFields(fields)
}
