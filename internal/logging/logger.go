package logging

import (
	"fmt"
	"os"
	"sort"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "NODEEDIT_LOG_LEVEL"

// LogFileEnvVar overrides the log file path.
const LogFileEnvVar = "NODEEDIT_LOG_FILE"

// Rotation limits for the log file.
const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

// Initialize creates a new logger with the specified level writing to path.
// If level is empty, it checks NODEEDIT_LOG_LEVEL; if path is empty, it
// checks NODEEDIT_LOG_FILE. If no level is set, logging is disabled.
//
// The terminal belongs to the UI, so output never goes to stdout. With no
// path at all, entries go to stderr.
func Initialize(level, path string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	if level == "" {
		logger = zap.NewNop()
		return nil
	}
	if path == "" {
		path = os.Getenv(LogFileEnvVar)
	}

	zapLevel, err := parseLevel(level)
	if err != nil {
		return err
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	var sink zapcore.WriteSyncer
	if path != "" {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   path,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		})
	} else {
		sink = zapcore.Lock(os.Stderr)
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), sink, zap.NewAtomicLevelAt(zapLevel))
	logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	return nil
}

func parseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// InitializeFromEnv initializes the logger from NODEEDIT_LOG_LEVEL and
// NODEEDIT_LOG_FILE, falling back to defaultPath for the file.
func InitializeFromEnv(defaultPath string) error {
	path := os.Getenv(LogFileEnvVar)
	if path == "" {
		path = defaultPath
	}
	return Initialize("", path)
}

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
func SetLogger(l *zap.Logger) {
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogQuery logs one executed Cypher statement. Parameter values are not
// logged, only their names.
func LogQuery(op, query string, params map[string]any, rows int, elapsed time.Duration, err error) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("query", query),
		zap.Strings("params", paramNames(params)),
		zap.Int("rows", rows),
		zap.Duration("elapsed", elapsed),
	}
	if err != nil {
		Warn("Query failed", append(fields, zap.Error(err))...)
		return
	}
	Debug("Query executed", fields...)
}

// LogSubmission logs a submission lifecycle event ("started", "succeeded",
// "failed").
func LogSubmission(id, elementID, event string, keys int, err error) {
	fields := []zap.Field{
		zap.String("submission_id", id),
		zap.String("element_id", elementID),
		zap.String("event", event),
		zap.Int("keys", keys),
	}
	if err != nil {
		Error("Submission event", append(fields, zap.Error(err))...)
		return
	}
	Info("Submission event", fields...)
}

func paramNames(params map[string]any) []string {
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
