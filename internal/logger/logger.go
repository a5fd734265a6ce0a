// Package logger provides the process-wide zap logger.
//
// Until Setup or Init is called every helper logs to a no-op core, so
// library packages and their tests may log freely.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the global logger instance.
var Log = zap.NewNop()

// Sugar is the sugared logger for printf-style call sites.
var Sugar = Log.Sugar()

// FileConfig holds rotating log file settings.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DefaultFileConfig returns default file logging settings.
func DefaultFileConfig(path string) FileConfig {
	return FileConfig{
		Path:       path,
		MaxSizeMB:  20,
		MaxBackups: 3,
		MaxAgeDays: 14,
		Compress:   true,
	}
}

// Options configures Setup.
type Options struct {
	Level   string // debug, info, warn, error
	Console bool   // write colored output to stdout
	JSON    bool   // encode the file sink as JSON lines
	File    FileConfig
}

// Init sets up console logging at level and, when logFile is not empty, a
// rotating file sink with default settings.
func Init(level string, logFile string) error {
	opts := Options{Level: level, Console: true}
	if logFile != "" {
		opts.File = DefaultFileConfig(logFile)
	}
	return Setup(opts)
}

// InitWithFileConfig sets up logging with a custom file configuration.
// Set consoleOutput to false to keep tests quiet.
func InitWithFileConfig(level string, fileCfg FileConfig, consoleOutput bool) error {
	return Setup(Options{Level: level, Console: consoleOutput, File: fileCfg})
}

// Setup replaces the global logger.
func Setup(opts Options) error {
	lvl := ParseLevel(opts.Level)

	var cores []zapcore.Core

	if opts.Console {
		enc := zapcore.NewConsoleEncoder(encoderConfig(zapcore.TimeEncoderOfLayout("15:04:05.000"), zapcore.CapitalColorLevelEncoder))
		cores = append(cores, zapcore.NewCore(enc, zapcore.Lock(os.Stdout), lvl))
	}

	if opts.File.Path != "" {
		w := &lumberjack.Logger{
			Filename:   opts.File.Path,
			MaxSize:    opts.File.MaxSizeMB,
			MaxBackups: opts.File.MaxBackups,
			MaxAge:     opts.File.MaxAgeDays,
			Compress:   opts.File.Compress,
			LocalTime:  true,
		}

		cfg := encoderConfig(zapcore.ISO8601TimeEncoder, zapcore.CapitalLevelEncoder)
		var enc zapcore.Encoder
		if opts.JSON {
			enc = zapcore.NewJSONEncoder(cfg)
		} else {
			enc = zapcore.NewConsoleEncoder(cfg)
		}
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(w), lvl))
	}

	if len(cores) == 0 {
		Log = zap.NewNop()
	} else {
		Log = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	}
	Sugar = Log.Sugar()

	return nil
}

func encoderConfig(timeEnc zapcore.TimeEncoder, levelEnc zapcore.LevelEncoder) zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		CallerKey:        "caller",
		EncodeTime:       timeEnc,
		EncodeLevel:      levelEnc,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	}
}

// ParseLevel converts a level name to a zap level. Unknown names map to info.
func ParseLevel(level string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// Named returns a child of the global logger tagged with a component name.
// Call it after Setup; loggers taken earlier keep the no-op core.
func Named(component string) *zap.Logger {
	return Log.Named(component)
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Log.Sync()
}

// Debug logs a debug message.
func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

// Info logs an info message.
func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

// Warn logs a warning message.
func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

// Error logs an error message.
func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}

// Fatal logs a fatal message and exits.
func Fatal(msg string, fields ...zap.Field) {
	Log.Fatal(msg, fields...)
}
