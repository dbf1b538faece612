// Package logging wires zap for the CLI. The default logger stays quiet
// at warn level so validation reports own stdout; --verbose drops the
// level to debug for per-file progress.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the process-wide logger.
	Logger = zap.NewNop()

	// Sugar is the sugared form of Logger.
	Sugar = Logger.Sugar()
)

// Config controls the logger setup.
type Config struct {
	Level  string `yaml:"level"`  // zap level name
	Format string `yaml:"format"` // console or json
}

// DefaultConfig keeps the CLI quiet: warnings and worse on stderr.
func DefaultConfig() Config {
	return Config{Level: "warn", Format: "console"}
}

// Initialize builds the global logger. Unknown level names fall back to
// warn rather than failing the run.
func Initialize(cfg Config) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.WarnLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level)
	Logger = zap.New(core)
	Sugar = Logger.Sugar()
}

// SetVerbose switches the logger to debug level console output.
func SetVerbose() {
	Initialize(Config{Level: "debug", Format: "console"})
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Logger.Sync()
}
