package obslog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process-wide zap.Logger. Production builds use JSON
// encoding at info level; debug enables development-mode console output
// and caller info, mirroring the verbosity levels a CLI operator expects
// from --verbose.
func New(debug bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		// zap config construction only fails on an invalid static config;
		// falling back to a no-op logger keeps the CLI usable rather than
		// panicking before a single flag has been parsed.
		logger = zap.NewNop()
	}
	return logger
}

// WithFields logs msg at info level with f's accumulated fields.
func WithFields(logger *zap.Logger, msg string, f Fields) {
	logger.Info(msg, f.Zap()...)
}

// WithError logs msg at error level with f's accumulated fields plus err.
func WithError(logger *zap.Logger, msg string, err error, f Fields) {
	logger.Error(msg, f.Error(err).Zap()...)
}

