package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger and installs it as the zap global, so call
// sites can use zap.S(). Level is "DEVELOPMENT", "PRODUCTION" or a zap level
// name such as "debug" or "warn" (production encoding at that level).
func New(level string) *zap.SugaredLogger {
	var cfg zap.Config
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEVELOPMENT", "DEV":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case "", "PRODUCTION", "PROD":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewProductionConfig()
		lvl, err := zapcore.ParseLevel(strings.ToLower(level))
		if err == nil {
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := cfg.Build()
	if err != nil {
		log = zap.NewExample()
	}
	zap.ReplaceGlobals(log)
	return log.Sugar()
}
