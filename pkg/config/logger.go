package config

import (
	"fmt"

	"go.uber.org/zap"
)

// LoggerConfig selects the diagnostic logger handed to globalctx.Context
// and environment.Environment: an encoding and a minimum level, the two
// knobs this module's ambient logging actually needs.
type LoggerConfig struct {
	Encoding string `yaml:"Encoding"`
	Level    string `yaml:"Level"`
}

// Validate returns an error if the LoggerConfig is not valid.
func (l LoggerConfig) Validate() error {
	if len(l.Encoding) > 0 && l.Encoding != "console" && l.Encoding != "json" {
		return fmt.Errorf("invalid logger encoding: %s", l.Encoding)
	}
	switch l.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logger level: %s", l.Level)
	}
	return nil
}

// Build constructs a *zap.SugaredLogger from the configuration, defaulting
// to a console-encoded info-level logger.
func (l LoggerConfig) Build() (*zap.SugaredLogger, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	encoding := l.Encoding
	if encoding == "" {
		encoding = "console"
	}
	level := zap.InfoLevel
	switch l.Level {
	case "debug":
		level = zap.DebugLevel
	case "warn":
		level = zap.WarnLevel
	case "error":
		level = zap.ErrorLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = encoding
	cfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
