// Package logging builds the zap logger used across sunbeam.
package logging

import (
	"go.uber.org/zap"
)

// Config holds logging configuration.
type Config struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"` // "json" or "console"
	OutputPath  string `yaml:"output_path"`
	Development bool   `yaml:"development"`
}

// New creates a logger from cfg. Unknown levels fall back to info.
func New(cfg Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zc.Level = level

	if cfg.Format == "console" {
		zc.Encoding = "console"
	} else {
		zc.Encoding = "json"
	}

	// stdout carries command output, so logs go to stderr unless redirected.
	zc.OutputPaths = []string{"stderr"}
	if cfg.OutputPath != "" {
		zc.OutputPaths = []string{cfg.OutputPath}
	}

	return zc.Build(zap.Fields(zap.String("service", "sunbeam")))
}
