// Package main is the entry point for the terrain viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/terrainview/internal/config"
	"github.com/Faultbox/terrainview/internal/logger"
	"github.com/Faultbox/terrainview/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	opts := logger.Options{
		Level:   cfg.Logging.Level,
		Console: true,
		JSON:    cfg.Logging.JSON,
	}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.Setup(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("=== terrainview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	// os.Exit skips deferred calls, so run holds them.
	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
	logger.Sync()
}

func run(cfg *config.Config) error {
	v, err := viewer.New(cfg)
	if err != nil {
		return err
	}
	defer v.Close()

	return v.Run()
}
