// grassbench drives the grass pipeline headlessly: it loads baked terrain
// data, flies a camera over it and reports cell and batch statistics.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/grassfield/internal/config"
	"github.com/Faultbox/grassfield/internal/logger"
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
	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	fileCfg.JSON = cfg.Logging.JSON
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, true); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== grassbench ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := newBench(ctx, cfg)
	if err != nil {
		logger.Error("failed to set up bench", zap.Error(err))
		os.Exit(1)
	}
	defer b.Close()

	if err := b.Run(ctx); err != nil {
		logger.Error("bench error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("bench finished normally")
}
