package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/woodline/shopterm/internal/backend"
	"github.com/woodline/shopterm/internal/config"
	"github.com/woodline/shopterm/internal/console"
	"github.com/woodline/shopterm/internal/labels"
	"github.com/woodline/shopterm/internal/printing"
	"github.com/woodline/shopterm/internal/services/lifecycle"
	"github.com/woodline/shopterm/internal/services/runner"
	"github.com/woodline/shopterm/internal/services/sound"
	"github.com/woodline/shopterm/pkg/logger"
	"github.com/woodline/shopterm/repository/memory"
	authUC "github.com/woodline/shopterm/usecase/auth"
	stationUC "github.com/woodline/shopterm/usecase/station"
	workplaceUC "github.com/woodline/shopterm/usecase/workplace"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	store := memory.NewSessionStore()
	alerter := sound.NewBell(zapLogger)

	client := backend.New(backend.Config{
		BaseURL:        cfg.Backend.BaseURL,
		RequestTimeout: cfg.Backend.RequestTimeout,
		BulkTimeout:    cfg.Backend.BulkTimeout,
		SingleTimeout:  cfg.Backend.SingleTimeout,
	}, store, alerter, zapLogger)

	index := labels.NewIndex(zapLogger)
	pipeline := printing.New(printing.Config{
		TempDir:       cfg.Print.TempDir,
		LabelSizeMM:   cfg.Print.LabelSizeMM,
		LabelMarginMM: cfg.Print.LabelMarginMM,
	}, nil, zapLogger)

	tasks := runner.New(cfg.Runner.Workers, cfg.Runner.QueueSize, zapLogger)
	tasks.Start()
	manager.Register("task_runner", tasks.Stop)

	terminal := console.New(
		cfg,
		authUC.New(client, store, zapLogger),
		workplaceUC.New(client, store, cfg.Stations.SawPair, zapLogger),
		stationUC.New(client, pipeline, index, store, zapLogger),
		tasks,
		os.Stdin,
		os.Stdout,
		zapLogger,
	)

	go func() {
		if err := terminal.Run(appCtx); err != nil {
			zapLogger.Error("terminal stopped with error", zap.Error(err))
		}
		cancel()
	}()

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
