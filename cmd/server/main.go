package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cactus377/japede-cardapio/internal/cash"
	"github.com/cactus377/japede-cardapio/internal/commons"
	"github.com/cactus377/japede-cardapio/internal/config"
	"github.com/cactus377/japede-cardapio/internal/infrastructure/logger"
	"github.com/cactus377/japede-cardapio/internal/infrastructure/mysql"
	"github.com/cactus377/japede-cardapio/internal/order"
	"github.com/cactus377/japede-cardapio/internal/server"
	"github.com/cactus377/japede-cardapio/internal/table"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	flow, err := commons.LoadFlowDurations(cfg.Scheduler.FlowFile)
	if err != nil {
		log.Fatalf("loading order flow durations: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	tableSvc, tableCtrl := table.NewModule(db, zapLogger)
	ledgerSvc, cashCtrl := cash.NewModule(db, 5*time.Second, zapLogger)
	orderCtrl, sched := order.NewModule(db, flow, cfg.Scheduler.SweepInterval, tableSvc, ledgerSvc, zapLogger)

	router := server.NewRouter(orderCtrl, tableCtrl, cashCtrl, zapLogger)
	srv := server.New(cfg.Server.Port, router, zapLogger)

	schedCtx, stopScheduler := context.WithCancel(context.Background())
	go sched.Run(schedCtx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	stopScheduler()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
