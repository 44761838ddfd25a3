package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"go.uber.org/zap"

	"github.com/Shinokawa/quetos-api/internal/api"
	"github.com/Shinokawa/quetos-api/internal/config"
	"github.com/Shinokawa/quetos-api/internal/logger"
	"github.com/Shinokawa/quetos-api/internal/market"
	"github.com/Shinokawa/quetos-api/internal/metrics"
)

func main() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "configs/app.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := logger.Init(cfg.Log.Level); err != nil {
		log.Fatalf("logger error: %v", err)
	}
	lg := logger.Log
	defer func() { _ = lg.Sync() }()

	loc, err := time.LoadLocation(cfg.Market.Timezone)
	if err != nil {
		lg.Fatal("load timezone", zap.String("tz", cfg.Market.Timezone), zap.Error(err))
	}
	nowFn := func() time.Time { return time.Now().In(loc) }

	metrics.Register()
	go func() {
		if err := metrics.Serve(cfg.Metrics.Port); err != nil {
			lg.Warn("metrics server stopped", zap.Error(err))
		}
	}()

	timeout := time.Duration(cfg.Market.ProviderTimeoutMs) * time.Millisecond
	em := market.NewEastmoneyClient(timeout)
	ths := market.NewTonghuashunClient(timeout)

	resolver := market.NewResolver(em, ths, em, lg)
	cache := market.NewCache()
	quoteSvc := market.NewService(resolver, cache, nowFn, lg)
	historySvc := market.NewHistoryService(em, cfg.Market.DefaultHistoryStart, nowFn, lg)

	ctx := context.Background()
	if err := quoteSvc.RefreshEtfSnapshot(ctx); err != nil {
		lg.Warn("initial etf refresh failed, serving without snapshot", zap.Error(err))
	}

	sched, err := market.NewScheduler(
		quoteSvc,
		cfg.Market.SessionOpen,
		cfg.Market.CloseRefresh,
		time.Duration(cfg.Market.RefreshIntervalMin)*time.Minute,
		nowFn,
		lg,
	)
	if err != nil {
		lg.Fatal("scheduler config", zap.Error(err))
	}
	go sched.Run(ctx)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	h := server.Default(server.WithHostPorts(addr))
	api.RegisterRoutes(h, quoteSvc, historySvc)

	lg.Info("server starting",
		zap.String("addr", addr),
		zap.Int("metrics_port", cfg.Metrics.Port),
		zap.String("log_level", cfg.Log.Level))
	if err := h.Run(); err != nil {
		lg.Fatal("server run", zap.Error(err))
	}
}
