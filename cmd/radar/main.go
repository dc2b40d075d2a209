package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BaasherHub/SolanaLiquidityRadarBot/internal/client"
	"github.com/BaasherHub/SolanaLiquidityRadarBot/internal/config"
	"github.com/BaasherHub/SolanaLiquidityRadarBot/internal/pkg/logger"
	"github.com/BaasherHub/SolanaLiquidityRadarBot/internal/restapi"
	"github.com/BaasherHub/SolanaLiquidityRadarBot/internal/service"
	"github.com/BaasherHub/SolanaLiquidityRadarBot/internal/tracker"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	cfgPath := getEnv("CONFIG_PATH", "config/config.yaml")
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.New(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize zap logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync() // flushes buffer, if any

	// Route the default slog logger onto the zap core so any slog-based
	// dependency logs through the same sink.
	slogHandler := zapslog.NewHandler(zapLogger.Core(), &zapslog.HandlerOptions{})
	slog.SetDefault(slog.New(slogHandler))

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Feed client
	feedClient := client.NewDEXScreenerClient(
		cfg.DEXScreener.BaseURL,
		time.Duration(cfg.DEXScreener.RequestTimeoutMillis)*time.Millisecond,
		cfg.DEXScreener.RequestsPerMinute,
		cfg.DEXScreener.RequestBurst,
		zapLogger,
	)
	zapLogger.Info("DEXScreener client initialized")

	// Outbound channel
	notifier := client.NewTelegramNotifier(
		cfg.Telegram.BotToken,
		cfg.Telegram.ChatID,
		time.Duration(cfg.Telegram.RequestTimeoutMillis)*time.Millisecond,
		zapLogger,
	)
	zapLogger.Info("Telegram notifier initialized", zap.String("chatID", cfg.Telegram.ChatID))

	// Detection pipeline. The seen set lives for the process lifetime and
	// resets on restart by design.
	seen := tracker.NewSeenSet()
	classifier := service.NewClassifier(seen, cfg.Radar.MinLiquidityUSD)
	dispatcher := service.NewDispatcher(
		notifier,
		time.Duration(cfg.Radar.MinDispatchIntervalMillis)*time.Millisecond,
		zapLogger,
	)
	monitor := service.NewMonitor(feedClient, classifier, dispatcher, seen, service.MonitorOptions{
		ChainID:              cfg.Radar.ChainID,
		PollInterval:         time.Duration(cfg.Radar.PollIntervalSeconds) * time.Second,
		MaxConcurrentFetches: cfg.Radar.MaxConcurrentFetches,
		ListingsCacheTTL:     time.Duration(cfg.Radar.ListingsCacheTTLMinutes) * time.Minute,
	}, zapLogger)
	zapLogger.Info("Monitor initialized",
		zap.String("chainId", cfg.Radar.ChainID),
		zap.Int("pollIntervalSeconds", cfg.Radar.PollIntervalSeconds),
		zap.Float64("minLiquidityUsd", cfg.Radar.MinLiquidityUSD))

	go func() {
		if err := monitor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			zapLogger.Error("Monitor stopped unexpectedly", zap.Error(err))
		}
	}()

	// Ops HTTP surface: /healthz, /metrics, /api/v1/status
	statusHandler := restapi.NewStatusHandler(monitor, cfg)
	router := restapi.SetupRouter(statusHandler)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info("Ops server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start ops server", zap.Error(err))
		}
	}()

	// Graceful shutdown: let the in-flight cycle finish, then stop.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down...")

	cancel()

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Error("Ops server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Liquidity radar stopped")
}
