package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tycoon/internal/api"
	"tycoon/internal/config"
	"tycoon/internal/game"
	"tycoon/internal/oracle"
	"tycoon/internal/store"
	"tycoon/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	cfg, err := config.LoadAPIFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	balance, err := config.LoadBalance(cfg.BalancePath)
	if err != nil {
		logger.Error("load balance failed", "err", err)
		os.Exit(1)
	}
	game.ApplyBalance(balance)

	if cfg.OTLPEndpoint != "" {
		shutdown, err := telemetry.Setup(ctx, cfg.OTLPEndpoint)
		if err != nil {
			logger.Error("telemetry setup failed", "err", err)
			os.Exit(1)
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(flushCtx)
		}()
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Error("store open failed", "err", err)
		os.Exit(1)
	}
	defer st.Close()

	var orc game.Oracle
	switch cfg.OracleKind {
	case "gemini":
		orc = oracle.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		orc, err = oracle.NewScripted(cfg.OracleSeed)
		if err != nil {
			logger.Error("scripted oracle init failed", "err", err)
			os.Exit(1)
		}
	}

	games := game.NewManager(orc, st, logger)
	server := api.New(cfg, logger, games, st)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("tycoon api listening", "addr", cfg.Addr, "oracle", cfg.OracleKind)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
