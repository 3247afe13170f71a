package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neko-chat/chat-service/config"
	"github.com/neko-chat/chat-service/internal/postgres"
	"github.com/neko-chat/chat-service/internal/room"
	httpx "github.com/neko-chat/chat-service/internal/transport/http"
	"github.com/neko-chat/chat-service/internal/transport/ws"
	"github.com/neko-chat/chat-service/pkg/logger"
)

func main() {
	// --- config ---
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger.Init(logger.Config{
		Env:       logger.Env(cfg.Logging.Env),
		Service:   cfg.Logging.Service,
		Version:   cfg.Logging.Version,
		Backend:   logger.Backend(cfg.Logging.Backend),
		AddSource: cfg.Logging.AddSource,
		Debug:     cfg.Logging.Debug,
	})
	slog.Info("starting chat-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- postgres ---
	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db.Pool); err != nil {
		log.Fatalf("schema: %v", err)
	}
	stateRepo := postgres.NewStateRepository(db.Pool)

	// --- room ---
	rm := room.New(stateRepo, room.Config{
		HistoryLimit:  cfg.Room.HistoryLimit,
		HistoryOnJoin: cfg.Room.HistoryOnJoin,
		RateBurst:     cfg.Room.RateBurst,
		RateWindow:    cfg.RateWindow(),
	})
	if err := rm.Init(ctx); err != nil {
		slog.Warn("visitor counter unavailable, starting from zero", "err", err)
	}

	// --- transports ---
	wsServer := ws.NewServer(rm, cfg.WS.PublicDomain)
	handler := httpx.NewHandler(stateRepo)
	router := httpx.NewRouter(handler, wsServer)

	httpSrv := &http.Server{
		Addr:        cfg.HTTP.Addr,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listen", "addr", cfg.HTTP.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal", "sig", sig)
	case err := <-errCh:
		slog.Error("server error", "err", err)
	}

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}
