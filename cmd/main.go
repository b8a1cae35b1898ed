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

	"github.com/hackz-app/relay-service/config"
	"github.com/hackz-app/relay-service/internal/presence"
	"github.com/hackz-app/relay-service/internal/relay"
	"github.com/hackz-app/relay-service/internal/service"
	signalpkg "github.com/hackz-app/relay-service/internal/signal"
	httpx "github.com/hackz-app/relay-service/internal/transport/http"
	"github.com/hackz-app/relay-service/internal/transport/ws"
	"github.com/hackz-app/relay-service/pkg/logger"
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
	slog.Info("starting relay-service",
		"env", cfg.Logging.Env, "version", cfg.Logging.Version)

	// --- stores ---
	roomStore := relay.NewStore()
	signalRegistry := signalpkg.NewRegistry()
	signalBus := signalpkg.NewBus()
	presenceStore := presence.NewStore()

	// --- services ---
	relaySvc := service.NewRelayService(roomStore)
	signalSvc := service.NewSignalService(signalRegistry, signalBus)

	// --- TTL sweep ---
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	janitor := relay.NewJanitor(roomStore, cfg.SweepIntervalOr(relay.DefaultSweepInterval))
	go janitor.Run(janitorCtx)

	// --- HTTP ---
	wsServer := ws.NewServer(signalSvc)
	handler := httpx.NewHandler(relaySvc, signalSvc, presenceStore)
	router := httpx.NewRouter(handler, wsServer)
	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
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

	stopJanitor()
	_ = httpSrv.Shutdown(ctxShutdown)
	slog.Info("stopped")
}
