package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"acdm_go/internal/app"
	"acdm_go/internal/engine"
	"acdm_go/internal/event"
	"acdm_go/internal/infra"
	"acdm_go/internal/infra/ws"
	"acdm_go/internal/service"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize("configs/config.yaml"); err != nil {
		slog.Error("Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}
	cfg := bootstrap.Config

	// 2. Pprof Server (for performance profiling)
	go func() {
		slog.Info("Pprof server started", slog.String("addr", cfg.Server.PprofAddr))
		if err := http.ListenAndServe(cfg.Server.PprofAddr, nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Event sinks: websocket hub + per-round stats
	hub := ws.NewHub()
	defer hub.Close()
	stats := service.NewStatsService()

	event.Warmup()

	// 5. Sequencer (The Hotpath Loop)
	seq := engine.NewSequencer(1024, bootstrap.Platform, bootstrap.Store, func(ev event.Event) {
		stats.Process(ev)
		hub.Broadcast(ev)
	})
	go seq.Run(ctx)
	slog.InfoContext(ctx, "Sequencer (hotpath) started")

	// 6. Observer endpoints
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/state", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(seq.GetSnapshot())
	})
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(stats.All())
	})
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(infra.GlobalMetrics.Snapshot())
	})

	server := &http.Server{Addr: cfg.Server.ListenAddr, Handler: mux}
	go func() {
		slog.Info("Observer server started", slog.String("addr", cfg.Server.ListenAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Observer server failed", slog.Any("error", err))
		}
	}()

	slog.InfoContext(ctx, "ACDM platform fully operational. Press Ctrl+C to exit.")

	// Wait for shutdown signal
	<-ctx.Done()

	slog.InfoContext(ctx, "Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	server.Shutdown(shutdownCtx)
}
