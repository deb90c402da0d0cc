package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gyaneshwarpardhi/mindmap/internal/api"
	"github.com/gyaneshwarpardhi/mindmap/internal/config"
	"github.com/gyaneshwarpardhi/mindmap/internal/engine"
	"github.com/gyaneshwarpardhi/mindmap/internal/oracle"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	cfgPath := flag.String("config", "configs/puzzles.yaml", "Path to puzzle catalog YAML")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// ── Oracle registry ───────────────────────────────────────────────────────
	reg := oracle.NewRegistry()
	reg.Register(oracle.NewAllowAll())
	reg.Register(oracle.NewHeuristic())

	// ── Load puzzle catalog ───────────────────────────────────────────────────
	// Every load (startup, endpoint reload, file watch) passes this gate; a
	// catalog that fails it never reaches the engine.
	verify := func(cfg *config.CatalogConfig) error {
		if err := config.Validate(cfg); err != nil {
			return err
		}
		return checkOracles(cfg, reg)
	}
	loader, err := config.NewLoader(*cfgPath, verify)
	if err != nil {
		slog.Error("failed to load catalog", "err", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	slog.Info("catalog loaded", "puzzles", len(cfg.Puzzles), "oracles", reg.Names())

	// ── Engine ────────────────────────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng := engine.New(ctx, loader, reg, cfg.Engine)

	// ── Hot-reload watcher ────────────────────────────────────────────────────
	// The loader only announces catalogs that already passed verify.
	loader.OnChange(func(newCfg *config.CatalogConfig) {
		slog.Info("catalog hot-reloaded", "puzzles", len(newCfg.Puzzles))
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("catalog watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	handler := api.New(eng, loader)
	srv := &http.Server{
		Addr:         *addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	cancel() // stop oracle workers
	eng.Shutdown()
	slog.Info("goodbye")
}

// checkOracles verifies every oracle name the catalog references is registered.
func checkOracles(cfg *config.CatalogConfig, reg *oracle.Registry) error {
	if _, err := reg.Get(cfg.Engine.Oracle); err != nil {
		return err
	}
	for _, p := range cfg.Puzzles {
		if p.Oracle == "" {
			continue
		}
		if _, err := reg.Get(p.Oracle); err != nil {
			return err
		}
	}
	return nil
}
