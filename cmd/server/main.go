// Package main is the entry point for the bizconsole API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"bizconsole/internal/config"
	"bizconsole/internal/domain/documents"
	"bizconsole/internal/domain/reports"
	v1 "bizconsole/internal/infrastructure/http/v1"
	"bizconsole/internal/infrastructure/pdf"
	"bizconsole/internal/infrastructure/storage"
	"bizconsole/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)
	log.Infow("starting bizconsole server", "backend", cfg.Storage.Backend)

	// --- Storage ---
	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer backend.Close(ctx)

	quotations, invoices, err := backend.OpenStores(ctx)
	if err != nil {
		log.Fatalw("failed to load documents", "error", err)
	}
	documents.RegisterDefaultHooks(quotations)
	documents.RegisterDefaultHooks(invoices)

	log.Infow("documents loaded",
		"quotations", len(quotations.List(ctx)),
		"invoices", len(invoices.List(ctx)),
	)

	// --- Router ---
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := v1.NewRouter(v1.RouterConfig{
		Logger:     log.WithComponent("http"),
		Quotations: quotations,
		Invoices:   invoices,
		Reports:    reports.NewService(quotations, invoices),
		Renderer:   pdf.New(cfg.PDF.Company),
		Backend:    backend.Name,
		ReadyCheck: backend.Ready,
		ReadyStats: backend.Stats,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
