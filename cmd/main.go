/*
Package main is the entry point for the Ticket Chat server.

It is responsible for loading configuration, initializing the global logging system,
connecting to PostgreSQL and applying migrations, wiring the session hub with its registry,
room router, notification ledger and message store, serving HTTP, and gracefully handling
operating system interrupt signals (SIGINT, SIGTERM) to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"ticketchat/internal/app/chat"
	"ticketchat/internal/app/db"
	sqlc "ticketchat/internal/app/db/sqlc"
	"ticketchat/internal/app/notify"
	"ticketchat/internal/configs"
	"ticketchat/internal/handler"
	"ticketchat/internal/pkg/logx"
	"ticketchat/internal/pkg/metrics"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.IsDevelopment(), cfg.LogLevel)
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("replace_policy", string(cfg.RegisterReplacePolicy)).
		Dur("store_timeout", cfg.StoreTimeout).
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to connect to database")
	}
	defer pool.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	store := db.NewStore(sqlc.New(pool), m, logx.Component("store"))

	hub := chat.NewHub(chat.HubOptions{
		Registry:      chat.NewRegistry(),
		Rooms:         chat.NewRouter(logx.Component("rooms")),
		Ledger:        notify.NewLedger(logx.Component("ledger")),
		Store:         store,
		ReplacePolicy: cfg.RegisterReplacePolicy,
		StoreTimeout:  cfg.StoreTimeout,
		Metrics:       m,
		Logger:        logx.Component("hub"),
	})

	// Setup HTTP server and routes
	router := handler.Router(ctx, &handler.AppDeps{
		Hub:     hub,
		Config:  cfg,
		Store:   store,
		Metrics: m,
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logx.Info("Ticket Chat Server starting", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Server forced to shutdown")
	}

	hub.Shutdown()

	logx.Info("Server gracefully stopped.")
}
