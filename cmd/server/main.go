// Package main is the entry point for the constraint-aware engineer
// recommender's HTTP server. It wires configuration, the Neo4j-backed graph
// client, every search-core component (C1-C11), and the HTTP surface, then
// serves until the process receives a shutdown signal.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"unified-thinking/internal/httpapi"
)

const shutdownTimeout = 10 * time.Second

func main() {
	components, err := InitializeServer()
	if err != nil {
		panic(err)
	}
	defer func() {
		if err := components.Cleanup(); err != nil {
			components.Logger.Warn("cleanup failed", zap.Error(err))
		}
	}()
	logger := components.Logger

	srv := &http.Server{
		Addr:    components.Config.Server.HTTPAddr,
		Handler: httpapi.WithTimeout(components.HTTP.Handler(), 30*time.Second),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting http server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
