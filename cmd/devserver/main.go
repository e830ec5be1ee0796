package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"echoclient/interfaces/devserver"
)

func main() {
	addr := os.Getenv("ECHO_DEVSERVER_ADDR")
	if addr == "" {
		addr = ":5000"
	}
	secret := os.Getenv("ECHO_DEVSERVER_SECRET")
	if secret == "" {
		secret = "echo-dev-secret"
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	server, err := devserver.New([]byte(secret), logger)
	if err != nil {
		logger.Fatal("Failed to create devserver", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting devserver",
			zap.String("address", addr),
			zap.String("seed_account", "test@echo.com"),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Devserver failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down devserver")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Devserver shutdown failed", zap.Error(err))
	}
}
