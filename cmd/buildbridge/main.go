package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"buildbridge/internal/api"
	"buildbridge/internal/config"
	"buildbridge/internal/engine/jenkins"
	"buildbridge/internal/logger"
	"buildbridge/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	loggerLevel := config.GetLogLevel()
	logger.Init(loggerLevel)
	logger.Info("Starting buildbridge service", "log_level", loggerLevel)

	if err := storage.Init(cfg.Database.Path); err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	resource := jenkins.NewResource(cfg.Jenkins)
	router := api.NewRouter(*cfg, resource)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	if err := storage.Close(); err != nil {
		logger.Error("Failed to close database connection", "error", err)
	}

	logger.Info("Server stopped")
}
