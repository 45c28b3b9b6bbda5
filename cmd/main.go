package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"home-vault/internal/adapters/localstorage"
	"home-vault/internal/adapters/server"
	"home-vault/internal/config"
	"home-vault/internal/usecases"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	flag.Parse()

	cfg := config.LoadConfig(*configPath)
	setupLogger(cfg.Log)

	// корень хранилища должен существовать до старта, иначе писать некуда.
	// если по этому пути лежит файл, стартовать нельзя.
	fileStorage := localstorage.NewLocalStorageService(cfg.Storage.DirPermissions, cfg.Storage.FilePermissions)
	if err := fileStorage.EnsureVault(cfg.Storage.BasePath); err != nil {
		logrus.Fatalf("Failed to prepare vault directory: %v", err)
	}

	guard, err := usecases.NewPathGuard(cfg.Storage.BasePath)
	if err != nil {
		logrus.Fatalf("Invalid vault root: %v", err)
	}
	vault := usecases.NewVaultUseCase(fileStorage, guard, cfg.Listing.MaxDepth)
	handler := server.NewHandler(vault, cfg.Server.MaxUploadSize)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.NewRouter(handler, cfg.Routes, cfg.CORS.AllowedOrigin),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// graceful shutdown.
	go func() {
		logrus.WithFields(logrus.Fields{
			"addr":  addr,
			"vault": guard.Root(),
		}).Info("Server running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server shutdown error: %v", err)
	} else {
		logrus.Info("Server stopped gracefully")
	}
}

func setupLogger(cfg config.LogConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.Warnf("Unknown log level %q, falling back to info", cfg.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.Format == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
