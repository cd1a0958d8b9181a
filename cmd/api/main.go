package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/debt-terms/internal/adapter"
	"github.com/Dan9191/debt-terms/internal/config"
	"github.com/Dan9191/debt-terms/internal/handler"
	"github.com/Dan9191/debt-terms/internal/middleware"
	"github.com/Dan9191/debt-terms/internal/registry"
	"github.com/Dan9191/debt-terms/internal/reminder"
	"github.com/Dan9191/debt-terms/internal/repository"
	"github.com/Dan9191/debt-terms/internal/service"
	"github.com/Dan9191/debt-terms/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	repo := repository.NewRepository(db)

	// Contract addresses always come from the deployment manifest
	manifest, err := registry.LoadManifest(cfg.ManifestPath)
	if err != nil {
		logger.Fatalf("Failed to load manifest: %v", err)
	}
	var tokens adapter.TokenRegistry = manifest
	if cfg.RegistrySource == config.RegistryPostgres {
		for _, t := range manifest.Tokens() {
			if err := repo.UpsertToken(ctx, t); err != nil {
				logger.Fatalf("Failed to seed token %s: %v", t.Symbol, err)
			}
		}
		tokens = repo
	}
	logger.Infof("Token registry: %s (%d manifest tokens)", cfg.RegistrySource, len(manifest.Tokens()))

	// Initialize layers
	svc := service.NewService(adapter.New(tokens, manifest), repo, logger)
	h := handler.NewHandler(svc)

	// Installment reminders
	job := reminder.NewJob(repo, email.NewSender(cfg, logger), cfg.ReminderWindow, logger)
	runner, err := job.Start(cfg.ReminderSchedule)
	if err != nil {
		logger.Fatalf("Failed to start reminders: %v", err)
	}
	defer runner.Stop()

	// Setup router
	r := mux.NewRouter()
	h.Routes(r, middleware.AuthMiddleware(cfg))

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Shutdown failed: %v", err)
		}
	}()

	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server failed: %v", err)
	}
	logger.Info("Server stopped")
}
