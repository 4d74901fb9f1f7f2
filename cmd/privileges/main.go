// Package main запускает HTTP-сервер сервиса привилегий.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/avialab/booking-system/internal/model"
	"github.com/avialab/booking-system/internal/privileges/config"
	"github.com/avialab/booking-system/internal/privileges/handler"
	"github.com/avialab/booking-system/internal/privileges/repository"
	"github.com/avialab/booking-system/internal/privileges/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	var repo service.Repository
	if cfg.DatabaseURI != "" {
		pgRepo, err := repository.NewPostgresRepository(cfg.DatabaseURI, model.DefaultStatusPolicy)
		if err != nil {
			sugar.Fatalw("database initialization error", "error", err.Error())
		}
		repo = pgRepo
	} else {
		sugar.Warn("no database URI provided, using in-memory storage")
		repo = repository.NewMemoryRepository(model.DefaultStatusPolicy)
	}

	svc := service.NewService(repo)
	defer svc.Close()

	h := handler.NewHandler(svc, logger)
	r := h.SetupRouter()

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting privileges server", "addr", cfg.RunAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
