// Package main запускает HTTP-сервер шлюза платформы бронирования.
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

	"github.com/avialab/booking-system/internal/gateway/client"
	"github.com/avialab/booking-system/internal/gateway/config"
	"github.com/avialab/booking-system/internal/gateway/handler"
	"github.com/avialab/booking-system/internal/gateway/proxy"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	table := proxy.NewTable(cfg.FlightsAddress, cfg.TicketsAddress, cfg.PrivilegesAddress)
	p := proxy.NewProxy(table, logger)

	ticketClient := client.NewTicketClient(cfg.TicketsAddress)
	privilegeClient := client.NewPrivilegeClient(cfg.PrivilegesAddress)

	h := handler.NewHandler(ticketClient, privilegeClient, p, logger)
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
		sugar.Infow("starting gateway server",
			"addr", cfg.RunAddress,
			"flights", cfg.FlightsAddress,
			"tickets", cfg.TicketsAddress,
			"privileges", cfg.PrivilegesAddress,
		)
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
