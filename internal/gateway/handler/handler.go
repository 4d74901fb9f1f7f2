// Package handler содержит HTTP-обработчики шлюза платформы бронирования.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/avialab/booking-system/internal/middleware"
	"github.com/avialab/booking-system/internal/model"
)

// TicketsClient определяет контракт клиента сервиса билетов.
type TicketsClient interface {
	GetTickets(ctx context.Context, username string) ([]model.Ticket, bool, error)
}

// PrivilegesClient определяет контракт клиента сервиса привилегий.
type PrivilegesClient interface {
	GetPrivilegeForUser(ctx context.Context, username string) (*model.PrivilegeShortInfo, bool, error)
}

// Handler реализует HTTP-обработчики шлюза.
type Handler struct {
	tickets    TicketsClient
	privileges PrivilegesClient
	proxy      http.Handler
	logger     *zap.Logger
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов шлюза.
func NewHandler(tickets TicketsClient, privileges PrivilegesClient, proxy http.Handler, logger *zap.Logger) *Handler {
	return &Handler{
		tickets:    tickets,
		privileges: privileges,
		proxy:      proxy,
		logger:     logger,
	}
}

// Me возвращает сводку по пользователю: билеты и привилегии запрашиваются
// у нижестоящих сервисов параллельно. Ошибка или отсутствие любой из
// частей завершает запрос целиком; частичная сводка не возвращается,
// а отмена контекста прерывает второй вызов.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	g, ctx := errgroup.WithContext(r.Context())

	var (
		tickets      []model.Ticket
		ticketsFound bool

		privilege      *model.PrivilegeShortInfo
		privilegeFound bool
	)

	g.Go(func() error {
		var err error
		tickets, ticketsFound, err = h.tickets.GetTickets(ctx, username)
		return err
	})

	g.Go(func() error {
		var err error
		privilege, privilegeFound, err = h.privileges.GetPrivilegeForUser(ctx, username)
		return err
	})

	if err := g.Wait(); err != nil {
		h.logger.Error("user summary downstream error", zap.Error(err), zap.String("username", username))
		http.Error(w, "downstream service unreachable", http.StatusBadGateway)
		return
	}

	if !ticketsFound || !privilegeFound {
		http.Error(w, "user data not found", http.StatusNotFound)
		return
	}

	info := model.UserInfo{
		Tickets:   tickets,
		Privilege: *privilege,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(info); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
}
