// Package handler содержит HTTP-обработчики API сервиса привилегий.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avialab/booking-system/internal/middleware"
	"github.com/avialab/booking-system/internal/model"
	"github.com/avialab/booking-system/internal/privileges/repository"
	"github.com/avialab/booking-system/internal/privileges/service"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Read(ctx context.Context, username string) (*model.Privilege, error)
	Deposit(ctx context.Context, username string, ticketUID uuid.UUID, amount int64) (*model.Privilege, error)
	Withdraw(ctx context.Context, username string, ticketUID uuid.UUID, amount int64) (*model.Privilege, error)
	Cancel(ctx context.Context, username string, ticketUID uuid.UUID) (*model.Privilege, error)
}

// Handler реализует HTTP-обработчики API сервиса привилегий.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: s,
		logger:  logger,
	}
}

type operationRequest struct {
	TicketUID string `json:"ticketUid"`
	Amount    int64  `json:"amount"`
}

type cancelRequest struct {
	TicketUID string `json:"ticketUid"`
}

// GetPrivilege возвращает счёт привилегий текущего пользователя с историей операций.
func (h *Handler) GetPrivilege(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	privilege, err := h.service.Read(r.Context(), username)
	if err != nil {
		if errors.Is(err, repository.ErrPrivilegeNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.logger.Error("read privilege error", zap.Error(err), zap.String("username", username))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writePrivilege(w, privilege)
}

// Deposit зачисляет средства на счёт текущего пользователя.
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.applyOperation(w, r, h.service.Deposit)
}

// Withdraw списывает средства со счёта текущего пользователя.
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.applyOperation(w, r, h.service.Withdraw)
}

func (h *Handler) applyOperation(w http.ResponseWriter, r *http.Request, op func(context.Context, string, uuid.UUID, int64) (*model.Privilege, error)) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var req operationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	ticketUID, err := uuid.Parse(req.TicketUID)
	if err != nil {
		http.Error(w, "invalid ticketUid", http.StatusBadRequest)
		return
	}

	privilege, err := op(r.Context(), username, ticketUID, req.Amount)
	if err != nil {
		h.writeOperationError(w, err, username, ticketUID)
		return
	}

	h.writePrivilege(w, privilege)
}

// Cancel отменяет операцию по билету на счёте текущего пользователя.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	ticketUID, err := uuid.Parse(req.TicketUID)
	if err != nil {
		http.Error(w, "invalid ticketUid", http.StatusBadRequest)
		return
	}

	privilege, err := h.service.Cancel(r.Context(), username, ticketUID)
	if err != nil {
		h.writeOperationError(w, err, username, ticketUID)
		return
	}

	h.writePrivilege(w, privilege)
}

func (h *Handler) writeOperationError(w http.ResponseWriter, err error, username string, ticketUID uuid.UUID) {
	switch {
	case errors.Is(err, service.ErrInvalidAmount):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, repository.ErrInsufficientBalance):
		http.Error(w, http.StatusText(http.StatusPaymentRequired), http.StatusPaymentRequired)
	case errors.Is(err, repository.ErrDuplicateTicket):
		http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
	case errors.Is(err, repository.ErrPrivilegeNotFound), errors.Is(err, repository.ErrTicketNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	default:
		h.logger.Error("privilege operation error",
			zap.Error(err),
			zap.String("username", username),
			zap.String("ticketUid", ticketUID.String()),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) writePrivilege(w http.ResponseWriter, privilege *model.Privilege) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(privilege); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
}
