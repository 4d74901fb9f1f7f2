// Package service реализует бизнес-логику сервиса привилегий.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/avialab/booking-system/internal/model"
)

// ErrInvalidAmount возвращается при неположительной сумме операции.
var ErrInvalidAmount = errors.New("amount must be positive")

// Repository описывает контракт доступа к счетам привилегий.
// Реализация обязана применять каждую операцию атомарно относительно
// конкурентных операций над тем же пользователем.
type Repository interface {
	Close() error
	GetByUsername(ctx context.Context, username string) (*model.Privilege, error)
	Deposit(ctx context.Context, username string, ticketUID uuid.UUID, amount int64) (*model.Privilege, error)
	Withdraw(ctx context.Context, username string, ticketUID uuid.UUID, amount int64) (*model.Privilege, error)
	Cancel(ctx context.Context, username string, ticketUID uuid.UUID) (*model.Privilege, error)
}

// Service содержит бизнес-логику сервиса привилегий.
type Service struct {
	repo Repository
}

// NewService создаёт новый сервис с указанным репозиторием.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// Read возвращает счёт привилегий пользователя вместе с историей операций.
func (s *Service) Read(ctx context.Context, username string) (*model.Privilege, error) {
	return s.repo.GetByUsername(ctx, username)
}

// Deposit зачисляет amount на счёт пользователя по операции с билетом.
func (s *Service) Deposit(ctx context.Context, username string, ticketUID uuid.UUID, amount int64) (*model.Privilege, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.repo.Deposit(ctx, username, ticketUID, amount)
}

// Withdraw списывает amount со счёта пользователя по операции с билетом.
func (s *Service) Withdraw(ctx context.Context, username string, ticketUID uuid.UUID, amount int64) (*model.Privilege, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.repo.Withdraw(ctx, username, ticketUID, amount)
}

// Cancel отменяет активную операцию по билету, возвращая баланс к состоянию до неё.
func (s *Service) Cancel(ctx context.Context, username string, ticketUID uuid.UUID) (*model.Privilege, error) {
	return s.repo.Cancel(ctx, username, ticketUID)
}
