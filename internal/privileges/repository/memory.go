package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/avialab/booking-system/internal/model"
)

type memAccount struct {
	balance int64
	history []model.LedgerEntry
}

// MemoryRepository хранит счета привилегий в памяти. Используется при
// запуске без строки подключения к БД и в тестах. Конкурентные операции
// сериализуются общим мьютексом.
type MemoryRepository struct {
	mu       sync.RWMutex
	accounts map[string]*memAccount
	policy   model.StatusPolicy
	now      func() time.Time
}

// NewMemoryRepository создаёт пустое хранилище счетов в памяти.
func NewMemoryRepository(policy model.StatusPolicy) *MemoryRepository {
	return &MemoryRepository{
		accounts: make(map[string]*memAccount),
		policy:   policy,
		now:      time.Now,
	}
}

// Close реализует контракт репозитория; для хранилища в памяти ничего не делает.
func (m *MemoryRepository) Close() error { return nil }

// Seed создаёт счёт пользователя с указанным балансом. Создание счетов —
// внешняя операция обеспечения, поэтому метод предназначен для локального
// запуска и тестов, а не для API сервиса.
func (m *MemoryRepository) Seed(username string, balance int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[username] = &memAccount{balance: balance}
}

// GetByUsername возвращает счёт привилегий пользователя вместе с историей операций.
func (m *MemoryRepository) GetByUsername(_ context.Context, username string) (*model.Privilege, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acc, ok := m.accounts[username]
	if !ok {
		return nil, ErrPrivilegeNotFound
	}
	return m.snapshot(username, acc), nil
}

// Deposit зачисляет amount на счёт пользователя и записывает операцию по билету.
func (m *MemoryRepository) Deposit(_ context.Context, username string, ticketUID uuid.UUID, amount int64) (*model.Privilege, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[username]
	if !ok {
		return nil, ErrPrivilegeNotFound
	}
	if m.activeEntry(acc, ticketUID) >= 0 {
		return nil, ErrDuplicateTicket
	}

	acc.balance += amount
	acc.history = append(acc.history, model.LedgerEntry{
		TicketUID: ticketUID,
		Kind:      model.OperationDeposit,
		Amount:    amount,
		Datetime:  m.now(),
	})

	return m.snapshot(username, acc), nil
}

// Withdraw списывает amount со счёта пользователя и записывает операцию по билету.
func (m *MemoryRepository) Withdraw(_ context.Context, username string, ticketUID uuid.UUID, amount int64) (*model.Privilege, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[username]
	if !ok {
		return nil, ErrPrivilegeNotFound
	}
	if m.activeEntry(acc, ticketUID) >= 0 {
		return nil, ErrDuplicateTicket
	}
	if acc.balance < amount {
		return nil, ErrInsufficientBalance
	}

	acc.balance -= amount
	acc.history = append(acc.history, model.LedgerEntry{
		TicketUID: ticketUID,
		Kind:      model.OperationWithdraw,
		Amount:    amount,
		Datetime:  m.now(),
	})

	return m.snapshot(username, acc), nil
}

// Cancel отменяет активную операцию по билету и компенсирует её влияние на баланс.
func (m *MemoryRepository) Cancel(_ context.Context, username string, ticketUID uuid.UUID) (*model.Privilege, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[username]
	if !ok {
		return nil, ErrPrivilegeNotFound
	}

	idx := m.activeEntry(acc, ticketUID)
	if idx < 0 {
		return nil, ErrTicketNotFound
	}

	entry := acc.history[idx]
	switch entry.Kind {
	case model.OperationWithdraw:
		acc.balance += entry.Amount
	case model.OperationDeposit:
		if acc.balance < entry.Amount {
			return nil, ErrInsufficientBalance
		}
		acc.balance -= entry.Amount
	}

	acc.history[idx].Kind = model.OperationCancel

	return m.snapshot(username, acc), nil
}

// activeEntry возвращает индекс неотменённой записи по билету или -1.
func (m *MemoryRepository) activeEntry(acc *memAccount, ticketUID uuid.UUID) int {
	for i, e := range acc.history {
		if e.TicketUID == ticketUID && e.Kind != model.OperationCancel {
			return i
		}
	}
	return -1
}

func (m *MemoryRepository) snapshot(username string, acc *memAccount) *model.Privilege {
	history := make([]model.LedgerEntry, len(acc.history))
	copy(history, acc.history)

	return &model.Privilege{
		Username: username,
		Balance:  acc.balance,
		Status:   m.policy.StatusFor(acc.balance),
		History:  history,
	}
}
