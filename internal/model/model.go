// Package model содержит доменные сущности платформы бронирования.
package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus описывает состояние купленного билета.
type TicketStatus string

const (
	TicketStatusPaid     TicketStatus = "PAID"
	TicketStatusCanceled TicketStatus = "CANCELED"
)

// Ticket описывает билет пользователя, возвращаемый сервисом билетов.
type Ticket struct {
	TicketUID    uuid.UUID    `json:"ticketUid"`
	FlightNumber string       `json:"flightNumber"`
	FromAirport  string       `json:"fromAirport"`
	ToAirport    string       `json:"toAirport"`
	Date         string       `json:"date"`
	Price        int64        `json:"price"`
	Status       TicketStatus `json:"status"`
}

// PrivilegeStatus описывает уровень привилегий пользователя.
type PrivilegeStatus string

const (
	PrivilegeStatusBronze PrivilegeStatus = "BRONZE"
	PrivilegeStatusSilver PrivilegeStatus = "SILVER"
	PrivilegeStatusGold   PrivilegeStatus = "GOLD"
)

// PrivilegeShortInfo содержит краткую информацию о привилегиях пользователя.
type PrivilegeShortInfo struct {
	Balance int64           `json:"balance"`
	Status  PrivilegeStatus `json:"status"`
}

// UserInfo объединяет билеты и привилегии пользователя в один ответ шлюза.
type UserInfo struct {
	Tickets   []Ticket           `json:"tickets"`
	Privilege PrivilegeShortInfo `json:"privilege"`
}

// OperationKind описывает тип записи в истории привилегий.
type OperationKind string

const (
	OperationDeposit  OperationKind = "DEPOSIT"
	OperationWithdraw OperationKind = "WITHDRAW"
	// OperationCancel помечает отменённую запись: такие записи больше не
	// считаются активными и не участвуют в проверке дубликатов.
	OperationCancel OperationKind = "CANCEL"
)

// LedgerEntry описывает одну операцию над балансом, привязанную к билету.
type LedgerEntry struct {
	TicketUID uuid.UUID     `json:"ticketUid"`
	Kind      OperationKind `json:"operationType"`
	Amount    int64         `json:"amount"`
	Datetime  time.Time     `json:"datetime"`
}

// Privilege описывает счёт привилегий пользователя вместе с историей операций.
type Privilege struct {
	Username string          `json:"username"`
	Balance  int64           `json:"balance"`
	Status   PrivilegeStatus `json:"status"`
	History  []LedgerEntry   `json:"history"`
}

// ShortInfo возвращает краткое представление привилегий без истории.
func (p *Privilege) ShortInfo() PrivilegeShortInfo {
	return PrivilegeShortInfo{
		Balance: p.Balance,
		Status:  p.Status,
	}
}

// StatusThreshold задаёт минимальный баланс, начиная с которого действует статус.
type StatusThreshold struct {
	MinBalance int64
	Status     PrivilegeStatus
}

// StatusPolicy определяет таблицу переходов статусов по балансу.
// Пороговые значения перечисляются по убыванию MinBalance.
type StatusPolicy []StatusThreshold

// DefaultStatusPolicy — таблица статусов, используемая сервисом привилегий
// по умолчанию.
var DefaultStatusPolicy = StatusPolicy{
	{MinBalance: 3000, Status: PrivilegeStatusGold},
	{MinBalance: 1000, Status: PrivilegeStatusSilver},
	{MinBalance: 0, Status: PrivilegeStatusBronze},
}

// StatusFor возвращает статус, соответствующий указанному балансу.
func (p StatusPolicy) StatusFor(balance int64) PrivilegeStatus {
	for _, t := range p {
		if balance >= t.MinBalance {
			return t.Status
		}
	}
	return PrivilegeStatusBronze
}
