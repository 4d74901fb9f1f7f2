package repository

import "errors"

// ErrPrivilegeNotFound возвращается, если счёт привилегий пользователя не найден.
var (
	ErrPrivilegeNotFound = errors.New("privilege account not found")
	// ErrTicketNotFound возвращается, если активная операция по билету не найдена.
	ErrTicketNotFound = errors.New("active ticket operation not found")
	// ErrInsufficientBalance возвращается при операции, которая привела бы к отрицательному балансу.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrDuplicateTicket возвращается при повторной операции по ещё не отменённому билету.
	ErrDuplicateTicket = errors.New("ticket operation already exists")
)
