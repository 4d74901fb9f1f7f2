// Package repository содержит реализации хранилища счетов привилегий.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/avialab/booking-system/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresRepository предоставляет доступ к счетам привилегий в PostgreSQL.
// Операции над одним пользователем сериализуются блокировкой строки счёта.
type PostgresRepository struct {
	pool   *pgxpool.Pool
	policy model.StatusPolicy
}

// queryer объединяет пул и транзакцию для чтения истории операций.
type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД
// через миграции. Таблица статусов policy используется при пересчёте статуса
// после каждой операции над балансом.
func NewPostgresRepository(dsn string, policy model.StatusPolicy) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{pool: pool, policy: policy}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

// GetByUsername возвращает счёт привилегий пользователя вместе с историей операций.
func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*model.Privilege, error) {
	var (
		id      int64
		balance int64
		status  string
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, balance, status FROM privileges WHERE username = $1`,
		username,
	).Scan(&id, &balance, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPrivilegeNotFound
		}
		return nil, fmt.Errorf("select privilege: %w", err)
	}

	history, err := loadHistory(ctx, r.pool, id)
	if err != nil {
		return nil, err
	}

	return &model.Privilege{
		Username: username,
		Balance:  balance,
		Status:   model.PrivilegeStatus(status),
		History:  history,
	}, nil
}

// Deposit зачисляет amount на счёт пользователя и записывает операцию по билету.
// Повторная операция по неотменённому билету отклоняется.
func (r *PostgresRepository) Deposit(ctx context.Context, username string, ticketUID uuid.UUID, amount int64) (*model.Privilege, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	id, balance, err := lockAccount(ctx, tx, username)
	if err != nil {
		return nil, err
	}

	if err := checkNoActiveEntry(ctx, tx, id, ticketUID); err != nil {
		return nil, err
	}

	newBalance := balance + amount

	if err := appendEntry(ctx, tx, id, ticketUID, model.OperationDeposit, amount); err != nil {
		return nil, err
	}

	return r.finishOperation(ctx, tx, id, username, newBalance)
}

// Withdraw списывает amount со счёта пользователя и записывает операцию по билету.
// Возвращает ErrInsufficientBalance, если средств недостаточно; состояние
// счёта при этом не меняется.
func (r *PostgresRepository) Withdraw(ctx context.Context, username string, ticketUID uuid.UUID, amount int64) (*model.Privilege, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	id, balance, err := lockAccount(ctx, tx, username)
	if err != nil {
		return nil, err
	}

	if err := checkNoActiveEntry(ctx, tx, id, ticketUID); err != nil {
		return nil, err
	}

	if balance < amount {
		return nil, ErrInsufficientBalance
	}
	newBalance := balance - amount

	if err := appendEntry(ctx, tx, id, ticketUID, model.OperationWithdraw, amount); err != nil {
		return nil, err
	}

	return r.finishOperation(ctx, tx, id, username, newBalance)
}

// Cancel отменяет активную операцию по билету и возвращает баланс к состоянию
// до неё: списание компенсируется зачислением, зачисление — списанием.
// Отмена уже потраченного зачисления отклоняется с ErrInsufficientBalance.
func (r *PostgresRepository) Cancel(ctx context.Context, username string, ticketUID uuid.UUID) (*model.Privilege, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	id, balance, err := lockAccount(ctx, tx, username)
	if err != nil {
		return nil, err
	}

	var (
		entryID int64
		kind    string
		amount  int64
	)
	err = tx.QueryRow(ctx,
		`SELECT id, operation_type, amount
		 FROM privilege_history
		 WHERE privilege_id = $1 AND ticket_uid = $2 AND operation_type <> $3`,
		id, ticketUID, string(model.OperationCancel),
	).Scan(&entryID, &kind, &amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("select active entry: %w", err)
	}

	var newBalance int64
	switch model.OperationKind(kind) {
	case model.OperationWithdraw:
		newBalance = balance + amount
	case model.OperationDeposit:
		if balance < amount {
			return nil, ErrInsufficientBalance
		}
		newBalance = balance - amount
	default:
		return nil, fmt.Errorf("unexpected operation kind %q for ticket %s", kind, ticketUID)
	}

	_, err = tx.Exec(ctx,
		`UPDATE privilege_history SET operation_type = $2 WHERE id = $1`,
		entryID, string(model.OperationCancel),
	)
	if err != nil {
		return nil, fmt.Errorf("cancel entry: %w", err)
	}

	return r.finishOperation(ctx, tx, id, username, newBalance)
}

// lockAccount блокирует строку счёта пользователя до конца транзакции,
// сериализуя конкурентные операции над одним пользователем.
func lockAccount(ctx context.Context, tx pgx.Tx, username string) (int64, int64, error) {
	var (
		id      int64
		balance int64
	)
	err := tx.QueryRow(ctx,
		`SELECT id, balance FROM privileges WHERE username = $1 FOR UPDATE`,
		username,
	).Scan(&id, &balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, ErrPrivilegeNotFound
		}
		return 0, 0, fmt.Errorf("lock privilege for update: %w", err)
	}
	return id, balance, nil
}

func checkNoActiveEntry(ctx context.Context, tx pgx.Tx, privilegeID int64, ticketUID uuid.UUID) error {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM privilege_history
			WHERE privilege_id = $1 AND ticket_uid = $2 AND operation_type <> $3
		)`,
		privilegeID, ticketUID, string(model.OperationCancel),
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check active entry: %w", err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTicket, ticketUID)
	}
	return nil
}

func appendEntry(ctx context.Context, tx pgx.Tx, privilegeID int64, ticketUID uuid.UUID, kind model.OperationKind, amount int64) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO privilege_history (privilege_id, ticket_uid, operation_type, amount)
		 VALUES ($1, $2, $3, $4)`,
		privilegeID, ticketUID, string(kind), amount,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %s", ErrDuplicateTicket, ticketUID)
		}
		return fmt.Errorf("insert history entry: %w", err)
	}
	return nil
}

// finishOperation записывает новый баланс и статус, перечитывает историю
// и фиксирует транзакцию.
func (r *PostgresRepository) finishOperation(ctx context.Context, tx pgx.Tx, id int64, username string, newBalance int64) (*model.Privilege, error) {
	status := r.policy.StatusFor(newBalance)

	_, err := tx.Exec(ctx,
		`UPDATE privileges SET balance = $2, status = $3 WHERE id = $1`,
		id, newBalance, string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}

	history, err := loadHistory(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &model.Privilege{
		Username: username,
		Balance:  newBalance,
		Status:   status,
		History:  history,
	}, nil
}

func loadHistory(ctx context.Context, q queryer, privilegeID int64) ([]model.LedgerEntry, error) {
	rows, err := q.Query(ctx,
		`SELECT ticket_uid, operation_type, amount, datetime
		 FROM privilege_history
		 WHERE privilege_id = $1
		 ORDER BY datetime`,
		privilegeID,
	)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer rows.Close()

	var history []model.LedgerEntry
	for rows.Next() {
		var (
			ticketUID uuid.UUID
			kind      string
			amount    int64
			datetime  time.Time
		)
		if err := rows.Scan(&ticketUID, &kind, &amount, &datetime); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}

		history = append(history, model.LedgerEntry{
			TicketUID: ticketUID,
			Kind:      model.OperationKind(kind),
			Amount:    amount,
			Datetime:  datetime,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return history, nil
}
