package attempt

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/CLF-ReservationService/internal/domain"
	"github.com/m04kA/CLF-ReservationService/pkg/psqlbuilder"
	"github.com/m04kA/CLF-ReservationService/pkg/txmanager"
)

// Repository репозиторий журнала попыток оплаты
//
// Журнал хранит состояние саги оплаты: каждое изменение состояния
// фиксируется в checkout_attempts и дублируется событием в
// checkout_attempt_events для ручного разбора инцидентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый репозиторий попыток оплаты
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var attemptColumns = []string{
	"id",
	"user_id",
	"reservation_ids",
	"amount_cents",
	"method",
	"state",
	"outcome",
	"transaction_id",
	"refunded_cents",
	"manual_intervention",
	"failure_reason",
	"created_at",
	"updated_at",
}

// Create сохраняет новую попытку оплаты в начальном состоянии
func (r *Repository) Create(ctx context.Context, a *domain.CheckoutAttempt) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("checkout_attempts").
		Columns(
			"id",
			"user_id",
			"reservation_ids",
			"amount_cents",
			"method",
			"state",
			"manual_intervention",
		).
		Values(
			a.ID,
			a.UserID,
			pq.Array(a.ReservationIDs),
			a.AmountCents,
			a.Method,
			a.State,
			a.ManualIntervention,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		return fmt.Errorf("%w: Create - scan returning: %v", ErrScanRow, err)
	}

	return nil
}

// UpdateState переводит попытку в новое состояние саги
func (r *Repository) UpdateState(ctx context.Context, id string, state domain.AttemptState) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("checkout_attempts").
		Set("state", state).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateState - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateState - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "UpdateState")
}

// SetTransaction сохраняет идентификатор транзакции платежного шлюза
// Вызывается сразу после успешного списания: с этого момента попытка
// считается оплаченной и возврат обязателен при любом сбое
func (r *Repository) SetTransaction(ctx context.Context, id string, transactionID string) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("checkout_attempts").
		Set("transaction_id", transactionID).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetTransaction - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetTransaction - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "SetTransaction")
}

// FinishParams параметры завершения попытки оплаты
type FinishParams struct {
	State              domain.AttemptState
	Outcome            domain.CheckoutOutcome
	RefundedCents      *int64
	ManualIntervention bool
	FailureReason      *string
}

// Finish переводит попытку в терминальное состояние с итогом
func (r *Repository) Finish(ctx context.Context, id string, params FinishParams) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("checkout_attempts").
		Set("state", params.State).
		Set("outcome", params.Outcome).
		Set("manual_intervention", params.ManualIntervention).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id})

	if params.RefundedCents != nil {
		updateBuilder = updateBuilder.Set("refunded_cents", *params.RefundedCents)
	}
	if params.FailureReason != nil {
		updateBuilder = updateBuilder.Set("failure_reason", *params.FailureReason)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Finish - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Finish - execute update: %v", ErrExecQuery, err)
	}

	return checkAffected(result, "Finish")
}

// AddEvent фиксирует переход состояния саги в журнале событий
func (r *Repository) AddEvent(ctx context.Context, event *domain.AttemptEvent) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("checkout_attempt_events").
		Columns("attempt_id", "from_state", "to_state", "detail").
		Values(event.AttemptID, event.FromState, event.ToState, event.Detail).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: AddEvent - build insert query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&event.ID, &event.CreatedAt); err != nil {
		return fmt.Errorf("%w: AddEvent - scan returning: %v", ErrScanRow, err)
	}

	return nil
}

// GetByID получает попытку оплаты вместе с событиями переходов
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.CheckoutAttempt, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(attemptColumns...).
		From("checkout_attempts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)

	attempt, err := scanAttempt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("%w: GetByID - scan attempt: %v", ErrScanRow, err)
	}

	events, err := r.getEvents(ctx, executor, id)
	if err != nil {
		return nil, err
	}
	attempt.Events = events

	return attempt, nil
}

// getEvents загружает события попытки в хронологическом порядке
func (r *Repository) getEvents(ctx context.Context, executor DBExecutor, attemptID string) ([]domain.AttemptEvent, error) {
	query, args, err := psqlbuilder.Select("id", "attempt_id", "from_state", "to_state", "detail", "created_at").
		From("checkout_attempt_events").
		Where(squirrel.Eq{"attempt_id": attemptID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: getEvents - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getEvents - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	events := make([]domain.AttemptEvent, 0)
	for rows.Next() {
		var event domain.AttemptEvent
		if err := rows.Scan(
			&event.ID,
			&event.AttemptID,
			&event.FromState,
			&event.ToState,
			&event.Detail,
			&event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: getEvents - scan event: %v", ErrScanRow, err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getEvents - rows error: %v", ErrScanRow, err)
	}

	return events, nil
}

// scanAttempt сканирует одну строку checkout_attempts
func scanAttempt(row *sql.Row) (*domain.CheckoutAttempt, error) {
	var a domain.CheckoutAttempt
	var reservationIDs pq.Int64Array

	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&reservationIDs,
		&a.AmountCents,
		&a.Method,
		&a.State,
		&a.Outcome,
		&a.TransactionID,
		&a.RefundedCents,
		&a.ManualIntervention,
		&a.FailureReason,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}

	a.ReservationIDs = []int64(reservationIDs)

	return &a, nil
}

// checkAffected проверяет, что update затронул существующую попытку
func checkAffected(result sql.Result, op string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrAttemptNotFound
	}
	return nil
}
