package domain

import "time"

// AttemptState именованное состояние саги оплаты
type AttemptState string

const (
	StatePreChecking AttemptState = "pre_checking"
	StateCharging    AttemptState = "charging"
	StateConfirming  AttemptState = "confirming"
	StateRefunding   AttemptState = "refunding"
	StateDone        AttemptState = "done"
	StateFailed      AttemptState = "failed"
)

// CheckoutOutcome терминальный исход попытки оплаты, показываемый пользователю
type CheckoutOutcome string

const (
	// OutcomeSuccess оплата проведена и брони подтверждены
	OutcomeSuccess CheckoutOutcome = "success"
	// OutcomeExpired pre-check не прошел, платеж не выполнялся
	OutcomeExpired CheckoutOutcome = "expired"
	// OutcomeRefundedConflict слот проигран в гонке после списания, деньги возвращены
	OutcomeRefundedConflict CheckoutOutcome = "refunded_conflict"
	// OutcomePixPending Pix-платеж создан, ожидает оплаты вне сервиса
	OutcomePixPending CheckoutOutcome = "pix_pending"
	// OutcomeError любой другой отказ
	OutcomeError CheckoutOutcome = "error"
)

// PaymentMethod способ оплаты
type PaymentMethod string

const (
	MethodCard PaymentMethod = "card"
	MethodPix  PaymentMethod = "pix"
)

// CheckoutAttempt журнальная запись попытки оплаты
// Хранится в Postgres: это единственный долговременный след саги,
// по нему же находятся возвраты, требующие ручного вмешательства
type CheckoutAttempt struct {
	ID             string // uuid
	UserID         int64
	ReservationIDs []int64
	AmountCents    int64
	Method         PaymentMethod

	State   AttemptState
	Outcome *CheckoutOutcome

	// TransactionID идентификатор транзакции платежного шлюза (после charge)
	TransactionID *string

	// RefundedCents сумма компенсирующего возврата, если он был выполнен
	RefundedCents *int64

	// ManualIntervention возврат не удался, требуется ручное вмешательство
	ManualIntervention bool

	FailureReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Events переходы состояний в хронологическом порядке (заполняется при чтении)
	Events []AttemptEvent
}

// AttemptEvent переход состояния саги в журнале
type AttemptEvent struct {
	ID        int64
	AttemptID string
	FromState AttemptState
	ToState   AttemptState
	Detail    *string
	CreatedAt time.Time
}

// IsTerminal возвращает true, если попытка завершена
func (a *CheckoutAttempt) IsTerminal() bool {
	return a.State == StateDone || a.State == StateFailed
}

// WasCharged возвращает true, если по попытке было успешное списание
func (a *CheckoutAttempt) WasCharged() bool {
	return a.TransactionID != nil
}
