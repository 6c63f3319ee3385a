package checkout

import (
	"context"
	"time"

	"github.com/m04kA/CLF-ReservationService/internal/domain"
	"github.com/m04kA/CLF-ReservationService/internal/infra/storage/attempt"
	"github.com/m04kA/CLF-ReservationService/internal/integrations/paymentgateway"
	"github.com/m04kA/CLF-ReservationService/internal/integrations/scheduleservice"
)

// CartService интерфейс сервиса корзины
type CartService interface {
	Items(userID int64) []domain.Reservation
	Refresh(ctx context.Context, userID int64) (bool, error)
}

// ScheduleServiceClient интерфейс клиента сервиса расписаний
type ScheduleServiceClient interface {
	GetTimeOptions(ctx context.Context, date time.Time, placeID int64) (*scheduleservice.TimeOptionsResponse, error)
	ConfirmPayment(ctx context.Context, req scheduleservice.ConfirmPaymentRequest) error
}

// PaymentGatewayClient интерфейс клиента платежного шлюза
type PaymentGatewayClient interface {
	Charge(ctx context.Context, req paymentgateway.ChargeRequest) (*paymentgateway.ChargeResponse, error)
	Refund(ctx context.Context, transactionID string, amount int64) (*paymentgateway.RefundResponse, error)
}

// AttemptRepository интерфейс журнала попыток оплаты
type AttemptRepository interface {
	Create(ctx context.Context, a *domain.CheckoutAttempt) error
	UpdateState(ctx context.Context, id string, state domain.AttemptState) error
	SetTransaction(ctx context.Context, id string, transactionID string) error
	Finish(ctx context.Context, id string, params attempt.FinishParams) error
	AddEvent(ctx context.Context, event *domain.AttemptEvent) error
}

// TransactionManager интерфейс менеджера транзакций БД
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс метрик оплаты
type Metrics interface {
	CheckoutOutcomeInc(outcome string)
	RefundFailureInc()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
