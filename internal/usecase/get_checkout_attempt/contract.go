package get_checkout_attempt

import (
	"context"

	"github.com/m04kA/CLF-ReservationService/internal/domain"
)

// AttemptRepository интерфейс журнала попыток оплаты
type AttemptRepository interface {
	GetByID(ctx context.Context, id string) (*domain.CheckoutAttempt, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
