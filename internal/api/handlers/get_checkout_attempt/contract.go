package get_checkout_attempt

import (
	"context"

	"github.com/m04kA/CLF-ReservationService/internal/domain"
)

// GetAttemptUseCase интерфейс use case чтения попытки оплаты
type GetAttemptUseCase interface {
	Execute(ctx context.Context, userID int64, attemptID string) (*domain.CheckoutAttempt, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
