package checkout

import (
	"context"

	checkoutUC "github.com/m04kA/CLF-ReservationService/internal/usecase/checkout"
)

// CheckoutUseCase интерфейс use case оплаты корзины
type CheckoutUseCase interface {
	Execute(ctx context.Context, req *checkoutUC.Request) (*checkoutUC.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
