package get_cart

import (
	"context"
	"time"

	"github.com/m04kA/CLF-ReservationService/internal/service/cart/models"
)

// CartService интерфейс сервиса корзины
type CartService interface {
	Refresh(ctx context.Context, userID int64) (bool, error)
	Snapshot(userID int64, now time.Time) models.Snapshot
	TakeNotifications(userID int64) []models.Notification
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
