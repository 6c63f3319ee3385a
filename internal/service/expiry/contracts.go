package expiry

import (
	"context"
	"time"
)

// CartService интерфейс сервиса корзины, за которым наблюдают часы истечения
type CartService interface {
	ActiveUsers() []int64
	SecondsLeft(userID int64, now time.Time) (int64, bool)
	Refresh(ctx context.Context, userID int64) (bool, error)
	PushWarning(userID int64, secondsLeft int64) bool
	DismissWarning(userID int64)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Metrics интерфейс доменных метрик истечения
type Metrics interface {
	ExpiryWarningInc()
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
