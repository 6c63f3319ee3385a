package select_slots

import (
	"context"
	"time"

	"github.com/m04kA/CLF-ReservationService/internal/domain"
	"github.com/m04kA/CLF-ReservationService/internal/integrations/scheduleservice"
)

// ScheduleServiceClient интерфейс клиента сервиса расписаний
type ScheduleServiceClient interface {
	GetTimeOptions(ctx context.Context, date time.Time, placeID int64) (*scheduleservice.TimeOptionsResponse, error)
	GetSchedulingRules(ctx context.Context, placeID int64) ([]*domain.SchedulingRule, error)
	CreateSchedule(ctx context.Context, req scheduleservice.CreateScheduleRequest) (*scheduleservice.MemberSchedule, error)
}

// CartService интерфейс сервиса корзины
type CartService interface {
	Refresh(ctx context.Context, userID int64) (bool, error)
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
