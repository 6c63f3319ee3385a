package cart

import (
	"context"

	"github.com/m04kA/CLF-ReservationService/internal/integrations/scheduleservice"
)

// ScheduleServiceClient интерфейс клиента сервиса расписаний
type ScheduleServiceClient interface {
	GetMemberSchedules(ctx context.Context, userID int64) ([]scheduleservice.MemberSchedule, error)
	DeletePending(ctx context.Context, scheduleID int64) error
}

// Metrics интерфейс доменных метрик корзины
type Metrics interface {
	CartRefreshInc(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
