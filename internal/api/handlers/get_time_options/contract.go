package get_time_options

import (
	"context"

	selectSlots "github.com/m04kA/CLF-ReservationService/internal/usecase/select_slots"
)

// SelectSlotsUseCase интерфейс use case выбора слотов
type SelectSlotsUseCase interface {
	GetOptions(ctx context.Context, req *selectSlots.OptionsRequest) (*selectSlots.OptionsResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
