package create_reservation

import (
	"context"

	selectSlots "github.com/m04kA/CLF-ReservationService/internal/usecase/select_slots"
)

// SelectSlotsUseCase интерфейс use case выбора слотов
type SelectSlotsUseCase interface {
	Reserve(ctx context.Context, req *selectSlots.ReserveRequest) (*selectSlots.ReserveResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
