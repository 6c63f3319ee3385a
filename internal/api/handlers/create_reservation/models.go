package create_reservation

import (
	"fmt"
	"time"

	"github.com/m04kA/CLF-ReservationService/internal/domain"
	selectSlots "github.com/m04kA/CLF-ReservationService/internal/usecase/select_slots"
)

// CreateReservationRequest HTTP запрос на удержание слотов
type CreateReservationRequest struct {
	PlaceID     int64  `json:"place_id"`
	Date        string `json:"date"` // YYYY-MM-DD
	SlotIndexes []int  `json:"slot_indexes"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(userID int64) (*selectSlots.ReserveRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}

	return &selectSlots.ReserveRequest{
		UserID:      userID,
		PlaceID:     r.PlaceID,
		Date:        date,
		SlotIndexes: r.SlotIndexes,
	}, nil
}

// CreatedSlotResponse успешно удержанный слот
type CreatedSlotResponse struct {
	Index      int    `json:"index"`
	ScheduleID int64  `json:"schedule_id"`
	Start      string `json:"start"`
	End        string `json:"end"`
}

// FailedSlotResponse слот, который не удалось удержать
type FailedSlotResponse struct {
	Index  int    `json:"index"`
	Start  string `json:"start"`
	Reason string `json:"reason"`
}

// CreateReservationResponse результат удержания с возможным частичным успехом
type CreateReservationResponse struct {
	Created []CreatedSlotResponse `json:"created"`
	Failed  []FailedSlotResponse  `json:"failed"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ
func FromUseCaseResponse(resp *selectSlots.ReserveResponse) *CreateReservationResponse {
	out := &CreateReservationResponse{
		Created: make([]CreatedSlotResponse, len(resp.Created)),
		Failed:  make([]FailedSlotResponse, len(resp.Failed)),
	}
	for i, c := range resp.Created {
		out.Created[i] = CreatedSlotResponse{
			Index:      c.Index,
			ScheduleID: c.ScheduleID,
			Start:      c.Start,
			End:        c.End,
		}
	}
	for i, f := range resp.Failed {
		out.Failed[i] = FailedSlotResponse{
			Index:  f.Index,
			Start:  f.Start,
			Reason: f.Reason,
		}
	}
	return out
}
