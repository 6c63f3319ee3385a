package get_time_options

import (
	"github.com/m04kA/CLF-ReservationService/internal/domain"
	selectSlots "github.com/m04kA/CLF-ReservationService/internal/usecase/select_slots"
)

// SlotResponse слот в HTTP ответе
type SlotResponse struct {
	Index      int    `json:"index"`
	Start      string `json:"start"` // HH:MM
	End        string `json:"end"`   // HH:MM
	Selectable bool   `json:"selectable"`
	Owned      bool   `json:"owned"`

	// BlockReason причина недоступности слота; null, если слот выбираем
	BlockReason *string `json:"block_reason"`
}

// TimeOptionsResponse HTTP ответ со слотами места на дату
type TimeOptionsResponse struct {
	PlaceID           int64          `json:"place_id"`
	Date              string         `json:"date"` // YYYY-MM-DD
	Orderable         bool           `json:"orderable"`
	RemainingQuantity int            `json:"remaining_quantity"`
	Slots             []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ
func FromUseCaseResponse(resp *selectSlots.OptionsResponse) *TimeOptionsResponse {
	slots := make([]SlotResponse, len(resp.Slots))
	for i, s := range resp.Slots {
		slots[i] = SlotResponse{
			Index:       s.Index,
			Start:       s.Start,
			End:         s.End,
			Selectable:  s.Selectable,
			Owned:       s.Owned,
			BlockReason: s.BlockReason,
		}
	}

	return &TimeOptionsResponse{
		PlaceID:           resp.PlaceID,
		Date:              resp.Date.Format(domain.DateFormat),
		Orderable:         resp.Orderable,
		RemainingQuantity: resp.RemainingQuantity,
		Slots:             slots,
	}
}
