package select_slots

import "time"

// OptionsRequest запрос слотов места на дату
type OptionsRequest struct {
	UserID  int64 // 0 = анонимный пользователь
	PlaceID int64
	Date    time.Time
}

// SlotView слот в ответе: серверные данные плюс вычисленная выбираемость
type SlotView struct {
	Index      int
	Start      string // HH:MM
	End        string // HH:MM
	Selectable bool
	Owned      bool // слот уже удержан/подтвержден текущим пользователем

	// BlockReason причина недоступности слота (nil, если слот выбираем)
	BlockReason *string
}

// OptionsResponse ответ со слотами и остатком лимита пользователя
type OptionsResponse struct {
	PlaceID           int64
	Date              time.Time
	Orderable         bool
	RemainingQuantity int
	Slots             []SlotView
}

// ReserveRequest запрос на удержание выбранных слотов
type ReserveRequest struct {
	UserID      int64
	PlaceID     int64
	Date        time.Time
	SlotIndexes []int
}

// CreatedSlot успешно удержанный слот
type CreatedSlot struct {
	Index      int
	ScheduleID int64
	Start      string
	End        string
}

// FailedSlot слот, который не удалось удержать
type FailedSlot struct {
	Index  int
	Start  string
	Reason string
}

// ReserveResponse результат удержания: частичный успех возможен и
// обязан быть виден вызывающему
type ReserveResponse struct {
	Created []CreatedSlot
	Failed  []FailedSlot
}

// AllFailed возвращает true, если ни один слот не был удержан
func (r *ReserveResponse) AllFailed() bool {
	return len(r.Created) == 0 && len(r.Failed) > 0
}

// Partial возвращает true, если удержана только часть слотов
func (r *ReserveResponse) Partial() bool {
	return len(r.Created) > 0 && len(r.Failed) > 0
}
