package select_slots

import (
	"fmt"
	"sort"

	"github.com/m04kA/CLF-ReservationService/internal/domain"
)

// Причины недоступности слота, показываемые пользователю
const (
	reasonOccupied  = "horário ocupado"
	reasonExcluded  = "horário indisponível por regra do clube"
	reasonOwned     = "horário já reservado por você"
	reasonNotOrder  = "data indisponível para reserva"
)

// validateOptionsRequest валидирует запрос слотов
func validateOptionsRequest(req *OptionsRequest) error {
	if req.PlaceID <= 0 {
		return fmt.Errorf("%w: placeID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	return nil
}

// validateReserveRequest валидирует запрос на удержание слотов
func validateReserveRequest(req *ReserveRequest) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.PlaceID <= 0 {
		return fmt.Errorf("%w: placeID must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if len(req.SlotIndexes) == 0 {
		return fmt.Errorf("%w: slotIndexes are required", ErrInvalidInput)
	}
	if len(req.SlotIndexes) > domain.MaxSlotsPerRequest {
		return fmt.Errorf("%w: too many slots in one request", ErrInvalidInput)
	}

	seen := make(map[int]struct{}, len(req.SlotIndexes))
	for _, idx := range req.SlotIndexes {
		if idx < 0 {
			return fmt.Errorf("%w: slot index must be non-negative", ErrInvalidInput)
		}
		if _, dup := seen[idx]; dup {
			return fmt.Errorf("%w: duplicate slot index %d", ErrInvalidInput, idx)
		}
		seen[idx] = struct{}{}
	}

	return nil
}

// ownedIndexes возвращает индексы слотов, принадлежащих пользователю
// (удержанных или подтвержденных), в порядке выдачи сервера
func ownedIndexes(options []*domain.TimeOption, userID int64) []int {
	owned := make([]int, 0)
	for i, opt := range options {
		if opt.IsOwnedBy(userID) {
			owned = append(owned, i)
		}
	}
	return owned
}

// validateAdjacency проверяет правило смежности: объединение индексов
// принадлежащих пользователю и выбираемых слотов должно образовывать
// один непрерывный диапазон без разрывов
//
// Примеры (owned пусто):
// - selected [3] → ok
// - selected [3,4] → ok
// - selected [3,5] → разрыв на 4, ошибка
// Примеры (owned [3]):
// - selected [4] → ok (примыкает)
// - selected [5] → разрыв на 4, ошибка
func validateAdjacency(owned, selected []int) error {
	union := make([]int, 0, len(owned)+len(selected))
	union = append(union, owned...)
	union = append(union, selected...)
	sort.Ints(union)

	for i := 1; i < len(union); i++ {
		if union[i] != union[i-1]+1 {
			return fmt.Errorf("%w: gap between slot %d and %d", ErrSlotNotAdjacent, union[i-1], union[i])
		}
	}

	return nil
}

// validateQuantity проверяет лимит: количество выбранных слотов не может
// превышать сообщенный сервером остаток лимита пользователя
func validateQuantity(selectedCount, remaining int) error {
	if selectedCount > remaining {
		return fmt.Errorf("%w: selected %d slots, %d remaining", ErrQuantityExceeded, selectedCount, remaining)
	}
	return nil
}

// blockReason возвращает причину недоступности слота для пользователя
// nil означает, что слот выбираем
func blockReason(opt *domain.TimeOption, userID int64, orderable bool) *string {
	reason := func(s string) *string { return &s }

	if !orderable {
		return reason(reasonNotOrder)
	}
	if opt.IsOwnedBy(userID) {
		return reason(reasonOwned)
	}
	if opt.ExcludedByRule {
		if opt.ConflictDescription != nil && *opt.ConflictDescription != "" {
			return opt.ConflictDescription
		}
		return reason(reasonExcluded)
	}
	if opt.OwnerID != 0 || opt.Status != nil {
		if opt.ConflictDescription != nil && *opt.ConflictDescription != "" {
			return opt.ConflictDescription
		}
		return reason(reasonOccupied)
	}

	return nil
}
