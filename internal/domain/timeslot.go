package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/CLF-ReservationService/pkg/types"
)

// SlotStatus статус временного слота в выдаче time-options
type SlotStatus string

const (
	SlotStatusOccupied  SlotStatus = "occupied"
	SlotStatusHeld      SlotStatus = "held"
	SlotStatusConfirmed SlotStatus = "confirmed"
)

// TimeOption слот доступности места на дату, как его сообщает сервер
// Не хранится локально дальше текущего запроса
type TimeOption struct {
	Start types.TimeString
	End   types.TimeString

	// OwnerID владелец слота; 0 = слот никем не занят
	OwnerID int64

	// Status статус слота; nil = свободен
	Status *SlotStatus

	// ExcludedByRule слот закрыт правилом расписания
	ExcludedByRule bool

	// ConflictDescription человекочитаемое описание конфликта (опционально)
	ConflictDescription *string
}

// IsFree возвращает true, если слот никем не занят и не исключен правилом
func (o *TimeOption) IsFree() bool {
	return o.OwnerID == 0 && o.Status == nil && !o.ExcludedByRule
}

// IsOwnedBy возвращает true, если слот принадлежит указанному пользователю
func (o *TimeOption) IsOwnedBy(userID int64) bool {
	return userID != 0 && o.OwnerID == userID
}

// IsSelectableBy возвращает true, если слот может быть выбран пользователем
// Слот, уже принадлежащий пользователю, выбрать повторно нельзя
func (o *TimeOption) IsSelectableBy(userID int64) bool {
	return o.IsFree() && !o.IsOwnedBy(userID)
}

// slotKey строит ключ слота (place, start) в формате "placeID:HH:MM даты"
func slotKey(placeID int64, startsAt time.Time) string {
	return fmt.Sprintf("%d:%s:%s", placeID, startsAt.Format(DateFormat), startsAt.Format(TimeFormat))
}
