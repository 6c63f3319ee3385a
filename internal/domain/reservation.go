package domain

import "time"

// ReservationStatus числовой код статуса бронирования в удаленном сервисе расписаний
type ReservationStatus int

const (
	// StatusConfirmedPaid бронь подтверждена и оплачена
	StatusConfirmedPaid ReservationStatus = 1
	// StatusConfirmedManual бронь подтверждена вручную администратором
	StatusConfirmedManual ReservationStatus = 2
	// StatusHeld бронь удержана (в корзине), подлежит истечению
	StatusHeld ReservationStatus = 3
	// StatusHistorical завершенная бронь из истории
	StatusHistorical ReservationStatus = 10
)

// Reservation удержанный или подтвержденный временной слот пользователя
// Источник истины — удаленный сервис расписаний; локальная копия
// существует только как зеркало для корзины
type Reservation struct {
	ID      int64
	UserID  int64
	PlaceID int64

	// Denormalized data for cart rendering
	PlaceName  string
	PlaceImage string

	StartsAt   time.Time // нормализовано в часовой пояс клуба
	EndsAt     time.Time
	PriceCents int64
	Status     ReservationStatus

	// CreatedAt момент создания брони на сервере; от него считается истечение
	CreatedAt time.Time
}

// IsHeld возвращает true, если бронь удержана в корзине
func (r *Reservation) IsHeld() bool {
	return r.Status == StatusHeld
}

// IsConfirmed возвращает true, если бронь подтверждена
func (r *Reservation) IsConfirmed() bool {
	return r.Status == StatusConfirmedPaid || r.Status == StatusConfirmedManual
}

// HoldSecondsLeft возвращает количество секунд до истечения удержания,
// ограниченное сверху длительностью удержания и снизу нулем
func (r *Reservation) HoldSecondsLeft(now time.Time, holdDuration time.Duration) int64 {
	deadline := r.CreatedAt.Add(holdDuration)
	left := int64(deadline.Sub(now).Seconds())
	max := int64(holdDuration.Seconds())

	if left < 0 {
		return 0
	}
	if left > max {
		return max
	}
	return left
}

// TimeSlotKey возвращает ключ (place, start) слота брони
// Уникальность (place, start_time) между пользователями обеспечивает сервер
func (r *Reservation) TimeSlotKey() string {
	return slotKey(r.PlaceID, r.StartsAt)
}
