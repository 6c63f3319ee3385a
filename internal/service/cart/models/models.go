package models

import (
	"time"

	"github.com/m04kA/CLF-ReservationService/internal/domain"
)

// Notification уведомление пользователю, доставляемое вместе с корзиной
type Notification struct {
	Kind      domain.NotificationKind
	Message   string
	CreatedAt time.Time
}

// Snapshot копия состояния корзины пользователя на момент чтения
type Snapshot struct {
	UserID     int64
	Items      []domain.Reservation
	TotalCents int64

	// SecondsLeft секунды до истечения самой старой удержанной брони;
	// nil, если корзина пуста
	SecondsLeft *int64
}

// Total подсчитывает суммарную стоимость позиций в минорных единицах
func Total(items []domain.Reservation) int64 {
	var total int64
	for i := range items {
		total += items[i].PriceCents
	}
	return total
}
