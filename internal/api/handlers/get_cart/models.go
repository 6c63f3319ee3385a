package get_cart

import (
	"time"

	"github.com/m04kA/CLF-ReservationService/internal/domain"
	"github.com/m04kA/CLF-ReservationService/internal/service/cart/models"
)

// CartItemResponse позиция корзины в HTTP ответе
type CartItemResponse struct {
	ID        int64  `json:"id"`
	PlaceID   int64  `json:"place_id"`
	PlaceName string `json:"place_name"`
	PlaceImage string `json:"place_image,omitempty"`
	StartsAt  string `json:"starts_at"` // RFC3339
	EndsAt    string `json:"ends_at"`   // RFC3339
	PriceCents int64 `json:"price_cents"`
}

// NotificationResponse уведомление пользователю
type NotificationResponse struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"` // RFC3339
}

// CartResponse HTTP ответ с состоянием корзины
type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalCents int64              `json:"total_cents"`

	// SecondsLeft секунды до истечения самой старой удержанной брони;
	// null, если корзина пуста
	SecondsLeft *int64 `json:"seconds_left"`

	Notifications []NotificationResponse `json:"notifications"`
}

// FromSnapshot конвертирует снимок корзины в HTTP ответ
func FromSnapshot(snapshot models.Snapshot, notifications []models.Notification) *CartResponse {
	items := make([]CartItemResponse, len(snapshot.Items))
	for i, item := range snapshot.Items {
		items[i] = fromReservation(item)
	}

	notifs := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		notifs[i] = NotificationResponse{
			Kind:      string(n.Kind),
			Message:   n.Message,
			CreatedAt: n.CreatedAt.Format(time.RFC3339),
		}
	}

	return &CartResponse{
		Items:         items,
		TotalCents:    snapshot.TotalCents,
		SecondsLeft:   snapshot.SecondsLeft,
		Notifications: notifs,
	}
}

func fromReservation(r domain.Reservation) CartItemResponse {
	return CartItemResponse{
		ID:         r.ID,
		PlaceID:    r.PlaceID,
		PlaceName:  r.PlaceName,
		PlaceImage: r.PlaceImage,
		StartsAt:   r.StartsAt.Format(time.RFC3339),
		EndsAt:     r.EndsAt.Format(time.RFC3339),
		PriceCents: r.PriceCents,
	}
}
