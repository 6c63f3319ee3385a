package remove_cart_item

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/CLF-ReservationService/internal/api/handlers"
	"github.com/m04kA/CLF-ReservationService/internal/api/handlers/get_cart"
	"github.com/m04kA/CLF-ReservationService/internal/api/middleware"
	"github.com/m04kA/CLF-ReservationService/internal/service/cart"
)

const (
	msgMissingUserID = "identificação do usuário ausente"
	msgInvalidItemID = "identificador de reserva inválido"
	msgItemNotFound  = "reserva não encontrada na sacola"
	msgRemoveFailed  = "não foi possível remover a reserva, tente novamente"
)

type Handler struct {
	service      CartService
	timeProvider TimeProvider
	logger       Logger
}

func NewHandler(service CartService, logger Logger) *Handler {
	return &Handler{
		service:      service,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time { return time.Now() }

// Handle DELETE /api/v1/cart/items/{itemId}
//
// Удаление оптимистичное: при отказе сервера расписаний позиция
// восстанавливается в корзине и пользователь получает уведомление
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /cart/items/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	itemID, err := strconv.ParseInt(mux.Vars(r)["itemId"], 10, 64)
	if err != nil || itemID <= 0 {
		h.logger.Warn("DELETE /cart/items/{id} - Invalid item ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidItemID)
		return
	}

	if err := h.service.RemoveItem(r.Context(), userID, itemID); err != nil {
		switch {
		case errors.Is(err, cart.ErrItemNotFound):
			h.logger.Warn("DELETE /cart/items/{id} - Item not found: user_id=%d, item_id=%d", userID, itemID)
			handlers.RespondNotFound(w, msgItemNotFound)

		case errors.Is(err, cart.ErrRemoveFailed):
			h.logger.Warn("DELETE /cart/items/{id} - Remove failed, item restored: user_id=%d, item_id=%d, error=%v",
				userID, itemID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgRemoveFailed)

		default:
			h.logger.Error("DELETE /cart/items/{id} - Failed to remove item: user_id=%d, item_id=%d, error=%v",
				userID, itemID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	snapshot := h.service.Snapshot(userID, h.timeProvider.Now())
	notifications := h.service.TakeNotifications(userID)

	h.logger.Info("DELETE /cart/items/{id} - Item removed: user_id=%d, item_id=%d, items_left=%d",
		userID, itemID, len(snapshot.Items))
	handlers.RespondJSON(w, http.StatusOK, get_cart.FromSnapshot(snapshot, notifications))
}
