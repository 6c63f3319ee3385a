package get_cart

import (
	"net/http"
	"time"

	"github.com/m04kA/CLF-ReservationService/internal/api/handlers"
	"github.com/m04kA/CLF-ReservationService/internal/api/middleware"
)

const (
	msgMissingUserID = "identificação do usuário ausente"
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

// Handle GET /api/v1/cart
//
// Корзина сверяется с сервером расписаний перед каждой выдачей:
// локальная копия никогда не считается истиной
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /cart - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if _, err := h.service.Refresh(r.Context(), userID); err != nil {
		// Отдаем последнее известное состояние: деградация лучше отказа
		h.logger.Warn("GET /cart - Refresh failed: user_id=%d, error=%v", userID, err)
	}

	snapshot := h.service.Snapshot(userID, h.timeProvider.Now())
	notifications := h.service.TakeNotifications(userID)

	h.logger.Info("GET /cart - Cart retrieved: user_id=%d, items=%d", userID, len(snapshot.Items))
	handlers.RespondJSON(w, http.StatusOK, FromSnapshot(snapshot, notifications))
}
