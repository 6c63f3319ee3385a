package get_time_options

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/CLF-ReservationService/internal/api/handlers"
	"github.com/m04kA/CLF-ReservationService/internal/api/middleware"
	"github.com/m04kA/CLF-ReservationService/internal/domain"
	selectSlots "github.com/m04kA/CLF-ReservationService/internal/usecase/select_slots"
)

const (
	msgInvalidPlaceID = "identificador de local inválido"
	msgInvalidDate    = "data inválida, formato esperado YYYY-MM-DD"
	msgPlaceNotFound  = "local não encontrado"
)

type Handler struct {
	useCase SelectSlotsUseCase
	logger  Logger
}

func NewHandler(useCase SelectSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/places/{placeId}/time-options?date=YYYY-MM-DD
//
// Публичная ручка: для анонимного пользователя все занятые слоты
// выглядят одинаково, владение подсвечивается только при наличии X-User-ID
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	placeID, err := strconv.ParseInt(mux.Vars(r)["placeId"], 10, 64)
	if err != nil || placeID <= 0 {
		h.logger.Warn("GET /places/{id}/time-options - Invalid place ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPlaceID)
		return
	}

	date, err := time.Parse(domain.DateFormat, r.URL.Query().Get("date"))
	if err != nil {
		h.logger.Warn("GET /places/{id}/time-options - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// 0 = анонимный пользователь
	userID, _ := middleware.GetUserID(r.Context())

	result, err := h.useCase.GetOptions(r.Context(), &selectSlots.OptionsRequest{
		UserID:  userID,
		PlaceID: placeID,
		Date:    date,
	})
	if err != nil {
		switch {
		case errors.Is(err, selectSlots.ErrPlaceNotFound):
			h.logger.Warn("GET /places/{id}/time-options - Place not found: place_id=%d", placeID)
			handlers.RespondNotFound(w, msgPlaceNotFound)

		case errors.Is(err, selectSlots.ErrInvalidInput):
			h.logger.Warn("GET /places/{id}/time-options - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("GET /places/{id}/time-options - Failed: place_id=%d, error=%v", placeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /places/{id}/time-options - Options retrieved: place_id=%d, user_id=%d, slots=%d",
		placeID, userID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
