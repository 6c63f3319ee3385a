package create_reservation

import (
	"errors"
	"net/http"

	"github.com/m04kA/CLF-ReservationService/internal/api/handlers"
	"github.com/m04kA/CLF-ReservationService/internal/api/middleware"
	selectSlots "github.com/m04kA/CLF-ReservationService/internal/usecase/select_slots"
)

const (
	msgMissingUserID      = "identificação do usuário ausente"
	msgInvalidRequestBody = "corpo da requisição inválido"
	msgInvalidDate        = "data inválida, formato esperado YYYY-MM-DD"
	msgPlaceNotFound      = "local não encontrado"
	msgDateNotOrderable   = "data indisponível para reserva"
	msgNotAdjacent        = "os horários selecionados precisam ser consecutivos"
	msgQuantityExceeded   = "limite de horários por associado excedido"
	msgSlotBlocked        = "um dos horários selecionados não está disponível"
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

// Handle POST /api/v1/reservations
//
// Статус ответа отражает степень успеха: 201 - все слоты удержаны,
// 207 - часть, 409 - ни одного
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /reservations - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /reservations - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Reserve(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, selectSlots.ErrPlaceNotFound):
			h.logger.Warn("POST /reservations - Place not found: place_id=%d", req.PlaceID)
			handlers.RespondNotFound(w, msgPlaceNotFound)

		case errors.Is(err, selectSlots.ErrDateNotOrderable):
			h.logger.Warn("POST /reservations - Date not orderable: user_id=%d, place_id=%d, date=%s",
				userID, req.PlaceID, req.Date)
			handlers.RespondBadRequest(w, msgDateNotOrderable)

		case errors.Is(err, selectSlots.ErrSlotNotAdjacent):
			h.logger.Warn("POST /reservations - Not adjacent: user_id=%d, slots=%v", userID, req.SlotIndexes)
			handlers.RespondError(w, http.StatusConflict, msgNotAdjacent)

		case errors.Is(err, selectSlots.ErrQuantityExceeded):
			h.logger.Warn("POST /reservations - Quantity exceeded: user_id=%d, slots=%v", userID, req.SlotIndexes)
			handlers.RespondError(w, http.StatusConflict, msgQuantityExceeded)

		case errors.Is(err, selectSlots.ErrSlotBlocked):
			h.logger.Warn("POST /reservations - Slot blocked: user_id=%d, slots=%v", userID, req.SlotIndexes)
			handlers.RespondError(w, http.StatusConflict, msgSlotBlocked)

		case errors.Is(err, selectSlots.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /reservations - Failed: user_id=%d, place_id=%d, error=%v",
				userID, req.PlaceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusCreated
	switch {
	case result.AllFailed():
		status = http.StatusConflict
	case result.Partial():
		status = http.StatusMultiStatus
	}

	h.logger.Info("POST /reservations - Done: user_id=%d, place_id=%d, created=%d, failed=%d",
		userID, req.PlaceID, len(result.Created), len(result.Failed))
	handlers.RespondJSON(w, status, FromUseCaseResponse(result))
}
