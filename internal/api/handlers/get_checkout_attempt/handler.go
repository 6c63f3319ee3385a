package get_checkout_attempt

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/CLF-ReservationService/internal/api/handlers"
	"github.com/m04kA/CLF-ReservationService/internal/api/middleware"
	getAttempt "github.com/m04kA/CLF-ReservationService/internal/usecase/get_checkout_attempt"
)

const (
	msgMissingUserID    = "identificação do usuário ausente"
	msgInvalidAttemptID = "identificador de pagamento inválido"
	msgNotFound         = "pagamento não encontrado"
	msgForbidden        = "acesso negado"
)

type Handler struct {
	useCase GetAttemptUseCase
	logger  Logger
}

func NewHandler(useCase GetAttemptUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/checkout/attempts/{attemptId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /checkout/attempts/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	attemptID := mux.Vars(r)["attemptId"]

	result, err := h.useCase.Execute(r.Context(), userID, attemptID)
	if err != nil {
		switch {
		case errors.Is(err, getAttempt.ErrInvalidInput):
			h.logger.Warn("GET /checkout/attempts/{id} - Invalid attempt ID: %s", attemptID)
			handlers.RespondBadRequest(w, msgInvalidAttemptID)

		case errors.Is(err, getAttempt.ErrAttemptNotFound):
			h.logger.Warn("GET /checkout/attempts/{id} - Not found: attempt_id=%s", attemptID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, getAttempt.ErrAccessDenied):
			h.logger.Warn("GET /checkout/attempts/{id} - Access denied: attempt_id=%s, user_id=%d", attemptID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /checkout/attempts/{id} - Failed: attempt_id=%s, error=%v", attemptID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /checkout/attempts/{id} - Attempt retrieved: attempt_id=%s, user_id=%d", attemptID, userID)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(result))
}
