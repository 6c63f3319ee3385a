package checkout

import (
	"errors"
	"net/http"

	"github.com/m04kA/CLF-ReservationService/internal/api/handlers"
	"github.com/m04kA/CLF-ReservationService/internal/api/middleware"
	checkoutUC "github.com/m04kA/CLF-ReservationService/internal/usecase/checkout"
)

const (
	msgMissingUserID      = "identificação do usuário ausente"
	msgInvalidRequestBody = "corpo da requisição inválido"
	msgEmptyCart          = "sua sacola está vazia"
	msgAmountMismatch     = "o valor da sacola mudou, revise os itens antes de pagar"
)

type Handler struct {
	useCase CheckoutUseCase
	logger  Logger
}

func NewHandler(useCase CheckoutUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/checkout
//
// Failed исходы саги (expired, refunded_conflict, error) отдаются
// со статусом 200: это итог попытки оплаты, а не сбой сервиса
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /checkout - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CheckoutRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /checkout - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, checkoutUC.ErrEmptyCart):
			h.logger.Warn("POST /checkout - Empty cart: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgEmptyCart)

		case errors.Is(err, checkoutUC.ErrAmountMismatch):
			h.logger.Warn("POST /checkout - Amount mismatch: user_id=%d, amount=%d", userID, req.AmountCents)
			handlers.RespondError(w, http.StatusConflict, msgAmountMismatch)

		case errors.Is(err, checkoutUC.ErrInvalidInput):
			h.logger.Warn("POST /checkout - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /checkout - Failed: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /checkout - Attempt finished: user_id=%d, attempt_id=%s, outcome=%s",
		userID, result.AttemptID, result.Outcome)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
