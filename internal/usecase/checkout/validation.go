package checkout

import (
	"fmt"

	"github.com/m04kA/CLF-ReservationService/internal/domain"
)

// validateRequest валидирует запрос на оплату
func validateRequest(req *Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.AmountCents <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	switch req.Method {
	case domain.MethodCard:
		if req.Card == nil {
			return fmt.Errorf("%w: card data is required for card payment", ErrInvalidInput)
		}
		if req.Card.Number == "" || req.Card.CVV == "" || req.Card.HolderName == "" {
			return fmt.Errorf("%w: incomplete card data", ErrInvalidInput)
		}
	case domain.MethodPix:
		if req.Card != nil {
			return fmt.Errorf("%w: card data is not allowed for pix payment", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unsupported payment method %q", ErrInvalidInput, req.Method)
	}

	return nil
}
