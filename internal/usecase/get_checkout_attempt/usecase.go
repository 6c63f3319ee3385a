package get_checkout_attempt

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/CLF-ReservationService/internal/domain"
	attemptStorage "github.com/m04kA/CLF-ReservationService/internal/infra/storage/attempt"
)

// UseCase use case чтения попытки оплаты из журнала
type UseCase struct {
	repo   AttemptRepository
	logger Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(repo AttemptRepository, logger Logger) *UseCase {
	return &UseCase{
		repo:   repo,
		logger: logger,
	}
}

// Execute возвращает попытку оплаты с событиями переходов
// Попытка доступна только ее владельцу
func (uc *UseCase) Execute(ctx context.Context, userID int64, attemptID string) (*domain.CheckoutAttempt, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if _, err := uuid.Parse(attemptID); err != nil {
		return nil, fmt.Errorf("%w: attemptID must be a valid uuid", ErrInvalidInput)
	}

	att, err := uc.repo.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, attemptStorage.ErrAttemptNotFound) {
			uc.logger.Warn("Execute: attempt id=%s not found", attemptID)
			return nil, ErrAttemptNotFound
		}
		uc.logger.Error("Execute: failed to get attempt id=%s: %v", attemptID, err)
		return nil, fmt.Errorf("%w: failed to get attempt: %v", ErrInternal, err)
	}

	if att.UserID != userID {
		uc.logger.Warn("Execute: user=%d tried to read attempt id=%s of user=%d", userID, attemptID, att.UserID)
		return nil, ErrAccessDenied
	}

	return att, nil
}
