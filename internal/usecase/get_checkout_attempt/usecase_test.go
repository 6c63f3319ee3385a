package get_checkout_attempt

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CLF-ReservationService/internal/domain"
	attemptStorage "github.com/m04kA/CLF-ReservationService/internal/infra/storage/attempt"
)

type fakeRepo struct {
	attempt *domain.CheckoutAttempt
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*domain.CheckoutAttempt, error) {
	if f.attempt == nil || f.attempt.ID != id {
		return nil, attemptStorage.ErrAttemptNotFound
	}
	return f.attempt, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func TestExecute(t *testing.T) {
	attemptID := uuid.NewString()
	repo := &fakeRepo{attempt: &domain.CheckoutAttempt{
		ID:     attemptID,
		UserID: 42,
		State:  domain.StateDone,
	}}
	uc := NewUseCase(repo, nopLogger{})

	t.Run("owner reads the attempt", func(t *testing.T) {
		att, err := uc.Execute(context.Background(), 42, attemptID)
		require.NoError(t, err)
		assert.Equal(t, attemptID, att.ID)
	})

	t.Run("other users are rejected", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), 7, attemptID)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown attempt", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), 42, uuid.NewString())
		assert.ErrorIs(t, err, ErrAttemptNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), 42, "not-a-uuid")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}
