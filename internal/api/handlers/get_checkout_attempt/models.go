package get_checkout_attempt

import (
	"time"

	"github.com/m04kA/CLF-ReservationService/internal/domain"
)

// AttemptEventResponse переход состояния саги в HTTP ответе
type AttemptEventResponse struct {
	FromState string  `json:"from_state"`
	ToState   string  `json:"to_state"`
	Detail    *string `json:"detail,omitempty"`
	CreatedAt string  `json:"created_at"` // RFC3339
}

// AttemptResponse HTTP ответ с попыткой оплаты
type AttemptResponse struct {
	ID             string  `json:"id"`
	ReservationIDs []int64 `json:"reservation_ids"`
	AmountCents    int64   `json:"amount_cents"`
	Method         string  `json:"method"`
	State          string  `json:"state"`
	Outcome        *string `json:"outcome,omitempty"`

	TransactionID      *string `json:"transaction_id,omitempty"`
	RefundedCents      *int64  `json:"refunded_cents,omitempty"`
	ManualIntervention bool    `json:"manual_intervention"`
	FailureReason      *string `json:"failure_reason,omitempty"`

	CreatedAt string `json:"created_at"` // RFC3339
	UpdatedAt string `json:"updated_at"` // RFC3339

	Events []AttemptEventResponse `json:"events"`
}

// FromDomain конвертирует попытку оплаты в HTTP ответ
func FromDomain(a *domain.CheckoutAttempt) *AttemptResponse {
	var outcome *string
	if a.Outcome != nil {
		s := string(*a.Outcome)
		outcome = &s
	}

	events := make([]AttemptEventResponse, len(a.Events))
	for i, e := range a.Events {
		events[i] = AttemptEventResponse{
			FromState: string(e.FromState),
			ToState:   string(e.ToState),
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt.Format(time.RFC3339),
		}
	}

	return &AttemptResponse{
		ID:                 a.ID,
		ReservationIDs:     a.ReservationIDs,
		AmountCents:        a.AmountCents,
		Method:             string(a.Method),
		State:              string(a.State),
		Outcome:            outcome,
		TransactionID:      a.TransactionID,
		RefundedCents:      a.RefundedCents,
		ManualIntervention: a.ManualIntervention,
		FailureReason:      a.FailureReason,
		CreatedAt:          a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          a.UpdatedAt.Format(time.RFC3339),
		Events:             events,
	}
}
