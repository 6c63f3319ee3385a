package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CLF-ReservationService/internal/domain"
	"github.com/m04kA/CLF-ReservationService/internal/infra/storage/attempt"
	"github.com/m04kA/CLF-ReservationService/internal/integrations/paymentgateway"
	scheduleClient "github.com/m04kA/CLF-ReservationService/internal/integrations/scheduleservice"
)

const testUserID = int64(42)

var testLoc = time.FixedZone("BRT", -3*60*60)

type fakeCart struct {
	items     []domain.Reservation
	refreshed int
}

func (f *fakeCart) Items(userID int64) []domain.Reservation { return f.items }

func (f *fakeCart) Refresh(ctx context.Context, userID int64) (bool, error) {
	f.refreshed++
	return true, nil
}

type fakeScheduleClient struct {
	GetTimeOptionsFunc func(ctx context.Context, date time.Time, placeID int64) (*scheduleClient.TimeOptionsResponse, error)
	ConfirmPaymentFunc func(ctx context.Context, req scheduleClient.ConfirmPaymentRequest) error

	confirmCalls []scheduleClient.ConfirmPaymentRequest
}

func (f *fakeScheduleClient) GetTimeOptions(ctx context.Context, date time.Time, placeID int64) (*scheduleClient.TimeOptionsResponse, error) {
	return f.GetTimeOptionsFunc(ctx, date, placeID)
}

func (f *fakeScheduleClient) ConfirmPayment(ctx context.Context, req scheduleClient.ConfirmPaymentRequest) error {
	f.confirmCalls = append(f.confirmCalls, req)
	if f.ConfirmPaymentFunc == nil {
		return nil
	}
	return f.ConfirmPaymentFunc(ctx, req)
}

type fakeGateway struct {
	ChargeFunc func(ctx context.Context, req paymentgateway.ChargeRequest) (*paymentgateway.ChargeResponse, error)
	RefundFunc func(ctx context.Context, transactionID string, amount int64) (*paymentgateway.RefundResponse, error)

	chargeCalls []paymentgateway.ChargeRequest
	refundCalls []int64
}

func (f *fakeGateway) Charge(ctx context.Context, req paymentgateway.ChargeRequest) (*paymentgateway.ChargeResponse, error) {
	f.chargeCalls = append(f.chargeCalls, req)
	return f.ChargeFunc(ctx, req)
}

func (f *fakeGateway) Refund(ctx context.Context, transactionID string, amount int64) (*paymentgateway.RefundResponse, error) {
	f.refundCalls = append(f.refundCalls, amount)
	if f.RefundFunc == nil {
		return &paymentgateway.RefundResponse{Refunded: true, RefundID: "rf-1"}, nil
	}
	return f.RefundFunc(ctx, transactionID, amount)
}

// fakeRepo журнал в памяти: хранит последнюю попытку и все события
type fakeRepo struct {
	created *domain.CheckoutAttempt
	states  []domain.AttemptState
	finish  *attempt.FinishParams
	events  []domain.AttemptEvent
	txID    string
}

func (f *fakeRepo) Create(ctx context.Context, a *domain.CheckoutAttempt) error {
	f.created = a
	return nil
}

func (f *fakeRepo) UpdateState(ctx context.Context, id string, state domain.AttemptState) error {
	f.states = append(f.states, state)
	return nil
}

func (f *fakeRepo) SetTransaction(ctx context.Context, id string, transactionID string) error {
	f.txID = transactionID
	return nil
}

func (f *fakeRepo) Finish(ctx context.Context, id string, params attempt.FinishParams) error {
	f.finish = &params
	return nil
}

func (f *fakeRepo) AddEvent(ctx context.Context, event *domain.AttemptEvent) error {
	f.events = append(f.events, *event)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMetrics struct {
	outcomes       []string
	refundFailures int
}

func (f *fakeMetrics) CheckoutOutcomeInc(outcome string) { f.outcomes = append(f.outcomes, outcome) }
func (f *fakeMetrics) RefundFailureInc()                 { f.refundFailures++ }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func heldItems() []domain.Reservation {
	starts := time.Date(2026, 3, 12, 10, 0, 0, 0, testLoc)
	return []domain.Reservation{
		{
			ID:         501,
			UserID:     testUserID,
			PlaceID:    7,
			StartsAt:   starts,
			EndsAt:     starts.Add(time.Hour),
			PriceCents: 5000,
			Status:     domain.StatusHeld,
		},
		{
			ID:         502,
			UserID:     testUserID,
			PlaceID:    7,
			StartsAt:   starts.Add(time.Hour),
			EndsAt:     starts.Add(2 * time.Hour),
			PriceCents: 5000,
			Status:     domain.StatusHeld,
		},
	}
}

// heldOptionsResponse выдача time-options, где все позиции корзины удержаны
func heldOptionsResponse() *scheduleClient.TimeOptionsResponse {
	status := "held"
	return &scheduleClient.TimeOptionsResponse{
		Options: []scheduleClient.TimeOption{
			{Start: "10:00", End: "11:00", Owner: testUserID, Status: &status},
			{Start: "11:00", End: "12:00", Owner: testUserID, Status: &status},
		},
		RemainingQuantity: 1,
	}
}

func capturedCharge() *paymentgateway.ChargeResponse {
	return &paymentgateway.ChargeResponse{
		Transaction: &paymentgateway.Transaction{
			TID:        "tid-123",
			Amount:     10000,
			ReturnCode: "00",
			Capture:    true,
			Last4:      "4242",
		},
	}
}

func cardRequest() *Request {
	return &Request{
		UserID:      testUserID,
		Method:      domain.MethodCard,
		Card:        &paymentgateway.CardData{Number: "4111111111111111", HolderName: "JOAO SILVA", ExpMonth: 12, ExpYear: 2030, CVV: "123"},
		AmountCents: 10000,
	}
}

func newTestUseCase(cart *fakeCart, schedule *fakeScheduleClient, gateway *fakeGateway, repo *fakeRepo, metrics *fakeMetrics) *UseCase {
	return NewUseCase(cart, schedule, gateway, repo, fakeTxManager{}, testLoc, metrics, nopLogger{})
}

func TestExecute_Success(t *testing.T) {
	cart := &fakeCart{items: heldItems()}
	schedule := &fakeScheduleClient{
		GetTimeOptionsFunc: func(ctx context.Context, date time.Time, placeID int64) (*scheduleClient.TimeOptionsResponse, error) {
			return heldOptionsResponse(), nil
		},
	}
	gateway := &fakeGateway{
		ChargeFunc: func(ctx context.Context, req paymentgateway.ChargeRequest) (*paymentgateway.ChargeResponse, error) {
			return capturedCharge(), nil
		},
	}
	repo := &fakeRepo{}
	metrics := &fakeMetrics{}

	resp, err := newTestUseCase(cart, schedule, gateway, repo, metrics).Execute(context.Background(), cardRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeSuccess, resp.Outcome)
	require.NotNil(t, resp.TransactionID)
	assert.Equal(t, "tid-123", *resp.TransactionID)
	assert.Equal(t, domain.DefaultRedirectSeconds, resp.RedirectSeconds)

	// Брони подтверждены одним атомарным вызовом
	require.Len(t, schedule.confirmCalls, 1)
	confirm := schedule.confirmCalls[0]
	assert.Equal(t, []int64{501, 502}, confirm.ScheduleIDs)
	assert.Equal(t, int(domain.StatusConfirmedPaid), confirm.StatusID)
	assert.Equal(t, int64(10000), confirm.PaidAmount)

	// Возврата не было
	assert.Empty(t, gateway.refundCalls)

	// Журнал: попытка создана, транзакция записана, терминальный успех
	require.NotNil(t, repo.created)
	assert.Equal(t, "tid-123", repo.txID)
	require.NotNil(t, repo.finish)
	assert.Equal(t, domain.OutcomeSuccess, repo.finish.Outcome)
	assert.Equal(t, domain.StateDone, repo.finish.State)

	assert.Equal(t, []string{string(domain.OutcomeSuccess)}, metrics.outcomes)
	assert.Equal(t, 1, cart.refreshed)
}

func TestExecute_PreCheckFailureSkipsGateway(t *testing.T) {
	cart := &fakeCart{items: heldItems()}
	schedule := &fakeScheduleClient{
		GetTimeOptionsFunc: func(ctx context.Context, date time.Time, placeID int64) (*scheduleClient.TimeOptionsResponse, error) {
			// Второй слот уже не принадлежит пользователю: удержание истекло
			status := "held"
			return &scheduleClient.TimeOptionsResponse{
				Options: []scheduleClient.TimeOption{
					{Start: "10:00", End: "11:00", Owner: testUserID, Status: &status},
					{Start: "11:00", End: "12:00"},
				},
			}, nil
		},
	}
	gateway := &fakeGateway{}
	repo := &fakeRepo{}
	metrics := &fakeMetrics{}

	resp, err := newTestUseCase(cart, schedule, gateway, repo, metrics).Execute(context.Background(), cardRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeExpired, resp.Outcome)

	// Шлюз не вызывался вообще: ни списания, ни возврата
	assert.Empty(t, gateway.chargeCalls)
	assert.Empty(t, gateway.refundCalls)
	assert.Empty(t, schedule.confirmCalls)

	require.NotNil(t, repo.finish)
	assert.Equal(t, domain.OutcomeExpired, repo.finish.Outcome)
	assert.Equal(t, domain.StateFailed, repo.finish.State)
	require.NotNil(t, repo.finish.FailureReason)

	// Корзина сверяется, чтобы пользователь увидел пропажу
	assert.Equal(t, 1, cart.refreshed)
	assert.Equal(t, []string{string(domain.OutcomeExpired)}, metrics.outcomes)
}

func TestExecute_ConflictAfterChargeIsRefunded(t *testing.T) {
	cart := &fakeCart{items: heldItems()}
	schedule := &fakeScheduleClient{
		GetTimeOptionsFunc: func(ctx context.Context, date time.Time, placeID int64) (*scheduleClient.TimeOptionsResponse, error) {
			return heldOptionsResponse(), nil
		},
		ConfirmPaymentFunc: func(ctx context.Context, req scheduleClient.ConfirmPaymentRequest) error {
			// Гонка: между pre-check и confirm слот истек и ушел другому
			return scheduleClient.ErrPaymentConflict
		},
	}
	gateway := &fakeGateway{
		ChargeFunc: func(ctx context.Context, req paymentgateway.ChargeRequest) (*paymentgateway.ChargeResponse, error) {
			return capturedCharge(), nil
		},
	}
	repo := &fakeRepo{}
	metrics := &fakeMetrics{}

	resp, err := newTestUseCase(cart, schedule, gateway, repo, metrics).Execute(context.Background(), cardRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeRefundedConflict, resp.Outcome)
	require.NotNil(t, resp.RefundedCents)
	assert.Equal(t, int64(10000), *resp.RefundedCents)
	assert.False(t, resp.ManualIntervention)

	// Возврат выполнен ровно на списанную сумму
	assert.Equal(t, []int64{10000}, gateway.refundCalls)

	require.NotNil(t, repo.finish)
	assert.Equal(t, domain.OutcomeRefundedConflict, repo.finish.Outcome)
	assert.Contains(t, repo.states, domain.StateRefunding)
	assert.Equal(t, []string{string(domain.OutcomeRefundedConflict)}, metrics.outcomes)
}

func TestExecute_ConfirmErrorIsRefunded(t *testing.T) {
	cart := &fakeCart{items: heldItems()}
	schedule := &fakeScheduleClient{
		GetTimeOptionsFunc: func(ctx context.Context, date time.Time, placeID int64) (*scheduleClient.TimeOptionsResponse, error) {
			return heldOptionsResponse(), nil
		},
		ConfirmPaymentFunc: func(ctx context.Context, req scheduleClient.ConfirmPaymentRequest) error {
			return errors.New("schedule service unavailable")
		},
	}
	gateway := &fakeGateway{
		ChargeFunc: func(ctx context.Context, req paymentgateway.ChargeRequest) (*paymentgateway.ChargeResponse, error) {
			return capturedCharge(), nil
		},
	}
	repo := &fakeRepo{}
	metrics := &fakeMetrics{}

	resp, err := newTestUseCase(cart, schedule, gateway, repo, metrics).Execute(context.Background(), cardRequest())
	require.NoError(t, err)

	// Любой сбой после списания компенсируется, не только конфликт
	assert.Equal(t, domain.OutcomeError, resp.Outcome)
	assert.Equal(t, []int64{10000}, gateway.refundCalls)
	require.NotNil(t, resp.RefundedCents)
}

func TestExecute_RefundFailureFlagsManualIntervention(t *testing.T) {
	cart := &fakeCart{items: heldItems()}
	schedule := &fakeScheduleClient{
		GetTimeOptionsFunc: func(ctx context.Context, date time.Time, placeID int64) (*scheduleClient.TimeOptionsResponse, error) {
			return heldOptionsResponse(), nil
		},
		ConfirmPaymentFunc: func(ctx context.Context, req scheduleClient.ConfirmPaymentRequest) error {
			return scheduleClient.ErrPaymentConflict
		},
	}
	gateway := &fakeGateway{
		ChargeFunc: func(ctx context.Context, req paymentgateway.ChargeRequest) (*paymentgateway.ChargeResponse, error) {
			return capturedCharge(), nil
		},
		RefundFunc: func(ctx context.Context, transactionID string, amount int64) (*paymentgateway.RefundResponse, error) {
			return nil, paymentgateway.ErrRefundFailed
		},
	}
	repo := &fakeRepo{}
	metrics := &fakeMetrics{}

	resp, err := newTestUseCase(cart, schedule, gateway, repo, metrics).Execute(context.Background(), cardRequest())
	require.NoError(t, err)

	assert.True(t, resp.ManualIntervention)
	assert.Nil(t, resp.RefundedCents)
	assert.Equal(t, 1, metrics.refundFailures)

	require.NotNil(t, repo.finish)
	assert.True(t, repo.finish.ManualIntervention)
}

func TestExecute_ChargeDeclined(t *testing.T) {
	cart := &fakeCart{items: heldItems()}
	schedule := &fakeScheduleClient{
		GetTimeOptionsFunc: func(ctx context.Context, date time.Time, placeID int64) (*scheduleClient.TimeOptionsResponse, error) {
			return heldOptionsResponse(), nil
		},
	}
	gateway := &fakeGateway{
		ChargeFunc: func(ctx context.Context, req paymentgateway.ChargeRequest) (*paymentgateway.ChargeResponse, error) {
			return nil, paymentgateway.ErrChargeDeclined
		},
	}
	repo := &fakeRepo{}
	metrics := &fakeMetrics{}

	resp, err := newTestUseCase(cart, schedule, gateway, repo, metrics).Execute(context.Background(), cardRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomeError, resp.Outcome)
	// Списания не было, возврат не нужен
	assert.Empty(t, gateway.refundCalls)
	assert.Empty(t, schedule.confirmCalls)
}

func TestExecute_PixReturnsPayload(t *testing.T) {
	cart := &fakeCart{items: heldItems()}
	schedule := &fakeScheduleClient{
		GetTimeOptionsFunc: func(ctx context.Context, date time.Time, placeID int64) (*scheduleClient.TimeOptionsResponse, error) {
			return heldOptionsResponse(), nil
		},
	}
	gateway := &fakeGateway{
		ChargeFunc: func(ctx context.Context, req paymentgateway.ChargeRequest) (*paymentgateway.ChargeResponse, error) {
			return &paymentgateway.ChargeResponse{
				Pix: &paymentgateway.PixPayload{QRCode: "qr-data", ExpiresInSeconds: 900},
			}, nil
		},
	}
	repo := &fakeRepo{}
	metrics := &fakeMetrics{}

	resp, err := newTestUseCase(cart, schedule, gateway, repo, metrics).Execute(context.Background(), &Request{
		UserID:      testUserID,
		Method:      domain.MethodPix,
		AmountCents: 10000,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OutcomePixPending, resp.Outcome)
	require.NotNil(t, resp.Pix)
	assert.Equal(t, "qr-data", resp.Pix.QRCode)

	// Подтверждение броней дожидается фактической оплаты Pix
	assert.Empty(t, schedule.confirmCalls)
	require.NotNil(t, repo.finish)
	assert.Equal(t, domain.OutcomePixPending, repo.finish.Outcome)
}

func TestExecute_AmountMismatch(t *testing.T) {
	cart := &fakeCart{items: heldItems()}
	uc := newTestUseCase(cart, &fakeScheduleClient{}, &fakeGateway{}, &fakeRepo{}, &fakeMetrics{})

	req := cardRequest()
	req.AmountCents = 9000 // корзина стоит 10000

	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrAmountMismatch)
}

func TestExecute_EmptyCart(t *testing.T) {
	uc := newTestUseCase(&fakeCart{}, &fakeScheduleClient{}, &fakeGateway{}, &fakeRepo{}, &fakeMetrics{})

	_, err := uc.Execute(context.Background(), cardRequest())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestValidateRequest(t *testing.T) {
	cases := []struct {
		name string
		req  *Request
	}{
		{"unknown method", &Request{UserID: testUserID, Method: "boleto", AmountCents: 100}},
		{"card without data", &Request{UserID: testUserID, Method: domain.MethodCard, AmountCents: 100}},
		{"pix with card data", &Request{UserID: testUserID, Method: domain.MethodPix, AmountCents: 100, Card: &paymentgateway.CardData{Number: "4111"}}},
		{"zero amount", &Request{UserID: testUserID, Method: domain.MethodPix}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, validateRequest(tc.req), ErrInvalidInput)
		})
	}
}
