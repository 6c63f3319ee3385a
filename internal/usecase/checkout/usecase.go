package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/CLF-ReservationService/internal/domain"
	"github.com/m04kA/CLF-ReservationService/internal/infra/storage/attempt"
	"github.com/m04kA/CLF-ReservationService/internal/integrations/paymentgateway"
	scheduleClient "github.com/m04kA/CLF-ReservationService/internal/integrations/scheduleservice"
	"github.com/m04kA/CLF-ReservationService/internal/service/cart/models"
)

// UseCase use case оплаты корзины
//
// Сага: pre-check -> charge -> confirm. Деньги списываются только после
// успешного pre-check, брони подтверждаются только после списания.
// Любой сбой после списания проходит через единственную точку
// компенсации (compensate): возврат средств пропущен быть не может
type UseCase struct {
	cartSvc      CartService
	scheduleSvc  ScheduleServiceClient
	gateway      PaymentGatewayClient
	repo         AttemptRepository
	txManager    TransactionManager
	loc          *time.Location
	timeProvider TimeProvider
	metrics      Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	cartSvc CartService,
	scheduleSvc ScheduleServiceClient,
	gateway PaymentGatewayClient,
	repo AttemptRepository,
	txManager TransactionManager,
	loc *time.Location,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		cartSvc:      cartSvc,
		scheduleSvc:  scheduleSvc,
		gateway:      gateway,
		repo:         repo,
		txManager:    txManager,
		loc:          loc,
		timeProvider: &RealTimeProvider{},
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute выполняет сагу оплаты корзины
//
// Failed исходы (expired, refunded_conflict, error) возвращаются как
// Response с заполненным Outcome, а не как error: для вызывающего это
// легитимные итоги попытки, а не сбои сервиса
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("Execute: user=%d, method=%s, amount=%d", req.UserID, req.Method, req.AmountCents)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("Execute: validation failed: %v", err)
		return nil, err
	}

	// 2. Сумма из запроса обязана совпадать с актуальной суммой корзины
	items := uc.cartSvc.Items(req.UserID)
	if len(items) == 0 {
		uc.logger.Warn("Execute: empty cart for user=%d", req.UserID)
		return nil, ErrEmptyCart
	}
	total := models.Total(items)
	if total != req.AmountCents {
		uc.logger.Warn("Execute: amount mismatch for user=%d: request=%d, cart=%d",
			req.UserID, req.AmountCents, total)
		return nil, fmt.Errorf("%w: request=%d, cart=%d", ErrAmountMismatch, req.AmountCents, total)
	}

	// 3. Заводим журнальную запись попытки
	att := &domain.CheckoutAttempt{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		ReservationIDs: reservationIDs(items),
		AmountCents:    total,
		Method:         req.Method,
		State:          domain.StatePreChecking,
	}
	if err := uc.repo.Create(ctx, att); err != nil {
		uc.logger.Error("Execute: failed to create attempt for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to create attempt: %v", ErrInternal, err)
	}

	// 4. Pre-check: каждая бронь корзины все еще удержана за пользователем.
	// Платежный шлюз не вызывается, пока pre-check не пройден
	if reason := uc.preCheck(ctx, req.UserID, items); reason != nil {
		uc.logger.Warn("Execute: pre-check failed, attempt=%s: %s", att.ID, *reason)
		uc.finish(ctx, att, attempt.FinishParams{
			State:         domain.StateFailed,
			Outcome:       domain.OutcomeExpired,
			FailureReason: reason,
		})
		// Корзина сверяется с сервером, чтобы пользователь увидел пропажу
		if _, err := uc.cartSvc.Refresh(ctx, req.UserID); err != nil {
			uc.logger.Warn("Execute: cart refresh failed for user=%d: %v", req.UserID, err)
		}
		uc.metrics.CheckoutOutcomeInc(string(domain.OutcomeExpired))
		return &Response{
			AttemptID:       att.ID,
			Outcome:         domain.OutcomeExpired,
			RedirectSeconds: domain.DefaultRedirectSeconds,
		}, nil
	}

	// 5. Списание. Reference = id попытки: по нему шлюз и журнал сверяются
	uc.transition(ctx, att, domain.StateCharging, nil)

	chargeResp, err := uc.gateway.Charge(ctx, paymentgateway.ChargeRequest{
		Method:    string(req.Method),
		Card:      req.Card,
		Amount:    total,
		Reference: att.ID,
	})
	if err != nil {
		uc.logger.Warn("Execute: charge failed, attempt=%s: %v", att.ID, err)
		reason := err.Error()
		uc.finish(ctx, att, attempt.FinishParams{
			State:         domain.StateFailed,
			Outcome:       domain.OutcomeError,
			FailureReason: &reason,
		})
		uc.metrics.CheckoutOutcomeInc(string(domain.OutcomeError))
		return &Response{
			AttemptID:       att.ID,
			Outcome:         domain.OutcomeError,
			RedirectSeconds: domain.DefaultRedirectSeconds,
		}, nil
	}

	// 6. Pix: QR-код сгенерирован, оплата завершается вне сервиса.
	// Списания не было, компенсация не требуется
	if chargeResp.Pix != nil {
		uc.finish(ctx, att, attempt.FinishParams{
			State:   domain.StateDone,
			Outcome: domain.OutcomePixPending,
		})
		uc.metrics.CheckoutOutcomeInc(string(domain.OutcomePixPending))
		uc.logger.Info("Execute: pix payload issued, attempt=%s", att.ID)
		return &Response{
			AttemptID: att.ID,
			Outcome:   domain.OutcomePixPending,
			Pix:       chargeResp.Pix,
		}, nil
	}

	// 7. Карта списана: с этого момента любой сбой обязан пройти через compensate
	tx := chargeResp.Transaction
	if err := uc.repo.SetTransaction(ctx, att.ID, tx.TID); err != nil {
		uc.logger.Warn("Execute: failed to journal transaction, attempt=%s, tid=%s: %v", att.ID, tx.TID, err)
	}
	att.TransactionID = &tx.TID

	// 8. Подтверждаем брони атомарно на сервере расписаний
	uc.transition(ctx, att, domain.StateConfirming, nil)

	confirmErr := uc.scheduleSvc.ConfirmPayment(ctx, scheduleClient.ConfirmPaymentRequest{
		ScheduleIDs:          att.ReservationIDs,
		StatusID:             int(domain.StatusConfirmedPaid),
		PaymentIntegrationID: tx.TID,
		PaidAmount:           total,
		PaidAt:               uc.timeProvider.Now().In(uc.loc).Format(time.RFC3339),
		Metadata: scheduleClient.PaymentMetadata{
			AuthorizationCode: tx.AuthorizationCode,
			Last4:             tx.Last4,
			NSU:               tx.NSU,
			BrandTID:          tx.BrandTID,
			Reference:         att.ID,
		},
	})
	if confirmErr != nil {
		// Единственная точка обработки сбоев после списания:
		// сначала возврат, затем терминальная запись в журнале
		outcome := domain.OutcomeError
		if errors.Is(confirmErr, scheduleClient.ErrPaymentConflict) {
			outcome = domain.OutcomeRefundedConflict
		}
		uc.logger.Warn("Execute: confirm failed, attempt=%s, tid=%s, outcome=%s: %v",
			att.ID, tx.TID, outcome, confirmErr)

		refunded, manual := uc.compensate(ctx, att, tx.TID, total)

		reason := confirmErr.Error()
		uc.finish(ctx, att, attempt.FinishParams{
			State:              domain.StateFailed,
			Outcome:            outcome,
			RefundedCents:      refunded,
			ManualIntervention: manual,
			FailureReason:      &reason,
		})
		if _, err := uc.cartSvc.Refresh(ctx, req.UserID); err != nil {
			uc.logger.Warn("Execute: cart refresh failed for user=%d: %v", req.UserID, err)
		}
		uc.metrics.CheckoutOutcomeInc(string(outcome))
		return &Response{
			AttemptID:          att.ID,
			Outcome:            outcome,
			RedirectSeconds:    domain.DefaultRedirectSeconds,
			TransactionID:      &tx.TID,
			RefundedCents:      refunded,
			ManualIntervention: manual,
		}, nil
	}

	// 9. Успех: брони подтверждены, корзина сверяется с сервером
	uc.finish(ctx, att, attempt.FinishParams{
		State:   domain.StateDone,
		Outcome: domain.OutcomeSuccess,
	})
	if _, err := uc.cartSvc.Refresh(ctx, req.UserID); err != nil {
		uc.logger.Warn("Execute: cart refresh failed for user=%d: %v", req.UserID, err)
	}
	uc.metrics.CheckoutOutcomeInc(string(domain.OutcomeSuccess))
	uc.logger.Info("Execute: success, attempt=%s, tid=%s, amount=%d", att.ID, tx.TID, total)

	return &Response{
		AttemptID:       att.ID,
		Outcome:         domain.OutcomeSuccess,
		RedirectSeconds: domain.DefaultRedirectSeconds,
		TransactionID:   &tx.TID,
	}, nil
}

// preCheck проверяет, что каждая бронь корзины все еще удержана за
// пользователем на сервере расписаний. Возвращает причину отказа или nil
func (uc *UseCase) preCheck(ctx context.Context, userID int64, items []domain.Reservation) *string {
	type dayKey struct {
		placeID int64
		date    string
	}

	fetched := make(map[dayKey]*scheduleClient.TimeOptionsResponse)

	for i := range items {
		item := &items[i]
		startsAt := item.StartsAt.In(uc.loc)
		key := dayKey{placeID: item.PlaceID, date: startsAt.Format(domain.DateFormat)}

		options, ok := fetched[key]
		if !ok {
			resp, err := uc.scheduleSvc.GetTimeOptions(ctx, startsAt, item.PlaceID)
			if err != nil {
				uc.logger.Warn("preCheck: time options failed for place=%d, date=%s: %v",
					item.PlaceID, key.date, err)
				reason := fmt.Sprintf("reserva %d: horário não pôde ser verificado", item.ID)
				return &reason
			}
			fetched[key] = resp
			options = resp
		}

		if !slotStillHeld(options, userID, startsAt.Format(domain.TimeFormat)) {
			reason := fmt.Sprintf("reserva %d: horário %s não está mais retido", item.ID, startsAt.Format(domain.TimeFormat))
			return &reason
		}
	}

	return nil
}

// slotStillHeld ищет слот с данным временем начала и проверяет владение
func slotStillHeld(options *scheduleClient.TimeOptionsResponse, userID int64, start string) bool {
	for i := range options.Options {
		if options.Options[i].Start != start {
			continue
		}
		return options.Options[i].ToDomain().IsOwnedBy(userID)
	}
	return false
}

// compensate выполняет возврат средств после сбоя подтверждения
// Неудачный возврат не теряется: попытка помечается для ручного разбора
func (uc *UseCase) compensate(ctx context.Context, att *domain.CheckoutAttempt, transactionID string, amount int64) (*int64, bool) {
	uc.transition(ctx, att, domain.StateRefunding, nil)

	if _, err := uc.gateway.Refund(ctx, transactionID, amount); err != nil {
		uc.metrics.RefundFailureInc()
		uc.logger.Error("compensate: fatal: manual refund required, attempt=%s, tid=%s, amount=%d: %v",
			att.ID, transactionID, amount, err)
		return nil, true
	}

	uc.logger.Info("compensate: refunded, attempt=%s, tid=%s, amount=%d", att.ID, transactionID, amount)
	return &amount, false
}

// transition переводит попытку в новое состояние с записью события журнала
// Сбой журнала не прерывает сагу: движение денег важнее записи о нем
func (uc *UseCase) transition(ctx context.Context, att *domain.CheckoutAttempt, to domain.AttemptState, detail *string) {
	from := att.State

	err := uc.txManager.Do(ctx, func(ctx context.Context) error {
		if err := uc.repo.UpdateState(ctx, att.ID, to); err != nil {
			return err
		}
		return uc.repo.AddEvent(ctx, &domain.AttemptEvent{
			AttemptID: att.ID,
			FromState: from,
			ToState:   to,
			Detail:    detail,
		})
	})
	if err != nil {
		uc.logger.Warn("transition: journal write failed, attempt=%s, %s -> %s: %v", att.ID, from, to, err)
	}

	att.State = to
}

// finish переводит попытку в терминальное состояние с итогом
func (uc *UseCase) finish(ctx context.Context, att *domain.CheckoutAttempt, params attempt.FinishParams) {
	from := att.State

	err := uc.txManager.Do(ctx, func(ctx context.Context) error {
		if err := uc.repo.Finish(ctx, att.ID, params); err != nil {
			return err
		}
		return uc.repo.AddEvent(ctx, &domain.AttemptEvent{
			AttemptID: att.ID,
			FromState: from,
			ToState:   params.State,
			Detail:    params.FailureReason,
		})
	})
	if err != nil {
		uc.logger.Warn("finish: journal write failed, attempt=%s, outcome=%s: %v", att.ID, params.Outcome, err)
	}

	att.State = params.State
	outcome := params.Outcome
	att.Outcome = &outcome
	att.ManualIntervention = params.ManualIntervention
}

// reservationIDs собирает идентификаторы броней корзины
func reservationIDs(items []domain.Reservation) []int64 {
	ids := make([]int64, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids
}
