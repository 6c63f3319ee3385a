package select_slots

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/CLF-ReservationService/internal/domain"
	scheduleClient "github.com/m04kA/CLF-ReservationService/internal/integrations/scheduleservice"
)

// UseCase use case выбора и удержания временных слотов
type UseCase struct {
	scheduleSvc  ScheduleServiceClient
	cartSvc      CartService
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	scheduleSvc ScheduleServiceClient,
	cartSvc CartService,
	logger Logger,
) *UseCase {
	return &UseCase{
		scheduleSvc:  scheduleSvc,
		cartSvc:      cartSvc,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetOptions возвращает слоты места на дату с вычисленной выбираемостью
// Слоты не кэшируются: занятость отражает момент запроса
func (uc *UseCase) GetOptions(ctx context.Context, req *OptionsRequest) (*OptionsResponse, error) {
	uc.logger.Info("GetOptions: user=%d, place=%d, date=%s",
		req.UserID, req.PlaceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateOptionsRequest(req); err != nil {
		uc.logger.Warn("GetOptions: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Правила расписания определяют, доступна ли дата вообще
	rules, err := uc.scheduleSvc.GetSchedulingRules(ctx, req.PlaceID)
	if err != nil {
		if errors.Is(err, scheduleClient.ErrPlaceNotFound) {
			uc.logger.Warn("GetOptions: place id=%d not found", req.PlaceID)
			return nil, ErrPlaceNotFound
		}
		uc.logger.Error("GetOptions: failed to get rules for place id=%d: %v", req.PlaceID, err)
		return nil, fmt.Errorf("%w: failed to get scheduling rules: %v", ErrInternal, err)
	}

	orderable := domain.RulesAllowDate(rules, req.Date, now)

	// 3. Слоты и остаток лимита пользователя
	options, err := uc.fetchOptions(ctx, req.PlaceID, req.Date)
	if err != nil {
		return nil, err
	}

	// 4. Вычисляем выбираемость каждого слота
	views := make([]SlotView, len(options.domain))
	for i, opt := range options.domain {
		reason := blockReason(opt, req.UserID, orderable)
		views[i] = SlotView{
			Index:       i,
			Start:       opt.Start.String(),
			End:         opt.End.String(),
			Selectable:  reason == nil,
			Owned:       opt.IsOwnedBy(req.UserID),
			BlockReason: reason,
		}
	}

	return &OptionsResponse{
		PlaceID:           req.PlaceID,
		Date:              req.Date,
		Orderable:         orderable,
		RemainingQuantity: options.remaining,
		Slots:             views,
	}, nil
}

// Reserve проверяет легальность выбора и удерживает слоты на сервере
//
// Проверки выполняются по свежей выдаче time-options. Отправка послотовая:
// атомарности всё-или-ничего нет, частичный успех фиксируется в ответе.
// После любого успешного удержания корзина сверяется с сервером
func (uc *UseCase) Reserve(ctx context.Context, req *ReserveRequest) (*ReserveResponse, error) {
	uc.logger.Info("Reserve: user=%d, place=%d, date=%s, slots=%v",
		req.UserID, req.PlaceID, req.Date.Format(domain.DateFormat), req.SlotIndexes)

	// 1. Валидация входных данных
	if err := validateReserveRequest(req); err != nil {
		uc.logger.Warn("Reserve: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Дата должна быть открыта правилами расписания
	rules, err := uc.scheduleSvc.GetSchedulingRules(ctx, req.PlaceID)
	if err != nil {
		if errors.Is(err, scheduleClient.ErrPlaceNotFound) {
			uc.logger.Warn("Reserve: place id=%d not found", req.PlaceID)
			return nil, ErrPlaceNotFound
		}
		uc.logger.Error("Reserve: failed to get rules for place id=%d: %v", req.PlaceID, err)
		return nil, fmt.Errorf("%w: failed to get scheduling rules: %v", ErrInternal, err)
	}
	if !domain.RulesAllowDate(rules, req.Date, now) {
		uc.logger.Warn("Reserve: date %s not orderable for place id=%d",
			req.Date.Format(domain.DateFormat), req.PlaceID)
		return nil, ErrDateNotOrderable
	}

	// 3. Свежая выдача слотов: занятость могла измениться с момента выбора
	options, err := uc.fetchOptions(ctx, req.PlaceID, req.Date)
	if err != nil {
		return nil, err
	}

	// 4. Каждый выбранный слот должен существовать и быть выбираемым
	for _, idx := range req.SlotIndexes {
		if idx >= len(options.domain) {
			return nil, fmt.Errorf("%w: slot index %d out of range", ErrInvalidInput, idx)
		}
		if reason := blockReason(options.domain[idx], req.UserID, true); reason != nil {
			uc.logger.Warn("Reserve: slot index=%d blocked for user=%d: %s", idx, req.UserID, *reason)
			return nil, fmt.Errorf("%w: slot %s: %s", ErrSlotBlocked, options.domain[idx].Start, *reason)
		}
	}

	// 5. Лимит количества: выбранные слоты не превышают остаток лимита
	if err := validateQuantity(len(req.SlotIndexes), options.remaining); err != nil {
		uc.logger.Warn("Reserve: quantity check failed for user=%d: %v", req.UserID, err)
		return nil, err
	}

	// 6. Правило смежности: owned + selected образуют непрерывный блок
	owned := ownedIndexes(options.domain, req.UserID)
	if err := validateAdjacency(owned, req.SlotIndexes); err != nil {
		uc.logger.Warn("Reserve: adjacency check failed for user=%d: %v", req.UserID, err)
		return nil, err
	}

	// 7. Послотовая отправка; неудачи отдельных слотов не откатывают успевшие
	selected := make([]int, len(req.SlotIndexes))
	copy(selected, req.SlotIndexes)
	sort.Ints(selected)

	resp := &ReserveResponse{}
	for _, idx := range selected {
		opt := options.domain[idx]

		created, err := uc.scheduleSvc.CreateSchedule(ctx, scheduleClient.CreateScheduleRequest{
			PlaceID: req.PlaceID,
			Date:    req.Date.Format(domain.DateFormat),
			Start:   opt.Start.String(),
			End:     opt.End.String(),
		})
		if err != nil {
			reason := reasonOccupied
			if !errors.Is(err, scheduleClient.ErrSlotTaken) {
				reason = "falha ao reservar o horário"
			}
			uc.logger.Warn("Reserve: slot index=%d (%s) failed for user=%d: %v",
				idx, opt.Start, req.UserID, err)
			resp.Failed = append(resp.Failed, FailedSlot{
				Index:  idx,
				Start:  opt.Start.String(),
				Reason: reason,
			})
			continue
		}

		resp.Created = append(resp.Created, CreatedSlot{
			Index:      idx,
			ScheduleID: created.ID,
			Start:      opt.Start.String(),
			End:        opt.End.String(),
		})
	}

	// 8. Сверяем корзину после любых успешных удержаний
	if len(resp.Created) > 0 {
		if _, err := uc.cartSvc.Refresh(ctx, req.UserID); err != nil {
			uc.logger.Warn("Reserve: cart refresh failed for user=%d: %v", req.UserID, err)
		}
	}

	uc.logger.Info("Reserve: user=%d, created=%d, failed=%d",
		req.UserID, len(resp.Created), len(resp.Failed))

	return resp, nil
}

// fetchedOptions результат fetchOptions: доменные слоты и остаток лимита
type fetchedOptions struct {
	domain    []*domain.TimeOption
	remaining int
}

// fetchOptions загружает и конвертирует слоты места на дату
func (uc *UseCase) fetchOptions(ctx context.Context, placeID int64, date time.Time) (*fetchedOptions, error) {
	resp, err := uc.scheduleSvc.GetTimeOptions(ctx, date, placeID)
	if err != nil {
		if errors.Is(err, scheduleClient.ErrPlaceNotFound) {
			uc.logger.Warn("fetchOptions: place id=%d not found", placeID)
			return nil, ErrPlaceNotFound
		}
		uc.logger.Error("fetchOptions: failed to get time options for place id=%d: %v", placeID, err)
		return nil, fmt.Errorf("%w: failed to get time options: %v", ErrInternal, err)
	}

	converted := make([]*domain.TimeOption, len(resp.Options))
	for i := range resp.Options {
		converted[i] = resp.Options[i].ToDomain()
	}

	return &fetchedOptions{
		domain:    converted,
		remaining: resp.RemainingQuantity,
	}, nil
}
