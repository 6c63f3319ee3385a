package cart

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/CLF-ReservationService/internal/domain"
	"github.com/m04kA/CLF-ReservationService/internal/service/cart/models"
)

// maxNotifications предел очереди уведомлений на пользователя
const maxNotifications = 16

// Service зеркало удержанных броней пользователей
//
// Корзина — единственное разделяемое изменяемое состояние сервиса.
// Она никогда не авторитетна: любое расхождение с сервером расписаний
// разрешается повторным Refresh, а не локальным арбитражем. Перекрывающиеся
// Refresh допустимы — замена выполняется целиком под блокировкой и только
// при структурном отличии данных
type Service struct {
	client       ScheduleServiceClient
	loc          *time.Location
	holdDuration time.Duration
	logger       Logger
	metrics      Metrics

	mu            sync.RWMutex
	carts         map[int64][]domain.Reservation
	notifications map[int64][]models.Notification
	warned        map[int64]bool
}

// NewService создает новый экземпляр сервиса корзины
func NewService(
	client ScheduleServiceClient,
	loc *time.Location,
	holdDuration time.Duration,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		client:        client,
		loc:           loc,
		holdDuration:  holdDuration,
		logger:        logger,
		metrics:       metrics,
		carts:         make(map[int64][]domain.Reservation),
		notifications: make(map[int64][]models.Notification),
		warned:        make(map[int64]bool),
	}
}

// Refresh синхронизирует корзину пользователя с сервером расписаний
//
// Загружает все брони пользователя, оставляет только удержанные (status=3),
// нормализует времена в часовой пояс клуба и заменяет локальное состояние,
// если новые данные структурно отличаются. При ошибке сети прежнее
// состояние остается без изменений
func (s *Service) Refresh(ctx context.Context, userID int64) (bool, error) {
	schedules, err := s.client.GetMemberSchedules(ctx, userID)
	if err != nil {
		s.logger.Warn("Refresh: failed to fetch schedules for user=%d: %v", userID, err)
		s.metrics.CartRefreshInc("error")
		return false, fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	fresh := make([]domain.Reservation, 0, len(schedules))
	for i := range schedules {
		if domain.ReservationStatus(schedules[i].StatusID) != domain.StatusHeld {
			continue
		}
		item, err := schedules[i].ToDomain(s.loc)
		if err != nil {
			s.logger.Error("Refresh: skipping malformed schedule id=%d for user=%d: %v",
				schedules[i].ID, userID, err)
			continue
		}
		fresh = append(fresh, *item)
	}

	// Стабильный порядок: по началу слота, затем по id
	sort.Slice(fresh, func(i, j int) bool {
		if !fresh[i].StartsAt.Equal(fresh[j].StartsAt) {
			return fresh[i].StartsAt.Before(fresh[j].StartsAt)
		}
		return fresh[i].ID < fresh[j].ID
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.carts[userID]
	if reservationsEqual(prev, fresh) {
		s.metrics.CartRefreshInc("unchanged")
		return false, nil
	}

	s.carts[userID] = fresh

	// Защита от устаревшего checkout: корзина была непустой и опустела
	if len(prev) > 0 && len(fresh) == 0 {
		s.pushLocked(userID, domain.NotificationCartEmpty,
			"suas reservas expiraram ou foram removidas")
		s.warned[userID] = false
	}

	s.logger.Info("Refresh: cart replaced for user=%d, items %d -> %d", userID, len(prev), len(fresh))
	s.metrics.CartRefreshInc("changed")
	return true, nil
}

// RemoveItem удаляет позицию из корзины
//
// Удаление оптимистичное: позиция сначала убирается локально, затем
// освобождается на сервере. Сервер — источник истины: при его отказе
// прежняя корзина восстанавливается целиком, при успехе выполняется
// Refresh для окончательной сверки
func (s *Service) RemoveItem(ctx context.Context, userID, itemID int64) error {
	s.mu.Lock()

	prev := s.carts[userID]
	idx := -1
	for i := range prev {
		if prev[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Warn("RemoveItem: item id=%d not in cart of user=%d", itemID, userID)
		return ErrItemNotFound
	}

	snapshot := make([]domain.Reservation, len(prev))
	copy(snapshot, prev)

	reduced := make([]domain.Reservation, 0, len(prev)-1)
	reduced = append(reduced, prev[:idx]...)
	reduced = append(reduced, prev[idx+1:]...)
	s.carts[userID] = reduced
	s.mu.Unlock()

	if err := s.client.DeletePending(ctx, itemID); err != nil {
		// Откатываем оптимистичное удаление
		s.mu.Lock()
		s.carts[userID] = snapshot
		s.pushLocked(userID, domain.NotificationItemRemoveFailed,
			"não foi possível remover a reserva, tente novamente")
		s.mu.Unlock()

		s.logger.Error("RemoveItem: server delete failed for item id=%d, user=%d, cart restored: %v",
			itemID, userID, err)
		return fmt.Errorf("%w: item id=%d: %v", ErrRemoveFailed, itemID, err)
	}

	s.logger.Info("RemoveItem: item id=%d removed for user=%d", itemID, userID)

	// Сверяемся с сервером; ошибка здесь не фатальна — удаление уже прошло
	if _, err := s.Refresh(ctx, userID); err != nil {
		s.logger.Warn("RemoveItem: post-delete refresh failed for user=%d: %v", userID, err)
	}

	return nil
}

// Clear очищает только локальное состояние (logout/reset), без вызова сервера
func (s *Service) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
	delete(s.notifications, userID)
	delete(s.warned, userID)
}

// Items возвращает копию позиций корзины пользователя
func (s *Service) Items(userID int64) []domain.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.Reservation, len(s.carts[userID]))
	copy(items, s.carts[userID])
	return items
}

// Snapshot возвращает копию состояния корзины с таймером истечения
func (s *Service) Snapshot(userID int64, now time.Time) models.Snapshot {
	items := s.Items(userID)

	snap := models.Snapshot{
		UserID:     userID,
		Items:      items,
		TotalCents: models.Total(items),
	}

	if left, ok := s.SecondsLeft(userID, now); ok {
		snap.SecondsLeft = &left
	}

	return snap
}

// SecondsLeft возвращает секунды до истечения самой старой удержанной брони
// Второе значение false, если корзина пуста
func (s *Service) SecondsLeft(userID int64, now time.Time) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.carts[userID]
	if len(items) == 0 {
		return 0, false
	}

	oldest := items[0]
	for i := 1; i < len(items); i++ {
		if items[i].CreatedAt.Before(oldest.CreatedAt) {
			oldest = items[i]
		}
	}

	return oldest.HoldSecondsLeft(now, s.holdDuration), true
}

// ActiveUsers возвращает пользователей с непустой корзиной
func (s *Service) ActiveUsers() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]int64, 0, len(s.carts))
	for userID, items := range s.carts {
		if len(items) > 0 {
			users = append(users, userID)
		}
	}
	return users
}

// PushWarning добавляет предупреждение об истечении удержания
// Предупреждение дедуплицируется: повторные вызовы до Dismiss игнорируются
// Возвращает true, если предупреждение было добавлено
func (s *Service) PushWarning(userID int64, secondsLeft int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.warned[userID] {
		return false
	}
	s.warned[userID] = true
	s.pushLocked(userID, domain.NotificationHoldExpiring,
		fmt.Sprintf("sua reserva expira em %d segundos", secondsLeft))
	return true
}

// DismissWarning снимает предупреждение об истечении
func (s *Service) DismissWarning(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.warned[userID] {
		return
	}
	s.warned[userID] = false

	kept := s.notifications[userID][:0]
	for _, n := range s.notifications[userID] {
		if n.Kind != domain.NotificationHoldExpiring {
			kept = append(kept, n)
		}
	}
	s.notifications[userID] = kept
}

// TakeNotifications возвращает накопленные уведомления и очищает очередь
// Снятое предупреждение об истечении может быть поднято снова
func (s *Service) TakeNotifications(userID int64) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	taken := s.notifications[userID]
	delete(s.notifications, userID)
	return taken
}

// pushLocked добавляет уведомление; вызывается только под s.mu
func (s *Service) pushLocked(userID int64, kind domain.NotificationKind, message string) {
	queue := s.notifications[userID]
	if len(queue) >= maxNotifications {
		queue = queue[1:]
	}
	s.notifications[userID] = append(queue, models.Notification{
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	})
}

// reservationsEqual структурное сравнение корзин, защищающее от лишних замен
// при перекрывающихся Refresh
func reservationsEqual(a, b []domain.Reservation) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID ||
			a[i].PlaceID != b[i].PlaceID ||
			a[i].Status != b[i].Status ||
			a[i].PriceCents != b[i].PriceCents ||
			!a[i].StartsAt.Equal(b[i].StartsAt) ||
			!a[i].EndsAt.Equal(b[i].EndsAt) ||
			!a[i].CreatedAt.Equal(b[i].CreatedAt) {
			return false
		}
	}
	return true
}
