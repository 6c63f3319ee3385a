package expiry

import (
	"context"
	"time"

	"github.com/m04kA/CLF-ReservationService/pkg/schedtask"
)

// refreshTimeout предел на фоновый Refresh, чтобы тик не зависал на сети
const refreshTimeout = 5 * time.Second

// Watcher часы истечения удержанных броней
//
// Чисто консультативный механизм: авторитетное решение об истечении
// принимает сервер расписаний. Часы никогда сами не удаляют бронь из
// локального состояния — на нуле они лишь запускают Refresh, который
// отразит серверное истечение, если оно произошло
type Watcher struct {
	cart          CartService
	interval      time.Duration
	warnThreshold time.Duration
	timeProvider  TimeProvider
	metrics       Metrics
	logger        Logger

	task *schedtask.Task
}

// NewWatcher создает новый экземпляр часов истечения
func NewWatcher(
	cart CartService,
	interval time.Duration,
	warnThreshold time.Duration,
	metrics Metrics,
	logger Logger,
) *Watcher {
	return &Watcher{
		cart:          cart,
		interval:      interval,
		warnThreshold: warnThreshold,
		timeProvider:  &RealTimeProvider{},
		metrics:       metrics,
		logger:        logger,
	}
}

// Start запускает периодический тик
func (w *Watcher) Start() {
	w.task = schedtask.Start(w.interval, w.Tick)
	w.logger.Info("ExpiryWatcher: started, interval=%s, warnThreshold=%s", w.interval, w.warnThreshold)
}

// Stop останавливает часы; обязателен при остановке сервиса
func (w *Watcher) Stop() {
	if w.task != nil {
		w.task.Stop()
	}
	w.logger.Info("ExpiryWatcher: stopped")
}

// Tick один проход по всем непустым корзинам
// Экспортирован для детерминированного вызова из тестов
func (w *Watcher) Tick() {
	now := w.timeProvider.Now()

	for _, userID := range w.cart.ActiveUsers() {
		secondsLeft, ok := w.cart.SecondsLeft(userID, now)
		if !ok {
			continue
		}

		switch {
		case secondsLeft <= 0:
			// Удержание истекло: запрашиваем сверку с сервером,
			// локально ничего не удаляем
			ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
			if _, err := w.cart.Refresh(ctx, userID); err != nil {
				w.logger.Warn("ExpiryWatcher: refresh after expiry failed for user=%d: %v", userID, err)
			} else {
				w.logger.Info("ExpiryWatcher: hold expired for user=%d, cart refreshed", userID)
			}
			cancel()

		case secondsLeft <= int64(w.warnThreshold.Seconds()):
			if w.cart.PushWarning(userID, secondsLeft) {
				w.metrics.ExpiryWarningInc()
				w.logger.Info("ExpiryWatcher: expiry warning raised for user=%d, secondsLeft=%d",
					userID, secondsLeft)
			}

		default:
			w.cart.DismissWarning(userID)
		}
	}
}
