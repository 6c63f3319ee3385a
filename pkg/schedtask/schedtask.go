package schedtask

import (
	"sync"
	"time"
)

// Task периодическая задача с явной остановкой
// Одна задача на одну заботу (тик истечения брони и т.п.);
// Stop обязателен при остановке владельца, иначе утечет горутина
type Task struct {
	stop     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// Start запускает fn с указанным интервалом до вызова Stop
func Start(interval time.Duration, fn func()) *Task {
	t := &Task{stop: make(chan struct{})}

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				fn()
			case <-t.stop:
				return
			}
		}
	}()

	return t
}

// Stop останавливает задачу и дожидается завершения текущего тика
// Повторные вызовы безопасны
func (t *Task) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
	t.wg.Wait()
}
