// Package middleware — ratelimit.go, анти-спам по пользователю.
// Весь интерфейс бота живёт в личных сообщениях, и один увлёкшийся
// кнопками участник не должен занимать слоты обработки всего клана.
package middleware

import (
	"sync"
	"time"
)

// RateLimiter ограничивает частоту действий пользователя скользящим
// окном: больше limit нажатий/сообщений за window — игнорируем.
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[int64][]time.Time
	limit  int
	window time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		hits:   make(map[int64][]time.Time),
		limit:  limit,
		window: window,
		stop:   make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// Close останавливает фоновую уборку. Вызывается на shutdown.
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Allow отвечает, обрабатывать ли действие пользователя сейчас.
func (rl *RateLimiter) Allow(userID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	fresh := rl.prune(rl.hits[userID], now)
	if len(fresh) >= rl.limit {
		rl.hits[userID] = fresh
		return false
	}
	rl.hits[userID] = append(fresh, now)
	return true
}

// prune отбрасывает отметки старше окна, переиспользуя срез.
func (rl *RateLimiter) prune(marks []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-rl.window)
	fresh := marks[:0]
	for _, m := range marks {
		if m.After(cutoff) {
			fresh = append(fresh, m)
		}
	}
	return fresh
}

// sweep периодически выкидывает из карты замолчавших пользователей,
// иначе она растёт с каждым новым собеседником бота.
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			for id, marks := range rl.hits {
				if fresh := rl.prune(marks, now); len(fresh) == 0 {
					delete(rl.hits, id)
				} else {
					rl.hits[id] = fresh
				}
			}
			rl.mu.Unlock()
		}
	}
}
