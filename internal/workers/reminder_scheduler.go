package workers

import (
	"sync"
	"time"

	"skillup_backend/internal/logger"
)

// ReminderScheduler - in-process таймеры с ключом (id пользователя).
// Новый Schedule по тому же ключу отменяет прежний таймер.
type ReminderScheduler struct {
	mu      sync.Mutex
	timers  map[string]*scheduledTask
	seq     uint64
	stopped bool
}

type scheduledTask struct {
	id    uint64
	timer *time.Timer
}

func NewReminderScheduler() *ReminderScheduler {
	return &ReminderScheduler{
		timers: make(map[string]*scheduledTask),
	}
}

func (s *ReminderScheduler) Schedule(key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if prev, ok := s.timers[key]; ok {
		prev.timer.Stop()
	}

	s.seq++
	task := &scheduledTask{id: s.seq}
	task.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		current, ok := s.timers[key]
		if !ok || current.id != task.id {
			s.mu.Unlock()
			return
		}
		delete(s.timers, key)
		s.mu.Unlock()

		defer func() {
			if r := recover(); r != nil {
				logger.Error("Reminder task panicked", "key", key, "panic", r)
			}
		}()
		fn()
	})
	s.timers[key] = task
}

func (s *ReminderScheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.timers[key]
	if !ok {
		return false
	}
	task.timer.Stop()
	delete(s.timers, key)
	return true
}

// Pending - число запланированных задач
func (s *ReminderScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Stop отменяет все таймеры. Снимки без напоминания подберет sweeper после рестарта.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for key, task := range s.timers {
		task.timer.Stop()
		delete(s.timers, key)
	}
}
