package workers

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReminderScheduler_Fires(t *testing.T) {
	s := NewReminderScheduler()
	defer s.Stop()

	done := make(chan struct{})
	s.Schedule("u1", 10*time.Millisecond, func() { close(done) })
	assert.Equal(t, 1, s.Pending())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not fire")
	}
	assert.Eventually(t, func() bool { return s.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

func TestReminderScheduler_ReplaceKeepsOnlyLatest(t *testing.T) {
	s := NewReminderScheduler()
	defer s.Stop()

	var first, second atomic.Int32
	s.Schedule("u1", 20*time.Millisecond, func() { first.Add(1) })
	s.Schedule("u1", 20*time.Millisecond, func() { second.Add(1) })
	assert.Equal(t, 1, s.Pending())

	assert.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), first.Load())
}

func TestReminderScheduler_Cancel(t *testing.T) {
	s := NewReminderScheduler()
	defer s.Stop()

	var fired atomic.Int32
	s.Schedule("u1", 20*time.Millisecond, func() { fired.Add(1) })

	assert.True(t, s.Cancel("u1"))
	assert.False(t, s.Cancel("u1"))
	assert.False(t, s.Cancel("unknown"))

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestReminderScheduler_StopDropsEverything(t *testing.T) {
	s := NewReminderScheduler()

	var fired atomic.Int32
	s.Schedule("u1", 20*time.Millisecond, func() { fired.Add(1) })
	s.Schedule("u2", 20*time.Millisecond, func() { fired.Add(1) })
	s.Stop()
	assert.Equal(t, 0, s.Pending())

	s.Schedule("u3", time.Millisecond, func() { fired.Add(1) })
	assert.Equal(t, 0, s.Pending(), "stopped scheduler ignores new tasks")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestReminderScheduler_PanicIsRecovered(t *testing.T) {
	s := NewReminderScheduler()
	defer s.Stop()

	done := make(chan struct{})
	s.Schedule("boom", time.Millisecond, func() { panic("boom") })
	s.Schedule("ok", 5*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler stopped working after a panic")
	}
}
