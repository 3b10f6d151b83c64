package flowdemo

import (
	"sync"
	"time"
)

type (
	// Task is a scheduled callback. Cancel is idempotent.
	Task interface {
		Cancel()
	}

	// Scheduler runs callbacks later, once or repeatedly.
	Scheduler interface {
		Every(d time.Duration, fn func()) Task
		After(d time.Duration, fn func()) Task
	}

	timeScheduler struct{}

	tickerTask struct {
		done chan struct{}
		once sync.Once
	}

	timerTask struct {
		timer *time.Timer
	}
)

// NewScheduler returns a Scheduler backed by the runtime timers.
func NewScheduler() Scheduler { return timeScheduler{} }

func (timeScheduler) Every(d time.Duration, fn func()) Task {
	t := &tickerTask{done: make(chan struct{})}
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-t.done:
				return
			}
		}
	}()
	return t
}

func (timeScheduler) After(d time.Duration, fn func()) Task {
	return &timerTask{timer: time.AfterFunc(d, fn)}
}

func (t *tickerTask) Cancel() {
	t.once.Do(func() { close(t.done) })
}

func (t *timerTask) Cancel() { t.timer.Stop() }
