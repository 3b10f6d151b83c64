package flowdemo

import (
	"sync"
	"time"
)

type (
	// ManualScheduler fires tasks only when Advance moves its virtual clock.
	ManualScheduler struct {
		mu    sync.Mutex
		now   time.Duration
		seq   int
		tasks []*manualTask
	}

	manualTask struct {
		sched    *ManualScheduler
		id       int
		due      time.Duration
		period   time.Duration // 0 for one-shot tasks
		fn       func()
		canceled bool
	}

	// RecordingView keeps every rendered snapshot.
	RecordingView struct {
		mu     sync.Mutex
		frames []Snapshot
	}
)

func NewManualScheduler() *ManualScheduler { return &ManualScheduler{} }

func (s *ManualScheduler) Every(d time.Duration, fn func()) Task { return s.add(d, d, fn) }

func (s *ManualScheduler) After(d time.Duration, fn func()) Task { return s.add(d, 0, fn) }

func (s *ManualScheduler) add(d, period time.Duration, fn func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTask{sched: s, id: s.seq, due: s.now + d, period: period, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Advance moves the clock forward by d, running due tasks in time order.
// Callbacks run without the scheduler lock held so they may schedule or cancel tasks.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.nextDue(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.due
		if next.period > 0 {
			next.due += next.period
		} else {
			next.canceled = true
			s.removeLocked(next)
		}
		fn := next.fn
		s.mu.Unlock()

		fn()
	}
}

func (s *ManualScheduler) nextDue(target time.Duration) *manualTask {
	var next *manualTask
	for _, t := range s.tasks {
		if t.canceled || t.due > target {
			continue
		}
		if next == nil || t.due < next.due || (t.due == next.due && t.id < next.id) {
			next = t
		}
	}
	return next
}

func (s *ManualScheduler) removeLocked(task *manualTask) {
	for i, t := range s.tasks {
		if t == task {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// Pending returns the number of scheduled tasks that have not been canceled or fired.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Repeating returns the number of live repeating tasks.
func (s *ManualScheduler) Repeating() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, t := range s.tasks {
		if t.period > 0 {
			n++
		}
	}
	return n
}

func (t *manualTask) Cancel() {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	if t.canceled {
		return
	}
	t.canceled = true
	t.sched.removeLocked(t)
}

func (v *RecordingView) Render(s Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.frames = append(v.frames, s)
}

func (v *RecordingView) Frames() []Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	cp := make([]Snapshot, len(v.frames))
	copy(cp, v.frames)
	return cp
}

// Last returns the most recent frame; ok is false when nothing was rendered.
func (v *RecordingView) Last() (s Snapshot, ok bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.frames) == 0 {
		return Snapshot{}, false
	}
	return v.frames[len(v.frames)-1], true
}

func (v *RecordingView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.frames = nil
}
