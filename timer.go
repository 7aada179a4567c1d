package simpleble

import (
	"sync"
	"sync/atomic"
	"time"
)

// Task is a handle to scheduled work.
type Task interface {
	// Stop cancels the task. It is safe to call more than once.
	Stop()
	// Active reports whether the task may still fire: it has not been
	// stopped and, for a one-shot task, has not fired yet.
	Active() bool
}

// Scheduler creates tasks. The machine only ever passes functions that post
// an event, so fn runs on whatever goroutine the scheduler likes.
type Scheduler interface {
	Every(d time.Duration, fn func()) Task
	After(d time.Duration, fn func()) Task
}

// SystemScheduler returns a Scheduler backed by the runtime timers.
func SystemScheduler() Scheduler {
	return systemScheduler{}
}

type systemScheduler struct{}

func (systemScheduler) Every(d time.Duration, fn func()) Task {
	t := &tickerTask{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.run(fn)
	return t
}

func (systemScheduler) After(d time.Duration, fn func()) Task {
	t := &afterTask{}
	t.timer = time.AfterFunc(d, func() {
		if atomic.CompareAndSwapInt32(&t.state, 0, 1) {
			fn()
		}
	})
	return t
}

type tickerTask struct {
	ticker  *time.Ticker
	done    chan struct{}
	once    sync.Once
	stopped int32
}

func (t *tickerTask) run(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			fn()
		}
	}
}

func (t *tickerTask) Stop() {
	t.once.Do(func() {
		atomic.StoreInt32(&t.stopped, 1)
		t.ticker.Stop()
		close(t.done)
	})
}

func (t *tickerTask) Active() bool {
	return atomic.LoadInt32(&t.stopped) == 0
}

// afterTask state: 0 pending, 1 fired, 2 stopped.
type afterTask struct {
	timer *time.Timer
	state int32
}

func (t *afterTask) Stop() {
	if atomic.CompareAndSwapInt32(&t.state, 0, 2) {
		t.timer.Stop()
	}
}

func (t *afterTask) Active() bool {
	return atomic.LoadInt32(&t.state) == 0
}

// taskSlot holds at most one live task.
type taskSlot struct {
	task Task
}

// start schedules fn every d unless a live task already occupies the slot.
// It reports whether a new task was started.
func (s *taskSlot) start(sched Scheduler, d time.Duration, fn func()) bool {
	if s.running() {
		return false
	}
	s.task = sched.Every(d, fn)
	return true
}

// startOnce is like start for a one-shot task, but replaces a live task.
func (s *taskSlot) startOnce(sched Scheduler, d time.Duration, fn func()) {
	s.stop()
	s.task = sched.After(d, fn)
}

func (s *taskSlot) stop() {
	if s.task != nil {
		s.task.Stop()
		s.task = nil
	}
}

func (s *taskSlot) running() bool {
	return s.task != nil && s.task.Active()
}
