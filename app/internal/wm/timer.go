// SPDX-License-Identifier: Unlicense OR MIT

package wm

import (
	"container/heap"
	"time"
)

// Timers is a set of one-shot timers fired by the loop goroutine.
// Unlike time.AfterFunc, the callbacks run inside the event loop so
// they may touch loop-owned state without locking.
type Timers struct {
	now  func() time.Time
	heap timerHeap
	seq  uint64
}

// Timer is a scheduled callback.
type Timer struct {
	when  time.Time
	seq   uint64
	f     func()
	index int
	t     *Timers
}

type timerHeap []*Timer

// SetClock replaces the time source. It is meant for tests.
func (t *Timers) SetClock(now func() time.Time) {
	t.now = now
}

// Now returns the current time of the timer clock.
func (t *Timers) Now() time.Time {
	if t.now == nil {
		return time.Now()
	}
	return t.now()
}

// AfterFunc schedules f to run on the loop goroutine after d has
// elapsed.
func (t *Timers) AfterFunc(d time.Duration, f func()) *Timer {
	t.seq++
	tm := &Timer{
		when:  t.Now().Add(d),
		seq:   t.seq,
		f:     f,
		index: -1,
		t:     t,
	}
	heap.Push(&t.heap, tm)
	return tm
}

// Stop cancels the timer. It reports whether the timer was pending.
func (tm *Timer) Stop() bool {
	if tm == nil || tm.index < 0 {
		return false
	}
	heap.Remove(&tm.t.heap, tm.index)
	return true
}

// Next returns the deadline of the earliest pending timer.
func (t *Timers) Next() (time.Time, bool) {
	if len(t.heap) == 0 {
		return time.Time{}, false
	}
	return t.heap[0].when, true
}

// Run fires every timer that is due and returns the number fired.
// Timers scheduled by the callbacks fire no earlier than the next
// call.
func (t *Timers) Run() int {
	now := t.Now()
	var due []*Timer
	for len(t.heap) > 0 && !t.heap[0].when.After(now) {
		due = append(due, heap.Pop(&t.heap).(*Timer))
	}
	for _, tm := range due {
		tm.f()
	}
	return len(due)
}

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	tm := x.(*Timer)
	tm.index = len(*h)
	*h = append(*h, tm)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	tm := old[n-1]
	old[n-1] = nil
	tm.index = -1
	*h = old[:n-1]
	return tm
}
