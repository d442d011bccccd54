// SPDX-License-Identifier: Unlicense OR MIT

package wm

import (
	"reflect"
	"testing"
	"time"
)

func TestTimersOrder(t *testing.T) {
	now := time.Unix(0, 0)
	var ts Timers
	ts.SetClock(func() time.Time { return now })
	var fired []int
	ts.AfterFunc(20*time.Millisecond, func() { fired = append(fired, 2) })
	ts.AfterFunc(10*time.Millisecond, func() { fired = append(fired, 1) })
	ts.AfterFunc(20*time.Millisecond, func() { fired = append(fired, 3) })
	if next, ok := ts.Next(); !ok || !next.Equal(now.Add(10*time.Millisecond)) {
		t.Errorf("Next() = %v, %v", next, ok)
	}
	if n := ts.Run(); n != 0 {
		t.Errorf("fired %d timers early", n)
	}
	now = now.Add(20 * time.Millisecond)
	if n := ts.Run(); n != 3 {
		t.Errorf("fired %d timers, want 3", n)
	}
	if want := []int{1, 2, 3}; !reflect.DeepEqual(fired, want) {
		t.Errorf("fired %v, want %v", fired, want)
	}
	if _, ok := ts.Next(); ok {
		t.Error("timers left after firing")
	}
}

func TestTimerStop(t *testing.T) {
	now := time.Unix(0, 0)
	var ts Timers
	ts.SetClock(func() time.Time { return now })
	fired := false
	tm := ts.AfterFunc(time.Millisecond, func() { fired = true })
	keep := ts.AfterFunc(2*time.Millisecond, func() {})
	if !tm.Stop() {
		t.Error("Stop of a pending timer returned false")
	}
	if tm.Stop() {
		t.Error("second Stop returned true")
	}
	now = now.Add(time.Second)
	if n := ts.Run(); n != 1 {
		t.Errorf("fired %d timers, want 1", n)
	}
	if fired {
		t.Error("stopped timer fired")
	}
	if keep.Stop() {
		t.Error("Stop of a fired timer returned true")
	}
	var nilTimer *Timer
	if nilTimer.Stop() {
		t.Error("Stop of nil timer returned true")
	}
}

func TestTimerRescheduleFromCallback(t *testing.T) {
	now := time.Unix(0, 0)
	var ts Timers
	ts.SetClock(func() time.Time { return now })
	count := 0
	var tick func()
	tick = func() {
		count++
		ts.AfterFunc(0, tick)
	}
	ts.AfterFunc(0, tick)
	ts.Run()
	ts.Run()
	if count != 2 {
		t.Errorf("callback ran %d times in two runs, want 2", count)
	}
}
