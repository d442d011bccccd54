// SPDX-License-Identifier: Unlicense OR MIT

package wm

import (
	"waywin.org/io/event"
)

// Queue is the ordered queue of normalized events waiting for
// delivery. It is only accessed from the loop goroutine.
type Queue struct {
	events []event.WindowEvent
}

// Push appends e addressed to the window id. Device events use the
// zero id.
func (q *Queue) Push(id event.WindowID, e event.Event) {
	q.events = append(q.events, event.WindowEvent{Window: id, Event: e})
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	return len(q.events)
}

// take removes and returns all queued events.
func (q *Queue) take() []event.WindowEvent {
	evs := q.events
	q.events = nil
	return evs
}

// requeue puts undelivered events back in front of the events queued
// since they were taken.
func (q *Queue) requeue(evs []event.WindowEvent) {
	if len(evs) == 0 {
		return
	}
	q.events = append(evs[:len(evs):len(evs)], q.events...)
}
