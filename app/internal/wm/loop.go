// SPDX-License-Identifier: Unlicense OR MIT

/*
Package wm implements the platform independent core of the window
system: the event loop, the registry of live windows and the
configuration state of each window.

A platform backend implements Source. During Source.Dispatch it calls
into Window, Queue and Timers to record state changes and queue
normalized events. The Loop then delivers the queued events to the
application, one iteration at a time:

 1. Dispatch native notifications and fire due timers.
 2. Sweep the registry: prune dead windows, announce configuration
    changes and queue a PaintEvent for every window that needs one.
 3. Deliver the queued events, stopping early if asked to.
*/
package wm

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"waywin.org/io/event"
	"waywin.org/io/system"
)

// Source is a native notification source.
type Source interface {
	// Dispatch waits at most timeout for native notifications and
	// processes them. A negative timeout waits indefinitely, zero
	// only processes what is already available.
	Dispatch(timeout time.Duration) error
	// Wakeup interrupts a waiting Dispatch. It is safe for
	// concurrent use.
	Wakeup()
	// Stop is called when Run returns.
	Stop()
}

// Loop is the event loop. Only Exit, Post and Window.RequestRedraw may
// be called from other goroutines than the one calling Run.
type Loop struct {
	log      *slog.Logger
	src      Source
	queue    Queue
	registry Registry
	timers   Timers
	lastID   event.WindowID

	running bool
	handler func(event.WindowEvent)
	stop    atomic.Bool
	err     error
	closed  atomic.Bool

	postMu sync.Mutex
	posted []func()
}

// NewLoop returns an idle loop logging to log.
func NewLoop(log *slog.Logger) *Loop {
	if log == nil {
		log = slog.Default()
	}
	return &Loop{log: log}
}

// SetSource sets the native notification source.
func (l *Loop) SetSource(src Source) {
	l.src = src
}

// Log returns the loop logger.
func (l *Loop) Log() *slog.Logger {
	return l.log
}

// Queue returns the event queue.
func (l *Loop) Queue() *Queue {
	return &l.queue
}

// Registry returns the window registry.
func (l *Loop) Registry() *Registry {
	return &l.registry
}

// Timers returns the loop timers.
func (l *Loop) Timers() *Timers {
	return &l.timers
}

// Err returns the error that terminated the native source, if any.
func (l *Loop) Err() error {
	return l.err
}

// Running reports whether Run is in progress.
func (l *Loop) Running() bool {
	return l.running
}

// NewWindow creates the state of a new window with the initial
// configuration c. The caller owns the returned Window. The loop only
// keeps a weak reference.
func (l *Loop) NewWindow(c Config) *Window {
	if c.Scale <= 0 {
		c.Scale = 1
	}
	if c.Size.X <= 0 || c.Size.Y <= 0 {
		c.Size = DefaultSize
	}
	l.lastID++
	w := &Window{
		id:        l.lastID,
		loop:      l,
		pending:   c,
		committed: c,
		announced: c,
	}
	// The first paint is guaranteed even if the platform never
	// configures the window.
	w.redraw.Store(true)
	l.registry.add(w)
	return w
}

// Post arranges for f to run on the loop goroutine during the next
// iteration. It is safe for concurrent use. Post does nothing after
// Close.
func (l *Loop) Post(f func()) {
	if l.closed.Load() {
		return
	}
	l.postMu.Lock()
	l.posted = append(l.posted, f)
	l.postMu.Unlock()
	l.wakeup()
}

// Exit stops a running loop after the event being delivered, if any.
// It is safe for concurrent use.
func (l *Loop) Exit() {
	l.stop.Store(true)
	l.wakeup()
}

// Close detaches the loop from its source. Afterwards Post,
// RequestRedraw and Exit no longer reach the source, and posted
// functions are dropped. The source must be closed after the loop.
func (l *Loop) Close() {
	l.closed.Store(true)
	l.postMu.Lock()
	l.posted = nil
	l.postMu.Unlock()
}

// Run delivers events to handler until Exit is called or the native
// source fails. Run must not be called while the loop is running.
// An Exit that happens before Run makes it return after at most one
// iteration.
func (l *Loop) Run(handler func(e event.WindowEvent)) {
	if l.running {
		panic("wm: Run called while the loop is running")
	}
	if l.src == nil {
		panic("wm: Run called without a Source")
	}
	if l.err != nil || l.closed.Load() {
		return
	}
	l.running = true
	l.handler = handler
	defer func() {
		l.stop.Store(false)
		l.handler = nil
		l.running = false
		l.src.Stop()
	}()
	for l.iterate() {
	}
}

func (l *Loop) iterate() bool {
	if err := l.src.Dispatch(l.timeout()); err != nil {
		l.fail(err)
		return false
	}
	l.runPosted()
	l.timers.Run()
	l.sweep()
	return l.deliver()
}

// timeout computes how long the source may block.
func (l *Loop) timeout() time.Duration {
	if l.queue.Len() > 0 || l.stop.Load() || l.hasPosted() {
		return 0
	}
	now := l.timers.Now()
	wait := time.Duration(-1)
	limit := func(d time.Duration) {
		d = max(d, 0)
		if wait < 0 || d < wait {
			wait = d
		}
	}
	l.registry.sweep(func(w *Window) {
		if w.redraw.Load() {
			limit(w.paintDelay(now))
		}
	})
	if next, ok := l.timers.Next(); ok {
		limit(next.Sub(now))
	}
	return wait
}

func (l *Loop) sweep() {
	now := l.timers.Now()
	l.registry.sweep(func(w *Window) {
		w.announce()
		if w.redraw.Load() && w.paintDelay(now) == 0 {
			l.queue.Push(w.id, system.PaintEvent{})
		}
	})
}

// deliver delivers the queued events and reports whether the loop
// should continue.
func (l *Loop) deliver() bool {
	evs := l.queue.take()
	for i, e := range evs {
		if e.Window != 0 {
			w := l.registry.Lookup(e.Window)
			if w == nil {
				continue
			}
			if _, paint := e.Event.(system.PaintEvent); paint {
				if !w.redraw.CompareAndSwap(true, false) {
					continue
				}
				if w.BeforePaint != nil {
					w.BeforePaint()
				}
			}
		}
		l.handler(e)
		if l.stop.Load() {
			l.queue.requeue(evs[i+1:])
			return false
		}
	}
	return !l.stop.Load()
}

// fail reports the loss of the native source to every live window.
func (l *Loop) fail(err error) {
	l.err = err
	l.log.Error("display connection lost", "err", err)
	l.registry.sweep(func(w *Window) {
		l.queue.Push(w.id, system.CloseEvent{})
	})
	l.deliver()
}

func (l *Loop) hasPosted() bool {
	l.postMu.Lock()
	defer l.postMu.Unlock()
	return len(l.posted) > 0
}

func (l *Loop) runPosted() {
	l.postMu.Lock()
	posted := l.posted
	l.posted = nil
	l.postMu.Unlock()
	for _, f := range posted {
		f()
	}
}

func (l *Loop) wakeup() {
	if l.src != nil && !l.closed.Load() {
		l.src.Wakeup()
	}
}
