// SPDX-License-Identifier: Unlicense OR MIT

package wm

import (
	"errors"
	"image"
	"io"
	"log/slog"
	"reflect"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"waywin.org/io/event"
	"waywin.org/io/pointer"
	"waywin.org/io/system"
)

type fakeSource struct {
	steps    []func() error
	timeouts []time.Duration
	wakeups  atomic.Int32
	stopped  int
}

func (s *fakeSource) Dispatch(timeout time.Duration) error {
	s.timeouts = append(s.timeouts, timeout)
	if len(s.steps) == 0 {
		return nil
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	if step == nil {
		return nil
	}
	return step()
}

func (s *fakeSource) Wakeup() { s.wakeups.Add(1) }
func (s *fakeSource) Stop()   { s.stopped++ }

type harness struct {
	l   *Loop
	src *fakeSource
	now time.Time
}

func newHarness() *harness {
	h := &harness{
		l:   NewLoop(slog.New(slog.NewTextHandler(io.Discard, nil))),
		src: new(fakeSource),
		now: time.Unix(1000, 0),
	}
	h.l.SetSource(h.src)
	h.l.timers.SetClock(func() time.Time { return h.now })
	return h
}

// iterate runs one loop iteration with step as the native traffic and
// returns the delivered events.
func (h *harness) iterate(step func()) []event.WindowEvent {
	var got []event.WindowEvent
	h.l.handler = func(e event.WindowEvent) {
		got = append(got, e)
	}
	h.src.steps = append(h.src.steps, func() error {
		if step != nil {
			step()
		}
		return nil
	})
	h.l.iterate()
	h.l.handler = nil
	return got
}

func events(evs []event.WindowEvent) []event.Event {
	var res []event.Event
	for _, e := range evs {
		res = append(res, e.Event)
	}
	return res
}

func countPaints(evs []event.WindowEvent, id event.WindowID) int {
	n := 0
	for _, e := range evs {
		if _, ok := e.Event.(system.PaintEvent); ok && e.Window == id {
			n++
		}
	}
	return n
}

func assertEvents(t *testing.T, got []event.WindowEvent, want ...event.Event) {
	t.Helper()
	if g := events(got); !reflect.DeepEqual(g, want) {
		t.Errorf("got events %v, want %v", g, want)
	}
}

func TestConfigureThenPaint(t *testing.T) {
	h := newHarness()
	w := h.l.NewWindow(Config{})
	got := h.iterate(func() {
		w.Propose(image.Pt(1024, 768))
		w.Ack()
	})
	assertEvents(t, got,
		system.ResizeEvent{Size: image.Pt(1024, 768), PhysicalSize: image.Pt(1024, 768)},
		system.PaintEvent{},
	)
	if s := w.Config().Size; s != image.Pt(1024, 768) {
		t.Errorf("committed size %v, want 1024x768", s)
	}
	for _, e := range got {
		if e.Window != w.ID() {
			t.Errorf("event %v addressed to %v, want %v", e.Event, e.Window, w.ID())
		}
	}
}

func TestScaleChange(t *testing.T) {
	h := newHarness()
	w := h.l.NewWindow(Config{})
	h.iterate(nil)
	got := h.iterate(func() {
		w.SetScale(1.5)
	})
	assertEvents(t, got,
		system.ScaleEvent{Scale: 1.5},
		system.ResizeEvent{Size: image.Pt(800, 600), PhysicalSize: image.Pt(1200, 900)},
		system.PaintEvent{},
	)
}

func TestRedrawCoalescing(t *testing.T) {
	h := newHarness()
	w := h.l.NewWindow(Config{})
	if n := countPaints(h.iterate(nil), w.ID()); n != 1 {
		t.Fatalf("got %d initial paints, want 1", n)
	}
	got := h.iterate(func() {
		w.Propose(image.Pt(640, 480))
		w.Ack()
		w.SetScale(2)
		w.RequestRedraw()
		w.RequestRedraw()
		w.Invalidate()
	})
	if n := countPaints(got, w.ID()); n != 1 {
		t.Errorf("got %d paints, want 1", n)
	}
	if n := countPaints(h.iterate(nil), w.ID()); n != 0 {
		t.Errorf("got %d paints in idle iteration, want 0", n)
	}
}

func TestConfigureIdempotence(t *testing.T) {
	h := newHarness()
	w := h.l.NewWindow(Config{})
	h.iterate(nil)
	got := h.iterate(func() {
		for range 5 {
			w.Propose(image.Pt(300, 200))
		}
		w.Ack()
	})
	resizes := 0
	for _, e := range got {
		if _, ok := e.Event.(system.ResizeEvent); ok {
			resizes++
		}
	}
	if resizes != 1 {
		t.Errorf("got %d resize events, want 1", resizes)
	}
	// Proposing the committed size is not a change.
	got = h.iterate(func() {
		w.Propose(image.Pt(300, 200))
		w.Ack()
	})
	assertEvents(t, got)
}

func TestDegenerateSize(t *testing.T) {
	h := newHarness()
	w := h.l.NewWindow(Config{Size: image.Pt(400, 300)})
	h.iterate(func() { w.Ack() })
	for _, sz := range []image.Point{{}, {0, 300}, {400, 0}, {-1, -1}} {
		got := h.iterate(func() {
			w.Propose(sz)
			w.Ack()
		})
		assertEvents(t, got)
		if s := w.Config().Size; s != image.Pt(400, 300) {
			t.Errorf("after proposing %v, size is %v", sz, s)
		}
	}
}

func TestFirstAckPaints(t *testing.T) {
	h := newHarness()
	w := h.l.NewWindow(Config{})
	h.iterate(nil)
	if w.Configured() {
		t.Fatal("window configured before ack")
	}
	got := h.iterate(func() { w.Ack() })
	assertEvents(t, got, system.PaintEvent{})
	if !w.Configured() {
		t.Error("window not configured after ack")
	}
}

func TestDroppedWindow(t *testing.T) {
	h := newHarness()
	w := h.l.NewWindow(Config{})
	id := w.ID()
	got := h.iterate(func() {
		h.l.queue.Push(id, pointer.MoveEvent{X: 1, Y: 2})
		w.Destroy()
	})
	assertEvents(t, got)
	if h.l.registry.Alive(id) {
		t.Error("destroyed window still registered")
	}
	got = h.iterate(func() {
		h.l.queue.Push(id, pointer.EnterEvent{})
	})
	assertEvents(t, got)
}

//go:noinline
func newUnreferencedWindow(l *Loop) event.WindowID {
	return l.NewWindow(Config{}).ID()
}

func TestCollectedWindow(t *testing.T) {
	h := newHarness()
	id := newUnreferencedWindow(h.l)
	keep := h.l.NewWindow(Config{})
	h.l.queue.Push(id, pointer.MoveEvent{})
	runtime.GC()
	runtime.GC()
	got := h.iterate(func() {
		h.l.queue.Push(id, pointer.LeaveEvent{})
	})
	for _, e := range got {
		if e.Window == id {
			t.Errorf("delivered %v to a collected window", e.Event)
		}
	}
	if n := countPaints(got, keep.ID()); n != 1 {
		t.Errorf("got %d paints for live window, want 1", n)
	}
	if h.l.registry.Len() != 1 {
		t.Errorf("registry holds %d windows, want 1", h.l.registry.Len())
	}
	runtime.KeepAlive(keep)
}

func TestDeliveryOrder(t *testing.T) {
	h := newHarness()
	w := h.l.NewWindow(Config{})
	id := w.ID()
	var got []event.Event
	h.l.handler = func(e event.WindowEvent) {
		got = append(got, e.Event)
		if _, ok := e.Event.(pointer.EnterEvent); ok {
			// Events queued during delivery wait for the next
			// iteration.
			h.l.queue.Push(id, pointer.LeaveEvent{})
		}
	}
	h.src.steps = []func() error{func() error {
		h.l.queue.Push(id, pointer.EnterEvent{})
		h.l.queue.Push(0, pointer.RelativeEvent{DX: 1})
		return nil
	}}
	h.l.iterate()
	want := []event.Event{pointer.EnterEvent{}, pointer.RelativeEvent{DX: 1}, system.PaintEvent{}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("first iteration delivered %v, want %v", got, want)
	}
	got = nil
	h.l.iterate()
	if want := []event.Event{pointer.LeaveEvent{}}; !reflect.DeepEqual(got, want) {
		t.Errorf("second iteration delivered %v, want %v", got, want)
	}
}

func TestExitRequeues(t *testing.T) {
	h := newHarness()
	w := h.l.NewWindow(Config{})
	h.src.steps = []func() error{func() error {
		for i := range 3 {
			h.l.queue.Push(w.ID(), pointer.MoveEvent{X: float64(i)})
		}
		return nil
	}}
	var got []event.Event
	h.l.Run(func(e event.WindowEvent) {
		got = append(got, e.Event)
		h.l.Exit()
	})
	if want := []event.Event{pointer.MoveEvent{X: 0}}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v before exit, want %v", got, want)
	}
	if h.l.Running() {
		t.Error("loop still running after Run returned")
	}
	if h.src.stopped != 1 {
		t.Errorf("source stopped %d times, want 1", h.src.stopped)
	}
	got = nil
	h.l.Run(func(e event.WindowEvent) {
		got = append(got, e.Event)
		if _, ok := e.Event.(system.PaintEvent); ok {
			h.l.Exit()
		}
	})
	want := []event.Event{
		pointer.MoveEvent{X: 1},
		pointer.MoveEvent{X: 2},
		system.PaintEvent{},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v after restart, want %v", got, want)
	}
}

func TestRunReentry(t *testing.T) {
	h := newHarness()
	h.l.NewWindow(Config{})
	var recovered any
	h.l.Run(func(e event.WindowEvent) {
		func() {
			defer func() { recovered = recover() }()
			h.l.Run(func(event.WindowEvent) {})
		}()
		h.l.Exit()
	})
	if recovered == nil {
		t.Error("nested Run did not panic")
	}
}

func TestSourceFailure(t *testing.T) {
	h := newHarness()
	w1 := h.l.NewWindow(Config{})
	w2 := h.l.NewWindow(Config{})
	errBroken := errors.New("broken pipe")
	h.src.steps = []func() error{
		func() error { return errBroken },
	}
	var got []event.WindowEvent
	h.l.Run(func(e event.WindowEvent) {
		got = append(got, e)
	})
	want := []event.WindowEvent{
		{Window: w1.ID(), Event: system.CloseEvent{}},
		{Window: w2.ID(), Event: system.CloseEvent{}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if !errors.Is(h.l.Err(), errBroken) {
		t.Errorf("Err() = %v, want %v", h.l.Err(), errBroken)
	}
	// A failed loop does not run again.
	h.l.Run(func(e event.WindowEvent) {
		t.Errorf("unexpected event %v", e)
	})
}

func TestTimeout(t *testing.T) {
	h := newHarness()
	if d := h.l.timeout(); d != -1 {
		t.Errorf("idle timeout %v, want -1", d)
	}
	h.l.timers.AfterFunc(30*time.Millisecond, func() {})
	if d := h.l.timeout(); d != 30*time.Millisecond {
		t.Errorf("timer timeout %v, want 30ms", d)
	}
	w := h.l.NewWindow(Config{})
	if d := h.l.timeout(); d != 0 {
		t.Errorf("timeout with pending paint %v, want 0", d)
	}
	h.iterate(nil)
	w.FramePending()
	w.Invalidate()
	if d := h.l.timeout(); d != 30*time.Millisecond {
		t.Errorf("timeout with pending frame %v, want 30ms", d)
	}
	h.l.queue.Push(w.ID(), system.CloseEvent{})
	if d := h.l.timeout(); d != 0 {
		t.Errorf("timeout with queued events %v, want 0", d)
	}
}

func TestFramePacing(t *testing.T) {
	h := newHarness()
	w := h.l.NewWindow(Config{})
	w.BeforePaint = w.FramePending
	if n := countPaints(h.iterate(nil), w.ID()); n != 1 {
		t.Fatalf("got %d initial paints, want 1", n)
	}
	w.RequestRedraw()
	if n := countPaints(h.iterate(nil), w.ID()); n != 0 {
		t.Errorf("painted %d times while a frame is pending", n)
	}
	if n := countPaints(h.iterate(w.FrameDone), w.ID()); n != 1 {
		t.Errorf("got %d paints after frame done, want 1", n)
	}
	// A lost frame callback delays painting by at most the frame
	// timeout.
	w.RequestRedraw()
	if n := countPaints(h.iterate(nil), w.ID()); n != 0 {
		t.Errorf("painted %d times while a frame is pending", n)
	}
	h.now = h.now.Add(frameTimeout)
	if n := countPaints(h.iterate(nil), w.ID()); n != 1 {
		t.Errorf("got %d paints after frame timeout, want 1", n)
	}
}

func TestRequestRedrawWakes(t *testing.T) {
	h := newHarness()
	w := h.l.NewWindow(Config{})
	h.iterate(nil)
	done := make(chan struct{})
	go func() {
		w.RequestRedraw()
		w.RequestRedraw()
		close(done)
	}()
	<-done
	if n := h.src.wakeups.Load(); n != 1 {
		t.Errorf("got %d wakeups, want 1", n)
	}
	if n := countPaints(h.iterate(nil), w.ID()); n != 1 {
		t.Errorf("got %d paints, want 1", n)
	}
}

func TestPost(t *testing.T) {
	h := newHarness()
	ran := make(chan struct{})
	posted := false
	go func() {
		h.l.Post(func() { posted = true })
		close(ran)
	}()
	<-ran
	if h.src.wakeups.Load() == 0 {
		t.Error("Post did not wake the loop")
	}
	if d := h.l.timeout(); d != 0 {
		t.Errorf("timeout with posted task %v, want 0", d)
	}
	h.iterate(nil)
	if !posted {
		t.Error("posted function did not run")
	}
}

func TestClosedLoop(t *testing.T) {
	h := newHarness()
	w := h.l.NewWindow(Config{})
	h.iterate(nil)
	h.l.Close()
	posted := false
	done := make(chan struct{})
	go func() {
		h.l.Post(func() { posted = true })
		w.RequestRedraw()
		h.l.Exit()
		close(done)
	}()
	<-done
	if n := h.src.wakeups.Load(); n != 0 {
		t.Errorf("closed loop woke the source %d times", n)
	}
	h.l.Run(func(e event.WindowEvent) {
		t.Errorf("closed loop delivered %v", e)
	})
	h.l.runPosted()
	if posted {
		t.Error("function posted after Close ran")
	}
}

func TestExitBeforeRun(t *testing.T) {
	h := newHarness()
	h.l.NewWindow(Config{})
	h.l.NewWindow(Config{})
	h.l.Exit()
	n := 0
	h.l.Run(func(event.WindowEvent) { n++ })
	if n != 1 {
		t.Errorf("delivered %d events after an early Exit, want 1", n)
	}
	// The exit request is consumed.
	n = 0
	h.l.Run(func(event.WindowEvent) {
		n++
		h.l.Exit()
	})
	if n != 1 {
		t.Errorf("second Run delivered %d events, want 1", n)
	}
}

func TestWindowIDs(t *testing.T) {
	h := newHarness()
	a := h.l.NewWindow(Config{})
	a.Destroy()
	b := h.l.NewWindow(Config{})
	if a.ID() == 0 || b.ID() <= a.ID() {
		t.Errorf("window ids %v, %v are not increasing", a.ID(), b.ID())
	}
}
