// SPDX-License-Identifier: Unlicense OR MIT

package input

import (
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"waywin.org/app/internal/wm"
	"waywin.org/io/event"
	"waywin.org/io/key"
	"waywin.org/io/pointer"
	"waywin.org/io/system"
)

const (
	codeA     = 30
	codeB     = 48
	codeShift = 42
)

// script is a native source replaying one step per loop iteration.
type script struct {
	loop  *wm.Loop
	now   time.Time
	steps []func()
}

func (s *script) Dispatch(time.Duration) error {
	if len(s.steps) == 0 {
		s.loop.Exit()
		return nil
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	step()
	return nil
}

func (s *script) Wakeup() {}
func (s *script) Stop()   {}

// wait returns a step advancing the clock by d.
func (s *script) wait(d time.Duration) func() {
	return func() { s.now = s.now.Add(d) }
}

func newScript() *script {
	s := &script{
		loop: wm.NewLoop(slog.New(slog.NewTextHandler(io.Discard, nil))),
		now:  time.Unix(1000, 0),
	}
	s.loop.SetSource(s)
	s.loop.Timers().SetClock(func() time.Time { return s.now })
	return s
}

// run executes the steps and returns the delivered events, excluding
// paints.
func (s *script) run(steps ...func()) []event.WindowEvent {
	s.steps = steps
	var got []event.WindowEvent
	s.loop.Run(func(e event.WindowEvent) {
		if _, ok := e.Event.(system.PaintEvent); !ok {
			got = append(got, e)
		}
	})
	return got
}

type fakeKeymap struct {
	shift     bool
	noRepeat  map[uint32]bool
	destroyed bool
}

var fakeLetters = map[uint32]string{codeA: "a", codeB: "b"}

func (k *fakeKeymap) Lookup(code uint32, down bool) Symbol {
	s, ok := fakeLetters[code]
	if !ok {
		return Symbol{Logical: key.Named(key.NameShift), Unmodified: key.Named(key.NameShift)}
	}
	text := s
	if k.shift {
		text = string(s[0] - 'a' + 'A')
	}
	return Symbol{
		Logical:    key.Char(text),
		Unmodified: key.Char(s),
		Text:       text,
		TextRaw:    text,
	}
}

func (k *fakeKeymap) Repeats(code uint32) bool {
	return !k.noRepeat[code]
}

func (k *fakeKeymap) UpdateModifiers(depressed, latched, locked, group uint32) {
	k.shift = depressed&1 != 0
}

func (k *fakeKeymap) Modifiers() key.Modifiers {
	if k.shift {
		return key.ModShift
	}
	return 0
}

func (k *fakeKeymap) Destroy() {
	k.destroyed = true
}

func scancode(code uint32) key.Physical {
	return key.Physical{Scancode: code}
}

func newKeyboard(s *script) (*Keyboard, *fakeKeymap) {
	k := NewKeyboard(s.loop, scancode)
	km := &fakeKeymap{noRepeat: map[uint32]bool{codeShift: true}}
	k.SetKeymap(km)
	// 33 keys per second is a 30ms interval.
	k.SetRepeat(33, 50)
	return k, km
}

// presses counts the presses of the character key char in evs.
func presses(evs []event.WindowEvent, char string) int {
	n := 0
	for _, e := range evs {
		if ke, ok := e.Event.(key.Event); ok && ke.State == key.Press && ke.Logical == key.Char(char) {
			n++
		}
	}
	return n
}

func TestKeyRepeat(t *testing.T) {
	s := newScript()
	w := s.loop.NewWindow(wm.Config{})
	k, _ := newKeyboard(s)
	steps := []func(){
		func() { k.Enter(w.ID()) },
		func() { k.Key(codeA, true) },
	}
	for range 8 {
		steps = append(steps, s.wait(10*time.Millisecond))
	}
	held := s.run(steps...)
	if n := presses(held, "a"); n < 2 {
		t.Fatalf("got %d presses of a after holding it 80ms, want at least 2", n)
	}
	for _, e := range held {
		if ke, ok := e.Event.(key.Event); ok && ke.State == key.Release {
			t.Errorf("unexpected release %v", ke)
		}
	}
	steps = []func(){
		func() { k.Key(codeA, false) },
	}
	for range 20 {
		steps = append(steps, s.wait(10*time.Millisecond))
	}
	released := s.run(steps...)
	if n := presses(released, "a"); n != 0 {
		t.Errorf("got %d presses after release, want 0", n)
	}
	if k.Repeating() {
		t.Error("key still repeating after release")
	}
}

func TestRepeatCancellation(t *testing.T) {
	s := newScript()
	w := s.loop.NewWindow(wm.Config{})
	k, _ := newKeyboard(s)
	got := s.run(
		func() { k.Enter(w.ID()) },
		func() { k.Key(codeA, true) },
		s.wait(10*time.Millisecond),
		func() { k.Key(codeB, true) },
		s.wait(10*time.Millisecond),
		func() { k.Key(codeA, false) },
		s.wait(100*time.Millisecond),
		s.wait(100*time.Millisecond),
	)
	if n := presses(got, "a"); n != 1 {
		t.Errorf("a pressed %d times, want 1", n)
	}
	if n := presses(got, "b"); n < 2 {
		t.Errorf("b pressed %d times, want repeats", n)
	}
	releasedA := false
	for _, e := range got {
		ke, ok := e.Event.(key.Event)
		if !ok {
			continue
		}
		if ke.State == key.Release && ke.Logical == key.Char("a") {
			releasedA = true
		}
		if releasedA && ke.State == key.Press && ke.Logical == key.Char("a") {
			t.Error("a repeated after its release")
		}
	}
}

func TestRepeatModifierKey(t *testing.T) {
	s := newScript()
	w := s.loop.NewWindow(wm.Config{})
	k, _ := newKeyboard(s)
	got := s.run(
		func() { k.Enter(w.ID()) },
		func() { k.Key(codeA, true) },
		// Pressing a modifier does not stop a repeating key.
		func() { k.Key(codeShift, true) },
		s.wait(60*time.Millisecond),
	)
	if n := presses(got, "a"); n != 2 {
		t.Errorf("a pressed %d times, want 2", n)
	}
}

func TestRepeatStopsOnFocusLoss(t *testing.T) {
	s := newScript()
	w1 := s.loop.NewWindow(wm.Config{})
	w2 := s.loop.NewWindow(wm.Config{})
	k, _ := newKeyboard(s)
	got := s.run(
		func() { k.Enter(w1.ID()) },
		func() { k.Key(codeA, true) },
		func() { k.Enter(w2.ID()) },
		s.wait(time.Second),
	)
	if n := presses(got, "a"); n != 1 {
		t.Errorf("a pressed %d times, want 1", n)
	}
}

func TestRepeatDisabled(t *testing.T) {
	s := newScript()
	w := s.loop.NewWindow(wm.Config{})
	k, _ := newKeyboard(s)
	got := s.run(
		func() { k.Enter(w.ID()) },
		func() { k.Key(codeA, true) },
		func() { k.SetRepeat(0, 0) },
		s.wait(time.Second),
	)
	if n := presses(got, "a"); n != 1 {
		t.Errorf("a pressed %d times, want 1", n)
	}
}

func TestRepeatParametersChange(t *testing.T) {
	s := newScript()
	w := s.loop.NewWindow(wm.Config{})
	k, _ := newKeyboard(s)
	got := s.run(
		func() { k.Enter(w.ID()) },
		func() { k.Key(codeA, true) },
		func() { k.SetRepeat(10, 400) },
		s.wait(time.Second),
	)
	if n := presses(got, "a"); n != 1 {
		t.Errorf("a pressed %d times, want 1", n)
	}
	if k.Repeating() {
		t.Error("still repeating after the repeat parameters changed")
	}
}

func TestKeyboardFocus(t *testing.T) {
	s := newScript()
	w1 := s.loop.NewWindow(wm.Config{})
	w2 := s.loop.NewWindow(wm.Config{})
	k, _ := newKeyboard(s)
	got := s.run(
		func() { k.Enter(w1.ID()) },
		// The compositor forgot to leave w1.
		func() { k.Enter(w2.ID()) },
		// Stale leave.
		func() { k.Leave(w1.ID()) },
		func() { k.Leave(w2.ID()) },
		func() { k.Key(codeA, true) },
	)
	want := []event.WindowEvent{
		{Window: w1.ID(), Event: key.FocusEvent{Focus: true}},
		{Window: w1.ID(), Event: key.FocusEvent{Focus: false}},
		{Window: w2.ID(), Event: key.FocusEvent{Focus: true}},
		{Window: w2.ID(), Event: key.FocusEvent{Focus: false}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	assertExclusiveFocus(t, got)
}

func TestKeyText(t *testing.T) {
	s := newScript()
	w := s.loop.NewWindow(wm.Config{})
	k, _ := newKeyboard(s)
	got := s.run(
		func() { k.Enter(w.ID()) },
		func() { k.Modifiers(1, 0, 0, 0) },
		func() { k.Key(codeA, true) },
		func() { k.Key(codeA, false) },
	)
	want := []event.Event{
		key.FocusEvent{Focus: true},
		key.Event{
			State:      key.Press,
			Physical:   scancode(codeA),
			Logical:    key.Char("A"),
			Unmodified: key.Char("a"),
			Text:       "A",
			TextRaw:    "A",
			Modifiers:  key.ModShift,
		},
		key.Event{
			State:      key.Release,
			Physical:   scancode(codeA),
			Logical:    key.Char("A"),
			Unmodified: key.Char("a"),
			Modifiers:  key.ModShift,
		},
	}
	assertEvents(t, got, want...)
}

func TestKeyWithoutKeymap(t *testing.T) {
	s := newScript()
	w := s.loop.NewWindow(wm.Config{})
	k := NewKeyboard(s.loop, scancode)
	got := s.run(
		func() { k.Enter(w.ID()) },
		func() { k.Key(codeA, true) },
		s.wait(time.Second),
	)
	assertEvents(t, got,
		key.FocusEvent{Focus: true},
		key.Event{State: key.Press, Physical: scancode(codeA), Logical: key.Unknown(0)},
	)
}

func TestKeymapReplace(t *testing.T) {
	s := newScript()
	k, km := newKeyboard(s)
	k.SetKeymap(&fakeKeymap{})
	if !km.destroyed {
		t.Error("replaced keymap not destroyed")
	}
	k.Release()
	if k.Keymap() != nil {
		t.Error("keymap kept after release")
	}
}

func TestKeyboardForget(t *testing.T) {
	s := newScript()
	w := s.loop.NewWindow(wm.Config{})
	k, _ := newKeyboard(s)
	got := s.run(
		func() { k.Enter(w.ID()) },
		func() { k.Key(codeA, true) },
		func() {
			w.Destroy()
			k.Forget(w.ID())
		},
		s.wait(time.Second),
	)
	assertEvents(t, got[:1], key.FocusEvent{Focus: true})
	if presses(got, "a") != 1 || k.Focused() != 0 || k.Repeating() {
		t.Errorf("keyboard state after window destruction: %v", got)
	}
}

func TestPointerFocus(t *testing.T) {
	s := newScript()
	w1 := s.loop.NewWindow(wm.Config{})
	w2 := s.loop.NewWindow(wm.Config{})
	p := NewPointer(s.loop)
	got := s.run(
		// Motion without focus is dropped.
		func() { p.Motion(1, 1) },
		func() { p.Enter(w1.ID(), 10, 20) },
		func() { p.Button(pointer.ButtonLeft, 0x110, true) },
		func() { p.Enter(w2.ID(), 5, 6) },
		func() { p.Leave(w1.ID()) },
		func() { p.Motion(7, 8) },
		func() { p.Leave(w2.ID()) },
		func() { p.Button(pointer.ButtonLeft, 0x110, false) },
	)
	want := []event.WindowEvent{
		{Window: w1.ID(), Event: pointer.EnterEvent{}},
		{Window: w1.ID(), Event: pointer.MoveEvent{X: 10, Y: 20}},
		{Window: w1.ID(), Event: pointer.ButtonEvent{Down: true, Button: pointer.ButtonLeft, Code: 0x110}},
		{Window: w1.ID(), Event: pointer.LeaveEvent{}},
		{Window: w2.ID(), Event: pointer.EnterEvent{}},
		{Window: w2.ID(), Event: pointer.MoveEvent{X: 5, Y: 6}},
		{Window: w2.ID(), Event: pointer.MoveEvent{X: 7, Y: 8}},
		{Window: w2.ID(), Event: pointer.LeaveEvent{}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	assertExclusiveFocus(t, got)
}

func TestPointerScrollFrame(t *testing.T) {
	s := newScript()
	w := s.loop.NewWindow(wm.Config{})
	p := NewPointer(s.loop)
	p.SetFramed(true)
	got := s.run(
		func() { p.Enter(w.ID(), 0, 0) },
		func() {
			p.AxisSource(pointer.SourceFinger)
			p.Axis(pointer.Vertical, 3)
			p.Axis(pointer.Vertical, 2)
			p.Axis(pointer.Horizontal, -1)
			p.Frame()
		},
		func() {
			p.AxisSource(pointer.SourceWheel)
			p.Axis(pointer.Vertical, 15)
			p.AxisSteps(pointer.Vertical, 1)
			p.Frame()
		},
		// An empty frame delivers nothing.
		func() { p.Frame() },
	)
	assertEvents(t, got,
		pointer.EnterEvent{},
		pointer.MoveEvent{},
		pointer.ScrollEvent{Axis: pointer.Vertical, Value: 5, Unit: pointer.ScrollPixels, Source: pointer.SourceFinger},
		pointer.ScrollEvent{Axis: pointer.Horizontal, Value: -1, Unit: pointer.ScrollPixels, Source: pointer.SourceFinger},
		pointer.ScrollEvent{Axis: pointer.Vertical, Value: 1, Unit: pointer.ScrollSteps, Source: pointer.SourceWheel},
	)
}

func TestPointerScrollUnframed(t *testing.T) {
	s := newScript()
	w := s.loop.NewWindow(wm.Config{})
	p := NewPointer(s.loop)
	got := s.run(
		func() { p.Enter(w.ID(), 0, 0) },
		func() { p.Axis(pointer.Vertical, 10) },
		func() { p.Scroll(pointer.Horizontal, 0.5, pointer.ScrollSteps, pointer.SourceWheel) },
	)
	assertEvents(t, got,
		pointer.EnterEvent{},
		pointer.MoveEvent{},
		pointer.ScrollEvent{Axis: pointer.Vertical, Value: 10, Unit: pointer.ScrollPixels},
		pointer.ScrollEvent{Axis: pointer.Horizontal, Value: 0.5, Unit: pointer.ScrollSteps, Source: pointer.SourceWheel},
	)
}

func TestPointerRelative(t *testing.T) {
	s := newScript()
	p := NewPointer(s.loop)
	got := s.run(
		func() { p.Relative(1, 2, 3, 4) },
	)
	want := []event.WindowEvent{
		{Window: 0, Event: pointer.RelativeEvent{DX: 1, DY: 2, UnaccelDX: 3, UnaccelDY: 4}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func assertEvents(t *testing.T, got []event.WindowEvent, want ...event.Event) {
	t.Helper()
	var evs []event.Event
	for _, e := range got {
		evs = append(evs, e.Event)
	}
	if !reflect.DeepEqual(evs, want) {
		t.Errorf("got events %v, want %v", evs, want)
	}
}

// assertExclusiveFocus checks that no window gains keyboard or pointer
// focus while another window holds it.
func assertExclusiveFocus(t *testing.T, evs []event.WindowEvent) {
	t.Helper()
	var keyFocus, ptrFocus event.WindowID
	for _, e := range evs {
		switch ev := e.Event.(type) {
		case key.FocusEvent:
			if ev.Focus {
				if keyFocus != 0 {
					t.Errorf("%v gained keyboard focus held by %v", e.Window, keyFocus)
				}
				keyFocus = e.Window
			} else {
				if keyFocus != e.Window {
					t.Errorf("%v lost keyboard focus held by %v", e.Window, keyFocus)
				}
				keyFocus = 0
			}
		case pointer.EnterEvent:
			if ptrFocus != 0 {
				t.Errorf("%v gained pointer focus held by %v", e.Window, ptrFocus)
			}
			ptrFocus = e.Window
		case pointer.LeaveEvent:
			if ptrFocus != e.Window {
				t.Errorf("%v lost pointer focus held by %v", e.Window, ptrFocus)
			}
			ptrFocus = 0
		}
	}
}
