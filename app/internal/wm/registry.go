// SPDX-License-Identifier: Unlicense OR MIT

package wm

import (
	"weak"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"waywin.org/io/event"
)

// Registry maps window identifiers to live windows. It holds weak
// references only: a window is owned by its platform window and
// disappears from the registry when that owner is collected or
// destroyed.
type Registry struct {
	windows map[event.WindowID]weak.Pointer[Window]
}

func (r *Registry) add(w *Window) {
	if r.windows == nil {
		r.windows = make(map[event.WindowID]weak.Pointer[Window])
	}
	r.windows[w.id] = weak.Make(w)
}

func (r *Registry) remove(id event.WindowID) {
	delete(r.windows, id)
}

// Lookup returns the live window with the given id, or nil.
func (r *Registry) Lookup(id event.WindowID) *Window {
	p, ok := r.windows[id]
	if !ok {
		return nil
	}
	w := p.Value()
	if w == nil || w.dead {
		delete(r.windows, id)
		return nil
	}
	return w
}

// Alive reports whether the window with the given id is live.
func (r *Registry) Alive(id event.WindowID) bool {
	return r.Lookup(id) != nil
}

// Len returns the number of registered windows, including those not
// yet pruned.
func (r *Registry) Len() int {
	return len(r.windows)
}

// sweep prunes dead windows and calls f for every live window in
// creation order.
func (r *Registry) sweep(f func(w *Window)) {
	ids := maps.Keys(r.windows)
	slices.Sort(ids)
	for _, id := range ids {
		if w := r.Lookup(id); w != nil {
			f(w)
		}
	}
}
