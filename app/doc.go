// SPDX-License-Identifier: Unlicense OR MIT

/*
Package app provides native windows and their input events.

# Sessions

A program opens a Session with Init, creates windows with
Session.NewWindow and then calls Session.Run with a handler for the
events of all its windows:

	s, err := app.Init("org.example.hello")
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	w, err := s.NewWindow("Hello")
	if err != nil {
		log.Fatal(err)
	}
	s.Run(func(e event.WindowEvent) {
		switch e.Event.(type) {
		case system.PaintEvent:
			// Draw w at w.PhysicalSize.
		case system.CloseEvent:
			s.Exit()
		}
	})

Only one Session may be open at a time.

# Threads

Init locks the calling goroutine to its OS thread. NewWindow, Run and
the methods of Window must be called from that goroutine, except
Window.RequestRedraw and Session.Exit, which are safe for concurrent
use.

# Rendering

The package does not draw. Renderers attach to the handles returned by
Session.DisplayHandle and Window.Handle. Window.Present copies an image
to the window for programs without a renderer.
*/
package app
