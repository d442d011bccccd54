// SPDX-License-Identifier: Unlicense OR MIT

// Command waywin-demo opens the windows listed in a YAML file and
// clears each to its color. It exits when any window is closed.
//
// Keys: F toggles fullscreen, L locks the pointer, C confines it and
// Escape releases it.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"os"
	"time"

	"waywin.org/app"
	"waywin.org/io/event"
	"waywin.org/io/key"
	"waywin.org/io/pointer"
	"waywin.org/io/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "waywin-demo: %v\n", err)
		os.Exit(1)
	}
}

type demoWindow struct {
	w     *app.Window
	color color.RGBA
	img   *image.RGBA
}

func run() error {
	configPath := flag.String("config", "", "YAML configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	level, _ := cfg.level()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	s, err := app.Init(cfg.AppID, app.Logger(log), app.Decorated(cfg.decorated()))
	if err != nil {
		var cerr *app.CapabilityError
		if errors.As(err, &cerr) {
			return fmt.Errorf("the display server lacks %s", cerr.Name)
		}
		return err
	}
	defer s.Close()
	log.Debug("session", "display", fmt.Sprintf("%#v", s.DisplayHandle()))

	windows := make(map[event.WindowID]*demoWindow)
	for _, wc := range cfg.Windows {
		var opts []app.Option
		if wc.Width > 0 && wc.Height > 0 {
			opts = append(opts, app.Size(wc.Width, wc.Height))
		}
		w, err := s.NewWindow(wc.Title, opts...)
		if err != nil {
			return err
		}
		if wc.Fullscreen {
			w.SetFullscreen(true)
		}
		col, _ := wc.color()
		windows[w.ID()] = &demoWindow{w: w, color: col}
		log.Info("window", "id", w.ID(), "title", wc.Title, "handle", fmt.Sprintf("%#v", w.Handle()))
	}

	start := time.Now()
	if cfg.Animate > 0 {
		stop := animate(cfg.Animate, func() {
			for _, dw := range windows {
				dw.w.RequestRedraw()
			}
		})
		// The ticker stops before the session closes.
		defer stop()
	}

	s.Run(func(e event.WindowEvent) {
		dw := windows[e.Window]
		switch ev := e.Event.(type) {
		case system.PaintEvent:
			col := dw.color
			if cfg.Animate > 0 {
				col = pulse(col, time.Since(start))
			}
			dw.paint(log, col)
		case system.CloseEvent:
			log.Info("close", "window", e.Window)
			s.Exit()
		case system.ResizeEvent:
			log.Debug("resize", "window", e.Window, "size", ev.Size, "physical", ev.PhysicalSize)
		case system.ScaleEvent:
			log.Debug("scale", "window", e.Window, "scale", ev.Scale)
		case key.Event:
			log.Debug("key", "window", e.Window, "event", ev)
			if ev.State == key.Press {
				dw.command(log, ev)
			}
		case pointer.RelativeEvent:
			// Too frequent to log.
		default:
			log.Debug("event", "window", e.Window, "event", ev)
		}
	})
	return s.Err()
}

// animate calls redraw every interval until stop is called. stop
// returns after the last call of redraw.
func animate(interval time.Duration, redraw func()) (stop func()) {
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				redraw()
			}
		}
	}()
	return func() {
		close(done)
		<-stopped
	}
}

func (dw *demoWindow) paint(log *slog.Logger, col color.RGBA) {
	size := dw.w.PhysicalSize()
	if dw.img == nil || dw.img.Rect.Size() != size {
		dw.img = image.NewRGBA(image.Rectangle{Max: size})
	}
	draw.Draw(dw.img, dw.img.Rect, image.NewUniform(col), image.Point{}, draw.Src)
	if err := dw.w.Present(dw.img); err != nil {
		log.Warn("present failed", "window", dw.w.ID(), "error", err)
	}
}

func (dw *demoWindow) command(log *slog.Logger, e key.Event) {
	var err error
	switch {
	case e.Logical.Name == key.NameEscape:
		dw.w.UnlockPointer()
		dw.w.UnconfinePointer()
	case e.Unmodified.Char == "f":
		dw.w.SetFullscreen(!dw.w.Fullscreen())
	case e.Unmodified.Char == "l":
		err = dw.w.LockPointer()
	case e.Unmodified.Char == "c":
		err = dw.w.ConfinePointer()
	}
	if err != nil {
		log.Warn("pointer constraint", "window", dw.w.ID(), "error", err)
	}
}

// pulse modulates the brightness of col with a period of two seconds.
func pulse(col color.RGBA, t time.Duration) color.RGBA {
	phase := float64(t%(2*time.Second)) / float64(time.Second)
	if phase > 1 {
		phase = 2 - phase
	}
	f := 0.5 + phase/2
	return color.RGBA{
		R: uint8(float64(col.R) * f),
		G: uint8(float64(col.G) * f),
		B: uint8(float64(col.B) * f),
		A: col.A,
	}
}
