// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/image/colornames"
)

func TestParseConfig(t *testing.T) {
	cfg, err := parseConfig([]byte(`
app_id: org.example.demo
log_level: debug
decorated: false
animate: 50ms
windows:
  - title: One
    width: 320
    height: 200
    color: Tomato
  - title: Two
    fullscreen: true
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AppID != "org.example.demo" || cfg.decorated() || cfg.Animate != 50*time.Millisecond {
		t.Errorf("config = %+v", cfg)
	}
	if l, _ := cfg.level(); l != slog.LevelDebug {
		t.Errorf("level = %v", l)
	}
	if len(cfg.Windows) != 2 {
		t.Fatalf("got %d windows", len(cfg.Windows))
	}
	if c, _ := cfg.Windows[0].color(); c != colornames.Tomato {
		t.Errorf("color = %v", c)
	}
	if c, _ := cfg.Windows[1].color(); c != colornames.Black {
		t.Errorf("default color = %v", c)
	}
	if !cfg.Windows[1].Fullscreen {
		t.Error("fullscreen not set")
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.decorated() || cfg.AppID == "" || len(cfg.Windows) != 1 {
		t.Errorf("config = %+v", cfg)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		yaml, err string
	}{
		{"log_level: loud", "log_level"},
		{"animate: -1s", "negative interval"},
		{"windows: [{color: nocolor}]", "unknown color"},
		{"windows: [{width: -1}]", "negative size"},
		{"unknown: 1", "failed to parse"},
	}
	for _, test := range tests {
		_, err := parseConfig([]byte(test.yaml))
		if err == nil || !strings.Contains(err.Error(), test.err) {
			t.Errorf("parseConfig(%q) = %v, want error containing %q", test.yaml, err, test.err)
		}
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	if err := os.WriteFile(path, []byte("windows: [{title: File, color: teal}]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Windows[0].Title != "File" {
		t.Errorf("windows = %+v", cfg.Windows)
	}
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("loading a missing file succeeded")
	}
}

func TestPulse(t *testing.T) {
	col := color.RGBA{R: 200, G: 100, B: 50, A: 255}
	if got := pulse(col, time.Second); got != col {
		t.Errorf("pulse at the peak = %v, want %v", got, col)
	}
	if got := pulse(col, 0); got.R != 100 || got.A != 255 {
		t.Errorf("pulse at the trough = %v", got)
	}
}

func TestAnimateStop(t *testing.T) {
	var n atomic.Int32
	stop := animate(time.Millisecond, func() { n.Add(1) })
	for n.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	stop()
	after := n.Load()
	time.Sleep(20 * time.Millisecond)
	if got := n.Load(); got != after {
		t.Errorf("redraw called %d times after stop", got-after)
	}
}
