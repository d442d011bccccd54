// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

// Config is the demo configuration file.
type Config struct {
	AppID     string         `yaml:"app_id"`
	LogLevel  string         `yaml:"log_level"`
	Decorated *bool          `yaml:"decorated"`
	Animate   time.Duration  `yaml:"animate"`
	Windows   []WindowConfig `yaml:"windows"`
}

// WindowConfig describes one window.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Color      string `yaml:"color"`
	Fullscreen bool   `yaml:"fullscreen"`
}

func defaultConfig() *Config {
	return &Config{
		AppID:    "org.waywin.demo",
		LogLevel: "info",
		Windows: []WindowConfig{
			{Title: "Hello", Width: 640, Height: 480, Color: "cornflowerblue"},
		},
	}
}

// loadConfig reads the configuration at path. An empty path returns
// the default configuration.
func loadConfig(path string) (*Config, error) {
	if path == "" {
		return defaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (*Config, error) {
	cfg := defaultConfig()
	cfg.Windows = nil
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(cfg.Windows) == 0 {
		cfg.Windows = defaultConfig().Windows
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := c.level(); err != nil {
		return err
	}
	if c.Animate < 0 {
		return fmt.Errorf("animate: negative interval %v", c.Animate)
	}
	for i, w := range c.Windows {
		if w.Width < 0 || w.Height < 0 {
			return fmt.Errorf("windows[%d]: negative size %dx%d", i, w.Width, w.Height)
		}
		if _, err := w.color(); err != nil {
			return fmt.Errorf("windows[%d]: %w", i, err)
		}
	}
	return nil
}

func (c *Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

func (c *Config) decorated() bool {
	return c.Decorated == nil || *c.Decorated
}

// color returns the named SVG color of the window, black if unset.
func (w WindowConfig) color() (color.RGBA, error) {
	if w.Color == "" {
		return colornames.Black, nil
	}
	col, ok := colornames.Map[strings.ToLower(w.Color)]
	if !ok {
		return color.RGBA{}, fmt.Errorf("unknown color %q", w.Color)
	}
	return col, nil
}
