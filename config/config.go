// Package config reads analysis run settings from gcfg (INI-style) files:
//
//	[analysis]
//	threshold = 0.05
//	collapse = true
//	workers = 4
//
//	[log]
//	level = info
//	format = text
//
// Missing variables keep the values from Default.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"runtime"
	"strings"

	"gopkg.in/gcfg.v1"
)

// ErrInvalidConfig indicates a configuration that parsed but failed
// validation.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Analysis holds the [analysis] section.
type Analysis struct {
	// Threshold is the collapse energy threshold, in GeV.
	Threshold float64
	// Collapse enables the collapse pass after graph construction.
	Collapse bool
	// Workers bounds the number of events processed concurrently.
	Workers int
}

// Log holds the [log] section.
type Log struct {
	Level  string
	Format string
}

// Config is the whole file.
type Config struct {
	Analysis Analysis
	Log      Log
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Analysis: Analysis{
			Threshold: 0,
			Collapse:  false,
			Workers:   runtime.GOMAXPROCS(0),
		},
		Log: Log{Level: "info", Format: "text"},
	}
}

// Load reads and validates the file at path on top of Default.
func Load(path string) (*Config, error) {
	c := Default()
	if err := gcfg.ReadFileInto(c, path); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Parse reads and validates configuration text on top of Default.
func Parse(text string) (*Config, error) {
	c := Default()
	if err := gcfg.ReadStringInto(c, text); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every field and reports the first violation.
func (c *Config) Validate() error {
	t := c.Analysis.Threshold
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		return fmt.Errorf("%w: analysis.threshold must be a finite, non-negative number, got %v",
			ErrInvalidConfig, t)
	}
	if c.Analysis.Workers <= 0 {
		return fmt.Errorf("%w: analysis.workers must be positive, got %d",
			ErrInvalidConfig, c.Analysis.Workers)
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json, got %q",
			ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

func (l Log) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	return lvl, nil
}

// NewLogger builds a slog.Logger writing to w according to the [log]
// section. Call Validate first; invalid values fall back to info/text.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	lvl, err := c.Log.level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(c.Log.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
