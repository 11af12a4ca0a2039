// Package sim provides the real-time driver that turns wall-clock time into
// weekly market ticks.
package sim

import (
	"log/slog"
	"time"
)

// Clock drives the simulation forward, one market week per interval.
type Clock struct {
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Wall-clock time per market week
	Running  bool

	OnWeek func() // Called once per week tick

	// Autosave hook, called every AutosaveEvery weeks (0 = disabled).
	AutosaveEvery int
	OnAutosave    func()

	weeks int
}

// NewClock creates a clock with default settings.
func NewClock() *Clock {
	return &Clock{
		Speed:    1.0,
		Interval: 5 * time.Second,
	}
}

// Run starts the tick loop. Blocks until Stop is called.
func (c *Clock) Run() {
	c.Running = true
	slog.Info("simulation clock started", "interval", c.Interval, "speed", c.Speed)

	for c.Running {
		if c.Speed <= 0 {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()
		c.step()

		elapsed := time.Since(start)
		target := time.Duration(float64(c.Interval) / c.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation clock stopped", "weeks", c.weeks)
}

// Stop halts the tick loop after the current tick completes.
func (c *Clock) Stop() {
	c.Running = false
}

func (c *Clock) step() {
	c.weeks++

	if c.OnWeek != nil {
		c.OnWeek()
	}

	if c.AutosaveEvery > 0 && c.weeks%c.AutosaveEvery == 0 && c.OnAutosave != nil {
		c.OnAutosave()
	}
}
