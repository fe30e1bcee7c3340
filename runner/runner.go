// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package runner hosts a circuit simulation: it ticks the circuit at a fixed
// interval while running and serializes every access to it.
//
package runner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/db47h/smlogic"
	"github.com/db47h/smlogic/internal/metrics"
	"github.com/db47h/smlogic/store"
	"github.com/pkg/errors"
)

// DefaultInterval is the default tick period in continuous mode.
const DefaultInterval = 250 * time.Millisecond

// Option configures a Runner.
type Option func(*Runner)

// WithInterval sets the tick period.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.interval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics sets the metrics collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithTickHook sets a function called after every tick, with the lock held.
func WithTickHook(fn func(c *smlogic.Circuit)) Option {
	return func(r *Runner) { r.onTick = fn }
}

// A Runner owns a circuit and drives it.
//
// All methods are safe for concurrent use. The circuit must only be
// accessed through Do once handed to a Runner.
//
type Runner struct {
	mu       sync.Mutex
	c        *smlogic.Circuit
	interval time.Duration
	logger   *slog.Logger
	metrics  *metrics.Metrics
	onTick   func(c *smlogic.Circuit)
}

// New returns a stopped runner for c. A nil circuit is replaced by an empty
// one.
//
func New(c *smlogic.Circuit, opts ...Option) *Runner {
	if c == nil {
		c = smlogic.New()
	}
	r := &Runner{
		c:        c,
		interval: DefaultInterval,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.metrics.ObserveCircuit(c)
	return r
}

// Interval returns the tick period.
func (r *Runner) Interval() time.Duration { return r.interval }

// Do calls fn with exclusive access to the circuit.
//
func (r *Runner) Do(fn func(c *smlogic.Circuit)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.c)
}

func (r *Runner) step(n int) {
	start := time.Now()
	for i := 0; i < n; i++ {
		r.c.Step()
		if r.onTick != nil {
			r.onTick(r.c)
		}
	}
	r.metrics.ObserveTicks(n, time.Since(start), r.c)
}

// Step runs n ticks right away, whether the runner is running or not, and
// returns the tick counter.
//
func (r *Runner) Step(n int) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.step(n)
	return r.c.Ticks()
}

// Ticks returns the circuit's tick counter.
func (r *Runner) Ticks() uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.c.Ticks()
}

// Start sets the running flag: Run ticks the circuit on every interval.
func (r *Runner) Start() { r.setRunning(true) }

// Stop clears the running flag.
func (r *Runner) Stop() { r.setRunning(false) }

func (r *Runner) setRunning(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.c.Running() != on {
		r.logger.Debug("running flag changed", "running", on, "tick", r.c.Ticks())
	}
	r.c.SetRunning(on)
}

// Running reports whether the circuit is running.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.c.Running()
}

// Reset stops the circuit and resets it. A full reset also clears timer
// registers and zeroes the tick counter.
//
func (r *Runner) Reset(full bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.c.SetRunning(false)
	r.c.Reset(full)
	if full {
		r.c.ResetTicks()
	}
	r.metrics.ObserveCircuit(r.c)
}

// Replace swaps the hosted circuit for c, which starts stopped.
//
func (r *Runner) Replace(c *smlogic.Circuit) {
	c.SetRunning(false)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.c = c
	r.metrics.ObserveCircuit(c)
	r.logger.Info("circuit replaced", "nodes", c.Len())
}

// Load replaces the hosted circuit with the one saved as name in s. On error
// the current circuit is kept.
//
func (r *Runner) Load(ctx context.Context, s store.Store, name string) error {
	c, err := store.LoadCircuit(ctx, s, name)
	r.metrics.ObserveLoad(err)
	if err != nil {
		r.logger.Warn("circuit load failed", "name", name, "error", err)
		return err
	}
	r.Replace(c)
	return nil
}

// Save saves the hosted circuit as name in s.
//
func (r *Runner) Save(ctx context.Context, s store.Store, name string) error {
	var (
		data []byte
		err  error
	)
	r.Do(func(c *smlogic.Circuit) { data, err = c.Serialize() })
	if err != nil {
		return errors.Wrap(err, "serialize")
	}
	if err = s.Save(ctx, name, data); err != nil {
		return err
	}
	r.logger.Info("circuit saved", "name", name)
	return nil
}

// Run ticks the circuit every interval while it is running, until ctx is
// done. It returns ctx.Err().
//
func (r *Runner) Run(ctx context.Context) error {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	r.logger.Debug("run loop started", "interval", r.interval)
	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("run loop stopped", "error", ctx.Err())
			return ctx.Err()
		case <-t.C:
			r.mu.Lock()
			if r.c.Running() {
				r.step(1)
			}
			r.mu.Unlock()
		}
	}
}
