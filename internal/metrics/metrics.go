// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package metrics defines the Prometheus collectors of the simulation host.
//
// All methods are safe to call on a nil *Metrics, which records nothing.
//
package metrics

import (
	"time"

	"github.com/db47h/smlogic"
	"github.com/db47h/smlogic/store"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "smlogic"

// load results
const (
	LoadOK        = "ok"
	LoadMalformed = "malformed"
	LoadNotFound  = "not_found"
	LoadError     = "error"
)

// Metrics groups the simulation collectors.
type Metrics struct {
	Ticks        prometheus.Counter
	TickDuration prometheus.Histogram
	Nodes        prometheus.Gauge
	Active       prometheus.Gauge
	Loads        *prometheus.CounterVec
}

// New creates the collectors and registers them with reg, unless reg is
// nil.
//
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Total number of simulation ticks.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Time spent computing a tick.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		Nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "nodes",
			Help:      "Number of nodes in the circuit.",
		}),
		Active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_nodes",
			Help:      "Number of nodes currently on.",
		}),
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Circuit loads by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.Ticks, m.TickDuration, m.Nodes, m.Active, m.Loads)
	}
	return m
}

// ObserveTicks records n ticks that took d in total and refreshes the
// circuit gauges.
//
func (m *Metrics) ObserveTicks(n int, d time.Duration, c *smlogic.Circuit) {
	if m == nil || n <= 0 {
		return
	}
	m.Ticks.Add(float64(n))
	m.TickDuration.Observe(d.Seconds() / float64(n))
	m.ObserveCircuit(c)
}

// ObserveCircuit refreshes the node count and active node gauges.
func (m *Metrics) ObserveCircuit(c *smlogic.Circuit) {
	if m == nil {
		return
	}
	active := 0
	for _, n := range c.Nodes() {
		if n.State() {
			active++
		}
	}
	m.Nodes.Set(float64(c.Len()))
	m.Active.Set(float64(active))
}

// ObserveLoad counts a circuit load by the cause of err.
func (m *Metrics) ObserveLoad(err error) {
	if m == nil {
		return
	}
	m.Loads.WithLabelValues(LoadResult(err)).Inc()
}

// LoadResult classifies the outcome of a load.
func LoadResult(err error) string {
	switch errors.Cause(err) {
	case nil:
		return LoadOK
	case smlogic.ErrMalformed:
		return LoadMalformed
	case store.ErrNotFound:
		return LoadNotFound
	}
	return LoadError
}
