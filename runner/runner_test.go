package runner_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/db47h/smlogic"
	"github.com/db47h/smlogic/internal/metrics"
	"github.com/db47h/smlogic/runner"
	"github.com/db47h/smlogic/store"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a NOR and a timer feeding each other
func clock(t *testing.T) *smlogic.Circuit {
	t.Helper()
	c, err := smlogic.Deserialize([]byte(`[
		{"kind": "nor", "x": 0, "y": 0, "inputs": [1]},
		{"kind": "timer", "x": 100, "y": 0, "inputs": [0]}
	]`))
	require.NoError(t, err)
	return c
}

func TestStep(t *testing.T) {
	var hooked int
	r := runner.New(clock(t), runner.WithTickHook(func(*smlogic.Circuit) { hooked++ }))
	assert.False(t, r.Running())
	assert.Equal(t, uint(3), r.Step(3))
	assert.Equal(t, 3, hooked)
}

func TestRun(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	r := runner.New(clock(t), runner.WithInterval(time.Millisecond), runner.WithMetrics(m))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- r.Run(ctx) }()

	// not running: no ticks
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, uint(0), r.Ticks())

	r.Start()
	require.Eventually(t, func() bool { return r.Ticks() >= 5 }, time.Second, time.Millisecond)
	r.Stop()
	n := r.Ticks()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, n, r.Ticks())
	assert.Equal(t, float64(n), testutil.ToFloat64(m.Ticks))

	cancel()
	assert.Equal(t, context.Canceled, <-done)
}

func TestConcurrentAccess(t *testing.T) {
	r := runner.New(nil, runner.WithInterval(time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)
	r.Start()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r.Do(func(c *smlogic.Circuit) {
					h := c.AddGate(smlogic.Gate(j%6), smlogic.Point{X: float64(i * 100), Y: float64(j * 100)})
					if j%2 == 1 {
						c.Connect(h-1, h)
					}
				})
			}
		}(i)
	}
	wg.Wait()
	r.Do(func(c *smlogic.Circuit) { assert.Equal(t, 200, c.Len()) })
}

func TestReset(t *testing.T) {
	r := runner.New(clock(t))
	r.Start()
	r.Step(15)
	r.Do(func(c *smlogic.Circuit) {
		assert.NotEqual(t, [smlogic.TimerStages]bool{}, c.Nodes()[1].Stages())
	})
	r.Reset(false)
	assert.False(t, r.Running())
	assert.Equal(t, uint(15), r.Ticks())
	r.Reset(true)
	assert.Equal(t, uint(0), r.Ticks())
	r.Do(func(c *smlogic.Circuit) {
		for _, n := range c.Nodes() {
			if n.Kind() == smlogic.KindTimer {
				assert.Equal(t, [smlogic.TimerStages]bool{}, n.Stages())
			}
		}
	})
}

func TestLoadSave(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemory()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	r := runner.New(clock(t), runner.WithMetrics(m))

	require.NoError(t, r.Save(ctx, s, "clock"))
	r.Start()

	other := runner.New(nil, runner.WithMetrics(m))
	require.NoError(t, other.Load(ctx, s, "clock"))
	other.Do(func(c *smlogic.Circuit) { assert.Equal(t, 2, c.Len()) })
	assert.False(t, other.Running())

	err := other.Load(ctx, s, "missing")
	assert.Equal(t, store.ErrNotFound, errors.Cause(err))
	other.Do(func(c *smlogic.Circuit) { assert.Equal(t, 2, c.Len()) })
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Loads.WithLabelValues(metrics.LoadOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Loads.WithLabelValues(metrics.LoadNotFound)))
}
