package metrics_test

import (
	"testing"
	"time"

	"github.com/db47h/smlogic"
	"github.com/db47h/smlogic/internal/metrics"
	"github.com/db47h/smlogic/store"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	c := smlogic.New()
	in := c.AddInput(smlogic.Point{}, true)
	g := c.AddGate(smlogic.NOR, smlogic.Point{X: 100})
	c.AddGate(smlogic.AND, smlogic.Point{X: 200})
	c.Connect(in, g)
	c.StepN(2)

	m.ObserveTicks(2, time.Millisecond, c)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Ticks))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Nodes))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Active))

	m.ObserveLoad(nil)
	m.ObserveLoad(errors.Wrap(smlogic.ErrMalformed, "record 0"))
	m.ObserveLoad(errors.Wrap(store.ErrNotFound, "x"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Loads.WithLabelValues(metrics.LoadOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Loads.WithLabelValues(metrics.LoadMalformed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Loads.WithLabelValues(metrics.LoadNotFound)))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestNil(t *testing.T) {
	var m *metrics.Metrics
	m.ObserveTicks(1, time.Second, smlogic.New())
	m.ObserveLoad(nil)
}

func TestLoadResult(t *testing.T) {
	assert.Equal(t, metrics.LoadError, metrics.LoadResult(errors.New("disk on fire")))
}
