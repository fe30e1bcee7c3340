// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package smtest provides utility functions for testing circuits.
//
package smtest

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/smlogic"
	"github.com/google/go-cmp/cmp"
)

// Bits returns the current state of the given nodes as a string of '0' and
// '1'. Unknown handles render as '?'.
//
func Bits(c *smlogic.Circuit, hs ...smlogic.Handle) string {
	var b strings.Builder
	for _, h := range hs {
		n := c.Node(h)
		switch {
		case n == nil:
			b.WriteByte('?')
		case n.State():
			b.WriteByte('1')
		default:
			b.WriteByte('0')
		}
	}
	return b.String()
}

// Snapshot returns the current state of every node in c, keyed by handle.
//
func Snapshot(c *smlogic.Circuit) map[smlogic.Handle]bool {
	m := make(map[smlogic.Handle]bool, c.Len())
	for _, n := range c.Nodes() {
		m[n.ID()] = n.State()
	}
	return m
}

// Trace steps c the given number of ticks and returns a snapshot taken after
// each tick.
//
func Trace(c *smlogic.Circuit, ticks int) []map[smlogic.Handle]bool {
	tr := make([]map[smlogic.Handle]bool, 0, ticks)
	for i := 0; i < ticks; i++ {
		c.Step()
		tr = append(tr, Snapshot(c))
	}
	return tr
}

// Shuffle returns a clone of c whose owned order is a random permutation of
// the original one. Handles are preserved.
//
func Shuffle(c *smlogic.Circuit, rng *rand.Rand) *smlogic.Circuit {
	cc := c.Clone()
	nodes := cc.Nodes()
	hs := make([]smlogic.Handle, len(nodes))
	for i, j := range rng.Perm(len(nodes)) {
		hs[i] = nodes[j].ID()
	}
	if err := cc.Reorder(hs); err != nil {
		panic(err)
	}
	return cc
}

// CompareOrders runs perms randomly reordered clones of c for the given
// number of ticks and checks that every tick yields the same states as the
// original order. c itself is left untouched.
//
func CompareOrders(t *testing.T, c *smlogic.Circuit, ticks, perms int) {
	t.Helper()

	seed := time.Now().UnixNano()
	rng := rand.New(rand.NewSource(seed))

	want := Trace(c.Clone(), ticks)
	for p := 0; p < perms; p++ {
		got := Trace(Shuffle(c, rng), ticks)
		for i := range want {
			if diff := cmp.Diff(want[i], got[i]); diff != "" {
				t.Fatalf("seed %d, permutation %d, tick %d: states differ (-want +got):\n%s", seed, p, i+1, diff)
			}
		}
	}
}

// RandomCircuit builds a random circuit of n nodes with random kinds,
// baselines and edges. Feedback loops are likely.
//
func RandomCircuit(rng *rand.Rand, n int) *smlogic.Circuit {
	c := smlogic.New()
	for i := 0; i < n; i++ {
		p := smlogic.Point{X: float64(rng.Intn(20) * 80), Y: float64(rng.Intn(20) * 80)}
		switch k := rng.Intn(8); {
		case k == 0:
			c.AddInput(p, rng.Intn(2) == 0)
		case k == 1:
			c.AddTimer(p)
		default:
			c.AddGate(smlogic.Gate(rng.Intn(6)), p)
		}
	}
	nodes := c.Nodes()
	for i := 0; i < n*2; i++ {
		s, t := nodes[rng.Intn(n)].ID(), nodes[rng.Intn(n)].ID()
		if !c.Connected(s, t) {
			c.Connect(s, t)
		}
	}
	return c
}
