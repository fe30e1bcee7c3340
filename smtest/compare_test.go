package smtest_test

import (
	"math/rand"
	"testing"

	sm "github.com/db47h/smlogic"
	"github.com/db47h/smlogic/smtest"
)

func TestBits(t *testing.T) {
	c := sm.New()
	a := c.AddInput(sm.Point{}, true)
	b := c.AddInput(sm.Point{X: 100}, false)
	if got := smtest.Bits(c, a, b, 42); got != "10?" {
		t.Fatalf("Bits = %q, expected %q", got, "10?")
	}
}

func TestShuffle(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	c := smtest.RandomCircuit(rng, 20)
	s := smtest.Shuffle(c, rng)
	if s.Len() != c.Len() {
		t.Fatalf("Len = %d, expected %d", s.Len(), c.Len())
	}
	for _, n := range c.Nodes() {
		m := s.Node(n.ID())
		if m == nil {
			t.Fatalf("handle %d lost", n.ID())
		}
		if m.Tag() != n.Tag() || len(m.Inputs()) != len(n.Inputs()) {
			t.Fatalf("node %d changed: %s/%d vs %s/%d", n.ID(), m.Tag(), len(m.Inputs()), n.Tag(), len(n.Inputs()))
		}
	}
}

func TestCompareOrders(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5; i++ {
		smtest.CompareOrders(t, smtest.RandomCircuit(rng, 30), 40, 4)
	}
}

func TestDiff(t *testing.T) {
	c := sm.New()
	in := c.AddInput(sm.Point{X: 10, Y: 10}, true)
	g := c.AddGate(sm.OR, sm.Point{X: 100, Y: 10})
	c.Connect(in, g)

	cc := c.Clone()
	if d := smtest.Diff(c, cc); d != "" {
		t.Fatalf("clone differs:\n%s", d)
	}
	cc.Invert(g)
	if d := smtest.Diff(c, cc); d == "" {
		t.Fatal("expected a difference after Invert")
	}
}
