package smlogic_test

import (
	"testing"

	sm "github.com/db47h/smlogic"
	"github.com/google/go-cmp/cmp"
)

func TestConnect_rejected(t *testing.T) {
	c := sm.New()
	in := c.AddInput(sm.Point{}, true)
	g := c.AddGate(sm.AND, sm.Point{X: 100})

	td := []struct {
		name string
		s, t sm.Handle
	}{
		{"self", g, g},
		{"to input", g, in},
		{"unknown source", 42, g},
		{"unknown target", g, sm.NoHandle},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			if c.Connect(d.s, d.t) {
				t.Fatal("Connect succeeded")
			}
			if len(c.Links()) != 0 {
				t.Fatalf("unexpected links: %v", c.Links())
			}
		})
	}
}

func TestConnect_toggle(t *testing.T) {
	c := sm.New()
	in := c.AddInput(sm.Point{}, true)
	g := c.AddGate(sm.OR, sm.Point{X: 100})

	if !c.Connect(in, g) || !c.Connected(in, g) {
		t.Fatal("first Connect should add the edge")
	}
	if !c.Connect(in, g) || c.Connected(in, g) {
		t.Fatal("second Connect should remove the edge")
	}
}

func TestConnect_reverse(t *testing.T) {
	c := sm.New()
	a := c.AddGate(sm.AND, sm.Point{})
	b := c.AddGate(sm.OR, sm.Point{X: 100})

	c.Connect(a, b)
	c.Connect(b, a)
	if c.Connected(a, b) {
		t.Error("reverse Connect should drop the original edge")
	}
	if !c.Connected(b, a) {
		t.Error("reverse edge missing")
	}
	if diff := cmp.Diff([]sm.Link{{Source: b, Target: a}}, c.Links()); diff != "" {
		t.Errorf("Links (-want +got):\n%s", diff)
	}
}

func TestConnect_fanIn(t *testing.T) {
	c := sm.New()
	a := c.AddInput(sm.Point{}, false)
	b := c.AddInput(sm.Point{Y: 100}, false)
	x := c.AddInput(sm.Point{Y: 200}, false)
	tm := c.AddTimer(sm.Point{X: 100})
	g := c.AddGate(sm.XOR, sm.Point{X: 200})

	c.Connect(a, tm)
	c.Connect(b, tm)
	if diff := cmp.Diff([]sm.Handle{b}, c.Node(tm).Inputs()); diff != "" {
		t.Errorf("timer inputs (-want +got):\n%s", diff)
	}

	for _, s := range []sm.Handle{a, b, x, tm} {
		c.Connect(s, g)
	}
	if diff := cmp.Diff([]sm.Handle{a, b, x, tm}, c.Node(g).Inputs()); diff != "" {
		t.Errorf("gate inputs (-want +got):\n%s", diff)
	}
}

func TestConnect_recompute(t *testing.T) {
	c := sm.New()
	in := c.AddInput(sm.Point{}, true)
	g := c.AddGate(sm.NAND, sm.Point{X: 100})
	if c.Node(g).State() {
		t.Fatal("unconnected NAND is on")
	}
	// the input has not been ticked yet, its previous state is off
	c.Connect(in, g)
	if !c.Node(g).State() {
		t.Fatal("NAND should turn on as soon as it is connected")
	}
	c.Step()
	c.Step()
	if c.Node(g).State() {
		t.Fatal("NAND of an on input should be off")
	}
	c.Disconnect(in, g)
	if c.Node(g).State() {
		t.Fatal("disconnected NAND should be off")
	}
	if c.Disconnect(in, g) {
		t.Fatal("Disconnect of a missing edge succeeded")
	}
}
