package parts_test

import (
	"strings"
	"testing"

	sm "github.com/db47h/smlogic"
	"github.com/db47h/smlogic/parts"
	"github.com/db47h/smlogic/smtest"
)

func newPart(t *testing.T, name string) (*sm.Circuit, parts.Pins) {
	t.Helper()
	c, pins, err := parts.New(name)
	if err != nil {
		t.Fatal(err)
	}
	return c, pins
}

func TestLibrary(t *testing.T) {
	names := parts.Names()
	if len(names) == 0 {
		t.Fatal("empty library")
	}
	for _, n := range names {
		s, ok := parts.Lookup(n)
		if !ok {
			t.Fatalf("%s not found", n)
		}
		c, pins := newPart(t, n)
		for _, p := range append(s.Inputs, s.Outputs...) {
			if c.Node(pins[p]) == nil {
				t.Errorf("%s: pin %s not mounted", n, p)
			}
		}
		// fragments must be loadable
		data, err := c.Serialize()
		if err != nil {
			t.Fatal(err)
		}
		if _, err = sm.Deserialize(data); err != nil {
			t.Errorf("%s: %v", n, err)
		}
	}
	for _, n := range []string{"Delay1", "Clock1", "Memory", "Edge", "HalfAdder", "FullAdder"} {
		if s, ok := parts.Lookup(strings.ToUpper(n)); !ok || s.Name != n {
			t.Errorf("Lookup(%q) failed", n)
		}
	}
	if _, _, err := parts.New("flux-capacitor"); err == nil {
		t.Error("New accepted an unknown part")
	}
}

func TestDelay(t *testing.T) {
	c, pins := newPart(t, "delay1")
	c.Toggle(pins["sw_in"])
	for tick := 1; tick <= 15; tick++ {
		c.Step()
		if got, want := c.Node(pins["out"]).State(), tick >= 11; got != want {
			t.Fatalf("tick %d: out = %v, expected %v", tick, got, want)
		}
	}
}

func TestClock(t *testing.T) {
	for _, n := range []int{1, 2, 3} {
		c := sm.New()
		pins := parts.Clock(n).Mount(c, sm.Point{})
		if c.Len() != n+2 || len(c.Links()) != n+2 {
			t.Fatalf("Clock(%d): %d nodes, %d links", n, c.Len(), len(c.Links()))
		}
		half := n*sm.TimerStages + 2
		changes := 0
		for tick := 1; tick <= 4*half; tick++ {
			prev := c.Node(pins["out"]).State()
			c.Step()
			got := c.Node(pins["out"]).State()
			if want := tick/half%2 == 0; got != want {
				t.Fatalf("Clock(%d) tick %d: out = %v, expected %v", n, tick, got, want)
			}
			if got != prev {
				changes++
			}
		}
		if changes != 4 {
			t.Fatalf("Clock(%d): %d output changes, expected 4", n, changes)
		}
	}

	// the registered part oscillates too
	c, pins := newPart(t, "clock1")
	c.StepN(12)
	if c.Node(pins["out"]).State() {
		t.Fatal("clock1 did not toggle after 12 ticks")
	}
}

func TestMemory(t *testing.T) {
	c, pins := newPart(t, "memory")
	out := pins["out"]
	pulse := func(sw string) {
		c.Toggle(pins[sw])
		c.StepN(4)
		c.Toggle(pins[sw])
		c.StepN(10)
	}

	c.StepN(10)
	if c.Node(out).State() {
		t.Fatal("memory starts on")
	}
	pulse("sw_set")
	if !c.Node(out).State() {
		t.Fatal("memory not set")
	}
	c.StepN(30)
	if !c.Node(out).State() {
		t.Fatal("memory lost its value")
	}
	pulse("sw_reset")
	if c.Node(out).State() {
		t.Fatal("memory not reset")
	}
}

func TestEdge(t *testing.T) {
	c, pins := newPart(t, "edge")
	c.StepN(3)
	c.Toggle(pins["sw_in"])
	var trace string
	for i := 0; i < 6; i++ {
		c.Step()
		trace += smtest.Bits(c, pins["out"])
	}
	if trace != "010000" {
		t.Fatalf("got %s, expected 010000", trace)
	}
}

func TestAdders(t *testing.T) {
	for i := 0; i < 8; i++ {
		a, b, cin := i&4 != 0, i&2 != 0, i&1 != 0
		sum := 0
		for _, v := range []bool{a, b, cin} {
			if v {
				sum++
			}
		}

		c, pins := newPart(t, "fulladder")
		for sw, v := range map[string]bool{"sw_a": a, "sw_b": b, "sw_cin": cin} {
			if v {
				c.Toggle(pins[sw])
			}
		}
		c.StepN(6)
		if got, want := smtest.Bits(c, pins["cout"], pins["s"]), [...]string{"00", "01", "10", "11"}[sum]; got != want {
			t.Errorf("FullAdder(%03b) = %s, expected %s", i, got, want)
		}

		if cin {
			continue
		}
		c, pins = newPart(t, "halfadder")
		if a {
			c.Toggle(pins["sw_a"])
		}
		if b {
			c.Toggle(pins["sw_b"])
		}
		c.StepN(4)
		if got, want := smtest.Bits(c, pins["c"], pins["s"]), [...]string{"00", "01", "10"}[sum]; got != want {
			t.Errorf("HalfAdder(%02b) = %s, expected %s", i>>1, got, want)
		}
	}
}
