// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package parts

import (
	"strconv"

	"github.com/db47h/smlogic"
)

const (
	pIn    = "in"
	pOut   = "out"
	pSet   = "set"
	pReset = "reset"
)

// Delay returns a chain of n timers.
//
//	Inputs: in
//	Outputs: out
//	Function: out(t) = in(t - 10*n)
//
func Delay(n int) *Spec {
	if n < 1 {
		n = 1
	}
	return &Spec{
		Name:    "Delay" + strconv.Itoa(n),
		Doc:     "delays its input by " + strconv.Itoa(n*smlogic.TimerStages) + " ticks",
		Inputs:  []string{pIn},
		Outputs: []string{pOut},
		Mount: func(c *smlogic.Circuit, at smlogic.Point) Pins {
			prev := buffer(c, at, pIn)
			pins := Pins{pIn: prev}
			for i := 1; i <= n; i++ {
				t := c.AddTimer(cell(at, i, 0))
				c.Connect(prev, t)
				prev = t
			}
			pins[pOut] = prev
			return pins
		},
	}
}

// Clock returns a free running oscillator: a NOR gate looping on itself
// through an OR buffer and n timers. The buffer keeps the loop at three
// nodes or more, which Connect needs to close it.
//
//	Outputs: out
//	Function: out toggles every 10*n + 2 ticks
//
func Clock(n int) *Spec {
	if n < 1 {
		n = 1
	}
	return &Spec{
		Name:    "Clock" + strconv.Itoa(n),
		Doc:     "toggles every " + strconv.Itoa(n*smlogic.TimerStages+2) + " ticks",
		Outputs: []string{pOut},
		Mount: func(c *smlogic.Circuit, at smlogic.Point) Pins {
			out := c.AddGate(smlogic.NOR, at)
			c.SetDescription(out, pOut)
			prev := c.AddGate(smlogic.OR, cell(at, 1, 1))
			c.Connect(out, prev)
			for i := 1; i <= n; i++ {
				t := c.AddTimer(cell(at, i, 0))
				c.Connect(prev, t)
				prev = t
			}
			c.Connect(prev, out)
			return Pins{pOut: out}
		},
	}
}

// Memory is a set/reset latch.
//
//	Inputs: set, reset
//	Outputs: out
//	Function: out goes on after set, off after reset. Reset wins.
//
// Pulses on set or reset must last at least 3 ticks for the loop to settle.
//
var Memory = &Spec{
	Name:    "Memory",
	Doc:     "set/reset latch",
	Inputs:  []string{pSet, pReset},
	Outputs: []string{pOut},
	Mount: func(c *smlogic.Circuit, at smlogic.Point) Pins {
		set := buffer(c, at, pSet)
		reset := buffer(c, cell(at, 0, 1), pReset)
		out := c.AddGate(smlogic.OR, cell(at, 1, 0))
		hold := c.AddGate(smlogic.OR, cell(at, 2, 0))
		nreset := c.AddGate(smlogic.NOR, cell(at, 1, 1))
		loop := c.AddGate(smlogic.AND, cell(at, 2, 1))
		c.SetDescription(out, pOut)

		c.Connect(set, out)
		c.Connect(out, hold)
		c.Connect(reset, nreset)
		c.Connect(hold, loop)
		c.Connect(nreset, loop)
		c.Connect(loop, out)
		return Pins{pSet: set, pReset: reset, pOut: out}
	},
}

// Edge is a rising edge detector.
//
//	Inputs: in
//	Outputs: out
//	Function: out is on for exactly one tick after in turns on
//
var Edge = &Spec{
	Name:    "Edge",
	Doc:     "one tick pulse on rising edge",
	Inputs:  []string{pIn},
	Outputs: []string{pOut},
	Mount: func(c *smlogic.Circuit, at smlogic.Point) Pins {
		in := buffer(c, at, pIn)
		not := c.AddGate(smlogic.NOR, cell(at, 1, 1))
		out := c.AddGate(smlogic.AND, cell(at, 2, 0))
		c.SetDescription(out, pOut)
		c.Connect(in, not)
		c.Connect(in, out)
		c.Connect(not, out)
		return Pins{pIn: in, pOut: out}
	},
}
