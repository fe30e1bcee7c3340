// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package parts

import (
	"github.com/db47h/smlogic"
)

const (
	pA = "a"
	pB = "b"
)

// HalfAdder returns a half adder.
//
//	Inputs: a, b
//	Outputs: s, c
//	Function: s = lsb(a + b)
//	          c = msb(a + b)
//
var HalfAdder = &Spec{
	Name:    "HalfAdder",
	Doc:     "1 bit half adder",
	Inputs:  []string{pA, pB},
	Outputs: []string{"s", "c"},
	Mount: func(c *smlogic.Circuit, at smlogic.Point) Pins {
		a := buffer(c, at, pA)
		b := buffer(c, cell(at, 0, 1), pB)
		s := c.AddGate(smlogic.XOR, cell(at, 1, 0))
		cout := c.AddGate(smlogic.AND, cell(at, 1, 1))
		c.SetDescription(s, "s")
		c.SetDescription(cout, "c")
		for _, h := range []smlogic.Handle{s, cout} {
			c.Connect(a, h)
			c.Connect(b, h)
		}
		return Pins{pA: a, pB: b, "s": s, "c": cout}
	},
}

// FullAdder returns a 3 bit adder.
//
//	Inputs: a, b, cin
//	Outputs: s, cout
//	Function: s = lsb(a + b + cin)
//	          cout = msb(a + b + cin)
//
// Outputs settle 3 ticks after the inputs.
//
var FullAdder = &Spec{
	Name:    "FullAdder",
	Doc:     "1 bit full adder",
	Inputs:  []string{pA, pB, "cin"},
	Outputs: []string{"s", "cout"},
	Mount: func(c *smlogic.Circuit, at smlogic.Point) Pins {
		a := buffer(c, at, pA)
		b := buffer(c, cell(at, 0, 1), pB)
		cin := buffer(c, cell(at, 0, 2), "cin")

		// cin goes through a buffer so that it reaches the second stage in
		// step with the first stage outputs.
		cd := c.AddGate(smlogic.OR, cell(at, 1, 2))
		s0 := c.AddGate(smlogic.XOR, cell(at, 1, 0))
		c0 := c.AddGate(smlogic.AND, cell(at, 1, 1))
		s := c.AddGate(smlogic.XOR, cell(at, 2, 0))
		c1 := c.AddGate(smlogic.AND, cell(at, 2, 1))
		// c0 skips the second stage
		c0d := c.AddGate(smlogic.OR, cell(at, 2, 2))
		cout := c.AddGate(smlogic.OR, cell(at, 3, 1))
		c.SetDescription(s, "s")
		c.SetDescription(cout, "cout")

		c.Connect(cin, cd)
		for _, h := range []smlogic.Handle{s0, c0} {
			c.Connect(a, h)
			c.Connect(b, h)
		}
		for _, h := range []smlogic.Handle{s, c1} {
			c.Connect(s0, h)
			c.Connect(cd, h)
		}
		c.Connect(c0, c0d)
		c.Connect(c1, cout)
		c.Connect(c0d, cout)
		return Pins{pA: a, pB: b, "cin": cin, "s": s, "cout": cout}
	},
}
