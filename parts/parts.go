// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package parts provides a library of reusable circuit fragments built from
// gates and timers.
//
// Every part is described by a Spec. Mounting a spec into a circuit adds its
// nodes around an origin point and returns the handles of its pins by name.
// Input pins are OR gates used as buffers: feed them from anything. Output
// pins are regular nodes to connect from.
//
package parts

import (
	"sort"
	"strings"

	"github.com/db47h/smlogic"
	"github.com/pkg/errors"
)

// Grid is the distance between two neighboring nodes of a part.
const Grid = 100

// Pins maps pin names to node handles.
type Pins map[string]smlogic.Handle

// A Spec describes a circuit fragment.
//
type Spec struct {
	Name    string   // part name
	Doc     string   // one line description
	Inputs  []string // input pin names
	Outputs []string // output pin names

	// Mount adds the part's nodes to c with at as the top-left node center.
	Mount func(c *smlogic.Circuit, at smlogic.Point) Pins
}

// cell returns the center of the grid cell at column x, row y from at.
func cell(at smlogic.Point, x, y int) smlogic.Point {
	return at.Add(smlogic.Point{X: float64(x * Grid), Y: float64(y * Grid)})
}

// buffer adds an OR gate used as an input pin.
func buffer(c *smlogic.Circuit, p smlogic.Point, desc string) smlogic.Handle {
	h := c.AddGate(smlogic.OR, p)
	c.SetDescription(h, desc)
	return h
}

// library maps lower case part names to parts.
var library = map[string]*Spec{
	"delay1":    Delay(1),
	"clock1":    Clock(1),
	"memory":    Memory,
	"edge":      Edge,
	"halfadder": HalfAdder,
	"fulladder": FullAdder,
}

// Lookup returns the spec with the given name, case insensitive.
//
func Lookup(name string) (*Spec, bool) {
	s, ok := library[strings.ToLower(name)]
	return s, ok
}

// Names returns the sorted names of all parts in the library.
//
func Names() []string {
	ns := make([]string, 0, len(library))
	for _, s := range library {
		ns = append(ns, s.Name)
	}
	sort.Strings(ns)
	return ns
}

// New returns a playable circuit made of the named part with a switch wired
// to each of its input pins. The returned pins include the switches, named
// after the pin they feed with a "sw_" prefix.
//
func New(name string) (*smlogic.Circuit, Pins, error) {
	s, ok := Lookup(name)
	if !ok {
		return nil, nil, errors.Errorf("unknown part %q", name)
	}
	c := smlogic.New()
	at := smlogic.Point{X: 2 * Grid, Y: Grid}
	pins := s.Mount(c, at)
	for i, in := range s.Inputs {
		sw := c.AddInput(cell(at, -1, i), false)
		c.SetDescription(sw, in)
		c.Connect(sw, pins[in])
		pins["sw_"+in] = sw
	}
	return c, pins, nil
}
