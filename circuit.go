// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package smlogic

import (
	"github.com/pkg/errors"
)

// Circuit is a runnable circuit simulation.
//
// A Circuit is the sole owner of its nodes. Nodes are addressed by handles
// that index a flat slot table; edges are stored as handle lists on the
// target node. The owned order of nodes only matters for persistence and
// hit-testing, never for simulation results.
//
// A Circuit is not safe for concurrent use. Hosts that tick from another
// goroutine must serialize every call (see package runner).
//
type Circuit struct {
	slots   []*Node // indexed by Handle, nil once removed
	order   []*Node // owned order
	ticks   uint
	running bool
}

// New returns an empty circuit.
//
func New() *Circuit {
	return &Circuit{}
}

func (c *Circuit) add(n *Node) Handle {
	n.id = Handle(len(c.slots))
	c.slots = append(c.slots, n)
	c.order = append(c.order, n)
	return n.id
}

// AddInput places an input node centered at p with the given baseline.
//
func (c *Circuit) AddInput(p Point, on bool) Handle {
	return c.add(&Node{kind: KindInput, pos: p, saved: on, cur: on})
}

// AddGate places an unconnected gate of type g centered at p.
//
func (c *Circuit) AddGate(g Gate, p Point) Handle {
	if !g.valid() {
		panic(errors.Errorf("invalid gate type %d", int(g)))
	}
	return c.add(&Node{kind: KindGate, gate: g, pos: p})
}

// AddTimer places a timer with an empty register centered at p.
//
func (c *Circuit) AddTimer(p Point) Handle {
	return c.add(&Node{kind: KindTimer, pos: p})
}

func (c *Circuit) node(h Handle) *Node {
	if h < 0 || int(h) >= len(c.slots) {
		return nil
	}
	return c.slots[h]
}

// Node returns the node for handle h or nil if there is no such node.
//
func (c *Circuit) Node(h Handle) *Node {
	return c.node(h)
}

// Nodes returns the circuit's nodes in owned order.
//
func (c *Circuit) Nodes() []*Node {
	return append([]*Node(nil), c.order...)
}

// Len returns the number of nodes in the circuit.
func (c *Circuit) Len() int { return len(c.order) }

// Index returns the position of h in the owned order, or -1.
//
func (c *Circuit) Index(h Handle) int {
	n := c.node(h)
	if n == nil {
		return -1
	}
	for i, o := range c.order {
		if o == n {
			return i
		}
	}
	return -1
}

// Remove deletes node h and every edge pointing at it. Nodes that lose an
// input are recomputed right away. Remove reports whether h was found.
//
func (c *Circuit) Remove(h Handle) bool {
	n := c.node(h)
	if n == nil {
		return false
	}
	c.slots[h] = nil
	for i, o := range c.order {
		if o == n {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	for _, o := range c.order {
		if o.removeInput(h) {
			c.recompute(o)
		}
	}
	return true
}

// Move sets the center of node h to p.
//
func (c *Circuit) Move(h Handle, p Point) bool {
	n := c.node(h)
	if n == nil {
		return false
	}
	n.pos = p
	return true
}

// NodeAt returns the first node in owned order whose bounds contain p.
//
func (c *Circuit) NodeAt(p Point) (Handle, bool) {
	for _, n := range c.order {
		if n.Bounds().Contains(p) {
			return n.id, true
		}
	}
	return NoHandle, false
}

// Reorder changes the owned order of the nodes. order must be a permutation
// of the handles of every node in c. Edges follow their nodes since they are
// stored as handles.
//
func (c *Circuit) Reorder(order []Handle) error {
	if len(order) != len(c.order) {
		return errors.Errorf("reorder: got %d handles, circuit has %d nodes", len(order), len(c.order))
	}
	seen := make(map[Handle]bool, len(order))
	nodes := make([]*Node, 0, len(order))
	for _, h := range order {
		n := c.node(h)
		if n == nil {
			return errors.Errorf("reorder: unknown handle %d", h)
		}
		if seen[h] {
			return errors.Errorf("reorder: duplicate handle %d", h)
		}
		seen[h] = true
		nodes = append(nodes, n)
	}
	c.order = nodes
	return nil
}

// Clone returns a deep copy of c, including node states, tick count and
// running flag. Handles are preserved.
//
func (c *Circuit) Clone() *Circuit {
	cc := &Circuit{
		slots:   make([]*Node, len(c.slots)),
		order:   make([]*Node, len(c.order)),
		ticks:   c.ticks,
		running: c.running,
	}
	for i, n := range c.order {
		m := n.clone()
		cc.slots[m.id] = m
		cc.order[i] = m
	}
	return cc
}

// A Link is a directed edge between two nodes.
//
type Link struct {
	Source, Target Handle
}

// Links returns every edge in the circuit, grouped by target in owned order.
//
func (c *Circuit) Links() []Link {
	var ls []Link
	for _, n := range c.order {
		for _, s := range n.inputs {
			ls = append(ls, Link{Source: s, Target: n.id})
		}
	}
	return ls
}

// Outputs returns the handles of the nodes that h feeds, in owned order.
//
func (c *Circuit) Outputs(h Handle) []Handle {
	var out []Handle
	for _, n := range c.order {
		if n.hasInput(h) {
			out = append(out, n.id)
		}
	}
	return out
}

// SetDescription sets the free text label of node h.
//
func (c *Circuit) SetDescription(h Handle, desc string) bool {
	n := c.node(h)
	if n == nil {
		return false
	}
	n.desc = desc
	return true
}

// Swap changes the type of gate h to the next base form in direction dir,
// keeping its polarity, and recomputes its state from the current inputs.
// It does nothing on other kinds of nodes.
//
func (c *Circuit) Swap(h Handle, dir int) bool {
	n := c.node(h)
	if n == nil || n.kind != KindGate {
		return false
	}
	n.gate = n.gate.Swap(dir)
	c.recompute(n)
	return true
}

// Invert toggles the polarity of gate h and recomputes its state. It does
// nothing on other kinds of nodes.
//
func (c *Circuit) Invert(h Handle) bool {
	n := c.node(h)
	if n == nil || n.kind != KindGate {
		return false
	}
	n.gate = n.gate.Invert()
	c.recompute(n)
	return true
}

// Toggle flips the baseline of input h. The change is visible immediately.
//
func (c *Circuit) Toggle(h Handle) bool {
	n := c.node(h)
	if n == nil || n.kind != KindInput {
		return false
	}
	n.saved = !n.saved
	n.cur = n.saved
	return true
}

// Alternate is the generic flip gesture: it inverts gates and toggles
// inputs. Timers are left alone.
//
func (c *Circuit) Alternate(h Handle) bool {
	n := c.node(h)
	if n == nil {
		return false
	}
	switch n.kind {
	case KindGate:
		return c.Invert(h)
	case KindInput:
		return c.Toggle(h)
	}
	return false
}
