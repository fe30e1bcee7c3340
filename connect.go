// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package smlogic

// Connect toggles the edge from source to target.
//
// The call is a no-op returning false if source and target are the same
// node, if either handle is unknown, or if target accepts no inputs. If the
// edge already exists it is removed. Otherwise an edge in the opposite
// direction is removed first, a target accepting a single input loses its
// current source, and the new edge is appended.
//
// Every node whose inputs changed is recomputed before Connect returns.
//
func (c *Circuit) Connect(source, target Handle) bool {
	s, t := c.node(source), c.node(target)
	if s == nil || t == nil || s == t || t.MaxFanIn() == 0 {
		return false
	}
	if t.removeInput(source) {
		c.recompute(t)
		return true
	}
	if s.removeInput(target) {
		c.recompute(s)
	}
	if t.MaxFanIn() == 1 {
		t.inputs = t.inputs[:0]
	}
	t.inputs = append(t.inputs, source)
	c.recompute(t)
	return true
}

// Disconnect removes the edge from source to target if present.
//
func (c *Circuit) Disconnect(source, target Handle) bool {
	t := c.node(target)
	if t == nil || !t.removeInput(source) {
		return false
	}
	c.recompute(t)
	return true
}

// Connected reports whether there is an edge from source to target.
//
func (c *Circuit) Connected(source, target Handle) bool {
	t := c.node(target)
	return t != nil && t.hasInput(source)
}

// active counts the inputs of n whose previous state is on.
func (c *Circuit) active(n *Node) int {
	a := 0
	for _, h := range n.inputs {
		if c.slots[h].prev {
			a++
		}
	}
	return a
}

// recompute refreshes the current state of n from the previous state of its
// inputs outside of a tick. Timer registers are never touched here, only
// ticks move them.
//
func (c *Circuit) recompute(n *Node) {
	switch n.kind {
	case KindInput:
		n.cur = n.saved
	case KindGate:
		n.cur = n.gate.Eval(len(n.inputs), c.active(n))
	case KindTimer:
		n.cur = n.stages[TimerStages-1]
	}
}
