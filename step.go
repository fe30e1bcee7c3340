// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package smlogic

// Step advances the simulation by one tick.
//
// A tick is two full passes over every node. The first pass moves each
// node's current state into its previous state and shifts timer registers.
// The second pass recomputes every node from the previous states of its
// inputs only. Since no node reads another node's current state during the
// second pass, the result does not depend on node order and feedback loops
// need no special handling.
//
func (c *Circuit) Step() {
	for _, n := range c.order {
		advance(n)
	}
	for _, n := range c.order {
		c.evaluate(n)
	}
	c.ticks++
}

// StepN runs n ticks.
//
func (c *Circuit) StepN(n int) {
	for ; n > 0; n-- {
		c.Step()
	}
}

func advance(n *Node) {
	n.prev = n.cur
	if n.kind == KindTimer {
		copy(n.stages[1:], n.stages[:TimerStages-1])
		n.cur = n.stages[TimerStages-1]
	}
}

func (c *Circuit) evaluate(n *Node) {
	switch n.kind {
	case KindInput:
		n.cur = n.saved
	case KindGate:
		n.cur = n.gate.Eval(len(n.inputs), c.active(n))
	case KindTimer:
		n.cur = n.stages[TimerStages-1]
		n.stages[0] = len(n.inputs) > 0 && c.slots[n.inputs[0]].prev
	}
}

// Ticks returns the number of ticks performed since the last call to
// ResetTicks.
//
func (c *Circuit) Ticks() uint {
	return c.ticks
}

// ResetTicks zeroes the tick counter.
//
func (c *Circuit) ResetTicks() {
	c.ticks = 0
}

// Running returns the running flag.
//
// The flag is state only: the circuit never ticks by itself. Hosts poll it
// to decide whether to call Step on their next timer event.
//
func (c *Circuit) Running() bool {
	return c.running
}

// SetRunning sets the running flag.
func (c *Circuit) SetRunning(running bool) {
	c.running = running
}
