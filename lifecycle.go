// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package smlogic

// Reset restores baseline behavior.
//
// Inputs return to their baseline, gates clear to off and every previous
// state is cleared. Timer registers are only cleared when full is true, so a
// soft reset keeps signals that are still travelling through timers. Every
// node except timers is then recomputed from the reset topology.
//
// Reset does not touch the tick counter.
//
func (c *Circuit) Reset(full bool) {
	for _, n := range c.order {
		n.prev = false
		switch n.kind {
		case KindInput:
			n.cur = n.saved
		case KindGate:
			n.cur = false
		case KindTimer:
			if full {
				n.stages = [TimerStages]bool{}
			}
			n.cur = n.stages[TimerStages-1]
		}
	}
	for _, n := range c.order {
		if n.kind != KindTimer {
			c.recompute(n)
		}
	}
}

// Reload simulates leaving and re-entering the game world: every node comes
// back in its persisted state. Gates and inputs take their baked bit, timers
// their register output. Previous states are cleared.
//
func (c *Circuit) Reload() {
	for _, n := range c.order {
		n.cur = n.Baseline()
		n.prev = false
	}
}

// Bake snapshots the current state of every gate and input into its baked
// bit, so that the persisted circuit matches what is on screen.
//
func (c *Circuit) Bake() {
	for _, n := range c.order {
		bake(n)
	}
}

// BakeNode bakes a single node.
//
func (c *Circuit) BakeNode(h Handle) bool {
	n := c.node(h)
	if n == nil {
		return false
	}
	bake(n)
	return true
}

func bake(n *Node) {
	if n.kind != KindTimer {
		n.saved = n.cur
	}
}

// PickUp simulates putting the creation on a lift.
//
// Connected NAND, NOR and XNOR gates come up on, as they do in game. Every
// other node comes up off: other gates, inputs, and timers whose register is
// emptied. The resulting state is also baked.
//
func (c *Circuit) PickUp() {
	for _, n := range c.order {
		n.prev = false
		switch n.kind {
		case KindGate:
			n.cur = len(n.inputs) > 0 && n.gate.Inverted()
		case KindInput:
			n.cur = false
		case KindTimer:
			n.stages = [TimerStages]bool{}
			n.cur = false
		}
		bake(n)
	}
}
