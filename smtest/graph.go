// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package smtest

import (
	"github.com/db47h/smlogic"
	"github.com/google/go-cmp/cmp"
)

// Node is the structural description of a circuit node, independent of
// handles. Inputs are positions in the owned order.
//
type Node struct {
	Tag         string
	Pos         smlogic.Point
	Baseline    bool
	State       bool
	Stages      [smlogic.TimerStages]bool
	Inputs      []int
	Description string
}

// Describe returns the structure of c in owned order.
//
func Describe(c *smlogic.Circuit) []Node {
	nodes := c.Nodes()
	idx := make(map[smlogic.Handle]int, len(nodes))
	for i, n := range nodes {
		idx[n.ID()] = i
	}
	g := make([]Node, len(nodes))
	for i, n := range nodes {
		d := &g[i]
		d.Tag = n.Tag()
		d.Pos = n.Position()
		d.Baseline = n.Baseline()
		d.State = n.State()
		d.Stages = n.Stages()
		d.Description = n.Description()
		d.Inputs = make([]int, 0, len(n.Inputs()))
		for _, h := range n.Inputs() {
			d.Inputs = append(d.Inputs, idx[h])
		}
	}
	return g
}

// Diff compares the structure and node states of two circuits and returns a
// human readable report, or an empty string if they are equivalent. Handles
// are not compared, only positions in the owned order.
//
func Diff(want, got *smlogic.Circuit) string {
	return cmp.Diff(Describe(want), Describe(got))
}
