// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package smlogic

// Kind is the variant tag of a Node.
//
type Kind int

// Node kinds.
//
const (
	KindInput Kind = iota
	KindGate
	KindTimer
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindGate:
		return "gate"
	case KindTimer:
		return "timer"
	}
	return "kind(?)"
}

// TimerStages is the length of a timer's shift register, i.e. its delay in
// ticks.
//
const TimerStages = 10

// NodeSize is the side length of the square occupied by a node.
//
const NodeSize = 64

// Unbounded is the MaxFanIn of nodes accepting any number of inputs.
//
const Unbounded = -1

// Handle identifies a node within a Circuit. Handles are never reused, so a
// handle to a removed node stays invalid.
//
type Handle int

// NoHandle is returned by lookups that find nothing.
//
const NoHandle Handle = -1

// Point is a position in the plane.
//
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Rect is an axis aligned rectangle. Min is inclusive, Max exclusive.
//
type Rect struct {
	Min, Max Point
}

// Contains reports whether p lies in r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// A Node is a single simulated block in a Circuit.
//
// Nodes are owned by their Circuit and can only be changed through it. The
// accessors below are safe to use by presentation code between calls to the
// Circuit.
//
type Node struct {
	id    Handle
	kind  Kind
	gate  Gate
	pos   Point
	cur   bool
	prev  bool
	saved bool // baked state for inputs and gates
	// stages[TimerStages-1] is the timer output
	stages [TimerStages]bool
	inputs []Handle
	desc   string
}

// ID returns the node's handle.
func (n *Node) ID() Handle { return n.id }

// Kind returns the node's variant.
func (n *Node) Kind() Kind { return n.kind }

// Gate returns the gate subtype. Only meaningful for KindGate.
func (n *Node) Gate() Gate { return n.gate }

// State returns the output of the node as of the last completed tick or
// edit.
//
func (n *Node) State() bool { return n.cur }

// PrevState returns the output of the node one tick earlier. This is the
// value downstream nodes read during a tick.
//
func (n *Node) PrevState() bool { return n.prev }

// Baseline returns the persisted on/off bit of inputs and gates. For timers
// it returns the register output.
//
func (n *Node) Baseline() bool {
	if n.kind == KindTimer {
		return n.stages[TimerStages-1]
	}
	return n.saved
}

// Stages returns a copy of a timer's shift register. stages[0] holds the most
// recent input.
//
func (n *Node) Stages() [TimerStages]bool { return n.stages }

// Inputs returns the handles of the node's sources in insertion order.
//
func (n *Node) Inputs() []Handle {
	return append([]Handle(nil), n.inputs...)
}

// Position returns the center of the node.
func (n *Node) Position() Point { return n.pos }

// Bounds returns the square occupied by the node.
//
func (n *Node) Bounds() Rect {
	h := float64(NodeSize) / 2
	return Rect{
		Min: Point{n.pos.X - h, n.pos.Y - h},
		Max: Point{n.pos.X + h, n.pos.Y + h},
	}
}

// Description returns the node's free text label.
func (n *Node) Description() string { return n.desc }

// MaxFanIn returns how many sources the node accepts: Unbounded for gates,
// 0 for inputs and 1 for timers.
//
func (n *Node) MaxFanIn() int {
	switch n.kind {
	case KindInput:
		return 0
	case KindTimer:
		return 1
	}
	return Unbounded
}

// Tag returns the kind tag used for the node in persisted circuits.
//
func (n *Node) Tag() string {
	switch n.kind {
	case KindInput:
		return tagInput
	case KindTimer:
		return tagTimer
	}
	return n.gate.String()
}

func (n *Node) hasInput(h Handle) bool {
	return indexOf(n.inputs, h) >= 0
}

func (n *Node) removeInput(h Handle) bool {
	i := indexOf(n.inputs, h)
	if i < 0 {
		return false
	}
	n.inputs = append(n.inputs[:i], n.inputs[i+1:]...)
	return true
}

func (n *Node) clone() *Node {
	m := *n
	m.inputs = append([]Handle(nil), n.inputs...)
	return &m
}

func indexOf(hs []Handle, h Handle) int {
	for i, v := range hs {
		if v == h {
			return i
		}
	}
	return -1
}
