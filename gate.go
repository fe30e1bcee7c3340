// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package smlogic

// Gate is the subtype of a logic gate node.
//
// The first three values are the base forms, the last three their inverted
// counterparts, in the same order. Swap and Invert depend on this layout.
//
type Gate int

// Gate subtypes.
//
const (
	AND Gate = iota
	OR
	XOR
	NAND
	NOR
	XNOR
	gateCount
)

var gateNames = [gateCount]string{"and", "or", "xor", "nand", "nor", "xnor"}

// n = input count, a = active input count
var gateFuncs = [gateCount]func(n, a int) bool{
	AND:  func(n, a int) bool { return n > 0 && a == n },
	OR:   func(n, a int) bool { return a > 0 },
	XOR:  func(n, a int) bool { return a%2 == 1 },
	NAND: func(n, a int) bool { return n > 0 && a != n },
	NOR:  func(n, a int) bool { return n > 0 && a == 0 },
	XNOR: func(n, a int) bool { return n > 0 && a%2 == 0 },
}

// String returns the lowercase name of g, which is also its kind tag in
// persisted circuits.
//
func (g Gate) String() string {
	if !g.valid() {
		return "gate(?)"
	}
	return gateNames[g]
}

func (g Gate) valid() bool { return g >= 0 && g < gateCount }

// Eval returns the output of a gate with n inputs, a of which are active.
//
// Gates with no inputs are always off.
//
func (g Gate) Eval(n, a int) bool {
	return gateFuncs[g](n, a)
}

// Inverted reports whether g is one of NAND, NOR or XNOR.
//
func (g Gate) Inverted() bool { return g >= NAND }

// Swap cycles g through the base forms in direction dir (usually 1 or -1)
// while preserving its polarity: AND → OR → XOR → AND, NAND → NOR → XNOR → NAND.
//
func (g Gate) Swap(dir int) Gate {
	base := g - g%3
	i := (int(g%3) + dir) % 3
	if i < 0 {
		i += 3
	}
	return base + Gate(i)
}

// Invert toggles the polarity of g: AND ↔ NAND, OR ↔ NOR, XOR ↔ XNOR.
//
func (g Gate) Invert() Gate {
	return (g + 3) % gateCount
}
