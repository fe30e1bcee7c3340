// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package blueprint

import (
	"encoding/json"
	"math"

	"github.com/db47h/smlogic"
	"github.com/pkg/errors"
)

// ErrTooClose is returned by Export when no grid can be found that puts
// every node in its own cell.
//
var ErrTooClose = errors.New("two nodes are too close to each other or overlap; spread them out so that a sensible layout can be made")

const (
	layoutStart = 6
	layoutLimit = 20 // give up at this size for small circuits
	layoutMax   = 1000
	buttonBase  = 1000 // controller id offset of input buttons
)

// grid[y][x] lists the indices of the nodes in a cell
type grid [][][]int

func (g grid) overlaps() bool {
	for _, row := range g {
		for _, cell := range row {
			if len(cell) > 1 {
				return true
			}
		}
	}
	return false
}

type bounds struct {
	minX, minY, maxX, maxY float64
}

func boundsOf(nodes []*smlogic.Node) bounds {
	b := bounds{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, n := range nodes {
		p := n.Position()
		b.minX, b.maxX = math.Min(b.minX, p.X), math.Max(b.maxX, p.X)
		b.minY, b.maxY = math.Min(b.minY, p.Y), math.Max(b.maxY, p.Y)
	}
	return b
}

func scale(v, lo, hi float64, size int) int {
	if hi == lo {
		return 0
	}
	return int(.5 + (v-lo)*float64(size-1)/(hi-lo))
}

func place(nodes []*smlogic.Node, b bounds, size int) grid {
	g := make(grid, size)
	for y := range g {
		g[y] = make([][]int, size)
	}
	for i, n := range nodes {
		p := n.Position()
		x, y := scale(p.X, b.minX, b.maxX, size), scale(p.Y, b.minY, b.maxY, size)
		g[y][x] = append(g[y][x], i)
	}
	return g
}

// compact drops empty rows and columns.
func (g grid) compact() grid {
	var rows grid
	for _, row := range g {
		for _, cell := range row {
			if len(cell) > 0 {
				rows = append(rows, row)
				break
			}
		}
	}
	if len(rows) == 0 {
		return nil
	}
	for x := 0; x < len(rows[0]); {
		empty := true
		for _, row := range rows {
			if len(row[x]) > 0 {
				empty = false
				break
			}
		}
		if !empty {
			x++
			continue
		}
		for y, row := range rows {
			rows[y] = append(row[:x], row[x+1:]...)
		}
	}
	return rows
}

func plasticRow(x, y, length int) Child {
	return Child{
		Bounds:  &Vec{X: length, Y: 1, Z: 1},
		Color:   plasticColor,
		Pos:     Vec{X: x, Y: -y - 1, Z: 1},
		ShapeID: PlasticBlockID,
		XAxis:   1,
		ZAxis:   3,
	}
}

func logicPart(color, shape string, ctl *Controller, x, y, z int) Child {
	return Child{
		Color:      color,
		Controller: ctl,
		Pos:        Vec{X: x, Y: -y, Z: z},
		ShapeID:    shape,
		XAxis:      1,
		ZAxis:      -2,
	}
}

// parts returns the game parts for the node with controller id at grid
// cell x, y.
//
func parts(n *smlogic.Node, id int, outputs []ControllerRef, x, y, base int) []Child {
	const z = 1
	switch n.Kind() {
	case smlogic.KindGate:
		ctl := &Controller{Active: boolp(false), Controllers: outputs, ID: id, Mode: intp(int(n.Gate()))}
		return []Child{logicPart(logicColor, LogicGateID, ctl, x, y, z)}
	case smlogic.KindTimer:
		// the game adds one tick of latency on top of the timer's delay
		d := smlogic.TimerStages - 1
		ctl := &Controller{Active: boolp(false), Controllers: outputs, ID: id,
			Seconds: intp(d / ticksPerSecond), Ticks: intp(d % ticksPerSecond)}
		return []Child{logicPart(logicColor, TimerID, ctl, x, y, z)}
	default:
		// an OR gate fed by a button so that it can also be hooked to other
		// sources in game
		or := &Controller{Active: boolp(false), Controllers: outputs, ID: id, Mode: intp(int(smlogic.OR))}
		btn := &Controller{Controllers: []ControllerRef{{ID: id}}, ID: base + id}
		return []Child{
			logicPart(inputColor, LogicGateID, or, x, y, z),
			logicPart(inputColor, ButtonID, btn, x, y, z+1),
		}
	}
}

// Export converts c into a blueprint.
//
// Node positions are mapped onto a square grid that starts at 6 by 6 cells
// and grows until every node sits in its own cell. Empty rows and columns
// are then dropped and the gaps between nodes filled with plastic so that
// the creation spawns as a single body. Inputs are exported as an OR gate
// with a button on top.
//
// Export returns ErrTooClose if nodes are too close to be laid out.
//
func Export(c *smlogic.Circuit) (*File, error) {
	f := &File{Version: Version, Bodies: []Body{{Childs: []Child{}}}}
	nodes := c.Nodes()
	if len(nodes) == 0 {
		return f, nil
	}

	b := boundsOf(nodes)
	var g grid
	for size := layoutStart + min(1, len(nodes)>>3); ; size++ {
		g = place(nodes, b, size)
		if !g.overlaps() {
			break
		}
		if size >= layoutLimit && len(nodes) < 100 || size >= layoutMax {
			return nil, ErrTooClose
		}
	}
	g = g.compact()

	ids := make(map[smlogic.Handle]int, len(nodes))
	for i, n := range nodes {
		ids[n.ID()] = i
	}
	base := max(buttonBase, len(nodes))

	var childs []Child
	for y, row := range g {
		last := -1
		for x, cell := range row {
			if len(cell) == 0 {
				continue
			}
			if last < x-1 {
				childs = append(childs, plasticRow(last+1, y, x-1-last))
			}
			last = x
			n := nodes[cell[0]]
			var outs []ControllerRef
			for _, h := range c.Outputs(n.ID()) {
				outs = append(outs, ControllerRef{ID: ids[h]})
			}
			childs = append(childs, parts(n, cell[0], outs, x, y, base)...)
		}
		if last < len(row)-1 {
			childs = append(childs, plasticRow(last+1, y, len(row)-1-last))
		}
	}
	f.Bodies[0].Childs = childs
	return f, nil
}

// ExportJSON returns the indented JSON form of Export(c).
//
func ExportJSON(c *smlogic.Circuit) ([]byte, error) {
	f, err := Export(c)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(f, "", "    ")
}
