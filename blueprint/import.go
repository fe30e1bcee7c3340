// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package blueprint

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/db47h/smlogic"
	"github.com/pkg/errors"
)

// Margin is added to imported node positions.
const Margin = 50

// collision offset for imported nodes that land on the same spot
const nudge = 5

type item struct {
	kind     smlogic.Kind
	gate     smlogic.Gate
	x, y     float64
	inputs   []*item
	desc     string
	imported bool // input device read from the blueprint
}

func (it *item) hasInput(j *item) bool {
	for _, i := range it.inputs {
		if i == j {
			return true
		}
	}
	return false
}

func (it *item) addInput(j *item) {
	if j != it && !it.hasInput(j) {
		it.inputs = append(it.inputs, j)
	}
}

func (it *item) removeInput(j *item) {
	for k, i := range it.inputs {
		if i == j {
			it.inputs = append(it.inputs[:k], it.inputs[k+1:]...)
			return
		}
	}
}

func remove(items []*item, it *item) []*item {
	for k, i := range items {
		if i == it {
			return append(items[:k], items[k+1:]...)
		}
	}
	return items
}

func consumed(items []*item, j, except *item) bool {
	for _, k := range items {
		if k != except && k.hasInput(j) {
			return true
		}
	}
	return false
}

// Import reads a blueprint and returns the circuit it contains.
//
func Import(data []byte, width, height float64) (*smlogic.Circuit, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "invalid blueprint")
	}
	return ImportFile(&f, width, height)
}

// ImportFile converts the logic parts of f into a circuit.
//
// Logic gates, timers and input devices (buttons, switches and sensors)
// become nodes wired after their controllers. Links to other parts are
// ignored. Timers always import with their fixed delay; those set to another
// duration in game get a description giving it.
//
// The result is then simplified: a gate fed only by input devices that feed
// nothing else becomes a single input, and inputs that feed nothing are
// dropped. Finally node positions are rescaled to fit a width x height area
// offset by Margin.
//
func ImportFile(f *File, width, height float64) (*smlogic.Circuit, error) {
	byID := make(map[int]*item)
	for _, b := range f.Bodies {
		for _, ch := range b.Childs {
			it, err := newItem(&ch)
			if err != nil {
				return nil, err
			}
			if it == nil {
				continue
			}
			if _, dup := byID[ch.Controller.ID]; dup {
				return nil, errors.Errorf("duplicate controller id %d", ch.Controller.ID)
			}
			byID[ch.Controller.ID] = it
		}
	}

	for _, b := range f.Bodies {
		for _, ch := range b.Childs {
			if ch.Controller == nil {
				continue
			}
			src := byID[ch.Controller.ID]
			if src == nil {
				continue
			}
			for _, ref := range ch.Controller.Controllers {
				// targets outside the circuit, like motors, are skipped
				if dst := byID[ref.ID]; dst != nil {
					dst.addInput(src)
				}
			}
		}
	}

	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	items := make([]*item, len(ids))
	for i, id := range ids {
		items[i] = byID[id]
	}

	items = fold(items)
	items = dropUnused(items)
	layout(items, width, height)
	return build(items), nil
}

func newItem(ch *Child) (*item, error) {
	switch {
	case ch.ShapeID == LogicGateID:
		if ch.Controller == nil || ch.Controller.Mode == nil {
			return nil, errors.New("logic gate without mode")
		}
		m := *ch.Controller.Mode
		if m < int(smlogic.AND) || m > int(smlogic.XNOR) {
			return nil, errors.Errorf("logic gate %d: invalid mode %d", ch.Controller.ID, m)
		}
		return &item{kind: smlogic.KindGate, gate: smlogic.Gate(m), x: float64(ch.Pos.X), y: float64(-ch.Pos.Y)}, nil
	case ch.ShapeID == TimerID:
		if ch.Controller == nil {
			return nil, errors.New("timer without controller")
		}
		it := &item{kind: smlogic.KindTimer, x: float64(ch.Pos.X), y: float64(-ch.Pos.Y)}
		d := 0
		if ch.Controller.Seconds != nil {
			d += *ch.Controller.Seconds * ticksPerSecond
		}
		if ch.Controller.Ticks != nil {
			d += *ch.Controller.Ticks
		}
		if d != smlogic.TimerStages-1 {
			it.desc = fmt.Sprintf("timer set to %d ticks in game", d)
		}
		return it, nil
	case isInputShape(ch.ShapeID):
		if ch.Controller == nil {
			return nil, errors.Errorf("input device %s without controller", ch.ShapeID)
		}
		return &item{kind: smlogic.KindInput, x: float64(ch.Pos.X), y: float64(-ch.Pos.Y), imported: true}, nil
	}
	return nil, nil
}

// fold replaces gates whose inputs are all input devices exclusive to them
// with a single input.
func fold(items []*item) []*item {
	for _, g := range append([]*item(nil), items...) {
		if g.kind != smlogic.KindGate || len(g.inputs) == 0 {
			continue
		}
		ok := true
		for _, j := range g.inputs {
			if !j.imported || consumed(items, j, g) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		items = remove(items, g)
		for _, j := range g.inputs {
			items = remove(items, j)
		}
		r := &item{kind: smlogic.KindInput, x: g.x, y: g.y}
		for _, k := range items {
			if k.hasInput(g) {
				k.removeInput(g)
				k.addInput(r)
			}
		}
		items = append(items, r)
	}
	return items
}

func dropUnused(items []*item) []*item {
	for _, i := range append([]*item(nil), items...) {
		if i.kind == smlogic.KindInput && !consumed(items, i, nil) {
			items = remove(items, i)
		}
	}
	return items
}

func layout(items []*item, width, height float64) {
	if len(items) == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, i := range items {
		minX, maxX = math.Min(minX, i.x), math.Max(maxX, i.x)
		minY, maxY = math.Min(minY, i.y), math.Max(maxY, i.y)
	}
	seen := make(map[[2]float64]bool, len(items))
	for _, i := range items {
		x := math.Floor((i.x - minX) * width / math.Max(1, maxX-minX))
		y := math.Floor((i.y - minY) * height / math.Max(1, maxY-minY))
		for seen[[2]float64{x, y}] {
			x += nudge
			y += nudge
		}
		seen[[2]float64{x, y}] = true
		i.x, i.y = x+Margin, y+Margin
	}
}

func build(items []*item) *smlogic.Circuit {
	c := smlogic.New()
	hs := make(map[*item]smlogic.Handle, len(items))
	for _, i := range items {
		p := smlogic.Point{X: i.x, Y: i.y}
		var h smlogic.Handle
		switch i.kind {
		case smlogic.KindInput:
			h = c.AddInput(p, false)
		case smlogic.KindTimer:
			h = c.AddTimer(p)
		default:
			h = c.AddGate(i.gate, p)
		}
		c.SetDescription(h, i.desc)
		hs[i] = h
	}
	for _, i := range items {
		for _, j := range i.inputs {
			if !c.Connected(hs[j], hs[i]) {
				c.Connect(hs[j], hs[i])
			}
		}
	}
	return c
}
