// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package smlogic

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// ErrMalformed is the cause of every error returned when loading a
// persisted circuit fails. A failed load never yields a partial circuit.
//
var ErrMalformed = errors.New("malformed circuit")

// kind tags not derived from a gate type
const (
	tagInput = "input"
	tagTimer = "timer"
)

// record is the persisted form of a node. Inputs are indices into the
// enclosing record list.
type record struct {
	Kind        string  `json:"kind"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Inputs      []int   `json:"inputs"`
	SavedState  *bool   `json:"savedState,omitempty"`
	TickStorage []bool  `json:"tickStorage,omitempty"`
	Description string  `json:"description,omitempty"`

	// written by older versions, read only
	TimerTickStorage []bool `json:"timerTickStorage,omitempty"`
}

type nodeDecoder func(r *record) (*Node, error)

// kinds maps every accepted kind tag to its decoder, including legacy
// aliases.
var kinds = map[string]nodeDecoder{
	"and":       decodeGate(AND),
	"or":        decodeGate(OR),
	"xor":       decodeGate(XOR),
	"nand":      decodeGate(NAND),
	"nor":       decodeGate(NOR),
	"xnor":      decodeGate(XNOR),
	tagInput:    decodeInput(false),
	"input-off": decodeInput(false),
	"input-on":  decodeInput(true),
	tagTimer:    decodeTimer,
	"timer10":   decodeTimer,
}

func savedState(r *record, def bool) bool {
	if r.SavedState != nil {
		return *r.SavedState
	}
	return def
}

func decodeGate(g Gate) nodeDecoder {
	return func(r *record) (*Node, error) {
		s := savedState(r, false)
		return &Node{kind: KindGate, gate: g, saved: s, cur: s, prev: s}, nil
	}
}

func decodeInput(def bool) nodeDecoder {
	return func(r *record) (*Node, error) {
		s := savedState(r, def)
		return &Node{kind: KindInput, saved: s, cur: s, prev: s}, nil
	}
}

func decodeTimer(r *record) (*Node, error) {
	n := &Node{kind: KindTimer}
	st := r.TickStorage
	if st == nil {
		st = r.TimerTickStorage
	}
	if st != nil {
		if len(st) != TimerStages {
			return nil, errors.Errorf("timer register has %d stages, expected %d", len(st), TimerStages)
		}
		copy(n.stages[:], st)
	}
	n.cur = n.stages[TimerStages-1]
	n.prev = n.cur
	return n, nil
}

// Create places a new node of the kind identified by tag centered at p.
// Accepted tags are those of the persisted format: "and", "or", "xor",
// "nand", "nor", "xnor", "input", "timer" and their legacy aliases.
//
func (c *Circuit) Create(tag string, p Point) (Handle, error) {
	dec, ok := kinds[tag]
	if !ok {
		return NoHandle, errors.Errorf("unknown node kind %q", tag)
	}
	n, err := dec(&record{})
	if err != nil {
		return NoHandle, err
	}
	n.pos = p
	n.prev = false
	return c.add(n), nil
}

func malformed(i int, format string, args ...interface{}) error {
	return errors.Wrapf(ErrMalformed, "record %d: "+format, append([]interface{}{i}, args...)...)
}

// Deserialize builds a circuit from its persisted form.
//
// All nodes are built first, then inputs are resolved, so a record may
// reference records that appear after it. Once linked, every node but
// timers is recomputed so that the circuit is consistent before the first
// tick. The tick counter of the new circuit is zero and it is not running.
//
func Deserialize(data []byte) (*Circuit, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrapf(ErrMalformed, "invalid JSON: %v", err)
	}
	if err := dec.Decode(new(interface{})); err != io.EOF {
		return nil, errors.Wrap(ErrMalformed, "trailing data after the node records")
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, errors.Wrap(ErrMalformed, "expected an array of node records at the top level")
	}

	c := New()
	recs := make([]record, len(list))
	for i, v := range list {
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, malformed(i, "expected an object")
		}
		for _, f := range [...]string{"kind", "x", "y", "inputs"} {
			v, ok := m[f]
			if !ok {
				return nil, malformed(i, "missing %q field", f)
			}
			if v == nil {
				return nil, malformed(i, "%q is null", f)
			}
		}
		if _, ok := m["inputs"].([]interface{}); !ok {
			return nil, malformed(i, "'inputs' should be an array of indices")
		}
		r := &recs[i]
		if err := decodeRecord(m, r); err != nil {
			return nil, malformed(i, "%v", err)
		}
		nd, ok := kinds[r.Kind]
		if !ok {
			return nil, malformed(i, "unknown kind %q", r.Kind)
		}
		n, err := nd(r)
		if err != nil {
			return nil, malformed(i, "%v", err)
		}
		n.pos = Point{r.X, r.Y}
		n.desc = r.Description
		c.add(n)
	}

	for i := range recs {
		n := c.order[i]
		for _, idx := range recs[i].Inputs {
			switch {
			case idx < 0 || idx >= len(c.order):
				return nil, malformed(i, "input index %d out of range", idx)
			case idx == i:
				return nil, malformed(i, "node lists itself as input")
			case n.hasInput(c.order[idx].id):
				return nil, malformed(i, "duplicate input index %d", idx)
			}
			n.inputs = append(n.inputs, c.order[idx].id)
		}
		if limit := n.MaxFanIn(); limit != Unbounded && len(n.inputs) > limit {
			return nil, malformed(i, "%s accepts at most %d input(s), got %d", n.Tag(), limit, len(n.inputs))
		}
	}

	for _, n := range c.order {
		if n.kind != KindTimer {
			c.recompute(n)
		}
	}
	return c, nil
}

func decodeRecord(m map[string]interface{}, r *record) error {
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  r,
	})
	if err != nil {
		return err
	}
	return d.Decode(m)
}

func (c *Circuit) records() []record {
	idx := make(map[Handle]int, len(c.order))
	for i, n := range c.order {
		idx[n.id] = i
	}
	recs := make([]record, len(c.order))
	for i, n := range c.order {
		r := &recs[i]
		r.Kind = n.Tag()
		r.X, r.Y = n.pos.X, n.pos.Y
		r.Description = n.desc
		r.Inputs = make([]int, len(n.inputs))
		for j, h := range n.inputs {
			r.Inputs[j] = idx[h]
		}
		if n.kind == KindTimer {
			r.TickStorage = append([]bool(nil), n.stages[:]...)
		} else {
			s := n.saved
			r.SavedState = &s
		}
	}
	return recs
}

// Serialize returns the persisted form of c: an indented JSON array of node
// records in owned order, where edges are stored as indices into that
// array.
//
func (c *Circuit) Serialize() ([]byte, error) {
	return json.MarshalIndent(c.records(), "", "    ")
}

// MarshalJSON implements json.Marshaler. The output is the compact form of
// Serialize.
//
func (c *Circuit) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.records())
}

// UnmarshalJSON implements json.Unmarshaler. On error, c is left unchanged.
//
func (c *Circuit) UnmarshalJSON(data []byte) error {
	nc, err := Deserialize(data)
	if err != nil {
		return err
	}
	*c = *nc
	return nil
}
