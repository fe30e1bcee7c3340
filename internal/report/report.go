// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package report formats circuits and simulation traces for terminals.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/db47h/smlogic"
	"github.com/muesli/termenv"
)

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Markdown describes c as a markdown document with one table row per node
// in owned order. Inputs are listed by index.
//
func Markdown(title string, c *smlogic.Circuit) string {
	var b strings.Builder
	nodes := c.Nodes()
	counts := make(map[string]int)
	for _, n := range nodes {
		counts[n.Tag()]++
	}

	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "%d nodes, %d links, tick %d.\n\n", len(nodes), len(c.Links()), c.Ticks())
	b.WriteString("| # | kind | position | state | baseline | inputs | description |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for i, n := range nodes {
		ins := make([]string, 0, len(n.Inputs()))
		for _, h := range n.Inputs() {
			ins = append(ins, fmt.Sprint(c.Index(h)))
		}
		p := n.Position()
		fmt.Fprintf(&b, "| %d | %s | %g, %g | %s | %s | %s | %s |\n",
			i, n.Tag(), p.X, p.Y, onOff(n.State()), onOff(n.Baseline()),
			strings.Join(ins, " "), strings.ReplaceAll(n.Description(), "|", `\|`))
	}
	return b.String()
}

// Render renders markdown for a terminal. An empty style picks a dark or
// light style from the terminal background.
//
func Render(md string, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

// Tracer prints one line per tick showing the state of every node.
//
type Tracer struct {
	out *termenv.Output
	on  termenv.Color
	off termenv.Color
}

// NewTracer returns a tracer writing to w. Colors are only used if w is a
// terminal that supports them.
//
func NewTracer(w io.Writer, opts ...termenv.OutputOption) *Tracer {
	out := termenv.NewOutput(w, opts...)
	return &Tracer{
		out: out,
		on:  out.Color("#a3e635"),
		off: out.Color("#64748b"),
	}
}

// Trace writes the tick number and node states of c: '1' for nodes that are
// on, '0' for nodes that are off, in owned order.
//
func (t *Tracer) Trace(c *smlogic.Circuit) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%6d ", c.Ticks())
	for _, n := range c.Nodes() {
		if n.State() {
			b.WriteString(t.out.String("1").Foreground(t.on).Bold().String())
		} else {
			b.WriteString(t.out.String("0").Foreground(t.off).String())
		}
	}
	b.WriteByte('\n')
	_, err := io.WriteString(t.out, b.String())
	return err
}
