// Package splitter turns a verified layout tree into virtual monitor
// definitions for the primary display and removes them again.
package splitter

import (
	"fmt"

	"github.com/1broseidon/xscreensplit/internal/display"
	"github.com/1broseidon/xscreensplit/internal/layout"
)

// DefaultPrefix starts the name of every generated virtual monitor.
const DefaultPrefix = "V-"

// axisToken returns the name segment letter for a split orientation.
func axisToken(k layout.Kind) string {
	if k == layout.KindHorizontal {
		return "h"
	}
	return "v"
}

type partitioner struct {
	emit  func(display.Request)
	clone string // consumed by the first leaf
}

// Partition walks root depth-first, left to right, and calls emit once per
// window leaf with its rectangle inside primary. Children of a vertical node
// share the width and children of a horizontal node share the height, each
// getting size*width/100 truncated; the remainder is not redistributed. The
// physical size of primary is passed through unchanged to every leaf, so each
// virtual monitor reports the whole panel's mm size rather than a scaled one.
//
// Only the first leaf clones primary's output; every other leaf gets
// display.NoClone.
func Partition(root *layout.Node, primary display.Monitor, prefix string, emit func(display.Request)) {
	if root == nil {
		return
	}
	p := &partitioner{emit: emit, clone: cloneSource(primary)}
	p.split(root, primary.Geometry, prefix+primary.Name)
}

// Plan returns the requests Partition would emit, in order.
func Plan(root *layout.Node, primary display.Monitor, prefix string) []display.Request {
	var out []display.Request
	Partition(root, primary, prefix, func(req display.Request) {
		out = append(out, req)
	})
	return out
}

func cloneSource(primary display.Monitor) string {
	if len(primary.Outputs) > 0 && primary.Outputs[0] != "" {
		return primary.Outputs[0]
	}
	return primary.Name
}

func (p *partitioner) split(n *layout.Node, g display.Geometry, name string) {
	if n.Kind == layout.KindWindow {
		p.leaf(g, name)
		return
	}

	cursor := g.X
	if n.Kind == layout.KindHorizontal {
		cursor = g.Y
	}
	for i, child := range n.Nodes {
		pct := child.WidthOrZero()
		cg := g
		if n.Kind == layout.KindHorizontal {
			cg.Height = g.Height * pct / 100
			cg.Y = cursor
			cursor += cg.Height
		} else {
			cg.Width = g.Width * pct / 100
			cg.X = cursor
			cursor += cg.Width
		}

		childName := fmt.Sprintf("%s_%s%d-%d", name, axisToken(n.Kind), i, pct)
		if child.Kind == layout.KindWindow {
			p.leaf(cg, childName)
			continue
		}
		p.split(child, cg, childName)
	}
}

func (p *partitioner) leaf(g display.Geometry, name string) {
	clone := display.NoClone
	if p.clone != "" {
		clone = p.clone
		p.clone = ""
	}
	p.emit(display.Request{Name: name, Geometry: g, CloneSource: clone})
}
