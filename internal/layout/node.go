package layout

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Kind is the split orientation of a node, or window for a leaf.
type Kind string

const (
	KindVertical   Kind = "vertical"   // Children share the width, left to right.
	KindHorizontal Kind = "horizontal" // Children share the height, top to bottom.
	KindWindow     Kind = "window"     // Leaf: becomes one virtual monitor.
)

// Known reports whether k is one of the supported kinds.
func (k Kind) Known() bool {
	switch k {
	case KindVertical, KindHorizontal, KindWindow:
		return true
	}
	return false
}

// Node is one element of a layout tree.
type Node struct {
	Kind  Kind
	Width *int // percent of the parent's split axis; nil only on the root
	Nodes []*Node

	Line   int
	Column int
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Nodes) == 0
}

// WidthOrZero returns the declared width, or 0 when absent.
func (n *Node) WidthOrZero() int {
	if n.Width == nil {
		return 0
	}
	return *n.Width
}

// ParseError reports a layout document whose shape cannot be turned into a tree.
type ParseError struct {
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Msg
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = fmt.Sprintf("%s: %v", msg, e.Err)
		}
	}
	if e.Line > 0 {
		return fmt.Sprintf("layout parse error at line %d, column %d: %s", e.Line, e.Column, msg)
	}
	return "layout parse error: " + msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse builds a layout tree from a YAML document of the form
//
//	nodes:
//	  - type: vertical
//	    nodes:
//	      - {type: window, width: 50}
//	      - {type: window, width: 50}
//
// Only the shape is checked here; use VerifyTree for the width invariants.
func Parse(data []byte) (*Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Msg: "invalid YAML", Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &ParseError{Msg: "empty layout document"}
	}
	top := resolve(doc.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, shapeError(top, "layout document must be a mapping")
	}

	list := mappingValue(top, "nodes")
	if list == nil {
		return nil, shapeError(top, "layout document has no \"nodes\" list")
	}
	if list.Kind != yaml.SequenceNode {
		return nil, shapeError(list, "\"nodes\" must be a list")
	}
	if len(list.Content) == 0 {
		return nil, shapeError(list, "\"nodes\" list is empty")
	}
	return parseNode(list.Content[0])
}

func parseNode(y *yaml.Node) (*Node, error) {
	y = resolve(y)
	if y.Kind != yaml.MappingNode {
		return nil, shapeError(y, "node must be a mapping")
	}

	n := &Node{Line: y.Line, Column: y.Column}
	if v := mappingValue(y, "type"); v != nil {
		n.Kind = Kind(v.Value)
	}
	if v := mappingValue(y, "width"); v != nil && v.Tag != "!!null" {
		var w int
		if err := v.Decode(&w); err != nil {
			return nil, shapeError(v, fmt.Sprintf("width %q is not an integer", v.Value))
		}
		n.Width = &w
	}

	children := mappingValue(y, "nodes")
	if children == nil || children.Tag == "!!null" {
		return n, nil
	}
	if children.Kind != yaml.SequenceNode {
		return nil, shapeError(children, "\"nodes\" must be a list")
	}
	n.Nodes = make([]*Node, 0, len(children.Content))
	for _, c := range children.Content {
		child, err := parseNode(c)
		if err != nil {
			return nil, err
		}
		n.Nodes = append(n.Nodes, child)
	}
	return n, nil
}

// resolve follows aliases to the anchored node.
func resolve(y *yaml.Node) *yaml.Node {
	for y != nil && y.Kind == yaml.AliasNode && y.Alias != nil {
		y = y.Alias
	}
	return y
}

// mappingValue returns the value for key in mapping m, aliases resolved.
// Keys written in m win over keys pulled in through "<<" merges.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	m = resolve(m)
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	var merges []*yaml.Node
	for i := 0; i+1 < len(m.Content); i += 2 {
		k := resolve(m.Content[i])
		if k.ShortTag() == "!!merge" {
			merges = append(merges, resolve(m.Content[i+1]))
			continue
		}
		if k.Value == key {
			return resolve(m.Content[i+1])
		}
	}
	for _, src := range merges {
		if src.Kind == yaml.SequenceNode {
			for _, item := range src.Content {
				if v := mappingValue(item, key); v != nil {
					return v
				}
			}
			continue
		}
		if v := mappingValue(src, key); v != nil {
			return v
		}
	}
	return nil
}

func shapeError(y *yaml.Node, msg string) *ParseError {
	return &ParseError{Line: y.Line, Column: y.Column, Msg: msg}
}
