// Package memtree is an in-memory host tree plus a render.Backend over it.
// It stands in for a real DOM adapter: tests and the bundled commands render
// into it and assert on its serialized form.
package memtree

import (
	"fmt"
	"sort"
	"strings"
)

// Node is one host node. Text nodes have Tag "#text"; a document root has
// Tag "#document".
type Node struct {
	Tag    string
	Text   string
	Attrs  map[string]string
	Parent *Node

	children []*Node
}

func NewDocument() *Node {
	return &Node{Tag: "#document"}
}

func NewElement(tag string) *Node {
	return &Node{Tag: tag}
}

func NewText(text string) *Node {
	return &Node{Tag: "#text", Text: text}
}

func (n *Node) IsText() bool {
	return n.Tag == "#text"
}

func (n *Node) Children() []*Node {
	return n.children
}

// InsertBefore inserts (or relocates) child immediately before ref; a nil
// ref appends. Matches host-tree move semantics: an attached child is
// detached from its current position first.
func (n *Node) InsertBefore(child, ref *Node) {
	if child.Parent != nil {
		child.Parent.Remove(child)
	}
	pos := len(n.children)
	if ref != nil {
		for i, cur := range n.children {
			if cur == ref {
				pos = i
				break
			}
		}
	}
	n.children = append(n.children, nil)
	copy(n.children[pos+1:], n.children[pos:])
	n.children[pos] = child
	child.Parent = n
}

func (n *Node) Append(child *Node) {
	n.InsertBefore(child, nil)
}

func (n *Node) Remove(child *Node) {
	for i, cur := range n.children {
		if cur == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

func (n *Node) SetAttr(name, value string) {
	if n.Attrs == nil {
		n.Attrs = make(map[string]string)
	}
	n.Attrs[name] = value
}

func (n *Node) RemoveAttr(name string) {
	delete(n.Attrs, name)
}

// Render serializes the subtree. Empty text nodes (range markers) vanish,
// attributes print in name order, so output is deterministic and stable
// under marker churn.
func (n *Node) Render() string {
	var sb strings.Builder
	n.render(&sb)
	return sb.String()
}

func (n *Node) render(sb *strings.Builder) {
	switch {
	case n.IsText():
		sb.WriteString(n.Text)
	case n.Tag == "#document":
		for _, c := range n.children {
			c.render(sb)
		}
	default:
		sb.WriteByte('<')
		sb.WriteString(n.Tag)
		names := make([]string, 0, len(n.Attrs))
		for name := range n.Attrs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(sb, " %s=%q", name, n.Attrs[name])
		}
		sb.WriteByte('>')
		for _, c := range n.children {
			c.render(sb)
		}
		sb.WriteString("</")
		sb.WriteString(n.Tag)
		sb.WriteByte('>')
	}
}
