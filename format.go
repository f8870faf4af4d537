package sexp

import (
	"bufio"
	"io"
	"strings"
)

// Style selects a layout for Serialize. It is a closed set: Compact, Rules
// and Pretty.
type Style interface {
	style()
}

// Compact renders every list on one line with single spaces between
// children.
type Compact struct{}

// Rules is Compact plus a line break and indent before every nested list
// whose head symbol has an entry in Table. The break replaces the space that
// would otherwise separate the list from its previous sibling.
type Rules struct {
	Table RuleTable
}

// Pretty keeps leading inlineable children (scalars and single-element
// lists) on the opening line and puts every child from the first other one
// onwards on its own line, one level deeper. At least one child always stays
// inline. Indent defaults to two spaces.
type Pretty struct {
	Indent string
}

func (Compact) style() {}
func (Rules) style()   {}
func (Pretty) style()  {}

// frame is one open list on the walker's stack.
type frame struct {
	list   []*Node
	depth  int
	next   int
	inline int
}

// Serialize writes n to w using style. Nesting depth is bounded by memory,
// not by the goroutine stack.
func Serialize(w io.Writer, n *Node, style Style) error {
	bw := bufio.NewWriter(w)
	writeTree(bw, n, style)
	return bw.Flush()
}

// Format returns the rendering of n using style.
func Format(n *Node, style Style) string {
	var sb strings.Builder
	_ = Serialize(&sb, n, style)
	return sb.String()
}

func writeScalar(w *bufio.Writer, n *Node) {
	if n.Kind == KindString {
		w.WriteString(quoteAlways(n.Text))
		return
	}
	w.WriteString(Quote(n.Text))
}

func writeTree(w *bufio.Writer, root *Node, style Style) {
	if root.IsEmpty() {
		return
	}
	if root.Kind != KindList {
		writeScalar(w, root)
		return
	}

	if style == nil {
		style = Compact{}
	}
	indent := "  "
	if p, ok := style.(Pretty); ok && p.Indent != "" {
		indent = p.Indent
	}

	stack := make([]frame, 0, 32)
	stack = append(stack, openList(w, root, 0, style))

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.list) {
			w.WriteByte(')')
			stack = stack[:len(stack)-1]
			continue
		}

		i := top.next
		child := top.list[i]
		depth := top.depth
		top.next++

		if i > 0 {
			separate(w, style, top, i, child, indent)
		}

		switch {
		case child.IsEmpty():
		case child.Kind == KindList:
			if r, ok := style.(Rules); ok {
				if d, ok := r.Table.depthFor(child); ok {
					w.WriteByte('\n')
					w.WriteString(strings.Repeat("  ", d))
				}
			}
			stack = append(stack, openList(w, child, depth+1, style))
		default:
			writeScalar(w, child)
		}
	}
}

func openList(w *bufio.Writer, n *Node, depth int, style Style) frame {
	w.WriteByte('(')
	f := frame{list: n.List, depth: depth}
	if _, ok := style.(Pretty); ok {
		f.inline = inlineCount(n.List)
	}
	return f
}

// separate writes what goes between sibling i-1 and sibling i.
func separate(w *bufio.Writer, style Style, f *frame, i int, child *Node, indent string) {
	switch s := style.(type) {
	case Rules:
		if _, ok := s.Table.depthFor(child); ok {
			return
		}
	case Pretty:
		if i >= f.inline {
			w.WriteByte('\n')
			w.WriteString(strings.Repeat(indent, f.depth+1))
			return
		}
	}
	w.WriteByte(' ')
}

func inlineable(n *Node) bool {
	return n == nil || n.Kind != KindList || len(n.List) == 1
}

// inlineCount is the number of leading children rendered on the opening
// line of a list.
func inlineCount(list []*Node) int {
	budget := 0
	firstBreak := len(list)
	for i, c := range list {
		if inlineable(c) {
			budget++
		} else if firstBreak == len(list) {
			firstBreak = i
		}
	}
	n := min(budget, firstBreak)
	if n < 1 {
		n = 1
	}
	return n
}
