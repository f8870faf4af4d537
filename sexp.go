package sexp

import (
	"strings"

	"github.com/pkg/errors"
)

type Kind int

var (
	ErrNotAList        = errors.New("not a list")
	ErrNotAScalar      = errors.New("not a scalar")
	ErrInvalidUTF8     = errors.New("input is not valid UTF-8")
	ErrInvalidToken    = errors.New("token cannot be represented")
	ErrNotPointer      = errors.New("decode target must be a non-nil pointer")
	ErrUnsupportedType = errors.New("unsupported type")
)

const (
	KindEmpty Kind = iota
	KindSymbol
	KindString
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindSymbol:
		return "symbol"
	case KindString:
		return "string"
	case KindList:
		return "list"
	}
	return "unknown"
}

// Node is a symbolic expression. Text is set for KindSymbol and KindString,
// List for KindList. A nil *Node behaves like an empty node.
type Node struct {
	Kind
	Text string
	List []*Node
}

func (n *Node) String() string {
	var sb strings.Builder

	// writing to a strings.Builder does not fail
	_ = Serialize(&sb, n, Compact{})

	return sb.String()
}

// Equal reports whether both trees have the same shape and texts. Symbols
// and strings with the same text are equal.
func (n *Node) Equal(o *Node) bool {
	if n.IsEmpty() || o.IsEmpty() {
		return n.IsEmpty() && o.IsEmpty()
	}
	if n.IsScalar() {
		return o.IsScalar() && n.Text == o.Text
	}
	if !o.IsList() || len(n.List) != len(o.List) {
		return false
	}
	for i := range n.List {
		if !n.List[i].Equal(o.List[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Kind: n.Kind, Text: n.Text}
	if n.List != nil {
		c.List = make([]*Node, len(n.List))
		for i, child := range n.List {
			c.List[i] = child.Clone()
		}
	}
	return c
}
