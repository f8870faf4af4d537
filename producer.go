package sexp

import (
	"strconv"
	"strings"
)

func Empty() *Node {
	return &Node{Kind: KindEmpty}
}

// Symbol returns a bare token. Tokens that need quoting are still rendered
// quoted by the serializer.
func Symbol(s string) *Node {
	return &Node{Kind: KindSymbol, Text: s}
}

// String returns a token that always renders quoted.
func String(s string) *Node {
	return &Node{Kind: KindString, Text: s}
}

func List(children ...*Node) *Node {
	if children == nil {
		children = make([]*Node, 0)
	}
	return &Node{Kind: KindList, List: children}
}

// MustSymbol is like Symbol but panics when s ends in a backslash and needs
// quoting, the one token the quoted form cannot carry.
func MustSymbol(s string) *Node {
	if NeedsQuote(s) && strings.HasSuffix(s, `\`) {
		panic(ErrInvalidToken)
	}
	return Symbol(s)
}

// Start begins a list headed by the symbol name; add children with Push.
func Start(name string) *Node {
	return List(Symbol(name))
}

// Push appends child to the list n and returns n. Pushing onto a scalar or
// empty node turns it into a list holding the old value first.
func (n *Node) Push(child *Node) *Node {
	switch n.Kind {
	case KindList:
	case KindEmpty:
		n.Kind, n.List = KindList, make([]*Node, 0, 2)
	default:
		first := &Node{Kind: n.Kind, Text: n.Text}
		n.Kind, n.Text, n.List = KindList, "", []*Node{first}
	}
	n.List = append(n.List, child)
	return n
}

// Pair returns the named value (name value).
func Pair(name string, value *Node) *Node {
	return List(Symbol(name), value)
}

func FromInt(i int64) *Node {
	return Symbol(strconv.FormatInt(i, 10))
}

func FromUint(u uint64) *Node {
	return Symbol(strconv.FormatUint(u, 10))
}

// FromFloat renders f without an exponent, the way EDA files write numbers.
func FromFloat(f float64) *Node {
	return Symbol(strconv.FormatFloat(f, 'f', -1, 64))
}

func FromBool(b bool) *Node {
	return Symbol(strconv.FormatBool(b))
}
