package sexp

import (
	"strconv"

	"github.com/pkg/errors"
)

func (n *Node) IsEmpty() bool {
	return n == nil || n.Kind == KindEmpty
}

// IsScalar reports whether n is a symbol or a string.
func (n *Node) IsScalar() bool {
	return n != nil && (n.Kind == KindSymbol || n.Kind == KindString)
}

func (n *Node) IsList() bool {
	return n != nil && n.Kind == KindList
}

// Len is the number of children of a list, 0 for anything else.
func (n *Node) Len() int {
	if !n.IsList() {
		return 0
	}
	return len(n.List)
}

// Head returns the first child of a list, or nil.
func (n *Node) Head() *Node {
	if n.Len() == 0 {
		return nil
	}
	return n.List[0]
}

// Tail returns the children after the head.
func (n *Node) Tail() []*Node {
	if n.Len() == 0 {
		return nil
	}
	return n.List[1:]
}

func (n *Node) Children() ([]*Node, error) {
	if !n.IsList() {
		return nil, errors.Wrapf(ErrNotAList, "%s", n)
	}
	return n.List, nil
}

func (n *Node) Str() (string, error) {
	if !n.IsScalar() {
		return "", errors.Wrapf(ErrNotAScalar, "%s", n)
	}
	return n.Text, nil
}

func (n *Node) Int() (int64, error) {
	s, err := n.Str()
	if err != nil {
		return 0, err
	}
	i, err := strconv.ParseInt(s, 10, 64)
	return i, errors.Wrap(err, "error parsing int")
}

func (n *Node) Float() (float64, error) {
	s, err := n.Str()
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, errors.Wrap(err, "error parsing float")
}

// ListName returns the head symbol of a list.
func (n *Node) ListName() (string, error) {
	if n.Len() == 0 {
		return "", errors.Wrapf(ErrNotAList, "no head in %s", n)
	}
	return n.List[0].Str()
}

// SliceAtom returns the children after the head, which must be name.
func (n *Node) SliceAtom(name string) ([]*Node, error) {
	head, err := n.ListName()
	if err != nil {
		return nil, err
	}
	if head != name {
		return nil, errors.Errorf("list %s doesn't start with %s, but with %s", n, name, head)
	}
	return n.List[1:], nil
}

// SliceAtomNum is SliceAtom that also requires exactly num children after
// the head.
func (n *Node) SliceAtomNum(name string, num int) ([]*Node, error) {
	rest, err := n.SliceAtom(name)
	if err != nil {
		return nil, err
	}
	if len(rest) != num {
		return nil, errors.Errorf("list (%s) doesn't have %d elements but %d", name, num, len(rest))
	}
	return rest, nil
}

// NamedValue returns value from the pair (name value).
func (n *Node) NamedValue(name string) (*Node, error) {
	rest, err := n.SliceAtomNum(name, 1)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s is not a named value", n)
	}
	return rest[0], nil
}

func (n *Node) NamedValueString(name string) (string, error) {
	v, err := n.NamedValue(name)
	if err != nil {
		return "", err
	}
	return v.Str()
}

func (n *Node) NamedValueInt(name string) (int64, error) {
	v, err := n.NamedValue(name)
	if err != nil {
		return 0, err
	}
	return v.Int()
}

func (n *Node) NamedValueFloat(name string) (float64, error) {
	v, err := n.NamedValue(name)
	if err != nil {
		return 0, err
	}
	return v.Float()
}
