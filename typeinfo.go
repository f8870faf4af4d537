package sexp

import (
	"encoding"
	"reflect"
	"strings"
	"sync"
)

var (
	nodeType            = reflect.TypeOf(Node{})
	nodePtrType         = reflect.TypeOf((*Node)(nil))
	unmarshalerType     = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
	marshalerType       = reflect.TypeOf((*Marshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// Unmarshaler is implemented by types that decode themselves from a tree.
type Unmarshaler interface {
	UnmarshalSexp(n *Node) error
}

// Marshaler is implemented by types that encode themselves into a tree.
type Marshaler interface {
	MarshalSexp() (*Node, error)
}

type fieldInfo struct {
	name      string
	index     int
	typ       reflect.Type
	omitEmpty bool
	repeated  bool
}

// optional fields may be absent from the input. Pointers and interfaces
// are optional since Encode leaves them out when nil.
func (f *fieldInfo) optional() bool {
	switch f.typ.Kind() {
	case reflect.Pointer, reflect.Interface:
		return true
	}
	return f.omitEmpty || f.repeated
}

type structInfo struct {
	name   string
	tuple  bool
	fields []fieldInfo
	byName map[string]int
}

// unit structs carry no payload; they render as their bare name.
func (si *structInfo) unit() bool {
	return len(si.fields) == 0
}

var structCache sync.Map // map[reflect.Type]*structInfo

// structInfoFor describes how the struct type t maps onto a list. The head
// name and the tuple marker come from a blank field:
//
//	_ struct{} `sexp:"name,tuple"`
func structInfoFor(t reflect.Type) *structInfo {
	if si, ok := structCache.Load(t); ok {
		return si.(*structInfo)
	}

	si := &structInfo{
		name:   strings.ToLower(t.Name()),
		byName: make(map[string]int),
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		name, opts := parseTag(sf.Tag.Get("sexp"))

		if sf.Name == "_" {
			if name != "" {
				si.name = name
			}
			si.tuple = opts.has("tuple")
			continue
		}
		if !sf.IsExported() || name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(sf.Name)
		}

		si.byName[name] = len(si.fields)
		si.fields = append(si.fields, fieldInfo{
			name:      name,
			index:     i,
			typ:       sf.Type,
			omitEmpty: opts.has("omitempty"),
			repeated:  opts.has("repeated") && sf.Type.Kind() == reflect.Slice,
		})
	}

	actual, _ := structCache.LoadOrStore(t, si)
	return actual.(*structInfo)
}

type tagOptions string

func parseTag(tag string) (string, tagOptions) {
	name, opts, _ := strings.Cut(tag, ",")
	return name, tagOptions(opts)
}

func (o tagOptions) has(opt string) bool {
	for o != "" {
		cur, rest, _ := strings.Cut(string(o), ",")
		if cur == opt {
			return true
		}
		o = tagOptions(rest)
	}
	return false
}

// tupleInfo returns the struct info of t (or *t) when it is a tuple struct.
func tupleInfo(t reflect.Type) (*structInfo, bool) {
	if t.Kind() != reflect.Struct || isCustom(t) {
		return nil, false
	}
	si := structInfoFor(t)
	return si, si.tuple && !si.unit()
}

// compactKind reports whether a field of type t is written in the compact
// entry form (field v1 v2 ...) rather than (field value).
func compactKind(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if isCustom(t) {
		return false
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return true
	}
	_, ok := tupleInfo(t)
	return ok
}

// isCustom reports types that bypass the shape rules.
func isCustom(t reflect.Type) bool {
	if t == nodeType || t == nodePtrType {
		return true
	}
	pt := reflect.PointerTo(t)
	return t.Implements(unmarshalerType) || pt.Implements(unmarshalerType) ||
		t.Implements(marshalerType) || pt.Implements(marshalerType) ||
		t.Implements(textUnmarshalerType) || pt.Implements(textUnmarshalerType)
}
