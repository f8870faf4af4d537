package sexp

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

type variantKind int

const (
	variantUnit   variantKind = iota // bare symbol
	variantValue                     // (name value), non-struct payload
	variantTuple                     // (name v1 v2 ...)
	variantRecord                    // (name (field value) ...)
)

type variantInfo struct {
	name string
	typ  reflect.Type // as registered, possibly a pointer
	kind variantKind
}

type enumInfo struct {
	iface    reflect.Type
	variants []*variantInfo
	byType   map[reflect.Type]*variantInfo
}

func (e *enumInfo) lookup(name string) *variantInfo {
	for _, v := range e.variants {
		if strings.EqualFold(v.name, name) {
			return v
		}
	}
	return nil
}

func (e *enumInfo) names() string {
	names := make([]string, len(e.variants))
	for i, v := range e.variants {
		names[i] = v.name
	}
	return strings.Join(names, ", ")
}

var enums = struct {
	sync.RWMutex
	m map[reflect.Type]*enumInfo
}{m: make(map[reflect.Type]*enumInfo)}

// RegisterEnum declares the variants of the interface type I. A variant is
// matched by its name, the lowercased type name or the name of its blank
// `_` field tag:
//
//   - structs without fields are unit variants, written as a bare symbol
//   - tuple structs are written as (name v1 v2 ...)
//   - other structs are written as (name (field value) ...)
//   - non-struct types are written as (name value)
//
// Registering the same interface again adds to its variants. RegisterEnum
// panics when I is not an interface type, like gob.Register it is meant to
// be called from init functions.
func RegisterEnum[I any](variants ...I) {
	iface := reflect.TypeOf((*I)(nil)).Elem()
	if iface.Kind() != reflect.Interface {
		panic(fmt.Sprintf("sexp: RegisterEnum of non-interface type %s", iface))
	}

	enums.Lock()
	defer enums.Unlock()

	e, ok := enums.m[iface]
	if !ok {
		e = &enumInfo{iface: iface, byType: make(map[reflect.Type]*variantInfo)}
		enums.m[iface] = e
	}

	for _, v := range variants {
		t := reflect.TypeOf(v)
		if t == nil {
			panic(fmt.Sprintf("sexp: RegisterEnum of nil variant for %s", iface))
		}
		if _, dup := e.byType[t]; dup {
			continue
		}
		vi := newVariantInfo(t)
		e.variants = append(e.variants, vi)
		e.byType[t] = vi
	}
}

func newVariantInfo(t reflect.Type) *variantInfo {
	base := t
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}

	vi := &variantInfo{typ: t, name: strings.ToLower(base.Name())}
	if base.Kind() != reflect.Struct || isCustom(base) {
		vi.kind = variantValue
		return vi
	}

	si := structInfoFor(base)
	vi.name = si.name
	switch {
	case si.unit():
		vi.kind = variantUnit
	case si.tuple:
		vi.kind = variantTuple
	default:
		vi.kind = variantRecord
	}
	return vi
}

func enumInfoFor(iface reflect.Type) (*enumInfo, bool) {
	enums.RLock()
	defer enums.RUnlock()
	e, ok := enums.m[iface]
	return e, ok
}
