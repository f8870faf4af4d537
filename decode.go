package sexp

import (
	"encoding"
	"reflect"
	"strconv"
	"strings"
)

// Decode stores the value described by n into the Go value v points to. The
// type of v decides how n is read; see the package documentation.
func Decode(n *Node, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNotPointer
	}
	return decodeValue(n, rv.Elem())
}

func decodeValue(n *Node, v reflect.Value) error {
	t := v.Type()

	switch t {
	case nodePtrType:
		v.Set(reflect.ValueOf(n))
		return nil
	case nodeType:
		if n == nil {
			n = Empty()
		}
		v.Set(reflect.ValueOf(*n))
		return nil
	}

	if v.CanAddr() {
		switch u := v.Addr().Interface().(type) {
		case Unmarshaler:
			return u.UnmarshalSexp(n)
		case encoding.TextUnmarshaler:
			return decodeText(n, u)
		}
	}

	switch t.Kind() {
	case reflect.Pointer:
		return decodeOption(n, v)
	case reflect.Slice, reflect.Array:
		return decodeSequence(n, v)
	case reflect.Interface:
		return decodeInterface(n, v)
	case reflect.Struct:
		si := structInfoFor(t)
		switch {
		case si.unit():
			return decodeUnit(n, si)
		case si.tuple:
			return decodeTuple(n, v, si)
		}
		return decodeRecord(n, v, si)
	}
	return decodeScalar(n, v)
}

func decodeText(n *Node, u encoding.TextUnmarshaler) error {
	if !n.IsScalar() {
		return decodeErrorf("expecting scalar got %s", n)
	}
	if err := u.UnmarshalText([]byte(n.Text)); err != nil {
		return &DecodeError{Msg: "cannot decode " + Quote(n.Text), Err: err}
	}
	return nil
}

// decodeScalar reads the text of a symbol or string into a string, bool or
// number.
func decodeScalar(n *Node, v reflect.Value) error {
	if !n.IsScalar() {
		return decodeErrorf("expecting %s got %s", v.Type(), describe(n))
	}
	s := n.Text

	switch v.Kind() {
	case reflect.String:
		v.SetString(s)
	case reflect.Bool:
		switch s {
		case "true":
			v.SetBool(true)
		case "false":
			v.SetBool(false)
		default:
			return decodeErrorf("expecting true or false got %s", Quote(s))
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(s, 10, v.Type().Bits())
		if err != nil {
			return &DecodeError{Msg: "error parsing int", Err: err}
		}
		v.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := strconv.ParseUint(s, 10, v.Type().Bits())
		if err != nil {
			return &DecodeError{Msg: "error parsing uint", Err: err}
		}
		v.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, v.Type().Bits())
		if err != nil {
			return &DecodeError{Msg: "error parsing float", Err: err}
		}
		v.SetFloat(f)
	default:
		return &DecodeError{Msg: "cannot decode into " + v.Type().String(), Err: ErrUnsupportedType}
	}
	return nil
}

// decodeOption maps an empty node to nil and anything else to a pointer to
// the decoded value.
func decodeOption(n *Node, v reflect.Value) error {
	if n.IsEmpty() {
		v.Set(reflect.Zero(v.Type()))
		return nil
	}
	p := reflect.New(v.Type().Elem())
	if err := decodeValue(n, p.Elem()); err != nil {
		return err
	}
	v.Set(p)
	return nil
}

// decodeSequence decodes every child of a list in order. An empty node is
// an empty sequence.
func decodeSequence(n *Node, v reflect.Value) error {
	if n.IsEmpty() {
		return decodeItems(nil, v)
	}
	if !n.IsList() {
		return decodeErrorf("expecting list got %s", describe(n))
	}
	return decodeItems(n.List, v)
}

func decodeItems(items []*Node, v reflect.Value) error {
	if v.Kind() == reflect.Array {
		if len(items) != v.Len() {
			return decodeErrorf("expecting %d elements got %d", v.Len(), len(items))
		}
	} else {
		v.Set(reflect.MakeSlice(v.Type(), len(items), len(items)))
	}

	for i, item := range items {
		if err := decodeValue(item, v.Index(i)); err != nil {
			return atField(err, strconv.Itoa(i))
		}
	}
	return nil
}

// checkHead verifies that n is a list named like si and returns the
// children after the head.
func checkHead(n *Node, si *structInfo) ([]*Node, error) {
	if !n.IsList() {
		return nil, decodeErrorf("expecting list (%s ...) got %s", si.name, describe(n))
	}
	if len(n.List) == 0 {
		return nil, decodeErrorf("expecting name %s got empty list", si.name)
	}
	head := n.List[0]
	if !head.IsScalar() {
		return nil, decodeErrorf("expecting symbol as first element of list got %s", head)
	}
	if !strings.EqualFold(head.Text, si.name) {
		return nil, decodeErrorf("expecting name %s got %s", si.name, head.Text)
	}
	return n.List[1:], nil
}

func decodeUnit(n *Node, si *structInfo) error {
	switch {
	case n.IsEmpty():
		return nil
	case n.IsScalar() && si.name != "" && strings.EqualFold(n.Text, si.name):
		return nil
	case n.IsList():
		rest, err := checkHead(n, si)
		if err != nil {
			return err
		}
		if len(rest) > 0 {
			return decodeErrorf("expecting no values for %s got %d", si.name, len(rest))
		}
		return nil
	}
	return decodeErrorf("expecting %s got %s", si.name, describe(n))
}

// decodeRecord reads (name (field value) ...).
func decodeRecord(n *Node, v reflect.Value, si *structInfo) error {
	entries, err := checkHead(n, si)
	if err != nil {
		return err
	}
	return decodeEntries(entries, v, si)
}

func decodeEntries(entries []*Node, v reflect.Value, si *structInfo) error {
	seen := make([]bool, len(si.fields))

	for _, entry := range entries {
		if entry.Len() == 0 || !entry.List[0].IsScalar() {
			return decodeErrorf("expecting (field value) in %s got %s", si.name, entry)
		}
		idx, ok := si.byName[entry.List[0].Text]
		if !ok {
			// unknown fields are skipped
			continue
		}

		f := &si.fields[idx]
		fv := v.Field(f.index)
		if f.repeated {
			if !seen[idx] {
				fv.Set(reflect.Zero(f.typ))
			}
			elem := reflect.New(f.typ.Elem()).Elem()
			if err := decodeValue(entry, elem); err != nil {
				return atField(atField(err, strconv.Itoa(fv.Len())), f.name)
			}
			fv.Set(reflect.Append(fv, elem))
			seen[idx] = true
			continue
		}
		if seen[idx] {
			return atField(decodeErrorf("duplicate field %s", f.name), f.name)
		}
		if err := decodeEntry(entry.List[1:], fv); err != nil {
			return atField(err, f.name)
		}
		seen[idx] = true
	}

	for i := range si.fields {
		if seen[i] {
			continue
		}
		f := &si.fields[i]
		if !f.optional() {
			return decodeErrorf("missing field %s in %s", f.name, si.name)
		}
		fv := v.Field(f.index)
		fv.Set(reflect.Zero(fv.Type()))
	}
	return nil
}

// decodeEntry decodes the values after a field name. Sequences and tuple
// structs take all of them, everything else exactly one.
func decodeEntry(values []*Node, v reflect.Value) error {
	if !compactKind(v.Type()) {
		if len(values) != 1 {
			return decodeErrorf("expecting one value got %d", len(values))
		}
		return decodeValue(values[0], v)
	}

	target := v
	if v.Kind() == reflect.Pointer {
		target = reflect.New(v.Type().Elem()).Elem()
	}

	var err error
	if si, ok := tupleInfo(target.Type()); ok {
		err = decodeTupleItems(values, target, si)
	} else {
		err = decodeItems(values, target)
	}
	if err != nil {
		return err
	}

	if v.Kind() == reflect.Pointer {
		v.Set(target.Addr())
	}
	return nil
}

// decodeTuple reads (name v1 v2 ...).
func decodeTuple(n *Node, v reflect.Value, si *structInfo) error {
	items, err := checkHead(n, si)
	if err != nil {
		return err
	}
	return decodeTupleItems(items, v, si)
}

// decodeTupleItems assigns items to the fields of v by position. Trailing
// optional fields may be missing and a trailing slice field takes every
// remaining item.
func decodeTupleItems(items []*Node, v reflect.Value, si *structInfo) error {
	fields := si.fields
	last := len(fields) - 1
	variadic := fields[last].typ.Kind() == reflect.Slice && !isCustom(fields[last].typ)

	required := 0
	for i := range fields {
		if !fields[i].optional() && !(variadic && i == last) {
			required = i + 1
		}
	}
	if len(items) < required || (!variadic && len(items) > len(fields)) {
		return decodeErrorf("expecting %d elements for tuple struct %s got %d", len(fields), si.name, len(items))
	}

	for i := range fields {
		f := &fields[i]
		fv := v.Field(f.index)
		if variadic && i == last {
			var rest []*Node
			if i < len(items) {
				rest = items[i:]
			}
			if err := decodeItems(rest, fv); err != nil {
				return atField(err, f.name)
			}
			continue
		}
		if i >= len(items) {
			fv.Set(reflect.Zero(fv.Type()))
			continue
		}
		if err := decodeValue(items[i], fv); err != nil {
			return atField(err, f.name)
		}
	}
	return nil
}

func decodeInterface(n *Node, v reflect.Value) error {
	if e, ok := enumInfoFor(v.Type()); ok {
		return decodeEnum(n, v, e)
	}
	if v.NumMethod() == 0 {
		x := decodeAny(n)
		if x == nil {
			v.Set(reflect.Zero(v.Type()))
			return nil
		}
		v.Set(reflect.ValueOf(x))
		return nil
	}
	return &DecodeError{Msg: "no variants registered for " + v.Type().String(), Err: ErrUnsupportedType}
}

// decodeAny builds the generic form: nil, string or []interface{}.
func decodeAny(n *Node) interface{} {
	switch {
	case n.IsScalar():
		return n.Text
	case n.IsList():
		items := make([]interface{}, len(n.List))
		for i, c := range n.List {
			items[i] = decodeAny(c)
		}
		return items
	}
	return nil
}

// decodeEnum picks the variant named by a bare symbol or by the head of a
// list and decodes the rest of the list as its payload.
func decodeEnum(n *Node, v reflect.Value, e *enumInfo) error {
	var (
		name    string
		payload []*Node
		bare    bool
	)
	switch {
	case n.IsEmpty():
		v.Set(reflect.Zero(v.Type()))
		return nil
	case n.IsScalar():
		name, bare = n.Text, true
	case n.Len() > 0 && n.List[0].IsScalar():
		name, payload = n.List[0].Text, n.List[1:]
	default:
		return decodeErrorf("expecting variant of %s got %s", e.iface, describe(n))
	}

	vi := e.lookup(name)
	if vi == nil {
		return decodeErrorf("unknown variant %s of %s, expected one of: %s", name, e.iface, e.names())
	}

	ptr := reflect.New(vi.typ)
	target := ptr.Elem()
	if vi.typ.Kind() == reflect.Pointer {
		target.Set(reflect.New(vi.typ.Elem()))
		target = target.Elem()
	}

	var err error
	switch vi.kind {
	case variantUnit:
		if len(payload) > 0 {
			err = decodeErrorf("unit variant %s takes no values got %d", vi.name, len(payload))
		}
	case variantValue:
		if bare || len(payload) != 1 {
			err = decodeErrorf("variant %s expects one value got %d", vi.name, len(payload))
		} else {
			err = decodeValue(payload[0], target)
		}
	case variantTuple:
		if bare {
			err = decodeErrorf("variant %s expects values", vi.name)
		} else {
			err = decodeTupleItems(payload, target, structInfoFor(target.Type()))
		}
	case variantRecord:
		if bare {
			err = decodeErrorf("variant %s expects fields", vi.name)
		} else {
			err = decodeEntries(payload, target, structInfoFor(target.Type()))
		}
	}
	if err != nil {
		return atField(err, vi.name)
	}

	v.Set(ptr.Elem())
	return nil
}

// describe names the kind of n for error messages.
func describe(n *Node) string {
	if n.IsEmpty() {
		return "empty"
	}
	return n.Kind.String() + " " + n.String()
}
