package sexp

import (
	"encoding"
	"reflect"
	"strconv"
)

// Encode builds the tree for v, the inverse of Decode. Pass a pointer to an
// interface variable to encode an enum value in its variant form.
func Encode(v interface{}) (*Node, error) {
	return encodeValue(reflect.ValueOf(v))
}

func encodeValue(v reflect.Value) (*Node, error) {
	if !v.IsValid() {
		return Empty(), nil
	}

	t := v.Type()
	switch t {
	case nodePtrType:
		if v.IsNil() {
			return Empty(), nil
		}
		return v.Interface().(*Node).Clone(), nil
	case nodeType:
		n := v.Interface().(Node)
		return n.Clone(), nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return Empty(), nil
		}
	case reflect.Interface:
		return encodeInterface(v)
	}

	if m, ok := asMarshaler(v); ok {
		return m.MarshalSexp()
	}
	if m, ok := v.Interface().(encoding.TextMarshaler); ok {
		b, err := m.MarshalText()
		if err != nil {
			return nil, &EncodeError{Msg: err.Error()}
		}
		return Symbol(string(b)), nil
	}

	switch t.Kind() {
	case reflect.Pointer:
		return encodeValue(v.Elem())
	case reflect.Slice, reflect.Array:
		return encodeSequence(v)
	case reflect.Struct:
		si := structInfoFor(t)
		switch {
		case si.unit():
			if si.name == "" {
				return Empty(), nil
			}
			return Symbol(si.name), nil
		case si.tuple:
			return encodeTuple(v, si)
		}
		return encodeRecord(v, si)
	}
	return encodeScalar(v)
}

// asMarshaler also finds MarshalSexp methods declared on the pointer type.
func asMarshaler(v reflect.Value) (Marshaler, bool) {
	if m, ok := v.Interface().(Marshaler); ok {
		return m, true
	}
	if v.CanAddr() {
		m, ok := v.Addr().Interface().(Marshaler)
		return m, ok
	}
	return nil, false
}

func encodeScalar(v reflect.Value) (*Node, error) {
	switch v.Kind() {
	case reflect.String:
		return Symbol(v.String()), nil
	case reflect.Bool:
		return FromBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return FromInt(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return FromUint(v.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return Symbol(strconv.FormatFloat(v.Float(), 'f', -1, v.Type().Bits())), nil
	}
	return nil, &EncodeError{Msg: "cannot encode " + v.Type().String()}
}

func encodeSequence(v reflect.Value) (*Node, error) {
	items, err := encodeItems(v)
	if err != nil {
		return nil, err
	}
	return List(items...), nil
}

func encodeItems(v reflect.Value) ([]*Node, error) {
	items := make([]*Node, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		item, err := encodeValue(v.Index(i))
		if err != nil {
			return nil, encodeAtField(err, strconv.Itoa(i))
		}
		items = append(items, item)
	}
	return items, nil
}

// encodeRecord writes (name (field value) ...), leaving out absent fields.
func encodeRecord(v reflect.Value, si *structInfo) (*Node, error) {
	entries, err := encodeEntries(v, si)
	if err != nil {
		return nil, err
	}
	return List(append([]*Node{Symbol(si.name)}, entries...)...), nil
}

func encodeEntries(v reflect.Value, si *structInfo) ([]*Node, error) {
	entries := make([]*Node, 0, len(si.fields))
	for i := range si.fields {
		f := &si.fields[i]
		fv := v.Field(f.index)

		if f.repeated {
			items, err := encodeItems(fv)
			if err != nil {
				return nil, encodeAtField(err, f.name)
			}
			entries = append(entries, items...)
			continue
		}
		if absent(fv, f) {
			continue
		}

		entry, err := encodeEntry(f.name, fv)
		if err != nil {
			return nil, encodeAtField(err, f.name)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// absent reports the fields Encode leaves out: nil pointers and interfaces,
// and zero values of omitempty fields.
func absent(v reflect.Value, f *fieldInfo) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return true
		}
	}
	if !f.omitEmpty {
		return false
	}
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.String:
		return v.Len() == 0
	}
	return v.IsZero()
}

func encodeEntry(name string, v reflect.Value) (*Node, error) {
	if !compactKind(v.Type()) {
		value, err := encodeValue(v)
		if err != nil {
			return nil, err
		}
		return Pair(name, value), nil
	}

	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	var (
		items []*Node
		err   error
	)
	if si, ok := tupleInfo(v.Type()); ok {
		items, err = encodeTupleItems(v, si)
	} else {
		items, err = encodeItems(v)
	}
	if err != nil {
		return nil, err
	}
	return List(append([]*Node{Symbol(name)}, items...)...), nil
}

// encodeTuple writes (name v1 v2 ...).
func encodeTuple(v reflect.Value, si *structInfo) (*Node, error) {
	items, err := encodeTupleItems(v, si)
	if err != nil {
		return nil, err
	}
	return List(append([]*Node{Symbol(si.name)}, items...)...), nil
}

func encodeTupleItems(v reflect.Value, si *structInfo) ([]*Node, error) {
	fields := si.fields
	last := len(fields) - 1
	variadic := fields[last].typ.Kind() == reflect.Slice && !isCustom(fields[last].typ)

	items := make([]*Node, 0, len(fields))
	missing := -1
	for i := range fields {
		f := &fields[i]
		fv := v.Field(f.index)

		if variadic && i == last {
			rest, err := encodeItems(fv)
			if err != nil {
				return nil, encodeAtField(err, f.name)
			}
			if len(rest) > 0 && missing >= 0 {
				return nil, &EncodeError{Path: []string{fields[missing].name}, Msg: "optional value missing before later values"}
			}
			items = append(items, rest...)
			continue
		}

		if absent(fv, f) {
			if missing < 0 {
				missing = i
			}
			continue
		}
		if missing >= 0 {
			return nil, &EncodeError{Path: []string{fields[missing].name}, Msg: "optional value missing before later values"}
		}

		item, err := encodeValue(fv)
		if err != nil {
			return nil, encodeAtField(err, f.name)
		}
		items = append(items, item)
	}
	return items, nil
}

// encodeInterface writes registered enum values in their variant form.
func encodeInterface(v reflect.Value) (*Node, error) {
	if v.IsNil() {
		return Empty(), nil
	}
	elem := v.Elem()

	e, ok := enumInfoFor(v.Type())
	if !ok {
		return encodeValue(elem)
	}
	vi, ok := e.byType[elem.Type()]
	if !ok {
		return nil, &EncodeError{Msg: elem.Type().String() + " is not a registered variant of " + e.iface.String()}
	}

	switch vi.kind {
	case variantValue:
		payload, err := encodeValue(elem)
		if err != nil {
			return nil, encodeAtField(err, vi.name)
		}
		return List(Symbol(vi.name), payload), nil
	case variantUnit:
		return Symbol(vi.name), nil
	}
	return encodeValue(elem)
}
