// Package interop converts trees to and from JSON, CBOR and msgpack.
//
// A tree maps onto the generic data model of those formats as
//
//	empty  <-> null
//	scalar <-> string
//	list   <-> array
//
// Numbers and booleans coming from the other side become symbols holding
// their text. Maps become lists of (key value) pairs sorted by key, so they
// don't survive a round trip as maps.
package interop

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/ugorji/go/codec"

	sexp "github.com/alttpo/gsexp"
)

// JSON returns a handle writing compact JSON.
func JSON() codec.Handle {
	var h codec.JsonHandle
	h.MapType = reflect.TypeOf(map[string]interface{}(nil))
	h.Canonical = true
	return &h
}

func CBOR() codec.Handle {
	var h codec.CborHandle
	h.Canonical = true
	return &h
}

// Msgpack returns a handle using the current msgpack format, with strings
// written as str and decoded as string.
func Msgpack() codec.Handle {
	var h codec.MsgpackHandle
	h.WriteExt = true
	h.RawToString = true
	h.Canonical = true
	return &h
}

// HandleFor returns the handle registered under name: json, cbor or msgpack.
func HandleFor(name string) (codec.Handle, error) {
	switch strings.ToLower(name) {
	case "json":
		return JSON(), nil
	case "cbor":
		return CBOR(), nil
	case "msgpack", "mp":
		return Msgpack(), nil
	}
	return nil, errors.Errorf("interop: unknown format %q", name)
}

// ToValue returns the generic form of n: nil, string or []interface{}.
func ToValue(n *sexp.Node) interface{} {
	switch {
	case n.IsScalar():
		return n.Text
	case n.IsList():
		items := make([]interface{}, len(n.List))
		for i, c := range n.List {
			items[i] = ToValue(c)
		}
		return items
	}
	return nil
}

// FromValue builds a tree from a value produced by a schema-less decoder.
func FromValue(v interface{}) (*sexp.Node, error) {
	switch v := v.(type) {
	case nil:
		return sexp.Empty(), nil
	case string:
		return sexp.Symbol(v), nil
	case []byte:
		return sexp.Symbol(string(v)), nil
	case bool:
		return sexp.FromBool(v), nil
	case int64:
		return sexp.FromInt(v), nil
	case uint64:
		return sexp.FromUint(v), nil
	case float64:
		return sexp.FromFloat(v), nil
	case float32:
		return sexp.Symbol(strconv.FormatFloat(float64(v), 'f', -1, 32)), nil
	case []interface{}:
		items := make([]*sexp.Node, len(v))
		for i, item := range v {
			n, err := FromValue(item)
			if err != nil {
				return nil, errors.Wrapf(err, "element %d", i)
			}
			items[i] = n
		}
		return sexp.List(items...), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		return fromMap(rv)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return sexp.FromInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32:
		return sexp.FromUint(rv.Uint()), nil
	}
	return nil, errors.Errorf("interop: cannot convert %T", v)
}

func fromMap(m reflect.Value) (*sexp.Node, error) {
	type entry struct {
		key   string
		value reflect.Value
	}

	entries := make([]entry, 0, m.Len())
	iter := m.MapRange()
	for iter.Next() {
		entries = append(entries, entry{
			key:   fmt.Sprint(iter.Key().Interface()),
			value: iter.Value(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	pairs := make([]*sexp.Node, len(entries))
	for i, e := range entries {
		value, err := FromValue(e.value.Interface())
		if err != nil {
			return nil, errors.Wrapf(err, "key %s", e.key)
		}
		pairs[i] = sexp.Pair(e.key, value)
	}
	return sexp.List(pairs...), nil
}

// Marshal writes the generic form of n in the format of h.
func Marshal(n *sexp.Node, h codec.Handle) ([]byte, error) {
	var b []byte
	if err := codec.NewEncoderBytes(&b, h).Encode(ToValue(n)); err != nil {
		return nil, errors.Wrapf(err, "interop: failed to encode %s", h.Name())
	}
	return b, nil
}

// Unmarshal reads one value in the format of h and converts it to a tree.
func Unmarshal(data []byte, h codec.Handle) (*sexp.Node, error) {
	var v interface{}
	if err := codec.NewDecoderBytes(data, h).Decode(&v); err != nil {
		return nil, errors.Wrapf(err, "interop: failed to decode %s", h.Name())
	}
	return FromValue(v)
}
