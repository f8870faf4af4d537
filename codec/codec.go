// Package codec adapts the sexp tree codec to a value-at-a-time interface
// for storing and streaming typed values.
package codec

import (
	"io"
	"reflect"

	"github.com/pkg/errors"

	sexp "github.com/alttpo/gsexp"
)

type Codec interface {
	// Marshal encodes a single value and returns the serialized byte slice.
	Marshal(value interface{}) ([]byte, error)

	// Unmarshal decodes and returns the value stored in data.
	Unmarshal(data []byte) (interface{}, error)

	NewDecoder(io.Reader) Decoder
	NewEncoder(io.Writer) Encoder
}

type Decoder interface {
	Decode() (interface{}, error)
}

type Encoder interface {
	Encode(v interface{}) error
}

// NewCodec creates a codec that decodes into values of type tipe. With a nil
// tipe values are returned as *sexp.Node trees.
func NewCodec(tipe interface{}) Codec {
	if tipe == nil {
		return &codec{any: true}
	}

	t := reflect.TypeOf(tipe)
	isPtr := t.Kind() == reflect.Ptr
	if isPtr {
		t = t.Elem()
	}

	return &codec{
		tipe:  t,
		asPtr: isPtr,
	}
}

type codec struct {
	tipe  reflect.Type
	asPtr bool
	any   bool
}

func (*codec) Marshal(v interface{}) ([]byte, error) {
	return sexp.Marshal(v)
}

func (c *codec) Unmarshal(data []byte) (interface{}, error) {
	n, err := sexp.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	return c.decode(n)
}

func (c *codec) decode(n *sexp.Node) (interface{}, error) {
	if c.any {
		return n, nil
	}

	v := reflect.New(c.tipe)
	if err := sexp.Decode(n, v.Interface()); err != nil {
		return nil, errors.Wrapf(err, "codec: failed to decode %s", c.tipe)
	}

	if !c.asPtr {
		return v.Elem().Interface(), nil
	}
	return v.Interface(), nil
}

// NewEncoder returns an encoder writing one value per line.
func (*codec) NewEncoder(w io.Writer) Encoder {
	return &encoder{w: w}
}

type encoder struct {
	w io.Writer
}

func (enc *encoder) Encode(v interface{}) error {
	b, err := sexp.Marshal(v)
	if err != nil {
		return err
	}

	_, err = enc.w.Write(append(b, '\n'))
	return errors.Wrap(err, "codec: failed to write value")
}

// NewDecoder returns a decoder yielding the top-level values of r in order.
// The input is read in full on the first call to Decode.
func (c *codec) NewDecoder(r io.Reader) Decoder {
	return &decoder{
		c: c,
		r: r,
	}
}

type decoder struct {
	c *codec
	r io.Reader

	nodes []*sexp.Node
	read  bool
	err   error // sticky read or parse failure
}

// Decode returns io.EOF after the last value. A read or parse failure is
// returned again on every later call.
func (dec *decoder) Decode() (interface{}, error) {
	if !dec.read {
		dec.read = true

		b, err := io.ReadAll(dec.r)
		if err != nil {
			dec.err = errors.Wrap(err, "codec: failed to read input")
		} else {
			dec.nodes, dec.err = sexp.ParseAll(string(b))
		}
	}
	if dec.err != nil {
		return nil, dec.err
	}

	if len(dec.nodes) == 0 {
		return nil, io.EOF
	}
	n := dec.nodes[0]
	dec.nodes = dec.nodes[1:]
	return dec.c.decode(n)
}
