package sexp

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type ParseErrorKind int

const (
	// EndOfFile: input ended while a token or a closing delimiter was expected.
	EndOfFile ParseErrorKind = iota + 1
	// UnexpectedCloseParen: a ')' was found where a value was expected.
	UnexpectedCloseParen
	// TrailingInput: more than one top-level value was found.
	TrailingInput
)

var (
	ErrEndOfFile            = &ParseError{Kind: EndOfFile}
	ErrUnexpectedCloseParen = &ParseError{Kind: UnexpectedCloseParen}
	ErrTrailingInput        = &ParseError{Kind: TrailingInput}
)

func (k ParseErrorKind) String() string {
	switch k {
	case EndOfFile:
		return "end of file"
	case UnexpectedCloseParen:
		return "unexpected close paren"
	case TrailingInput:
		return "trailing input"
	}
	return "parse error"
}

// ParseError locates a grammar fault. Line and Col are 1-based; Col counts
// runes.
type ParseError struct {
	Line int
	Col  int
	Kind ParseErrorKind
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error %d:%d %s", e.Line, e.Col, e.Msg)
}

// Is matches any ParseError of the same kind, so
// errors.Is(err, ErrEndOfFile) works regardless of position.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

// DecodeError reports a shape or type mismatch. Path holds the field names
// (or positions) leading from the root value to the fault.
type DecodeError struct {
	Path []string
	Msg  string
	Err  error
}

func (e *DecodeError) Error() string {
	var sb strings.Builder
	sb.WriteString("decode error")
	if len(e.Path) > 0 {
		sb.WriteString(" at ")
		sb.WriteString(e.Field())
	}
	sb.WriteString(": ")
	sb.WriteString(e.Msg)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Field returns the dotted field path.
func (e *DecodeError) Field() string {
	return strings.Join(e.Path, ".")
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErrorf(format string, args ...interface{}) *DecodeError {
	return &DecodeError{Msg: fmt.Sprintf(format, args...)}
}

// atField prefixes the path of a *DecodeError with seg; other errors are
// wrapped into one.
func atField(err error, seg string) error {
	if err == nil {
		return nil
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		return &DecodeError{Path: []string{seg}, Msg: "custom decoder failed", Err: err}
	}
	de.Path = append([]string{seg}, de.Path...)
	return de
}

// EncodeError reports a Go value that has no tree representation.
type EncodeError struct {
	Path []string
	Msg  string
}

func (e *EncodeError) Error() string {
	if len(e.Path) == 0 {
		return "encode error: " + e.Msg
	}
	return "encode error at " + strings.Join(e.Path, ".") + ": " + e.Msg
}

func encodeAtField(err error, seg string) error {
	if err == nil {
		return nil
	}
	var ee *EncodeError
	if !errors.As(err, &ee) {
		return errors.Wrapf(err, "encoding %s", seg)
	}
	ee.Path = append([]string{seg}, ee.Path...)
	return ee
}
