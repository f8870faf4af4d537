package sexp

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// parser is a cursor over the runes of one document. line and col are
// 0-based internally and reported 1-based.
type parser struct {
	data []rune
	pos  int
	line int
	col  int
}

func newParser(s string) *parser {
	return &parser{data: []rune(s)}
}

// ParseString parses exactly one symbolic expression. Blank input yields an
// empty node.
func ParseString(s string) (n *Node, err error) {
	p := newParser(s)
	p.skipSpace()
	if p.eof() {
		return Empty(), nil
	}

	n, err = p.parseNode()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf(TrailingInput, "unexpected %q after top-level value", p.data[p.pos])
	}
	return n, nil
}

// ParseAll parses every top-level expression in s, in order.
func ParseAll(s string) (nodes []*Node, err error) {
	p := newParser(s)
	for {
		p.skipSpace()
		if p.eof() {
			return
		}

		var n *Node
		n, err = p.parseNode()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
}

func ParseBytes(b []byte) (n *Node, err error) {
	if !utf8.Valid(b) {
		return nil, ErrInvalidUTF8
	}
	return ParseString(string(b))
}

// Parse reads r to the end and parses its content.
func Parse(r io.Reader) (n *Node, err error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "sexp: failed to read input")
	}
	return ParseBytes(b)
}

// ParseFile parses the file at path. I/O and encoding failures are wrapped
// with the path; parse errors are returned unchanged.
func ParseFile(path string) (n *Node, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "sexp: failed to read %s", path)
	}
	if !utf8.Valid(b) {
		return nil, errors.Wrapf(ErrInvalidUTF8, "sexp: failed to decode %s", path)
	}
	return ParseString(string(b))
}

func (p *parser) eof() bool {
	return p.pos >= len(p.data)
}

func (p *parser) peek() (rune, error) {
	if p.eof() {
		return 0, p.errorf(EndOfFile, "end of file reached")
	}
	return p.data[p.pos], nil
}

// consume advances past the current rune; callers peek first.
func (p *parser) consume() {
	r := p.data[p.pos]
	p.pos++
	p.col++
	if r == '\n' {
		p.line++
		p.col = 0
	}
}

func (p *parser) expect(want rune) error {
	r, err := p.peek()
	if err != nil {
		return err
	}
	if r != want {
		return p.errorf(UnexpectedCloseParen, "expected %q got %q", want, r)
	}
	p.consume()
	return nil
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func isBareEnd(r rune) bool {
	return r == ' ' || r == '(' || r == ')' || r == '\r' || r == '\n' || r == '"'
}

func (p *parser) skipSpace() {
	for !p.eof() && isSpace(p.data[p.pos]) {
		p.consume()
	}
}

func (p *parser) errorf(kind ParseErrorKind, format string, args ...interface{}) error {
	return &ParseError{
		Line: p.line + 1,
		Col:  p.col + 1,
		Kind: kind,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func (p *parser) parseNode() (n *Node, err error) {
	p.skipSpace()

	var r rune
	r, err = p.peek()
	if err != nil {
		return
	}

	switch r {
	case '(':
		return p.parseList()
	case '"':
		return p.parseQuoted()
	case ')':
		return nil, p.errorf(UnexpectedCloseParen, "unexpected )")
	}
	return p.parseBare(), nil
}

func (p *parser) parseList() (n *Node, err error) {
	p.consume()

	n = &Node{
		Kind: KindList,
		List: make([]*Node, 0, 4),
	}

	for {
		p.skipSpace()

		var r rune
		r, err = p.peek()
		if err != nil {
			return nil, err
		}
		if r == ')' {
			break
		}

		var child *Node
		child, err = p.parseNode()
		if err != nil {
			return nil, err
		}
		n.List = append(n.List, child)
	}

	if err = p.expect(')'); err != nil {
		return nil, err
	}
	return n, nil
}

func (p *parser) parseQuoted() (n *Node, err error) {
	p.consume()

	text := make([]rune, 0, 16)
	for {
		var r rune
		r, err = p.peek()
		if err != nil {
			return nil, err
		}
		if r == '"' {
			break
		}
		p.consume()

		if r == '\\' && !p.eof() && p.data[p.pos] == '"' {
			r = '"'
			p.consume()
		}
		text = append(text, r)
	}

	if err = p.expect('"'); err != nil {
		return nil, err
	}
	return Symbol(string(text)), nil
}

func (p *parser) parseBare() *Node {
	start := p.pos
	for !p.eof() && !isBareEnd(p.data[p.pos]) {
		p.consume()
	}
	return Symbol(string(p.data[start:p.pos]))
}
