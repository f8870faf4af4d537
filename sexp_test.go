package sexp

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestParseString(t *testing.T) {
	type args struct {
		s string
	}
	tests := []struct {
		name    string
		args    args
		wantN   *Node
		wantErr bool
	}{
		{
			name: "xpass: empty input",
			args: args{
				s: "",
			},
			wantN: &Node{
				Kind: KindEmpty,
			},
			wantErr: false,
		},
		{
			name: "xpass: blank input",
			args: args{
				s: " \t\r\n",
			},
			wantN: &Node{
				Kind: KindEmpty,
			},
			wantErr: false,
		},
		{
			name: "xpass: empty list",
			args: args{
				s: "()",
			},
			wantN: &Node{
				Kind: KindList,
				List: make([]*Node, 0),
			},
			wantErr: false,
		},
		{
			name: "xfail: mismatched end of list",
			args: args{
				s: ")",
			},
			wantN:   nil,
			wantErr: true,
		},
		{
			name: "xfail: mismatched start of list",
			args: args{
				s: "(",
			},
			wantN:   nil,
			wantErr: true,
		},
		{
			name: "xfail: unterminated quoted string",
			args: args{
				s: `"hello`,
			},
			wantN:   nil,
			wantErr: true,
		},
		{
			name: "xfail: two top-level values",
			args: args{
				s: "(a) (b)",
			},
			wantN:   nil,
			wantErr: true,
		},
		{
			name: "xpass: list of one token",
			args: args{
				s: "(abcdef)",
			},
			wantN: &Node{
				Kind: KindList,
				List: []*Node{
					{
						Kind: KindSymbol,
						Text: "abcdef",
					},
				},
			},
			wantErr: false,
		},
		{
			name: "xpass: single token with trailing newline",
			args: args{
				s: "abc\n",
			},
			wantN: &Node{
				Kind: KindSymbol,
				Text: "abc",
			},
			wantErr: false,
		},
		{
			name: "xpass: tokens separated by newlines",
			args: args{
				s: "(hello\n\nworld)",
			},
			wantN: &Node{
				Kind: KindList,
				List: []*Node{
					{
						Kind: KindSymbol,
						Text: "hello",
					},
					{
						Kind: KindSymbol,
						Text: "world",
					},
				},
			},
			wantErr: false,
		},
		{
			name: "xpass: quoted string keeps separators",
			args: args{
				s: `("hello (world)" "")`,
			},
			wantN: &Node{
				Kind: KindList,
				List: []*Node{
					{
						Kind: KindSymbol,
						Text: "hello (world)",
					},
					{
						Kind: KindSymbol,
						Text: "",
					},
				},
			},
			wantErr: false,
		},
		{
			name: "xpass: escaped quote",
			args: args{
				s: `"say \"hi\" C:\dir"`,
			},
			wantN: &Node{
				Kind: KindSymbol,
				Text: `say "hi" C:\dir`,
			},
			wantErr: false,
		},
		{
			name: "xpass: bare token ends at quote",
			args: args{
				s: `(a"b")`,
			},
			wantN: &Node{
				Kind: KindList,
				List: []*Node{
					{
						Kind: KindSymbol,
						Text: "a",
					},
					{
						Kind: KindSymbol,
						Text: "b",
					},
				},
			},
			wantErr: false,
		},
		{
			name: "xpass: list of empty lists",
			args: args{
				s: "(() ( () ))",
			},
			wantN: &Node{
				Kind: KindList,
				List: []*Node{
					{
						Kind: KindList,
						List: []*Node{},
					},
					{
						Kind: KindList,
						List: []*Node{
							{
								Kind: KindList,
								List: []*Node{},
							},
						},
					},
				},
			},
			wantErr: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotN, err := ParseString(tt.args.s)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseString() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(gotN, tt.wantN) {
				t.Errorf("ParseString() gotN = %v, want %v", gotN, tt.wantN)
			}
		})
	}
}

func TestParseString_errorPositions(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		kind     error
		line     int
		col      int
		contains string
	}{
		{name: "open paren", in: "(", kind: ErrEndOfFile, line: 1, col: 2, contains: "end of file"},
		{name: "close paren", in: ")", kind: ErrUnexpectedCloseParen, line: 1, col: 1, contains: "unexpected )"},
		{name: "unterminated string", in: "\"hello\n\n\n    ", kind: ErrEndOfFile, line: 4, col: 5},
		{name: "nested close", in: "(a\n  (b ))\n)", kind: ErrTrailingInput, line: 3, col: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)

			_, err := ParseString(tt.in)
			r.Error(err)
			r.True(errors.Is(err, tt.kind), "got %v", err)

			var pe *ParseError
			r.True(errors.As(err, &pe))
			r.Equal(tt.line, pe.Line)
			r.Equal(tt.col, pe.Col)
			r.Contains(pe.Error(), tt.contains)
		})
	}
}

func TestParseAll(t *testing.T) {
	r := require.New(t)

	nodes, err := ParseAll("(a 1)\n(b 2)\n\nc ")
	r.NoError(err)
	r.Len(nodes, 3)
	r.Equal("(a 1)", nodes[0].String())
	r.Equal("(b 2)", nodes[1].String())
	r.Equal("c", nodes[2].String())

	nodes, err = ParseAll("  ")
	r.NoError(err)
	r.Empty(nodes)

	_, err = ParseAll("(a) (b")
	r.True(errors.Is(err, ErrEndOfFile))
}

func TestParseBytes_invalidUTF8(t *testing.T) {
	_, err := ParseBytes([]byte{'(', 0xff, ')'})
	require.Equal(t, ErrInvalidUTF8, errors.Cause(err))
}

func TestParseFile(t *testing.T) {
	r := require.New(t)

	_, err := ParseFile("testdata/does-not-exist.kicad_mod")
	r.Error(err)
	r.Contains(err.Error(), "does-not-exist")

	n, err := ParseFile("testdata/switch.kicad_mod")
	r.NoError(err)
	name, err := n.ListName()
	r.NoError(err)
	r.Equal("module", name)
}

func TestNode_String(t *testing.T) {
	type fields struct {
		Kind Kind
		Text string
		List []*Node
	}
	tests := []struct {
		name   string
		fields fields
		want   string
	}{
		{
			name: "empty",
			fields: fields{
				Kind: KindEmpty,
			},
			want: "",
		},
		{
			name: "()",
			fields: fields{
				Kind: KindList,
				List: []*Node{},
			},
			want: "()",
		},
		{
			name: "(abc def)",
			fields: fields{
				Kind: KindList,
				List: []*Node{
					Symbol("abc"),
					Symbol("def"),
				},
			},
			want: "(abc def)",
		},
		{
			name: "(hello \"\")",
			fields: fields{
				Kind: KindList,
				List: []*Node{
					Symbol("hello"),
					Symbol(""),
				},
			},
			want: `(hello "")`,
		},
		{
			name: "string always quoted",
			fields: fields{
				Kind: KindList,
				List: []*Node{
					Symbol("descr"),
					String("abc"),
				},
			},
			want: `(descr "abc")`,
		},
		{
			name: "(abc (g z/a *))",
			fields: fields{
				Kind: KindList,
				List: []*Node{
					Symbol("abc"),
					List(Symbol("g"), Symbol("z/a"), Symbol("*")),
				},
			},
			want: "(abc (g z/a *))",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Node{
				Kind: tt.fields.Kind,
				Text: tt.fields.Text,
				List: tt.fields.List,
			}
			if got := n.String(); got != tt.want {
				t.Errorf("String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello", "hello"},
		{"hello world", `"hello world"`},
		{"", `""`},
		{"a(b", `"a(b"`},
		{"a)b", `"a)b"`},
		{"a\tb", "\"a\tb\""},
		{"{x}", `"{x}"`},
		{"50%", `"50%"`},
		{`say "hi"`, `"say \"hi\""`},
		{"F.Cu", "F.Cu"},
		{"-1.5", "-1.5"},
		{"*.Mask", "*.Mask"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Quote(tt.in)
			require.Equal(t, tt.want, got)
			if !NeedsQuote(tt.in) {
				require.Equal(t, got, Quote(got), "quoting a bare token is idempotent")
			}
		})
	}
}

func TestRoundTrip_compact(t *testing.T) {
	tests := []string{
		"",
		"()",
		"(())",
		"hello",
		"1.3",
		"2.0",
		"567A_WZ",
		"(world)",
		"(42)",
		"(12.7)",
		`(hello "")`,
		`"hello world"`,
		`"hello(world)"`,
		`("(()")`,
		`(say "he said \"hi\"")`,
		"(module X (layer F.Cu))",
		"(module SWITCH_3W_SIDE_MMP221-R (layer F.Cu) (descr \"\") (pad 1 thru_hole rect " +
			"(size 1.2 1.2) (at -2.5 -1.6 0) (layers *.Cu *.Mask) (drill 0.8)) (fp_line " +
			"(start -4.5 -1.75) (end 4.5 -1.75) (layer F.SilkS) (width 0.127)))",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			n, err := ParseString(in)
			require.NoError(t, err)
			require.Equal(t, in, Format(n, Compact{}))
		})
	}
}

func TestRoundTrip_normalizesQuoting(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"hello"`, "hello"},
		{`("world")`, "(world)"},
		{"(hello\n\nworld)", "(hello world)"},
		{"( a  b )", "(a b)"},
	}
	for _, tt := range tests {
		n, err := ParseString(tt.in)
		require.NoError(t, err)
		require.Equal(t, tt.want, n.String())
	}
}

func TestNode_Equal(t *testing.T) {
	a := List(Symbol("a"), String("b c"), List())
	b := List(String("a"), Symbol("b c"), List())
	require.True(t, a.Equal(b))
	require.True(t, a.Equal(a.Clone()))

	require.False(t, a.Equal(List(Symbol("a"), Symbol("b c"))))
	require.False(t, List().Equal(Empty()))
	require.True(t, Empty().Equal(nil))
	require.False(t, Symbol("a").Equal(List(Symbol("a"))))
}

func TestBuilders(t *testing.T) {
	r := require.New(t)

	n := Start("pad").
		Push(Symbol("1")).
		Push(Symbol("smd")).
		Push(List(Symbol("at"), FromFloat(-2.5), FromFloat(1.6), FromInt(90))).
		Push(Pair("locked", FromBool(true)))
	r.Equal("(pad 1 smd (at -2.5 1.6 90) (locked true))", n.String())

	r.Equal("(a b)", Symbol("a").Push(Symbol("b")).String())
	r.Equal("(b)", Empty().Push(Symbol("b")).String())
	r.Equal("18446744073709551615", FromUint(1<<64-1).String())
	r.Equal("0.127", FromFloat(0.127).String())

	r.Panics(func() { MustSymbol(`a b\`) })
	r.Equal(`"a b"`, MustSymbol("a b").String())
}

func TestAccessors(t *testing.T) {
	r := require.New(t)

	n, err := ParseString("(a (b c) (d 42) (e 1.5) (f 1 2))")
	r.NoError(err)

	name, err := n.ListName()
	r.NoError(err)
	r.Equal("a", name)

	rest, err := n.SliceAtom("a")
	r.NoError(err)
	r.Len(rest, 4)

	_, err = n.SliceAtom("x")
	r.Error(err)

	s, err := rest[0].NamedValueString("b")
	r.NoError(err)
	r.Equal("c", s)

	i, err := rest[1].NamedValueInt("d")
	r.NoError(err)
	r.EqualValues(42, i)

	f, err := rest[2].NamedValueFloat("e")
	r.NoError(err)
	r.Equal(1.5, f)

	_, err = rest[3].NamedValue("f")
	r.Error(err)

	_, err = rest[3].SliceAtomNum("f", 2)
	r.NoError(err)

	_, err = Symbol("x").Children()
	r.Equal(ErrNotAList, errors.Cause(err))

	_, err = List().Str()
	r.Equal(ErrNotAScalar, errors.Cause(err))

	_, err = Symbol("x1").Int()
	r.Error(err)

	r.Equal(5, n.Len())
	r.Equal("a", n.Head().Text)
	r.Len(n.Tail(), 4)
	r.Nil(Symbol("x").Head())
}

func TestParseString_deepNesting(t *testing.T) {
	const depth = 10000
	in := strings.Repeat("(", depth) + "x" + strings.Repeat(")", depth)

	n, err := ParseString(in)
	require.NoError(t, err)
	require.Equal(t, in, n.String())
}
