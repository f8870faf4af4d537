// Package lua exposes trees to gopher-lua scripts.
//
// A tree is represented with plain tables:
//
//	symbol  {token="abc"}
//	string  {string="abc"}
//	list    {list={...}}
//
// An empty node is nil at the top level and an empty table inside a list.
package lua

import (
	"github.com/pkg/errors"
	"github.com/yuin/gopher-lua"

	sexp "github.com/alttpo/gsexp"
)

// ModuleName is the name Preload registers the module under.
const ModuleName = "sexp"

// Preload makes the module available to require("sexp").
func Preload(L *lua.LState) {
	L.PreloadModule(ModuleName, Loader)
}

// Loader builds the module table: parse(text) and format(node[, style]).
func Loader(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"parse":  parse,
		"format": format,
	})
	L.Push(mod)
	return 1
}

// parse returns node, nil or nil, err where err is a table with err, kind,
// line and col fields.
func parse(L *lua.LState) int {
	n, err := sexp.ParseString(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		L.Push(errorTable(L, err))
		return 2
	}
	L.Push(ToLua(L, n))
	L.Push(lua.LNil)
	return 2
}

func errorTable(L *lua.LState, err error) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("err", lua.LString(err.Error()))

	var pe *sexp.ParseError
	if errors.As(err, &pe) {
		t.RawSetString("kind", lua.LString(pe.Kind.String()))
		t.RawSetString("line", lua.LNumber(pe.Line))
		t.RawSetString("col", lua.LNumber(pe.Col))
	}
	return t
}

// format renders a node. style is "compact" (the default), "pretty",
// "kicad" or a table of rules mapping head symbols to depths.
func format(L *lua.LState) int {
	n, err := FromLua(L.CheckAny(1))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}

	style, err := styleArg(L.Get(2))
	if err != nil {
		L.ArgError(2, err.Error())
		return 0
	}

	L.Push(lua.LString(sexp.Format(n, style)))
	return 1
}

func styleArg(v lua.LValue) (sexp.Style, error) {
	switch v := v.(type) {
	case *lua.LNilType:
		return sexp.Compact{}, nil
	case lua.LString:
		switch v {
		case "compact":
			return sexp.Compact{}, nil
		case "pretty":
			return sexp.Pretty{}, nil
		case "kicad":
			return sexp.Rules{Table: sexp.KiCadRules()}, nil
		}
		return nil, errors.Errorf("unknown style %q", string(v))
	case *lua.LTable:
		table := make(sexp.RuleTable)
		var err error
		v.ForEach(func(key, value lua.LValue) {
			depth, ok := value.(lua.LNumber)
			if !ok {
				err = errors.Errorf("rule %s: depth must be a number", key)
				return
			}
			if depth < 0 {
				err = errors.Errorf("rule %s: depth must not be negative", key)
				return
			}
			table[key.String()] = int(depth)
		})
		return sexp.Rules{Table: table}, err
	}
	return nil, errors.Errorf("style must be a string or a table, got %s", v.Type())
}

// ToLua converts n into its table form.
func ToLua(L *lua.LState, n *sexp.Node) lua.LValue {
	if n.IsEmpty() {
		return lua.LNil
	}
	return toTable(L, n)
}

func toTable(L *lua.LState, n *sexp.Node) *lua.LTable {
	t := L.NewTable()
	switch {
	case n.IsEmpty():
	case n.Kind == sexp.KindString:
		t.RawSetString("string", lua.LString(n.Text))
	case n.IsScalar():
		t.RawSetString("token", lua.LString(n.Text))
	default:
		list := L.NewTable()
		for _, c := range n.List {
			list.Append(toTable(L, c))
		}
		t.RawSetString("list", list)
	}
	return t
}

// FromLua converts the table form back into a tree. Plain strings, numbers
// and booleans are taken as symbols.
func FromLua(v lua.LValue) (*sexp.Node, error) {
	switch v := v.(type) {
	case *lua.LNilType:
		return sexp.Empty(), nil
	case lua.LString:
		return sexp.Symbol(string(v)), nil
	case lua.LNumber:
		return sexp.Symbol(v.String()), nil
	case lua.LBool:
		return sexp.FromBool(bool(v)), nil
	case *lua.LTable:
		return fromTable(v)
	}
	return nil, errors.Errorf("cannot convert %s to a node", v.Type())
}

func fromTable(t *lua.LTable) (*sexp.Node, error) {
	if s, ok := t.RawGetString("token").(lua.LString); ok {
		return sexp.Symbol(string(s)), nil
	}
	if s, ok := t.RawGetString("string").(lua.LString); ok {
		return sexp.String(string(s)), nil
	}

	switch list := t.RawGetString("list").(type) {
	case *lua.LTable:
		children := make([]*sexp.Node, 0, list.Len())
		for i := 1; i <= list.Len(); i++ {
			c, err := FromLua(list.RawGetInt(i))
			if err != nil {
				return nil, errors.Wrapf(err, "list element %d", i)
			}
			children = append(children, c)
		}
		return sexp.List(children...), nil
	case *lua.LNilType:
		return sexp.Empty(), nil
	}
	return nil, errors.New("list must be a table")
}
