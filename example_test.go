package sexp_test

import (
	"fmt"

	sexp "github.com/alttpo/gsexp"
)

func ExampleParseString() {
	n, err := sexp.ParseString(`(module R_0805 (layer F.Cu) (descr "Resistor SMD 0805"))`)
	if err != nil {
		panic(err)
	}

	for _, c := range n.Tail() {
		fmt.Println(c)
	}
	// Output:
	// R_0805
	// (layer F.Cu)
	// (descr "Resistor SMD 0805")
}

func ExampleFormat() {
	n := sexp.Start("module").
		Push(sexp.Symbol("R_0805")).
		Push(sexp.Pair("layer", sexp.Symbol("F.Cu"))).
		Push(sexp.Pair("descr", sexp.String("Resistor")))

	fmt.Println(sexp.Format(n, sexp.Compact{}))
	fmt.Println(sexp.Format(n, sexp.Rules{Table: sexp.KiCadRules()}))
	fmt.Println(sexp.Format(n, sexp.Pretty{}))
	// Output:
	// (module R_0805 (layer F.Cu) (descr "Resistor"))
	// (module R_0805
	//   (layer F.Cu) (descr "Resistor"))
	// (module R_0805
	//   (layer F.Cu)
	//   (descr "Resistor"))
}

type Text struct {
	Layer string
	At    []float64
	Hide  bool `sexp:"hide,omitempty"`
}

func ExampleUnmarshal() {
	var txt Text
	if err := sexp.Unmarshal([]byte("(text (at 1.27 -2) (layer F.SilkS) (effects x))"), &txt); err != nil {
		panic(err)
	}
	fmt.Printf("%+v\n", txt)

	b, err := sexp.Marshal(txt)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(b))
	// Output:
	// {Layer:F.SilkS At:[1.27 -2] Hide:false}
	// (text (layer F.SilkS) (at 1.27 -2))
}
