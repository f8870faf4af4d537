// s-expressions parser, formatter and typed codec (KiCad-style format)
//
// this s-expression encoding is the one used by EDA tools such as KiCad for
// footprints, boards and schematics. files must round-trip byte-for-byte, so
// the formatter carries the layout heuristics needed to reproduce them.
//
// examples:
//
//   (module SWITCH_3W (layer F.Cu) (descr "") (pad 1 thru_hole rect (size 1.2 1.2)))
//
// BNF:
//  <sexpr>           :: <whitespace>* ( <list> | <quoted-string> | <bare-string> ) ;
//
//  <list>            :: "(" ( <sexpr> | <whitespace> )* ")" ;
//
//  <quoted-string>   :: "\"" ( <quoted-char> | <quoted-escape> )* "\"" ;
//  <quoted-char>     :: <any char except "\""> ;
//  <quoted-escape>   :: "\\" "\"" ;
//
//  <bare-string>     :: <bare-char>+ ;
//  <bare-char>       :: <any char except " ", "(", ")", "\r", "\n", "\""> ;
//
//  <whitespace>      :: " " | "\t" | "\r" | "\n" ;
//
// a backslash only escapes a following quote; any other backslash is kept
// verbatim. quoting is normalized on output: a token is quoted only when it
// contains a space, tab, "(", ")", "{", "}", "%", a quote or a line break, or
// when it is empty.
//
// typed values:
//
// Decode and Encode map trees onto Go values. the Go type picks the reading:
// structs are records "(name (field value) ...)", structs marked with a blank
// `_ struct{} `sexp:",tuple"`` field are tuple structs "(name v1 v2 ...)",
// slices are plain lists, pointers are optional values and interfaces
// registered with RegisterEnum are enums whose variants are matched by name.
//
// record fields that are absent from the input decode to nil when the field
// is a pointer (or tagged omitempty); fields present in the input but unknown
// to the Go type are skipped, so re-encoding a decoded value drops them.
package sexp
