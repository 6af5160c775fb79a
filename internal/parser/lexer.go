package parser

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Identifiers may contain dots: the SSA and value-numbering passes mint
// names like x.1 and lvn.0, and round-tripping them must work.
var irLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{"Comment", `#[^\n]*`, nil},

		// @name function references
		{"FuncName", `@[a-zA-Z_][a-zA-Z0-9_.]*`, nil},

		// .name label references
		{"LabelRef", `\.[a-zA-Z_][a-zA-Z0-9_.]*`, nil},

		// Identifiers (order matters: after the prefixed forms)
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_.]*`, nil},

		// Integer literals
		{"Integer", `-?[0-9]+`, nil},

		// Punctuation
		{"Punctuation", `[(){}:=;,]`, nil},

		// Whitespace
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
