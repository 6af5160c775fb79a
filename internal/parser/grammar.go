package parser

import "github.com/alecthomas/participle/v2/lexer"

// Grammar for the text form of the IR. One function per @name block;
// each line is a label declaration, an assignment, or a bare effect.

type astProgram struct {
	Functions []*astFunction `@@*`
}

type astFunction struct {
	Pos    lexer.Position
	Name   string      `@FuncName`
	Params []*astParam `( "(" ( @@ ( "," @@ )* )? ")" )?`
	Return string      `( ":" @Ident )?`
	Body   []*astLine  `"{" @@* "}"`
}

type astParam struct {
	Name string `@Ident ":"`
	Type string `@Ident`
}

type astLine struct {
	Label  *astLabel  `  @@`
	Assign *astAssign `| @@`
	Effect *astEffect `| @@`
}

type astLabel struct {
	Pos  lexer.Position
	Name string `@LabelRef ":"`
}

type astAssign struct {
	Pos   lexer.Position
	Dest  string    `@Ident`
	Type  string    `":" @Ident "="`
	Const *astConst `( @@`
	Op    *astOp    `| @@ ) ";"`
}

type astConst struct {
	Value astLiteral `"const" @@`
}

type astLiteral struct {
	Bool *string `  @( "true" | "false" )`
	Int  *int64  `| @Integer`
}

type astOp struct {
	Op     string   `@Ident`
	Funcs  []string `@FuncName*`
	Args   []string `@Ident*`
	Labels []string `@LabelRef*`
}

type astEffect struct {
	Pos    lexer.Position
	Op     string   `@Ident`
	Funcs  []string `@FuncName*`
	Args   []string `@Ident*`
	Labels []string `@LabelRef* ";"`
}
