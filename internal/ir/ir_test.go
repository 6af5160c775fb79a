package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFunction() *Function {
	return &Function{
		Name:       "main",
		Args:       []Argument{{Name: "cond", Type: BoolType}},
		ReturnType: IntType,
		Instrs: []Code{
			&Constant{Dest: "a", Type: IntType, Value: NewInt(4)},
			&Effect{Op: Branch, Args: []string{"cond"}, Labels: []string{"then", "else"}},
			&Label{Name: "then"},
			&Value{Op: Add, Dest: "b", Type: IntType, Args: []string{"a", "a"}},
			&Effect{Op: Jump, Labels: []string{"else"}},
			&Label{Name: "else"},
			&Effect{Op: Print, Args: []string{"a"}},
			&Effect{Op: Return, Args: []string{"a"}},
		},
	}
}

func TestJSONRoundTrip(t *testing.T) {
	prog := &Program{Functions: []*Function{sampleFunction()}}

	data, err := prog.MarshalJSON()
	require.NoError(t, err)

	loaded, err := LoadProgram(strings.NewReader(string(data)))
	require.NoError(t, err)

	require.Len(t, loaded.Functions, 1)
	assert.True(t, prog.Functions[0].Equal(loaded.Functions[0]))
}

func TestLoadProgramRejectsGarbage(t *testing.T) {
	_, err := LoadProgram(strings.NewReader("not json"))
	assert.Error(t, err)

	_, err = LoadProgram(strings.NewReader(`{"functions":[{"name":"f","instrs":[{}]}]}`))
	assert.Error(t, err, "instruction with neither label nor op should be rejected")
}

func TestLiteralJSON(t *testing.T) {
	var lit Literal
	require.NoError(t, lit.UnmarshalJSON([]byte("true")))
	assert.Equal(t, NewBool(true), lit)

	require.NoError(t, lit.UnmarshalJSON([]byte("-7")))
	assert.Equal(t, NewInt(-7), lit)

	assert.Error(t, lit.UnmarshalJSON([]byte(`"nope"`)))
	assert.Error(t, lit.UnmarshalJSON([]byte("1.5")))
}

func TestCloneIsDeep(t *testing.T) {
	f := sampleFunction()
	clone := f.Clone()
	require.True(t, f.Equal(clone))

	clone.Instrs[0].(*Constant).Dest = "mutated"
	assert.Equal(t, "a", f.Instrs[0].(*Constant).Dest)

	v := clone.Instrs[3].(*Value)
	v.Args[0] = "mutated"
	assert.Equal(t, "a", f.Instrs[3].(*Value).Args[0])
}

func TestEqualIgnoresPositions(t *testing.T) {
	a := &Constant{Dest: "x", Type: IntType, Value: NewInt(1), Position: &Position{Row: 1, Col: 2}}
	b := &Constant{Dest: "x", Type: IntType, Value: NewInt(1)}
	assert.True(t, Equal(a, b))
}

func TestPrintFunction(t *testing.T) {
	text := PrintFunction(sampleFunction())

	assert.Contains(t, text, "@main(cond: bool): int {")
	assert.Contains(t, text, "  a: int = const 4;")
	assert.Contains(t, text, "  br cond .then .else;")
	assert.Contains(t, text, ".then:")
	assert.Contains(t, text, "  b: int = add a a;")
	assert.Contains(t, text, "  ret a;")

	// Labels are flush left, instructions indented.
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, ".") {
			assert.True(t, strings.HasSuffix(line, ":"))
		}
	}
}

func TestDestAndArgs(t *testing.T) {
	c := &Constant{Dest: "x", Type: IntType, Value: NewInt(1)}
	dest, ok := Dest(c)
	assert.True(t, ok)
	assert.Equal(t, "x", dest)

	e := &Effect{Op: Print, Args: []string{"x"}}
	_, ok = Dest(e)
	assert.False(t, ok)
	assert.Equal(t, []string{"x"}, Args(e))

	assert.True(t, IsTerminator(&Effect{Op: Return}))
	assert.False(t, IsTerminator(&Effect{Op: Print}))
	assert.False(t, IsTerminator(c))
}
