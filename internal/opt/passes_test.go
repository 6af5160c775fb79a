package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rill/internal/ir"
	"rill/internal/parser"
)

func parseFunc(t *testing.T, source string) *ir.Function {
	t.Helper()
	prog, err := parser.ParseSource("test.rl", source)
	require.NoError(t, err)
	require.NotEmpty(t, prog.Functions)
	return prog.Functions[0]
}

func parseProg(t *testing.T, source string) *ir.Program {
	t.Helper()
	prog, err := parser.ParseSource("test.rl", source)
	require.NoError(t, err)
	return prog
}

func TestDeadStoreElim(t *testing.T) {
	f := parseFunc(t, `
@main {
  a: int = const 1;
  a: int = const 2;
  print a;
}
`)
	out, err := DeadStoreElim{}.Apply(f)
	require.NoError(t, err)

	require.Len(t, out.Instrs, 2)
	a := out.Instrs[0].(*ir.Constant)
	assert.Equal(t, ir.NewInt(2), a.Value)
}

func TestDeadStoreElimKeepsUsedStore(t *testing.T) {
	f := parseFunc(t, `
@main {
  a: int = const 1;
  b: int = id a;
  a: int = const 2;
  print a;
  print b;
}
`)
	out, err := DeadStoreElim{}.Apply(f)
	require.NoError(t, err)
	assert.Len(t, out.Instrs, 5, "a store read before the overwrite is live")
}

func TestDeadStoreElimIsBlockLocal(t *testing.T) {
	f := parseFunc(t, `
@main {
  a: int = const 1;
.next:
  a: int = const 2;
  print a;
}
`)
	out, err := DeadStoreElim{}.Apply(f)
	require.NoError(t, err)
	assert.Len(t, out.Instrs, 4, "stores in different blocks are out of scope")
}

func TestDeadStoreElimFixpoint(t *testing.T) {
	f := parseFunc(t, `
@main {
  a: int = const 1;
  a: int = const 2;
  a: int = const 3;
  print a;
}
`)
	out, err := DeadStoreElim{}.Apply(f)
	require.NoError(t, err)
	require.Len(t, out.Instrs, 2)
	assert.Equal(t, ir.NewInt(3), out.Instrs[0].(*ir.Constant).Value)
}

func TestDeadVariableElim(t *testing.T) {
	f := parseFunc(t, `
@main {
  used: int = const 1;
  dead: int = const 2;
  print used;
}
`)
	out, err := DeadVariableElim{}.Apply(f)
	require.NoError(t, err)

	require.Len(t, out.Instrs, 2)
	assert.Equal(t, "used", out.Instrs[0].(*ir.Constant).Dest)
}

func TestDeadVariableElimChain(t *testing.T) {
	f := parseFunc(t, `
@main {
  a: int = const 1;
  b: int = id a;
  c: int = id b;
  x: int = const 9;
  print x;
}
`)
	out, err := DeadVariableElim{}.Apply(f)
	require.NoError(t, err)

	// a feeds b feeds c; nothing reads c, so the whole chain unwinds
	require.Len(t, out.Instrs, 2)
	assert.Equal(t, "x", out.Instrs[0].(*ir.Constant).Dest)
}

func TestDeadVariableElimKeepsEffectsAndLabels(t *testing.T) {
	f := parseFunc(t, `
@main {
  dead: int = const 2;
  jmp .end;
.end:
  ret;
}
`)
	out, err := DeadVariableElim{}.Apply(f)
	require.NoError(t, err)

	require.Len(t, out.Instrs, 3)
	for _, instr := range out.Instrs {
		_, isConst := instr.(*ir.Constant)
		assert.False(t, isConst)
	}
}

func TestOptPipelineEndToEnd(t *testing.T) {
	prog := parseProg(t, `
@main {
  a: int = const 4;
  b: int = const 2;
  sum1: int = add a b;
  sum2: int = add b a;
  print sum2;
}
`)
	out, err := OptPipeline().Run(prog)
	require.NoError(t, err)

	f := out.Functions[0]
	// sum2 collapsed onto sum1 and the dead copy was swept away
	for _, instr := range f.Instrs {
		if v, ok := instr.(*ir.Value); ok {
			assert.NotEqual(t, "sum2", v.Dest)
		}
	}
	last := f.Instrs[len(f.Instrs)-1].(*ir.Effect)
	assert.Equal(t, []string{"sum1"}, last.Args)
}

func TestFoldOptPipelineEndToEnd(t *testing.T) {
	prog := parseProg(t, `
@main {
  a: int = const 5;
  b: int = const 3;
  c: int = add a b;
  two: int = const 2;
  d: int = mul c two;
  print d;
}
`)
	out, err := FoldOptPipeline().Run(prog)
	require.NoError(t, err)

	f := out.Functions[0]
	require.Len(t, f.Instrs, 2, "everything but the folded result and the print is dead")
	d := f.Instrs[0].(*ir.Constant)
	assert.Equal(t, ir.NewInt(16), d.Value)
	assert.Equal(t, "d", d.Dest)
}

func TestPipelineDoesNotMutateInput(t *testing.T) {
	prog := parseProg(t, `
@main {
  a: int = const 1;
  dead: int = const 2;
  print a;
}
`)
	before := prog.Functions[0].Clone()
	_, err := OptPipeline().Run(prog)
	require.NoError(t, err)
	assert.True(t, before.Equal(prog.Functions[0]))
}
