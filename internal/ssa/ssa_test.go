package ssa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rill/internal/cfg"
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

func convert(t *testing.T, source string) *ir.Function {
	t.Helper()
	out, err := Convert(parseFunc(t, source))
	require.NoError(t, err)
	return out
}

const diamondSource = `
@main(cond: bool) {
  x: int = const 1;
  br cond .left .right;
.left:
  x: int = const 2;
  jmp .merge;
.right:
  x: int = const 3;
  jmp .merge;
.merge:
  print x;
}
`

func findPhis(f *ir.Function) []*ir.Value {
	var phis []*ir.Value
	for _, instr := range f.Instrs {
		if v, ok := instr.(*ir.Value); ok && v.Op == ir.Phi {
			phis = append(phis, v)
		}
	}
	return phis
}

func TestDiamondGetsOnePhi(t *testing.T) {
	out := convert(t, diamondSource)

	phis := findPhis(out)
	require.Len(t, phis, 1)
	phi := phis[0]

	assert.Equal(t, ir.IntType, phi.Type)
	require.Len(t, phi.Args, 2, "one argument per predecessor")
	require.Len(t, phi.Labels, 2)
	assert.ElementsMatch(t, []string{"left", "right"}, phi.Labels)
}

func TestPhiSitsAfterTheLabel(t *testing.T) {
	out := convert(t, diamondSource)

	var mergeIdx int
	for i, instr := range out.Instrs {
		if l, ok := instr.(*ir.Label); ok && l.Name == "merge" {
			mergeIdx = i
		}
	}
	phi, ok := out.Instrs[mergeIdx+1].(*ir.Value)
	require.True(t, ok)
	assert.Equal(t, ir.Phi, phi.Op)
}

func TestEveryVariableAssignedOnce(t *testing.T) {
	out := convert(t, diamondSource)

	seen := map[string]bool{}
	for _, instr := range out.Instrs {
		if dest, ok := ir.Dest(instr); ok {
			assert.False(t, seen[dest], "variable %s assigned twice", dest)
			seen[dest] = true
		}
	}
}

func TestUsesResolveToPhiResult(t *testing.T) {
	out := convert(t, diamondSource)
	phi := findPhis(out)[0]

	var printInstr *ir.Effect
	for _, instr := range out.Instrs {
		if e, ok := instr.(*ir.Effect); ok && e.Op == ir.Print {
			printInstr = e
		}
	}
	require.NotNil(t, printInstr)
	assert.Equal(t, []string{phi.Dest}, printInstr.Args)
}

func TestPhiArgumentsComeFromTheBranches(t *testing.T) {
	out := convert(t, diamondSource)
	phi := findPhis(out)[0]

	// collect the renamed destinations of the two branch constants
	branchDefs := map[string]string{}
	blocks := cfg.Partition(out)
	for i, block := range blocks {
		name := cfg.BlockName(block, i, out.Name)
		for _, instr := range block {
			if c, ok := instr.(*ir.Constant); ok && (name == "left" || name == "right") {
				branchDefs[name] = c.Dest
			}
		}
	}

	for i, label := range phi.Labels {
		assert.Equal(t, branchDefs[label], phi.Args[i],
			"phi argument %d comes from the %s definition", i, label)
	}
}

func TestFormalArgumentsResolve(t *testing.T) {
	out := convert(t, `
@inc(n: int): int {
  one: int = const 1;
  r: int = add n one;
  ret r;
}
`)
	var add *ir.Value
	for _, instr := range out.Instrs {
		if v, ok := instr.(*ir.Value); ok && v.Op == ir.Add {
			add = v
		}
	}
	require.NotNil(t, add)
	assert.Equal(t, "n", add.Args[0], "use of a formal before any redefinition keeps its name")
}

func TestStraightLineNeedsNoPhi(t *testing.T) {
	out := convert(t, `
@main {
  a: int = const 1;
  b: int = add a a;
  print b;
}
`)
	assert.Empty(t, findPhis(out))

	b := out.Instrs[1].(*ir.Value)
	a := out.Instrs[0].(*ir.Constant)
	assert.Equal(t, []string{a.Dest, a.Dest}, b.Args, "uses follow the renamed definition")
}

func TestLoopPhiAtHeader(t *testing.T) {
	out := convert(t, `
@main(cond: bool) {
  i: int = const 0;
.head:
  br cond .body .done;
.body:
  one: int = const 1;
  i: int = add i one;
  jmp .head;
.done:
  print i;
}
`)
	// both i and one are defined in the body, so both merge at the
	// header via the back edge
	phis := findPhis(out)
	require.Len(t, phis, 2)
	for _, phi := range phis {
		assert.ElementsMatch(t, []string{"main1", "body"}, phi.Labels)
	}
}

func TestRenameCountersAvoidCollisions(t *testing.T) {
	out := convert(t, `
@main {
  x: int = const 1;
  x.1: int = const 2;
  print x;
  print x.1;
}
`)
	seen := map[string]bool{}
	for _, instr := range out.Instrs {
		if dest, ok := ir.Dest(instr); ok {
			assert.False(t, seen[dest])
			seen[dest] = true
		}
	}
}

func TestEmptyFunctionIsANoOp(t *testing.T) {
	f := &ir.Function{Name: "empty"}
	out, err := Convert(f)
	require.NoError(t, err)
	assert.Empty(t, out.Instrs)
}

func TestConvertDoesNotMutateInput(t *testing.T) {
	f := parseFunc(t, diamondSource)
	before := f.Clone()
	_, err := Convert(f)
	require.NoError(t, err)
	assert.True(t, before.Equal(f))
}

func TestUndefinedUseIsReported(t *testing.T) {
	f := parseFunc(t, `
@main {
  print ghost;
}
`)
	_, err := Convert(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}
