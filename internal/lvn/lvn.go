// Package lvn implements local value numbering over single basic
// blocks: hash-consing of computations keyed by canonicalized
// operation and operands, with copy propagation and optional constant
// folding.
package lvn

import (
	"fmt"

	"rill/internal/cfg"
	"rill/internal/errors"
	"rill/internal/ir"
)

type valueKind int

const (
	constValue valueKind = iota
	unaryValue
	binaryValue
)

// value is the canonical form of a computation. It is comparable, so
// structurally identical computations collide in the table.
type value struct {
	kind valueKind
	op   ir.ValueOp
	lit  ir.Literal
	a, b int
}

// Table is the per-block value-numbering state: a monotonically
// increasing counter and the maps tying variables, canonical values,
// and (when folding) known constants to value numbers.
type Table struct {
	next      int
	var2num   map[string]int
	num2var   map[int]string
	val2num   map[value]int
	num2const map[int]ir.Literal // nil unless folding is enabled
	known     map[string]bool    // nil means every name is acceptable
}

// New creates an empty table. When fold is true the table tracks known
// constants and evaluates computations over them.
func New(fold bool) *Table {
	t := &Table{
		var2num: map[string]int{},
		num2var: map[int]string{},
		val2num: map[value]int{},
	}
	if fold {
		t.num2const = map[int]ir.Literal{}
	}
	return t
}

// RewriteFunction runs value numbering over every basic block of f,
// each with a fresh table, and returns the rewritten function.
func RewriteFunction(f *ir.Function, fold bool) (*ir.Function, error) {
	known := map[string]bool{}
	for _, arg := range f.Args {
		known[arg.Name] = true
	}
	for _, instr := range f.Instrs {
		if dest, ok := ir.Dest(instr); ok {
			known[dest] = true
		}
	}

	out := f.Clone()
	out.Instrs = nil
	for _, block := range cfg.Partition(f) {
		t := New(fold)
		t.known = known
		rewritten, err := RewriteBlock(t, block)
		if err != nil {
			return nil, fmt.Errorf("function @%s: %w", f.Name, err)
		}
		out.Instrs = append(out.Instrs, rewritten...)
	}
	return out, nil
}

// RewriteBlock numbers and rewrites one basic block.
func RewriteBlock(t *Table, b cfg.BasicBlock) (cfg.BasicBlock, error) {
	if err := cfg.Validate(b); err != nil {
		return nil, err
	}

	// Live-in reads get their numbers up front, bound to their
	// original names. Names defined nowhere in the function stay
	// unbound so their uses are reported.
	for _, v := range readFirst(b) {
		if t.known != nil && !t.known[v] {
			continue
		}
		num := t.extendEnv(v)
		t.num2var[num] = v
	}

	last := lastWrites(b)
	out := make(cfg.BasicBlock, 0, len(b))
	for i, instr := range b {
		rewritten, err := t.rewrite(instr, last[i])
		if err != nil {
			return nil, err
		}
		out = append(out, rewritten)
	}
	return out, nil
}

// lastWrites marks, for every item, whether it is the final write to
// its destination within the block.
func lastWrites(b cfg.BasicBlock) []bool {
	marks := make([]bool, len(b))
	written := map[string]bool{}
	for i := len(b) - 1; i >= 0; i-- {
		dest, ok := ir.Dest(b[i])
		if !ok {
			continue
		}
		if !written[dest] {
			marks[i] = true
			written[dest] = true
		}
	}
	return marks
}

// readFirst returns, in first-use order, the variables read in the
// block before any local write to them.
func readFirst(b cfg.BasicBlock) []string {
	var read []string
	seen := map[string]bool{}
	written := map[string]bool{}
	for _, instr := range b {
		for _, arg := range ir.Args(instr) {
			if !written[arg] && !seen[arg] {
				seen[arg] = true
				read = append(read, arg)
			}
		}
		if dest, ok := ir.Dest(instr); ok {
			written[dest] = true
		}
	}
	return read
}

func (t *Table) extendEnv(varName string) int {
	num := t.next
	t.next++
	t.var2num[varName] = num
	return num
}

// registerVar picks the emitted destination name for value number num:
// the original name when this is the block's last write to it, a fresh
// "lvn.N" name otherwise, so later lookups through num2var stay valid.
func (t *Table) registerVar(dest string, num int, lastWrite bool) string {
	name := dest
	if !lastWrite {
		name = fmt.Sprintf("lvn.%d", num)
	}
	t.num2var[num] = name
	return name
}

func (t *Table) lookup(arg string) (int, error) {
	num, ok := t.var2num[arg]
	if !ok {
		return 0, errors.NewUndefinedVariable(arg)
	}
	return num, nil
}

// canonicalize computes the canonical value of instr, or nil when the
// instruction has none (labels, effects, and calls, whose results the
// table must not equate).
func (t *Table) canonicalize(instr ir.Code) (*value, error) {
	switch i := instr.(type) {
	case *ir.Constant:
		return &value{kind: constValue, lit: i.Value}, nil
	case *ir.Value:
		switch i.Op {
		case ir.Id, ir.Not:
			n, err := t.lookup(i.Args[0])
			if err != nil {
				return nil, err
			}
			return &value{kind: unaryValue, op: i.Op, a: n}, nil
		case ir.Call, ir.Phi:
			return nil, nil
		default:
			n0, err := t.lookup(i.Args[0])
			if err != nil {
				return nil, err
			}
			n1, err := t.lookup(i.Args[1])
			if err != nil {
				return nil, err
			}
			if i.Op.Commutative() && n0 > n1 {
				n0, n1 = n1, n0
			}
			return &value{kind: binaryValue, op: i.Op, a: n0, b: n1}, nil
		}
	}
	return nil, nil
}

func (t *Table) replaceArgs(args []string) ([]string, error) {
	if args == nil {
		return nil, nil
	}
	out := make([]string, len(args))
	for i, arg := range args {
		num, err := t.lookup(arg)
		if err != nil {
			return nil, err
		}
		out[i] = t.num2var[num]
	}
	return out, nil
}

// copyOf emits dest := id num2var[num] and records dest's number.
func (t *Table) copyOf(instr ir.Code, num int) ir.Code {
	dest, _ := ir.Dest(instr)
	typ, _ := ir.DestType(instr)
	t.var2num[dest] = num
	return &ir.Value{
		Op:   ir.Id,
		Dest: dest,
		Type: typ,
		Args: []string{t.num2var[num]},
	}
}

// rewrite processes one code item: canonicalize, look up or register,
// and emit the replacement with arguments renamed through the table.
func (t *Table) rewrite(instr ir.Code, lastWrite bool) (ir.Code, error) {
	canonical, err := t.canonicalize(instr)
	if err != nil {
		return nil, err
	}

	if canonical != nil {
		// Pure copy: the destination aliases an existing number.
		if canonical.kind == unaryValue && canonical.op == ir.Id {
			return t.copyOf(instr, canonical.a), nil
		}

		// Known value: reuse it instead of recomputing.
		if num, ok := t.val2num[*canonical]; ok {
			if t.num2const != nil {
				if lit, known := t.num2const[num]; known {
					dest, _ := ir.Dest(instr)
					typ, _ := ir.DestType(instr)
					t.var2num[dest] = num
					return &ir.Constant{Dest: dest, Type: typ, Value: lit}, nil
				}
			}
			return t.copyOf(instr, num), nil
		}

		// Fresh value: rewrite args against the pre-assignment table,
		// then register the new number.
		newArgs, err := t.replaceArgs(ir.Args(instr))
		if err != nil {
			return nil, err
		}
		dest, _ := ir.Dest(instr)
		typ, _ := ir.DestType(instr)
		num := t.extendEnv(dest)
		t.val2num[*canonical] = num
		folded := t.fold(num, canonical)
		name := t.registerVar(dest, num, lastWrite)

		if folded != nil {
			return &ir.Constant{Dest: name, Type: typ, Value: *folded}, nil
		}
		switch i := instr.(type) {
		case *ir.Constant:
			return &ir.Constant{Dest: name, Type: i.Type, Value: i.Value, Position: i.Position}, nil
		case *ir.Value:
			return &ir.Value{
				Op: i.Op, Dest: name, Type: i.Type,
				Args:  newArgs,
				Funcs: append([]string(nil), i.Funcs...),
				Labels: append([]string(nil), i.Labels...),
				Position: i.Position,
			}, nil
		}
	}

	// No canonical value: labels pass through; calls and effects get
	// their arguments renamed but never enter the value table.
	switch i := instr.(type) {
	case *ir.Label:
		return i, nil
	case *ir.Value:
		newArgs, err := t.replaceArgs(i.Args)
		if err != nil {
			return nil, err
		}
		num := t.extendEnv(i.Dest)
		name := t.registerVar(i.Dest, num, lastWrite)
		return &ir.Value{
			Op: i.Op, Dest: name, Type: i.Type,
			Args:  newArgs,
			Funcs: append([]string(nil), i.Funcs...),
			Labels: append([]string(nil), i.Labels...),
			Position: i.Position,
		}, nil
	case *ir.Effect:
		newArgs, err := t.replaceArgs(i.Args)
		if err != nil {
			return nil, err
		}
		return &ir.Effect{
			Op:   i.Op,
			Args: newArgs,
			Funcs: append([]string(nil), i.Funcs...),
			Labels: append([]string(nil), i.Labels...),
			Position: i.Position,
		}, nil
	}
	return instr, nil
}
