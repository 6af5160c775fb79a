// Package cfg partitions a function's instruction stream into basic
// blocks and derives the control-flow graph over them.
package cfg

import (
	"fmt"

	"rill/internal/errors"
	"rill/internal/ir"
)

// BasicBlock is a non-empty ordered sequence of code items. A label, if
// present, is the first item; a terminator, if present, is the last.
type BasicBlock []ir.Code

// Partition splits a function's instruction stream into basic blocks.
// A label starts a new block; a terminator closes the current one. An
// empty function yields zero blocks. Concatenating the result restores
// the original stream.
func Partition(f *ir.Function) []BasicBlock {
	var blocks []BasicBlock
	var block BasicBlock

	for _, line := range f.Instrs {
		if _, ok := line.(*ir.Label); ok {
			if len(block) > 0 {
				blocks = append(blocks, block)
				block = nil
			}
			block = append(block, line)
			continue
		}
		block = append(block, line)
		if ir.IsTerminator(line) {
			blocks = append(blocks, block)
			block = nil
		}
	}
	if len(block) > 0 {
		blocks = append(blocks, block)
	}
	return blocks
}

// BlockName names the block at index idx: the leading label if the
// block has one, otherwise the function name suffixed with the index.
func BlockName(b BasicBlock, idx int, funcName string) string {
	if label, ok := b[0].(*ir.Label); ok {
		return label.Name
	}
	return fmt.Sprintf("%s%d", funcName, idx)
}

// Validate checks the block partition invariants: the block is
// non-empty, a label appears only as the first item, and a terminator
// only as the last.
func Validate(b BasicBlock) error {
	if len(b) == 0 {
		return errors.NewMalformedBlock("block is empty")
	}
	for i, c := range b {
		if _, ok := c.(*ir.Label); ok && i > 0 {
			return errors.NewMalformedBlock(fmt.Sprintf("label %s at position %d", c, i))
		}
		if ir.IsTerminator(c) && i != len(b)-1 {
			return errors.NewMalformedBlock(fmt.Sprintf("terminator %s at interior position %d", c, i))
		}
	}
	return nil
}

// Flatten concatenates blocks back into an instruction stream.
func Flatten(blocks []BasicBlock) []ir.Code {
	var instrs []ir.Code
	for _, b := range blocks {
		instrs = append(instrs, b...)
	}
	return instrs
}
