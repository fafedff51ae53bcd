package vectorize

import "github.com/llir/llvm/ir"

// cursor models an IR builder position
// (LLVMPositionBuilderBefore/LLVMPositionBuilderAtEnd): a splice point
// within a block's instruction list. github.com/llir/llvm's *ir.Block
// only exposes append-at-end NewXxx helpers, so the rewriter constructs
// instructions with the bare ir.NewXxx constructors and splices them in
// itself via insert.
type cursor struct {
	block *ir.Block
	pos   int
}

// cursorBefore positions a cursor immediately before an existing
// instruction of block.
func cursorBefore(block *ir.Block, before ir.Instruction) cursor {
	for i, inst := range block.Insts {
		if inst == before {
			return cursor{block: block, pos: i}
		}
	}
	return cursor{block: block, pos: len(block.Insts)}
}

// cursorAfter positions a cursor immediately after an existing
// instruction of block, or at the end of the block if after has no
// successor instruction — where the rewriter packs an operand pair,
// immediately downstream of the later definition.
func cursorAfter(block *ir.Block, after ir.Instruction) cursor {
	for i, inst := range block.Insts {
		if inst == after {
			return cursor{block: block, pos: i + 1}
		}
	}
	return cursor{block: block, pos: len(block.Insts)}
}

// insert splices inst into the cursor's block at its current position,
// advances the cursor past it (so repeated inserts at one cursor preserve
// program order, as assembleVec2's two sequential insert-lane ops
// require), and records inst's parent block in ctx.
func (c *cursor) insert(ctx *IRContext, inst ir.Instruction) {
	block := c.block
	block.Insts = append(block.Insts, nil)
	copy(block.Insts[c.pos+1:], block.Insts[c.pos:])
	block.Insts[c.pos] = inst
	c.pos++
	ctx.adopt(inst, block)
	ctx.invalidateOrder(block)
}
