package vectorize

import "github.com/llir/llvm/ir"

// operandReady reports whether def is available at the gap immediately
// before position kIndex of kBlock: same-block uses block order, and
// cross-block falls back to the real block-dominance query, for operand
// chains that reach into a block other than the pair's own (an
// entry-block alloca feeding a load several blocks downstream).
func operandReady(ctx *IRContext, kBlock *ir.Block, kIndex int, def ir.Instruction) bool {
	defBlock := ctx.blockOf(def)
	if defBlock == nil {
		return false
	}
	if defBlock == kBlock {
		return ctx.orderOf(kBlock)[def] < kIndex
	}
	return ctx.dominatesBlock(defBlock, kBlock)
}

// positionDominatesUser reports whether the gap immediately before
// position kIndex of kBlock dominates the use site u.
func positionDominatesUser(ctx *IRContext, kBlock *ir.Block, kIndex int, u ir.Instruction) bool {
	uBlock := ctx.blockOf(u)
	if uBlock == nil {
		return false
	}
	if uBlock == kBlock {
		return kIndex <= ctx.orderOf(kBlock)[u]
	}
	return ctx.dominatesBlock(kBlock, uBlock)
}

// positionDominatesBlock reports whether the gap immediately before
// position kIndex of kBlock dominates every instruction of tBlock — used
// for a terminator user, which always sits after every instruction of
// its own block.
func positionDominatesBlock(ctx *IRContext, kBlock, tBlock *ir.Block) bool {
	if kBlock == tBlock {
		return true
	}
	return ctx.dominatesBlock(kBlock, tBlock)
}
