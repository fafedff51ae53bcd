package vectorize

import "github.com/llir/llvm/ir"

// IsTransformable decides schedulability for one pair: it scans pair's
// block from its first to its last instruction and returns the cursor
// positioned before the first candidate K that is dominated by both
// lanes' matching operands and dominates every use of both lanes. It
// returns ok=false if no such position exists, at which point the pack
// is abandoned.
func IsTransformable(ctx *IRContext, uses *useIndex, pair *Pair) (cursor, bool) {
	i, j := pair.Lane0, pair.Lane1
	block := ctx.blockOf(i)
	opsI, opsJ := instOperands(i), instOperands(j)

	for kIndex, k := range block.Insts {
		ready := true
		for idx := range opsI {
			opI, okI := operandInst(*opsI[idx])
			opJ, okJ := operandInst(*opsJ[idx])
			if !okI || !okJ {
				continue
			}
			if !operandReady(ctx, block, kIndex, opI) || !operandReady(ctx, block, kIndex, opJ) {
				ready = false
				break
			}
		}
		if ready && !dominatesAllUses(ctx, uses, block, kIndex, i) {
			ready = false
		}
		if ready && !dominatesAllUses(ctx, uses, block, kIndex, j) {
			ready = false
		}
		if ready {
			return cursorBefore(block, k), true
		}
	}
	return cursor{}, false
}

// dominatesAllUses reports whether the gap immediately before position
// kIndex of kBlock dominates every use of inst's result. An instruction
// with no result (a store) vacuously satisfies this.
func dominatesAllUses(ctx *IRContext, uses *useIndex, kBlock *ir.Block, kIndex int, inst ir.Instruction) bool {
	v, ok := asValue(inst)
	if !ok {
		return true
	}
	for _, u := range uses.usersOf(v) {
		if !positionDominatesUser(ctx, kBlock, kIndex, u) {
			return false
		}
	}
	for _, tb := range uses.termUserBlocks(v) {
		if !positionDominatesBlock(ctx, kBlock, tb) {
			return false
		}
	}
	return true
}
