package vectorize

import "github.com/llir/llvm/ir"

// IRContext bundles the function-scoped facts the pass needs that
// github.com/llir/llvm does not track on the instructions themselves:
// which block an instruction belongs to, and which blocks dominate which
// other blocks. In a real LLVM pass these come from the pass manager's
// analyses; here they are computed once per function by newIRContext and
// threaded through the rest of the pass.
type IRContext struct {
	instBlock map[ir.Instruction]*ir.Block
	idom      map[*ir.Block]*ir.Block
	entry     *ir.Block
	order     map[*ir.Block]map[ir.Instruction]int
}

// newIRContext builds an IRContext for a single function.
func newIRContext(fn *ir.Func) *IRContext {
	ctx := &IRContext{
		instBlock: make(map[ir.Instruction]*ir.Block),
		order:     make(map[*ir.Block]map[ir.Instruction]int),
	}
	for _, block := range fn.Blocks {
		for _, inst := range block.Insts {
			ctx.instBlock[inst] = block
		}
	}
	if len(fn.Blocks) > 0 {
		ctx.entry = fn.Blocks[0]
		ctx.idom = computeDominators(fn)
	}
	return ctx
}

// adopt records the parent block of an instruction newly spliced into the
// IR by the rewriter, so later growth/scheduling queries on that
// instruction (e.g. an extract-lane feeding a later seed search) resolve
// correctly.
func (ctx *IRContext) adopt(inst ir.Instruction, block *ir.Block) {
	ctx.instBlock[inst] = block
}

// orderOf returns (building and caching on first use) block's
// instructions' positions within block.Insts.
func (ctx *IRContext) orderOf(block *ir.Block) map[ir.Instruction]int {
	if o, ok := ctx.order[block]; ok {
		return o
	}
	o := make(map[ir.Instruction]int, len(block.Insts))
	for i, inst := range block.Insts {
		o[inst] = i
	}
	ctx.order[block] = o
	return o
}

// invalidateOrder drops the cached order for block, forcing the next
// orderOf call to rebuild it. Call after splicing instructions into a
// block mid-pass.
func (ctx *IRContext) invalidateOrder(block *ir.Block) {
	delete(ctx.order, block)
}

// precedes reports whether a is ordered before b: same-block instructions
// compare by linear program order; cross-block pairs fall back to real
// block dominance (a's block strictly dominates b's block), since an
// operand chain can legitimately reach into a block that dominates the
// pair's own block.
func (ctx *IRContext) precedes(a, b ir.Instruction) bool {
	ba, bb := ctx.blockOf(a), ctx.blockOf(b)
	if ba == nil || bb == nil {
		return false
	}
	if ba == bb {
		order := ctx.orderOf(ba)
		return order[a] < order[b]
	}
	return ctx.dominatesBlock(ba, bb)
}

// blockOf returns the block an instruction belongs to, or nil if unknown
// (an instruction from outside this function, or a non-instruction value).
func (ctx *IRContext) blockOf(inst ir.Instruction) *ir.Block {
	return ctx.instBlock[inst]
}

// dominatesBlock reports whether block a dominates block b (reflexively:
// a block dominates itself).
func (ctx *IRContext) dominatesBlock(a, b *ir.Block) bool {
	if a == b {
		return true
	}
	if ctx.idom == nil {
		return false
	}
	for cur := ctx.idom[b]; cur != nil; cur = ctx.idom[cur] {
		if cur == a {
			return true
		}
	}
	return false
}
