package vectorize

import "github.com/llir/llvm/ir"

// computeDominators computes the immediate-dominator map for fn's control
// flow graph using the iterative algorithm of Cooper, Harvey & Kennedy, "A
// Simple, Fast Dominance Algorithm" (2001). It is consulted wherever the
// pass compares positions across blocks: whether an operand defined in
// another block is available at an insertion point, whether a use of a
// pack element in another block is dominated by the pack's block, and
// IRContext.precedes' cross-block fallback. Packing itself never crosses
// blocks; only operand chains and uses can.
func computeDominators(fn *ir.Func) map[*ir.Block]*ir.Block {
	if len(fn.Blocks) == 0 {
		return nil
	}
	entry := fn.Blocks[0]

	order, index := reversePostorder(entry)

	idom := make(map[*ir.Block]*ir.Block, len(order))
	idom[entry] = entry

	preds := make(map[*ir.Block][]*ir.Block)
	for _, b := range order {
		if b.Term == nil {
			continue
		}
		for _, succ := range b.Term.Succs() {
			preds[succ] = append(preds[succ], b)
		}
	}

	changed := true
	for changed {
		changed = false
		for _, b := range order {
			if b == entry {
				continue
			}
			var newIdom *ir.Block
			for _, p := range preds[b] {
				if idom[p] == nil {
					continue
				}
				if newIdom == nil {
					newIdom = p
					continue
				}
				newIdom = intersect(idom, index, newIdom, p)
			}
			if newIdom != nil && idom[b] != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}

	delete(idom, entry) // entry has no dominator other than itself
	return idom
}

// intersect walks both fingers up the dominator tree until they meet,
// using reverse-postorder index as the "which is higher" comparison.
func intersect(idom map[*ir.Block]*ir.Block, index map[*ir.Block]int, a, b *ir.Block) *ir.Block {
	for a != b {
		for index[a] > index[b] {
			a = idom[a]
		}
		for index[b] > index[a] {
			b = idom[b]
		}
	}
	return a
}

// reversePostorder walks the CFG from entry and returns blocks in reverse
// postorder, plus a lookup from block to its position in that order.
func reversePostorder(entry *ir.Block) ([]*ir.Block, map[*ir.Block]int) {
	visited := make(map[*ir.Block]bool)
	var post []*ir.Block

	var visit func(b *ir.Block)
	visit = func(b *ir.Block) {
		if visited[b] {
			return
		}
		visited[b] = true
		if b.Term != nil {
			for _, succ := range b.Term.Succs() {
				visit(succ)
			}
		}
		post = append(post, b)
	}
	visit(entry)

	order := make([]*ir.Block, len(post))
	index := make(map[*ir.Block]int, len(post))
	for i, b := range post {
		rpoPos := len(post) - 1 - i
		order[rpoPos] = b
		index[b] = rpoPos
	}
	return order, index
}
