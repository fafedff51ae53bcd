package vectorize

import "github.com/llir/llvm/ir"

// maxIterationsPerBlock bounds the fixpoint loop runOnBlock runs: each
// accepted pack can expose further isomorphic pairs (e.g. once two
// stores are packed, the values they stored may themselves have become
// packable), capped at three passes rather than iterating to a true
// fixpoint.
const maxIterationsPerBlock = 3

// RunSLP runs the superword-level-parallelism pass over every defined
// function of module and returns the run's Stats. It is
// internal/codegen/optimizer.go's Optimizer.OptimizeModule's OptAggressive
// hook.
func RunSLP(module *ir.Module) *Stats {
	return RunSLPWithOptions(module, false)
}

// RunSLPWithOptions runs RunSLP with tracing of each accepted pack
// enabled or disabled, for callers (cmd/alas-vectorize-stats) that expose
// the pass on its own rather than as part of Optimizer.OptimizeModule.
func RunSLPWithOptions(module *ir.Module, trace bool) *Stats {
	stats := NewStats()
	stats.Trace = trace
	for _, fn := range module.Funcs {
		if len(fn.Blocks) == 0 {
			continue // declaration, nothing to vectorize
		}
		runOnFunc(fn, stats)
	}
	return stats
}

// runOnFunc runs runOnBlock over every block of fn, sharing one
// IRContext: control flow never changes during rewriting (only
// instructions within a block are inserted/erased), so the dominator
// tree computed once at entry stays valid for every block and every
// iteration.
func runOnFunc(fn *ir.Func, stats *Stats) bool {
	stats.Functions++
	ctx := newIRContext(fn)
	changed := false
	for _, block := range fn.Blocks {
		if runOnBlock(ctx, fn, block, stats) {
			changed = true
		}
	}
	return changed
}

// runOnBlock runs the per-block fixpoint loop: up to
// maxIterationsPerBlock times, it searches every (I, J) pair of block's
// instructions for the best (lowest-scoring) isomorphic pack, verifies every
// pair of that pack is schedulable, and rewrites it. It stops early once
// a pass finds no viable pack.
func runOnBlock(ctx *IRContext, fn *ir.Func, block *ir.Block, stats *Stats) bool {
	stats.Blocks++
	changed := false

	for iter := 0; iter < maxIterationsPerBlock; iter++ {
		uses := newUseIndex(fn)
		insts := block.Insts

		var best *PackList
		for iIdx := len(insts) - 1; iIdx >= 0; iIdx-- {
			i := insts[iIdx]
			for jIdx := 0; jIdx < iIdx; jIdx++ {
				j := insts[jIdx]
				if !IsIsomorphic(i, j) {
					continue
				}
				list := CollectIsomorphicInsts(nil, ctx, i, j)
				if list == nil || list.Len() < 2 {
					continue
				}
				Score(list, uses)
				// Lower score wins; a later equal-scoring candidate does
				// not displace the current best.
				if best == nil || list.score < best.score {
					best = list
				}
			}
		}

		if best == nil {
			break
		}

		schedulable := true
		for _, pair := range best.Pairs() {
			if _, ok := IsTransformable(ctx, uses, pair); !ok {
				schedulable = false
				break
			}
		}
		if !schedulable {
			stats.Logf("slp: best pack (size %d) is not schedulable, stopping block", best.Len())
			break
		}

		if stats.Trace {
			stats.Logf("slp: rewriting pack of %d pairs, score %d", best.Len(), best.score)
		}
		if !Vectorize(ctx, uses, stats, best) {
			break
		}
		stats.recordPack(best.Len())
		changed = true
	}

	return changed
}
