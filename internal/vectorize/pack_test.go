package vectorize

import (
	"testing"

	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectIsomorphicInstsGrowsThroughOperandChain(t *testing.T) {
	_, fn, block := newTestFunc("main")

	a := block.NewAlloca(types.I32)
	b := block.NewAlloca(types.I32)
	c := block.NewAlloca(types.I32)
	d := block.NewAlloca(types.I32)
	la := block.NewLoad(types.I32, a)
	lb := block.NewLoad(types.I32, b)
	lc := block.NewLoad(types.I32, c)
	ld := block.NewLoad(types.I32, d)
	t1 := block.NewAdd(la, lb)
	t2 := block.NewAdd(lc, ld)
	block.NewRet(t1)

	ctx := newIRContext(fn)

	list := CollectIsomorphicInsts(nil, ctx, t1, t2)
	require.NotNil(t, list)

	// t1/t2 pair, both load pairs it grows into, and the alloca pairs
	// behind the loads.
	assert.Equal(t, 5, list.Len())
	assert.True(t, list.contains(t1))
	assert.True(t, list.contains(t2))
	assert.True(t, list.contains(la))
	assert.True(t, list.contains(lc))

	// Pairs are kept in lane-0 dominance (block) order: the load pair
	// precedes the add pair that consumes it.
	pairs := list.Pairs()
	loadPairIdx, addPairIdx := -1, -1
	for idx, p := range pairs {
		if p.Lane0 == la || p.Lane0 == lb {
			loadPairIdx = idx
		}
		if p.Lane0 == t1 || p.Lane0 == t2 {
			addPairIdx = idx
		}
	}
	require.NotEqual(t, -1, loadPairIdx)
	require.NotEqual(t, -1, addPairIdx)
	assert.Less(t, loadPairIdx, addPairIdx)
}

func TestCollectIsomorphicInstsAbandonsOnNonVectorizable(t *testing.T) {
	_, fn, block := newTestFunc("main")

	a := block.NewAlloca(types.I32)
	b := block.NewAlloca(types.I32)
	c := block.NewAlloca(types.I32)
	la := block.NewLoad(types.I32, a)
	lb := block.NewLoad(types.I32, b)
	lc := block.NewLoad(types.I32, c)
	t1 := block.NewAdd(la, lb)
	t2 := block.NewAdd(t1, lc)
	block.NewRet(t2)

	ctx := newIRContext(fn)

	// Seeded the way the driver seeds: later instruction first. t2 reads
	// t1, so the seed is abandoned outright.
	list := CollectIsomorphicInsts(nil, ctx, t2, t1)
	assert.Nil(t, list)
}

func TestCollectIsomorphicInstsStopsOnRevisit(t *testing.T) {
	_, fn, block := newTestFunc("main")

	a := block.NewAlloca(types.I32)
	b := block.NewAlloca(types.I32)
	la := block.NewLoad(types.I32, a)
	lb := block.NewLoad(types.I32, b)
	t1 := block.NewAdd(la, lb)
	t2 := block.NewAdd(lb, la)
	block.NewRet(t1)

	ctx := newIRContext(fn)

	list := CollectIsomorphicInsts(nil, ctx, t1, t2)
	require.NotNil(t, list)
	// Growth packs (la, lb) once through t1's operand slot; t2's mirrored
	// (lb, la) slot finds both already visited and must not add a second
	// pair for them. Three pairs total: the adds, the loads, the allocas.
	assert.Equal(t, 3, list.Len())
	assert.True(t, list.contains(la))
	assert.True(t, list.contains(lb))
}
