package vectorize

import (
	"testing"

	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTransformableFindsPositionAfterOperands(t *testing.T) {
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
	uses := newUseIndex(fn)

	pair := &Pair{Lane0: t1, Lane1: t2, EmitExtracts: true}
	cur, ok := IsTransformable(ctx, uses, pair)
	require.True(t, ok)

	// The chosen position must not precede any of the four loads feeding
	// the pair: inserting there would use a value before its definition.
	order := ctx.orderOf(block)
	assert.GreaterOrEqual(t, cur.pos, order[la]+1)
	assert.GreaterOrEqual(t, cur.pos, order[lb]+1)
	assert.GreaterOrEqual(t, cur.pos, order[lc]+1)
	assert.GreaterOrEqual(t, cur.pos, order[ld]+1)
}

func TestIsTransformableFailsWhenNoPositionSatisfiesBoth(t *testing.T) {
	_, fn, block := newTestFunc("main")
	a := block.NewAlloca(types.I32)
	b := block.NewAlloca(types.I32)
	la := block.NewLoad(types.I32, a)
	lb := block.NewLoad(types.I32, b)
	t1 := block.NewAdd(la, lb)
	// t1 is consumed immediately...
	use1 := block.NewAdd(t1, t1)
	// ...but t2's operands are not even defined until after that use, so
	// no single gap can both follow t2's operands and precede t1's use.
	c := block.NewAlloca(types.I32)
	d := block.NewAlloca(types.I32)
	lc := block.NewLoad(types.I32, c)
	ld := block.NewLoad(types.I32, d)
	t2 := block.NewAdd(lc, ld)
	block.NewRet(use1)

	ctx := newIRContext(fn)
	uses := newUseIndex(fn)
	pair := &Pair{Lane0: t1, Lane1: t2, EmitExtracts: true}
	_, ok := IsTransformable(ctx, uses, pair)
	assert.False(t, ok)
}
