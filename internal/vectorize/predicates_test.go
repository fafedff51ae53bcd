package vectorize

import (
	"testing"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
)

func TestShouldVectorizeIndependentAdds(t *testing.T) {
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

	assert.True(t, ShouldVectorize(ctx, t1, t2))
	assert.True(t, IsIsomorphic(t1, t2))
}

func TestShouldVectorizeRejectsChainedDependence(t *testing.T) {
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

	// Dependence is checked from the first argument down its operand
	// chain; the seed loop always hands in the later instruction first.
	assert.False(t, ShouldVectorize(ctx, t2, t1))
	assert.True(t, ShouldVectorize(ctx, t1, t2))
}

func TestIsIsomorphicRejectsMismatchedOpcode(t *testing.T) {
	_, _, block := newTestFunc("main")

	a := block.NewAlloca(types.I32)
	b := block.NewAlloca(types.I32)
	la := block.NewLoad(types.I32, a)
	lb := block.NewLoad(types.I32, b)
	add := block.NewAdd(la, lb)
	sub := block.NewSub(la, lb)
	block.NewRet(add)

	assert.False(t, IsIsomorphic(add, sub))
}

func TestIsIsomorphicRejectsConstantOperand(t *testing.T) {
	_, _, block := newTestFunc("main")

	a := block.NewAlloca(types.I32)
	b := block.NewAlloca(types.I32)
	la := block.NewLoad(types.I32, a)
	lb := block.NewLoad(types.I32, b)
	t1 := block.NewAdd(la, lb)
	// A constant at any operand index disqualifies the pair, even though
	// opcode, type, and arity all match.
	t2 := block.NewAdd(la, constant.NewInt(types.I32, 7))
	t3 := block.NewAdd(lb, la)
	block.NewRet(t1)

	assert.False(t, IsIsomorphic(t1, t2))
	assert.True(t, IsIsomorphic(t1, t3))
}

func TestShouldVectorizeRejectsVolatileLoad(t *testing.T) {
	_, fn, block := newTestFunc("main")

	a := block.NewAlloca(types.I32)
	b := block.NewAlloca(types.I32)
	c := block.NewAlloca(types.I32)
	d := block.NewAlloca(types.I32)
	la := block.NewLoad(types.I32, a)
	la.Volatile = true
	lb := block.NewLoad(types.I32, b)
	lc := block.NewLoad(types.I32, c)
	ld := block.NewLoad(types.I32, d)
	t1 := block.NewAdd(la, lb)
	t2 := block.NewAdd(lc, ld)
	block.NewRet(t1)

	ctx := newIRContext(fn)
	assert.False(t, ShouldVectorize(ctx, la, lc))
	assert.True(t, ShouldVectorize(ctx, t1, t2))
}
