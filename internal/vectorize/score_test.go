package vectorize

import (
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
)

func TestScoreRewardsFloatOverInt(t *testing.T) {
	_, fnInt, blockInt := newTestFunc("int_main")
	a := blockInt.NewAlloca(types.I32)
	b := blockInt.NewAlloca(types.I32)
	c := blockInt.NewAlloca(types.I32)
	d := blockInt.NewAlloca(types.I32)
	la := blockInt.NewLoad(types.I32, a)
	lb := blockInt.NewLoad(types.I32, b)
	lc := blockInt.NewLoad(types.I32, c)
	ld := blockInt.NewLoad(types.I32, d)
	t1 := blockInt.NewAdd(la, lb)
	t2 := blockInt.NewAdd(lc, ld)
	blockInt.NewRet(t1)

	ctxInt := newIRContext(fnInt)
	usesInt := newUseIndex(fnInt)
	listInt := CollectIsomorphicInsts(nil, ctxInt, t1, t2)
	intScore := Score(listInt, usesInt)

	_, fnF, blockF := newTestFunc("float_main")
	fa := blockF.NewAlloca(types.Float)
	fb := blockF.NewAlloca(types.Float)
	fc := blockF.NewAlloca(types.Float)
	fd := blockF.NewAlloca(types.Float)
	lfa := blockF.NewLoad(types.Float, fa)
	lfb := blockF.NewLoad(types.Float, fb)
	lfc := blockF.NewLoad(types.Float, fc)
	lfd := blockF.NewLoad(types.Float, fd)
	ft1 := blockF.NewFAdd(lfa, lfb)
	ft2 := blockF.NewFAdd(lfc, lfd)
	blockF.NewRet(ft1)

	ctxF := newIRContext(fnF)
	usesF := newUseIndex(fnF)
	listF := CollectIsomorphicInsts(nil, ctxF, ft1, ft2)
	floatScore := Score(listF, usesF)

	assert.Less(t, floatScore, intScore)
}

func TestScorePenalizesExternalUser(t *testing.T) {
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
	e := block.NewAlloca(types.I32)
	le := block.NewLoad(types.I32, e)
	// t1 gains a use outside the pack (an extra add against an unrelated
	// value); t2 does not.
	extra := block.NewAdd(t1, le)
	block.NewRet(extra)

	ctx := newIRContext(fn)
	uses := newUseIndex(fn)
	list := CollectIsomorphicInsts(nil, ctx, t1, t2)
	score := Score(list, uses)

	// Baseline with no external users at all, same shape otherwise. The
	// function returns void so not even the terminator reads a pack member.
	m2 := ir.NewModule()
	fn2 := m2.NewFunc("main2", types.Void)
	block2 := fn2.NewBlock("entry")
	a2 := block2.NewAlloca(types.I32)
	b2 := block2.NewAlloca(types.I32)
	c2 := block2.NewAlloca(types.I32)
	d2 := block2.NewAlloca(types.I32)
	la2 := block2.NewLoad(types.I32, a2)
	lb2 := block2.NewLoad(types.I32, b2)
	lc2 := block2.NewLoad(types.I32, c2)
	ld2 := block2.NewLoad(types.I32, d2)
	t1b := block2.NewAdd(la2, lb2)
	t2b := block2.NewAdd(lc2, ld2)
	block2.NewRet(nil)
	_ = t2b

	ctx2 := newIRContext(fn2)
	uses2 := newUseIndex(fn2)
	list2 := CollectIsomorphicInsts(nil, ctx2, t1b, t2b)
	score2 := Score(list2, uses2)

	assert.Greater(t, score, score2)
}

func TestNotDefinedOperandCount(t *testing.T) {
	_, _, block := newTestFunc("main")
	a := block.NewAlloca(types.I32)
	la := block.NewLoad(types.I32, a)

	list := newPackList()
	// la's operand (a) is not in the list at all.
	assert.Equal(t, 1, notDefinedOperandCount(la, list))
}
