package vectorize

import (
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The constant form of assembleVec2 is unreachable through pack growth
// (growth never recurses into a constant operand) but stays callable
// directly: two constant lanes fold into a constant vector with no
// instructions emitted.
func TestAssembleVec2ConstantOperands(t *testing.T) {
	_, fn, block := newTestFunc("main")
	anchor := block.NewAlloca(types.I32)

	ctx := newIRContext(fn)
	c := cursorAfter(block, anchor)

	before := len(block.Insts)
	v := assembleVec2(ctx, &c, constant.NewInt(types.I32, 1), constant.NewInt(types.I32, 2))

	_, isConst := v.(*constant.Vector)
	assert.True(t, isConst)
	assert.Equal(t, before, len(block.Insts))
}

func TestAssembleVec2InsertsTwoLanes(t *testing.T) {
	_, fn, block := newTestFunc("main")
	x := block.NewAlloca(types.I32)
	y := block.NewAlloca(types.I32)
	lx := block.NewLoad(types.I32, x)
	ly := block.NewLoad(types.I32, y)

	ctx := newIRContext(fn)
	c := cursorAfter(block, ly)

	before := len(block.Insts)
	v := assembleVec2(ctx, &c, lx, ly)

	require.Equal(t, before+2, len(block.Insts))
	ie, ok := v.(*ir.InstInsertElement)
	require.True(t, ok)
	// Lane 1 is inserted last, on top of the lane-0 insert.
	idx, ok := ie.Index.(*constant.Int)
	require.True(t, ok)
	assert.Equal(t, int64(1), idx.X.Int64())
	assert.Same(t, ly, ie.Elem)
}
