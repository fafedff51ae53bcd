package vectorize

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// newTestFunc builds a single-block function named name returning i32,
// for tests that only need one straight-line block to seed and grow
// packs in.
func newTestFunc(name string) (*ir.Module, *ir.Func, *ir.Block) {
	m := ir.NewModule()
	fn := m.NewFunc(name, types.I32)
	block := fn.NewBlock("entry")
	return m, fn, block
}
