package vectorize

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// useIndex is the pass's use-list service (what LLVMGetFirstUse /
// LLVMGetNextUse/LLVMGetUser provide in LLVM proper): github.com/llir/llvm keeps
// no use-def chain on value.Value, so it is rebuilt by scanning every
// instruction's (and terminator's) operand slots, the same structural scan
// Optimizer.isValueUsed/markInstructionUsed already perform in
// internal/codegen/optimizer.go for the identical reason. It is rebuilt
// once per driver iteration and never persisted.
type useIndex struct {
	users     map[value.Value][]ir.Instruction
	termUsers map[value.Value][]*ir.Block
}

// newUseIndex scans every block of fn and records, for each value used as
// an operand anywhere in the function, the instructions that use it and
// the blocks whose terminator reads it directly.
func newUseIndex(fn *ir.Func) *useIndex {
	idx := &useIndex{
		users:     make(map[value.Value][]ir.Instruction),
		termUsers: make(map[value.Value][]*ir.Block),
	}
	for _, block := range fn.Blocks {
		for _, inst := range block.Insts {
			for _, operand := range instOperands(inst) {
				idx.users[*operand] = append(idx.users[*operand], inst)
			}
		}
		if block.Term != nil {
			for _, operand := range block.Term.Operands() {
				if operand == nil || *operand == nil {
					continue
				}
				idx.termUsers[*operand] = append(idx.termUsers[*operand], block)
			}
		}
	}
	return idx
}

// usedOutside reports whether v has any user that is not a member of
// visited. A terminator use always counts as outside, since
// visited only ever holds vectorizable scalar instructions.
func (idx *useIndex) usedOutside(v value.Value, visited map[ir.Instruction]struct{}) bool {
	if len(idx.termUsers[v]) > 0 {
		return true
	}
	for _, u := range idx.users[v] {
		if _, ok := visited[u]; !ok {
			return true
		}
	}
	return false
}

// usersOf returns every instruction that uses v, for schedulability's
// "K precedes every user" check.
func (idx *useIndex) usersOf(v value.Value) []ir.Instruction {
	return idx.users[v]
}

// termUserBlocks returns every block whose terminator reads v directly.
func (idx *useIndex) termUserBlocks(v value.Value) []*ir.Block {
	return idx.termUsers[v]
}
