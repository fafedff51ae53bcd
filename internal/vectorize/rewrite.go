package vectorize

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Vectorize rewrites a validated PackList. It returns false, leaving the block
// untouched, if list cannot be safely rewritten (the load-operand corner
// case below); otherwise it emits the pack/vector/extract-lane
// instructions in place and erases the replaced scalars.
func Vectorize(ctx *IRContext, uses *useIndex, stats *Stats, list *PackList) bool {
	if !packable(list) {
		stats.Logf("slp: abandoning pack: a load's address operand cannot be packed")
		return false
	}

	op2vec := make(map[value.Value]value.Value, list.Len()*2)

	// Phase 1 — emit vectors, in pair order (lane-0 dominance order).
	for _, pair := range list.Pairs() {
		i, j := pair.Lane0, pair.Lane1
		opsI, opsJ := instOperands(i), instOperands(j)
		vecOps := make([]value.Value, len(opsI))

		for idx := range opsI {
			_, okI := operandInst(*opsI[idx])
			opJ, okJ := operandInst(*opsJ[idx])
			if !okI || !okJ {
				// Guaranteed unreachable: every pair in list was validated
				// by IsIsomorphic before being added, which requires every
				// operand index to be an instruction on both sides. A
				// violation here is a bug in seed or growth, not bad input.
				panic("vectorize: pair operand is not an instruction despite IsIsomorphic")
			}

			if vec, ok := op2vec[*opsI[idx]]; ok {
				vecOps[idx] = vec
				continue
			}

			opBlock := ctx.blockOf(opJ)
			c := cursorAfter(opBlock, opJ)
			vec := assembleVec2(ctx, &c, *opsI[idx], *opsJ[idx])
			op2vec[*opsI[idx]] = vec
			op2vec[*opsJ[idx]] = vec
			vecOps[idx] = vec
		}

		cur, ok := IsTransformable(ctx, uses, pair)
		if !ok {
			// The pre-check on the whole list should have caught this;
			// log and skip just this pair, leaving its scalars in place.
			stats.Logf("slp: no schedulable position for pair, skipping")
			pair.EmitExtracts = false
			continue
		}

		newInst := buildVectorInst(ctx, &cur, i, vecOps)
		if iv, ok := asValue(i); ok {
			if vv, ok := newInst.(value.Value); ok {
				op2vec[iv] = vv
			}
		}
		if jv, ok := asValue(j); ok {
			if vv, ok := newInst.(value.Value); ok {
				op2vec[jv] = vv
			}
		}
	}

	// Phase 2 — rewire scalar uses, in pair order.
	for _, pair := range list.Pairs() {
		if !pair.EmitExtracts {
			continue
		}
		rewireLane(ctx, uses, op2vec, pair.Lane0, 0)
		rewireLane(ctx, uses, op2vec, pair.Lane1, 1)
	}
	return true
}

// packable simulates Phase 1's operand-mapping walk without emitting any
// IR, to detect one corner case up front: a load whose address operand
// would need fresh packing (it was never itself combined into a Pair of
// this list). There is no meaningful way to repack a load's address, so
// the whole PackList is abandoned rather than emitting a vector load
// whose scalar users cannot be safely rewired.
func packable(list *PackList) bool {
	mapped := make(map[ir.Instruction]bool, list.Len()*2)
	for _, pair := range list.Pairs() {
		i, j := pair.Lane0, pair.Lane1
		opsI, opsJ := instOperands(i), instOperands(j)
		for idx := range opsI {
			opI, okI := operandInst(*opsI[idx])
			opJ, okJ := operandInst(*opsJ[idx])
			if !okI || !okJ {
				continue
			}
			if mapped[opI] {
				continue
			}
			if _, isLoad := i.(*ir.InstLoad); isLoad {
				return false
			}
			mapped[opI] = true
			mapped[opJ] = true
		}
		mapped[i] = true
		mapped[j] = true
	}
	return true
}

// assembleVec2 packs two scalars into a two-lane vector: a constant
// vector when both lanes are constants (unreachable through pack growth,
// which never recurses into a constant operand, but kept for direct
// callers), or two sequential insert-lane operations into a zero vector
// otherwise.
func assembleVec2(ctx *IRContext, c *cursor, a, b value.Value) value.Value {
	if ca, ok := a.(constant.Constant); ok {
		if cb, ok := b.(constant.Constant); ok {
			vtype := types.NewVector(2, a.Type())
			return constant.NewVector(vtype, ca, cb)
		}
	}

	vtype := types.NewVector(2, a.Type())
	zero := constant.NewZeroInitializer(vtype)
	ie0 := ir.NewInsertElement(zero, a, constant.NewInt(types.I32, 0))
	c.insert(ctx, ie0)
	ie1 := ir.NewInsertElement(ie0, b, constant.NewInt(types.I32, 1))
	c.insert(ctx, ie1)
	return ie1
}

// buildVectorInst emits the vector-typed instruction corresponding to
// opcode(i), positions it at cursor c, and returns it. Arithmetic and
// bitwise opcodes take the two mapped vector operands directly; alloca
// allocates a two-lane vector of the original element type; a load reads
// the whole vector through the packed pointer; a store writes the mapped
// value vector (operand 0) through the mapped pointer (operand 1).
func buildVectorInst(ctx *IRContext, c *cursor, i ir.Instruction, vecOps []value.Value) ir.Instruction {
	var newInst ir.Instruction
	switch inst := i.(type) {
	case *ir.InstAdd:
		newInst = ir.NewAdd(vecOps[0], vecOps[1])
	case *ir.InstFAdd:
		newInst = ir.NewFAdd(vecOps[0], vecOps[1])
	case *ir.InstSub:
		newInst = ir.NewSub(vecOps[0], vecOps[1])
	case *ir.InstFSub:
		newInst = ir.NewFSub(vecOps[0], vecOps[1])
	case *ir.InstMul:
		newInst = ir.NewMul(vecOps[0], vecOps[1])
	case *ir.InstFMul:
		newInst = ir.NewFMul(vecOps[0], vecOps[1])
	case *ir.InstUDiv:
		newInst = ir.NewUDiv(vecOps[0], vecOps[1])
	case *ir.InstSDiv:
		newInst = ir.NewSDiv(vecOps[0], vecOps[1])
	case *ir.InstFDiv:
		newInst = ir.NewFDiv(vecOps[0], vecOps[1])
	case *ir.InstURem:
		newInst = ir.NewURem(vecOps[0], vecOps[1])
	case *ir.InstSRem:
		newInst = ir.NewSRem(vecOps[0], vecOps[1])
	case *ir.InstFRem:
		newInst = ir.NewFRem(vecOps[0], vecOps[1])
	case *ir.InstShl:
		newInst = ir.NewShl(vecOps[0], vecOps[1])
	case *ir.InstLShr:
		newInst = ir.NewLShr(vecOps[0], vecOps[1])
	case *ir.InstAShr:
		newInst = ir.NewAShr(vecOps[0], vecOps[1])
	case *ir.InstAnd:
		newInst = ir.NewAnd(vecOps[0], vecOps[1])
	case *ir.InstOr:
		newInst = ir.NewOr(vecOps[0], vecOps[1])
	case *ir.InstXor:
		newInst = ir.NewXor(vecOps[0], vecOps[1])
	case *ir.InstAlloca:
		newInst = ir.NewAlloca(types.NewVector(2, inst.ElemType))
	case *ir.InstLoad:
		newInst = ir.NewLoad(types.NewVector(2, inst.Type()), vecOps[0])
	case *ir.InstStore:
		newInst = ir.NewStore(vecOps[0], vecOps[1])
	default:
		panic(fmt.Sprintf("vectorize: unsupported opcode reached rewrite: %T", i))
	}
	c.insert(ctx, newInst)
	return newInst
}

// rewireLane performs Phase 2 for one lane of a pair: if
// scalar has any remaining user, it emits an extract (or, for an alloca,
// a two-index address computation selecting lane) immediately after the
// vector instruction mapped from scalar, replaces every use of scalar
// with it, and erases scalar. A scalar with no remaining users is left in
// place for a later dead-code pass (external) to reclaim.
func rewireLane(ctx *IRContext, uses *useIndex, op2vec map[value.Value]value.Value, scalar ir.Instruction, lane int) {
	v, ok := asValue(scalar)
	if !ok {
		return // a store produces no result; nothing to rewire
	}
	if len(uses.usersOf(v)) == 0 && len(uses.termUserBlocks(v)) == 0 {
		return
	}

	vec := op2vec[v]
	c := cursorAfter(ctx.blockOf(vec.(ir.Instruction)), vec.(ir.Instruction))

	var extractInst ir.Instruction
	var extracted value.Value
	if _, isAlloca := scalar.(*ir.InstAlloca); isAlloca {
		vecAlloca := vec.(*ir.InstAlloca)
		idx0 := constant.NewInt(types.I32, 0)
		idx1 := constant.NewInt(types.I32, int64(lane))
		gep := ir.NewGetElementPtr(vecAlloca.ElemType, vecAlloca, idx0, idx1)
		extractInst, extracted = gep, gep
	} else {
		ee := ir.NewExtractElement(vec, constant.NewInt(types.I32, int64(lane)))
		extractInst, extracted = ee, ee
	}
	c.insert(ctx, extractInst)

	replaceUses(uses, v, extracted)
	eraseFromParent(ctx, scalar)
}

// replaceUses replaces every recorded use of old with repl, directly
// through the operand slots uses already indexed — narrower than
// internal/codegen/optimizer.go's replaceInstructionUses (which rescans
// the whole function) since useIndex already knows exactly which
// instructions and terminators read old.
func replaceUses(uses *useIndex, old, repl value.Value) {
	for _, u := range uses.usersOf(old) {
		for _, operand := range instOperands(u) {
			if *operand == old {
				*operand = repl
			}
		}
	}
	for _, block := range uses.termUserBlocks(old) {
		for _, operand := range block.Term.Operands() {
			if operand == nil || *operand == nil {
				continue
			}
			if *operand == old {
				*operand = repl
			}
		}
	}
}

// eraseFromParent removes inst from its parent block's instruction list.
func eraseFromParent(ctx *IRContext, inst ir.Instruction) {
	block := ctx.blockOf(inst)
	for idx, cur := range block.Insts {
		if cur == inst {
			block.Insts = append(block.Insts[:idx], block.Insts[idx+1:]...)
			break
		}
	}
	ctx.invalidateOrder(block)
}
