package vectorize

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// opcodeTag returns a short string identifying an instruction's opcode, and
// false for instructions this pass never considers (terminators aren't part
// of a Block's Insts slice to begin with, so they never reach this switch in
// practice; everything else unsupported by the source language is here too).
//
// Using a type switch instead of an LLVMOpcode-style enum mirrors how the
// rest of this tree already keys expressions off concrete instruction types
// (see internal/codegen/optimizer.go's getExpressionKey).
func opcodeTag(inst ir.Instruction) (string, bool) {
	switch inst.(type) {
	case *ir.InstAdd:
		return "add", true
	case *ir.InstFAdd:
		return "fadd", true
	case *ir.InstSub:
		return "sub", true
	case *ir.InstFSub:
		return "fsub", true
	case *ir.InstMul:
		return "mul", true
	case *ir.InstFMul:
		return "fmul", true
	case *ir.InstUDiv:
		return "udiv", true
	case *ir.InstSDiv:
		return "sdiv", true
	case *ir.InstFDiv:
		return "fdiv", true
	case *ir.InstURem:
		return "urem", true
	case *ir.InstSRem:
		return "srem", true
	case *ir.InstFRem:
		return "frem", true
	case *ir.InstShl:
		return "shl", true
	case *ir.InstLShr:
		return "lshr", true
	case *ir.InstAShr:
		return "ashr", true
	case *ir.InstAnd:
		return "and", true
	case *ir.InstOr:
		return "or", true
	case *ir.InstXor:
		return "xor", true
	case *ir.InstAlloca:
		return "alloca", true
	case *ir.InstLoad:
		return "load", true
	case *ir.InstStore:
		return "store", true
	default:
		return "", false
	}
}

// isFloatType reports whether t is a floating-point kind (half, float,
// double, x86_fp80, fp128, ppc_fp128).
// github.com/llir/llvm represents all of these with a single *types.FloatType,
// so there is no need to switch on the individual kind.
func isFloatType(t types.Type) bool {
	_, ok := t.(*types.FloatType)
	return ok
}

// isIntType reports whether t is an integer type.
func isIntType(t types.Type) bool {
	_, ok := t.(*types.IntType)
	return ok
}

// isIntFloatOrPointer reports whether t is integer, floating-point, or
// pointer-typed — the type gate ShouldVectorize applies to I.
func isIntFloatOrPointer(t types.Type) bool {
	switch t.(type) {
	case *types.IntType, *types.FloatType, *types.PointerType:
		return true
	default:
		return false
	}
}

// isIntOrFloatType reports whether t is the pointee type ShouldVectorize
// requires for a load/store's backing alloca: an integer or a
// floating-point kind.
func isIntOrFloatType(t types.Type) bool {
	return isIntType(t) || isFloatType(t)
}

// asValue returns inst as a value.Value and true if the instruction
// produces a result (everything here except *ir.InstStore). A store has no
// SSA result, so it can never be the lane whose type/users matter outside
// of being rewritten itself.
func asValue(inst ir.Instruction) (value.Value, bool) {
	v, ok := inst.(value.Value)
	return v, ok
}

// instType returns the type of inst's result, or nil for an instruction
// with no result (a store).
func instType(inst ir.Instruction) types.Type {
	v, ok := asValue(inst)
	if !ok {
		return nil
	}
	return v.Type()
}

// operandInst returns op as an ir.Instruction and true if op is itself an
// instruction (as opposed to a constant, global, or parameter).
func operandInst(op value.Value) (ir.Instruction, bool) {
	inst, ok := op.(ir.Instruction)
	return inst, ok
}

// instOperands returns inst's operand slots, skipping empty ones (an
// alloca with no element count, a void return). Empty slots carry no
// value to compare or rewrite, so every operand walk in this package goes
// through here rather than raw Operands().
func instOperands(inst ir.Instruction) []*value.Value {
	all := inst.Operands()
	ops := make([]*value.Value, 0, len(all))
	for _, op := range all {
		if op == nil || *op == nil {
			continue
		}
		ops = append(ops, op)
	}
	return ops
}

// isAllocaOfScalar reports whether op is an *ir.InstAlloca whose element
// type is an integer or floating-point kind — the only pointer operand
// loads and stores are accepted through.
func isAllocaOfScalar(op value.Value) bool {
	alloca, ok := op.(*ir.InstAlloca)
	if !ok {
		return false
	}
	return isIntOrFloatType(alloca.ElemType)
}

// dependsOn reports whether i transitively reads j: i depends on j iff
// i == j, or any instruction operand of i depends on j. Non-instruction
// operands terminate the walk as "no dependence". Each instruction is
// walked at most once, so the walk ends even where an operand chain
// cycles back through a phi.
func dependsOn(i, j ir.Instruction) bool {
	seen := make(map[ir.Instruction]bool)
	var walk func(cur ir.Instruction) bool
	walk = func(cur ir.Instruction) bool {
		if cur == j {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true
		for _, operand := range instOperands(cur) {
			opInst, ok := operandInst(*operand)
			if !ok {
				continue
			}
			if walk(opInst) {
				return true
			}
		}
		return false
	}
	return walk(i)
}

// ShouldVectorize reports whether the pair (i, j) is a legal pack
// candidate. ctx supplies the parent-block lookup github.com/llir/llvm
// does not provide natively (see IRContext).
//
// A store has no SSA result (instType returns nil for it), so the "type
// is integer/float/pointer" gate is applied to its stored value (operand
// index 0) instead: for the one allowed opcode with no result, the type
// that matters is the type it operates on.
func ShouldVectorize(ctx *IRContext, i, j ir.Instruction) bool {
	it := instType(i)
	if store, ok := i.(*ir.InstStore); ok {
		it = store.Src.Type()
	}
	if it == nil || !isIntFloatOrPointer(it) {
		return false
	}
	if ctx.blockOf(i) == nil || ctx.blockOf(i) != ctx.blockOf(j) {
		return false
	}
	if _, ok := opcodeTag(i); !ok {
		return false
	}

	switch inst := i.(type) {
	case *ir.InstLoad:
		if inst.Volatile {
			return false
		}
		if !isAllocaOfScalar(inst.Src) {
			return false
		}
	case *ir.InstStore:
		if inst.Volatile {
			return false
		}
		if !isAllocaOfScalar(inst.Dst) {
			return false
		}
	}

	if dependsOn(i, j) {
		return false
	}
	return true
}

// IsIsomorphic reports whether i and j have matching opcode, type,
// arity, and per-operand instruction types. A store's "type" for comparison
// purposes is its stored value's type, for the same reason
// ShouldVectorize treats it specially: a store has no SSA result.
func IsIsomorphic(i, j ir.Instruction) bool {
	if i == nil || j == nil {
		return false
	}
	tagI, okI := opcodeTag(i)
	tagJ, okJ := opcodeTag(j)
	if !okI || !okJ || tagI != tagJ {
		return false
	}

	tI, tJ := instType(i), instType(j)
	if storeI, ok := i.(*ir.InstStore); ok {
		tI = storeI.Src.Type()
	}
	if storeJ, ok := j.(*ir.InstStore); ok {
		tJ = storeJ.Src.Type()
	}
	if tI == nil || tJ == nil || !tI.Equal(tJ) {
		return false
	}

	opsI, opsJ := instOperands(i), instOperands(j)
	if len(opsI) != len(opsJ) {
		return false
	}
	for idx := range opsI {
		_, okI := operandInst(*opsI[idx])
		_, okJ := operandInst(*opsJ[idx])
		if !okI || !okJ {
			return false
		}
		if !(*opsI[idx]).Type().Equal((*opsJ[idx]).Type()) {
			return false
		}
	}
	return true
}
