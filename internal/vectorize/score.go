package vectorize

import "github.com/llir/llvm/ir"

// Score assigns list its profitability score. Lower is better:
// each pair contributes a fixed reward for replacing two scalars with one
// vector (larger for floating-point, where SIMD payoff is higher) offset
// by a penalty for every extract-lane an external user will force and
// every pack a non-member operand definition will force.
func Score(list *PackList, uses *useIndex) int {
	score := 0
	for _, pair := range list.Pairs() {
		i, j := pair.Lane0, pair.Lane1

		it := instType(i)
		if store, ok := i.(*ir.InstStore); ok {
			it = store.Src.Type()
		}
		if it != nil && isFloatType(it) {
			score -= 4
		} else {
			score--
		}

		if iv, ok := asValue(i); ok && uses.usedOutside(iv, list.visited) {
			score++
		}
		if jv, ok := asValue(j); ok && uses.usedOutside(jv, list.visited) {
			score++
		}

		score += notDefinedOperandCount(i, list)
		score += notDefinedOperandCount(j, list)
	}
	list.score = score
	return score
}

// notDefinedOperandCount counts inst's instruction operands that are not
// members of list.visited; each one forces a pack at rewrite time.
func notDefinedOperandCount(inst ir.Instruction, list *PackList) int {
	count := 0
	for _, operand := range instOperands(inst) {
		opInst, ok := operandInst(*operand)
		if ok && !list.contains(opInst) {
			count++
		}
	}
	return count
}
