package vectorize

import "github.com/llir/llvm/ir"

// Pair is an ordered tuple of two isomorphic instructions: Lane0
// precedes Lane1 in their shared block's order. EmitExtracts defaults to
// true and is cleared at rewrite time when no schedulable position is
// found for the pair, which leaves its scalars in place. (The load-operand
// corner case abandons the whole PackList before rewriting instead.)
type Pair struct {
	Lane0, Lane1 ir.Instruction
	EmitExtracts bool
}

// PackList is a growable sequence of Pairs kept in dominance order of
// their Lane0 elements. The list is only ever walked forward, during
// scoring and rewrite.
type PackList struct {
	pairs   []*Pair
	visited map[ir.Instruction]struct{}
	score   int
}

func newPackList() *PackList {
	return &PackList{visited: make(map[ir.Instruction]struct{})}
}

// Len reports the number of pairs in the list.
func (l *PackList) Len() int { return len(l.pairs) }

// Pairs returns the list's pairs in lane-0 dominance order.
func (l *PackList) Pairs() []*Pair { return l.pairs }

func (l *PackList) contains(inst ir.Instruction) bool {
	_, ok := l.visited[inst]
	return ok
}

// addPair inserts a new Pair for (i, j), ordering lanes by ctx.precedes
// and splicing the pair into l.pairs so the list stays sorted by lane-0
// order: insert after every pair whose lane0 precedes the new lane0.
func (l *PackList) addPair(ctx *IRContext, i, j ir.Instruction) *Pair {
	if ctx.blockOf(i) != ctx.blockOf(j) {
		// ShouldVectorize pins every pair to one block before it gets
		// here; a cross-block pair means the seed or growth logic is
		// broken, not the input.
		panic("vectorize: pack pair spans basic blocks")
	}
	lane0, lane1 := i, j
	if ctx.precedes(j, i) {
		lane0, lane1 = j, i
	}

	pair := &Pair{Lane0: lane0, Lane1: lane1, EmitExtracts: true}
	l.visited[lane0] = struct{}{}
	l.visited[lane1] = struct{}{}

	pos := len(l.pairs)
	for idx, p := range l.pairs {
		if !ctx.precedes(p.Lane0, lane0) {
			pos = idx
			break
		}
	}
	l.pairs = append(l.pairs, nil)
	copy(l.pairs[pos+1:], l.pairs[pos:])
	l.pairs[pos] = pair
	return pair
}

// CollectIsomorphicInsts grows list (creating one if list is nil) by
// adding the pair (i, j) and transitively recursing through operand
// chains that are themselves isomorphic. It returns nil to signal the
// seed should be abandoned (ShouldVectorize failed for i, j); recursive
// calls discard the return value, so a failed operand branch prunes only
// itself while the in-progress list keeps the pairs already added.
func CollectIsomorphicInsts(list *PackList, ctx *IRContext, i, j ir.Instruction) *PackList {
	if i == nil || j == nil {
		return list
	}
	if !ShouldVectorize(ctx, i, j) {
		return nil
	}
	if list == nil {
		list = newPackList()
	}
	if list.contains(i) || list.contains(j) {
		return list
	}

	list.addPair(ctx, i, j)

	opsI, opsJ := instOperands(i), instOperands(j)
	for idx := range opsI {
		opI, okI := operandInst(*opsI[idx])
		opJ, okJ := operandInst(*opsJ[idx])
		if okI && okJ && IsIsomorphic(opI, opJ) {
			CollectIsomorphicInsts(list, ctx, opI, opJ)
		}
	}
	return list
}
