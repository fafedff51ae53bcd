// Package vectorize implements a superword-level parallelism (SLP) pass
// over github.com/llir/llvm IR. It finds pairs of isomorphic scalar
// instructions within a single basic block, grows each pair through its
// operand chains into a maximal pack, scores the candidate packs, and
// rewrites the winning pack into a two-lane vector instruction plus
// extract-lane scalars for any users outside the pack.
//
// The pass is single-block scoped: no instruction is ever compared against
// one from a different block, and no vector wider than two lanes is ever
// produced.
package vectorize
