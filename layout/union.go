package layout

import (
	"fmt"

	"github.com/llir/llvm/ir/types"
	"github.com/samber/lo"
)

// lowerUnion implements §4.1's union-lowering contract. Every tag of a
// union must fit in a single fixed-size byte container (the "block of
// memory"); the five UnionLayout shapes differ only in whether that block
// is returned by value or boxed behind a pointer, and in which tags
// contribute to sizing it.
func lowerUnion(env *TargetEnv, u UnionLayout) (types.Type, error) {
	switch v := u.(type) {
	case NonRecursive:
		return blockOfMemoryFromTags(env, v.Tags)

	case Recursive:
		block, err := blockOfMemoryFromTags(env, v.Tags)
		if err != nil {
			return nil, err
		}
		return types.NewPointer(block), nil

	case NullableWrapped:
		block, err := blockOfMemoryFromTags(env, v.OtherTags)
		if err != nil {
			return nil, err
		}
		return types.NewPointer(block), nil

	case NullableUnwrapped:
		// The first field slot is reserved for where the discriminator
		// would sit in the non-null case; only the rest needs storage.
		var rest TagFields
		if len(v.OtherFields) > 1 {
			rest = v.OtherFields[1:]
		}
		block, err := blockOfMemoryFromTags(env, []TagFields{rest})
		if err != nil {
			return nil, err
		}
		return types.NewPointer(block), nil

	case NonNullableUnwrapped:
		block, err := blockOfMemoryFromTags(env, []TagFields{v.Fields})
		if err != nil {
			return nil, err
		}
		return types.NewPointer(block), nil

	default:
		return nil, fmt.Errorf("layout: unhandled union variant %T", u)
	}
}

// blockOfMemoryFromTags computes the union's payload size from its widest
// tag and builds the block-of-memory struct for it (§4.1).
func blockOfMemoryFromTags(env *TargetEnv, tags []TagFields) (*types.StructType, error) {
	// Lowering every field validates it (missing containers, bad pointer
	// width) even though only its size is needed for the block shape —
	// an ill-formed field should fail lowering, not silently size itself.
	for _, tag := range tags {
		if _, err := lowerAll(env, tag); err != nil {
			return nil, fmt.Errorf("layout: union tag: %w", err)
		}
	}

	unionSize := tagsMaxSize(tags, env.PtrWidth)
	return blockOfMemory(unionSize), nil
}

// blockOfMemory splits unionSize into q full 8-byte words and r trailing
// bytes (§4.1): [i64 x q] alone if r == 0, otherwise followed by [i8 x r].
// The i64/i8 split is an alignment hint, not a semantic requirement (§9) —
// a single [i8 x unionSize] array would also be spec-compliant.
func blockOfMemory(unionSize int) *types.StructType {
	q := uint64(unionSize / 8)
	r := uint64(unionSize % 8)

	words := types.NewArray(q, types.I64)
	if r == 0 {
		return types.NewStruct(words)
	}
	tail := types.NewArray(r, types.I8)
	return types.NewStruct(words, tail)
}

// tagSizes is a small helper exposed for callers (and tests) that want the
// per-tag sizes that fed into a block-of-memory decision, built with
// lo.Map in the same spirit as lowerAll.
func tagSizes(tags []TagFields, ptrWidth int) []int {
	return lo.Map(tags, func(tag TagFields, _ int) int {
		total := 0
		for _, f := range tag {
			total += StackSize(f, ptrWidth)
		}
		return total
	})
}
