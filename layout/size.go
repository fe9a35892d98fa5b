package layout

// containerWords is the word count backing every opaque Roc-style
// container (pointer + length + capacity), used only to size a container
// when it appears as a union tag field — the container's own internal
// layout is otherwise opaque to this package.
const containerWords = 3

// builtinSize returns the byte size of a Builtin layout for the purposes of
// §4.1's union sizing rule ("each field's size is known from its layout and
// the pointer width"). It is a flat size with no alignment padding: that
// padding decision belongs to whatever computed the field's Layout in the
// first place, which is out of scope here (§1).
func builtinSize(b Builtin, ptrWidth int) int {
	switch b.Kind {
	case Int8:
		return 1
	case Int16:
		return 2
	case Int32:
		return 4
	case Int64:
		return 8
	case Int128:
		return 16
	case Float16:
		return 2
	case Float32:
		return 4
	case Float64:
		return 8
	case Float128:
		return 16
	case Usize:
		return ptrWidth
	case Str, EmptyStr, List, EmptyList, Dict, EmptyDict, Set, EmptySet:
		return containerWords * ptrWidth
	default:
		return ptrWidth
	}
}

// StackSize returns the flat byte size of a layout tree, used by union
// lowering (§4.1) to find the widest tag. Struct sizes are the sum of their
// fields' sizes with no padding, matching the spec's description of union
// sizing exactly; this is not a general ABI struct-layout computation (that
// lives upstream, out of scope per §1).
func StackSize(l Layout, ptrWidth int) int {
	switch v := l.(type) {
	case FunctionPointer:
		return ptrWidth
	case Closure:
		return 2 * ptrWidth // {function pointer, closure data} struct, closure data folded to one word slot
	case Pointer:
		return ptrWidth
	case PhantomEmptyStruct:
		return 0
	case Struct:
		total := 0
		for _, f := range v.Fields {
			total += StackSize(f, ptrWidth)
		}
		return total
	case Union:
		return unionStackSize(v.Variant, ptrWidth)
	case RecursivePointer:
		return ptrWidth
	case Builtin:
		return builtinSize(v, ptrWidth)
	default:
		return ptrWidth
	}
}

func tagsMaxSize(tags []TagFields, ptrWidth int) int {
	max := 0
	for _, tag := range tags {
		total := 0
		for _, f := range tag {
			total += StackSize(f, ptrWidth)
		}
		if total > max {
			max = total
		}
	}
	return max
}

// unionStackSize mirrors the shape each UnionLayout variant lowers to
// (§4.1): the recursive shapes are pointers, NonRecursive is the inline
// block and so reports its own block size.
func unionStackSize(u UnionLayout, ptrWidth int) int {
	switch v := u.(type) {
	case Recursive:
		return ptrWidth
	case NullableWrapped:
		return ptrWidth
	case NullableUnwrapped:
		return ptrWidth
	case NonNullableUnwrapped:
		return ptrWidth
	case NonRecursive:
		return tagsMaxSize(v.Tags, ptrWidth)
	default:
		return ptrWidth
	}
}
