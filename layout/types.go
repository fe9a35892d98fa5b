// Package layout lowers the compiler's value-layout IR into a concrete
// target type system. The layout tree (this file) is the input; see
// lower.go for the operation that turns it into github.com/llir/llvm/ir/types
// values suitable for handing to an LLVM-like backend.
package layout

// Layout is the tagged variant of §3: a descriptor of a value's in-memory
// shape, independent of the source type system. Recursive layouts are
// always finite once RecursivePointer edges are treated as leaves.
type Layout interface {
	isLayout()
}

// FunctionPointer is a raw function pointer: no captured data.
type FunctionPointer struct {
	Args []Layout
	Ret  Layout
}

// Closure pairs a function pointer with its closure-captured data. At the
// call site the two travel together; see lower.go for why they collapse to
// a uniform two-field struct regardless of what's actually captured.
type Closure struct {
	Args        []Layout
	ClosureData Layout
	Ret         Layout
}

// Pointer is a pointer to an inner layout.
type Pointer struct {
	Inner Layout
}

// PhantomEmptyStruct is a zero-sized marker value.
type PhantomEmptyStruct struct{}

// Struct is an ordered, heterogeneous record.
type Struct struct {
	Fields []Layout
}

// Union is a tagged sum; see UnionLayout for the five recursion shapes.
type Union struct {
	Variant UnionLayout
}

// RecursivePointer is an explicit back-edge marker breaking an otherwise
// cyclic layout. It carries no payload: the pointee is recovered at use
// sites by the caller, not by this package.
type RecursivePointer struct{}

// Builtin is a primitive or opaque-container layout; see builtin.go.
type Builtin struct {
	Kind BuiltinKind
}

func (FunctionPointer) isLayout()    {}
func (Closure) isLayout()            {}
func (Pointer) isLayout()            {}
func (PhantomEmptyStruct) isLayout() {}
func (Struct) isLayout()             {}
func (Union) isLayout()              {}
func (RecursivePointer) isLayout()   {}
func (Builtin) isLayout()            {}

// TagFields is one tag's ordered field list within a union.
type TagFields = []Layout

// UnionLayout is the tagged variant describing how a union's tags relate to
// recursion. The five shapes come directly from §3; the comment on each
// documents the lowering it drives (§4.1 "Union lowering").
type UnionLayout interface {
	isUnionLayout()
}

// Recursive is a union whose tags may reference the union itself through
// RecursivePointer. Lowers to a pointer to the tags' shared block-of-memory.
type Recursive struct {
	Tags []TagFields
}

// NullableWrapped is a recursive union with one tag distinguished as "null"
// (represented by a null pointer) and the rest sharing a block-of-memory,
// addressed through a pointer.
type NullableWrapped struct {
	NullableID int
	OtherTags  []TagFields
}

// NullableUnwrapped is a two-tag recursive union where the non-null tag's
// first field slot is reserved for what would be the discriminator; only
// OtherFields[1:] actually needs storage.
type NullableUnwrapped struct {
	NullableID  int
	OtherFields TagFields
}

// NonNullableUnwrapped is a single-tag recursive union (no null case),
// still boxed through a pointer because its tag may reference the union.
type NonNullableUnwrapped struct {
	Fields TagFields
}

// NonRecursive is a plain tagged union with no self-reference: it lowers
// to the block-of-memory inline, by value.
type NonRecursive struct {
	Tags []TagFields
}

func (Recursive) isUnionLayout()            {}
func (NullableWrapped) isUnionLayout()       {}
func (NullableUnwrapped) isUnionLayout()     {}
func (NonNullableUnwrapped) isUnionLayout()  {}
func (NonRecursive) isUnionLayout()          {}
