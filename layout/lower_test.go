package layout

import (
	"testing"

	"github.com/kr/pretty"
	"github.com/llir/llvm/ir/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T, ptrWidth int) *TargetEnv {
	t.Helper()
	rocStr := types.NewStruct(types.NewPointer(types.I8), types.I64)
	rocList := types.NewStruct(types.NewPointer(types.I8), types.I64, types.I64)
	rocDict := types.NewStruct(types.NewPointer(types.I8), types.I64, types.I64)
	return NewTargetEnv(ptrWidth, rocStr, rocList, rocDict, NewArena())
}

func TestPtrIntTable(t *testing.T) {
	cases := []struct {
		width int
		want  *types.IntType
	}{
		{1, types.I8},
		{2, types.I16},
		{4, types.I32},
		{8, types.I64},
	}
	for _, c := range cases {
		got, err := PtrInt(c.width)
		require.NoError(t, err)
		assert.Same(t, c.want, got)
	}
}

func TestPtrIntUnsupportedWidth(t *testing.T) {
	_, err := PtrInt(3)
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "Invalid target: does not support compiling to 24-bit systems.", cfgErr.Error())
}

func TestMissingContainerIsFatal(t *testing.T) {
	env := &TargetEnv{PtrWidth: 8, Containers: map[string]*types.StructType{}, Arena: NewArena()}
	_, err := Lower(env, Builtin{Kind: Str})
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestLowerBuiltinScalars(t *testing.T) {
	env := testEnv(t, 8)
	cases := []struct {
		kind BuiltinKind
		want types.Type
	}{
		{Int8, types.I8},
		{Int16, types.I16},
		{Int32, types.I32},
		{Int64, types.I64},
		{Int128, types.I128},
		{Float16, types.Half},
		{Float32, types.Float},
		{Float64, types.Double},
		{Float128, types.FP128},
	}
	for _, c := range cases {
		got, err := Lower(env, Builtin{Kind: c.kind})
		require.NoError(t, err)
		assert.Same(t, c.want, got, "%# v", pretty.Formatter(got))
	}
}

func TestLowerUsizeFollowsPointerWidth(t *testing.T) {
	for _, width := range []int{1, 2, 4, 8} {
		env := testEnv(t, width)
		got, err := Lower(env, Builtin{Kind: Usize})
		require.NoError(t, err)
		want, _ := PtrInt(width)
		assert.Same(t, want, got)
	}
}

func TestLowerOpaqueContainers(t *testing.T) {
	env := testEnv(t, 8)
	for _, kind := range []BuiltinKind{Str, EmptyStr} {
		got, err := Lower(env, Builtin{Kind: kind})
		require.NoError(t, err)
		assert.Same(t, env.Containers["str.RocStr"], got)
	}
	for _, kind := range []BuiltinKind{List, EmptyList} {
		got, err := Lower(env, Builtin{Kind: kind})
		require.NoError(t, err)
		assert.Same(t, env.Containers["list.RocList"], got)
	}
	// Sets share the dict representation.
	for _, kind := range []BuiltinKind{Dict, EmptyDict, Set, EmptySet} {
		got, err := Lower(env, Builtin{Kind: kind})
		require.NoError(t, err)
		assert.Same(t, env.Containers["dict.RocDict"], got)
	}
}

func TestLowerStructAndPointer(t *testing.T) {
	env := testEnv(t, 8)
	st := Struct{Fields: []Layout{Builtin{Kind: Int32}, Builtin{Kind: Int64}}}
	got, err := Lower(env, st)
	require.NoError(t, err)
	structType, ok := got.(*types.StructType)
	require.True(t, ok)
	require.Len(t, structType.Fields, 2)
	assert.Same(t, types.I32, structType.Fields[0])
	assert.Same(t, types.I64, structType.Fields[1])

	ptr, err := Lower(env, Pointer{Inner: st})
	require.NoError(t, err)
	ptrType, ok := ptr.(*types.PointerType)
	require.True(t, ok)
	// Each Lower call builds a fresh struct, so compare structurally.
	assert.Equal(t, structType, ptrType.ElemType)
}

func TestLowerPhantomEmptyStruct(t *testing.T) {
	env := testEnv(t, 8)
	got, err := Lower(env, PhantomEmptyStruct{})
	require.NoError(t, err)
	st, ok := got.(*types.StructType)
	require.True(t, ok)
	assert.Empty(t, st.Fields)
}

func TestLowerRecursivePointerIsPointerToI64(t *testing.T) {
	env := testEnv(t, 4)
	got, err := Lower(env, RecursivePointer{})
	require.NoError(t, err)
	ptrType, ok := got.(*types.PointerType)
	require.True(t, ok)
	assert.Same(t, types.I64, ptrType.ElemType)
}

func TestLowerFunctionPointer(t *testing.T) {
	env := testEnv(t, 8)
	fp := FunctionPointer{
		Args: []Layout{Builtin{Kind: Int32}, Builtin{Kind: Int32}},
		Ret:  Builtin{Kind: Int64},
	}
	got, err := Lower(env, fp)
	require.NoError(t, err)
	ptrType, ok := got.(*types.PointerType)
	require.True(t, ok)
	fnType, ok := ptrType.ElemType.(*types.FuncType)
	require.True(t, ok)
	assert.False(t, fnType.Variadic)
	assert.Same(t, types.I64, fnType.RetType)
	require.Len(t, fnType.Params, 2)
}

// Closure(args, cd, ret) lowers to a two-field struct whose first field is a
// pointer-to-function, and whose function's final parameter equals the
// closure data's own lowered type (§8 "Lowering properties").
func TestLowerClosureShape(t *testing.T) {
	env := testEnv(t, 8)
	cd := Struct{Fields: []Layout{Builtin{Kind: Int64}, Builtin{Kind: Int32}}}
	cl := Closure{
		Args:        []Layout{Builtin{Kind: Int32}},
		ClosureData: cd,
		Ret:         Builtin{Kind: Int64},
	}
	got, err := Lower(env, cl)
	require.NoError(t, err)

	outer, ok := got.(*types.StructType)
	require.True(t, ok)
	require.Len(t, outer.Fields, 2)

	fpType, ok := outer.Fields[0].(*types.PointerType)
	require.True(t, ok)
	fnType, ok := fpType.ElemType.(*types.FuncType)
	require.True(t, ok)
	require.Len(t, fnType.Params, 2) // original arg + appended closure data

	wantCD, err := Lower(env, cd)
	require.NoError(t, err)
	// wantCD comes from a separate Lower call, so it is an equal but distinct
	// struct; within one closure both slots share the same lowered value.
	assert.Equal(t, wantCD, fnType.Params[len(fnType.Params)-1])
	assert.Same(t, fnType.Params[len(fnType.Params)-1], outer.Fields[1])
}

// For any NonRecursive union whose maximum tag size is S, the lowered
// struct's total size equals S exactly (§8).
func TestNonRecursiveUnionSizeIsExact(t *testing.T) {
	env := testEnv(t, 8)
	tags := []TagFields{
		{Builtin{Kind: Int64}, Builtin{Kind: Int32}}, // 12 bytes
		{Builtin{Kind: Int8}},                        // 1 byte
	}
	sizes := tagSizes(tags, env.PtrWidth)
	require.Equal(t, []int{12, 1}, sizes)

	got, err := Lower(env, Union{Variant: NonRecursive{Tags: tags}})
	require.NoError(t, err)
	st, ok := got.(*types.StructType)
	require.True(t, ok)

	totalSize := blockSize(t, st)
	assert.Equal(t, 12, totalSize)
}

// Every recursive union variant lowers to a pointer whose width equals the
// target pointer width (§8) — which in this Go representation just means
// it is a *types.PointerType regardless of PtrWidth, since pointer types
// here carry no explicit byte width of their own.
func TestRecursiveUnionVariantsLowerToPointer(t *testing.T) {
	env := testEnv(t, 8)
	tags := []TagFields{{Builtin{Kind: Int64}}}

	variants := []UnionLayout{
		Recursive{Tags: tags},
		NullableWrapped{NullableID: 0, OtherTags: tags},
		NullableUnwrapped{NullableID: 0, OtherFields: TagFields{Builtin{Kind: Int8}, Builtin{Kind: Int64}}},
		NonNullableUnwrapped{Fields: TagFields{Builtin{Kind: Int64}}},
	}
	for _, v := range variants {
		got, err := Lower(env, Union{Variant: v})
		require.NoError(t, err)
		_, ok := got.(*types.PointerType)
		assert.True(t, ok, "%T should lower to a pointer, got %T", v, got)
	}
}

// blockSize sums a block-of-memory struct's own fields back into bytes, to
// check against the union size the struct was built from.
func blockSize(t *testing.T, st *types.StructType) int {
	t.Helper()
	total := 0
	for _, f := range st.Fields {
		arr, ok := f.(*types.ArrayType)
		require.True(t, ok)
		switch arr.ElemType {
		case types.I64:
			total += int(arr.Len) * 8
		case types.I8:
			total += int(arr.Len)
		default:
			t.Fatalf("unexpected block-of-memory element type %v", arr.ElemType)
		}
	}
	return total
}
