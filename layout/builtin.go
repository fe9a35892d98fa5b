package layout

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// BuiltinKind enumerates the primitive and opaque-container Builtin layouts
// of §3. List/Dict/Set carry an inner element layout in the source IR, but
// lowering ignores it: every container of a given family maps to the same
// pre-declared opaque struct (§4.1).
type BuiltinKind int

const (
	Int8 BuiltinKind = iota
	Int16
	Int32
	Int64
	Int128
	Float16
	Float32
	Float64
	Float128
	Usize
	Str
	EmptyStr
	List
	EmptyList
	Dict
	EmptyDict
	Set
	EmptySet
)

// ConfigError marks a fatal, unrecoverable setup failure (§7: unsupported
// pointer width, or a missing opaque container type). Callers distinguish
// it from the plain errors this package returns for an unknown builtin kind
// or an unhandled layout variant.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

// PtrInt is the pointer-width table of §6: 1/2/4/8 bytes map to the
// correspondingly sized signed integer type used to represent Usize.
// Any other width is a fatal configuration error.
func PtrInt(ptrWidth int) (*types.IntType, error) {
	switch ptrWidth {
	case 1:
		return types.I8, nil
	case 2:
		return types.I16, nil
	case 4:
		return types.I32, nil
	case 8:
		return types.I64, nil
	default:
		return nil, &ConfigError{
			Msg: fmt.Sprintf("Invalid target: does not support compiling to %d-bit systems.", ptrWidth*8),
		}
	}
}

// TargetEnv is the environment Lower consults (§5): a fixed pointer width,
// a read-only table of pre-declared opaque container types keyed by their
// module-qualified name, and a bump arena for transient field-type slices.
// None of it is mutated by lowering.
type TargetEnv struct {
	PtrWidth   int
	Containers map[string]*types.StructType
	Arena      *Arena
}

// NewTargetEnv builds an environment from the three opaque container types
// the spec names (§6): str.RocStr, list.RocList, dict.RocDict (Set shares
// the Dict representation). Each container is an opaque struct the caller
// declares before lowering begins. NewTargetEnv validates nothing; a nil
// container is reported as a ConfigError when lowering first needs it.
func NewTargetEnv(ptrWidth int, rocStr, rocList, rocDict *types.StructType, arena *Arena) *TargetEnv {
	return &TargetEnv{
		PtrWidth: ptrWidth,
		Containers: map[string]*types.StructType{
			"str.RocStr":   rocStr,
			"list.RocList": rocList,
			"dict.RocDict": rocDict,
		},
		Arena: arena,
	}
}

func (e *TargetEnv) container(name string) (*types.StructType, error) {
	t, ok := e.Containers[name]
	if !ok || t == nil {
		return nil, &ConfigError{Msg: fmt.Sprintf("missing opaque container type %q in target environment", name)}
	}
	return t, nil
}

func (e *TargetEnv) ptrInt() (*types.IntType, error) {
	return PtrInt(e.PtrWidth)
}

// basicTypeFromBuiltin is the direct table of §4.1's Builtin case.
func (e *TargetEnv) basicTypeFromBuiltin(b Builtin) (types.Type, error) {
	switch b.Kind {
	case Int8:
		return types.I8, nil
	case Int16:
		return types.I16, nil
	case Int32:
		return types.I32, nil
	case Int64:
		return types.I64, nil
	case Int128:
		return types.I128, nil
	case Float16:
		return types.Half, nil
	case Float32:
		return types.Float, nil
	case Float64:
		return types.Double, nil
	case Float128:
		return types.FP128, nil
	case Usize:
		return e.ptrInt()
	case Str, EmptyStr:
		return e.container("str.RocStr")
	case List, EmptyList:
		return e.container("list.RocList")
	case Dict, EmptyDict, Set, EmptySet:
		return e.container("dict.RocDict")
	default:
		return nil, fmt.Errorf("layout: unknown builtin kind %d", b.Kind)
	}
}

// ZeroValue128 is the all-zero payload for Int128/Float128, represented
// with a uint256.Int truncated to its low 128 bits since Go has no native
// 128-bit integer scalar. It is a standalone helper: ZeroConstant does not
// use it, since constant.NewZeroInitializer covers the 128-bit types too.
func ZeroValue128() *uint256.Int {
	return new(uint256.Int) // zero by construction; low 128 bits are all that's addressed
}

// ZeroConstant produces the all-zero constant for a lowered basic type, the
// operation named for Target basic types in §3.
func ZeroConstant(t types.Type) constant.Constant {
	return constant.NewZeroInitializer(t)
}
