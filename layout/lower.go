package layout

import (
	"fmt"

	"github.com/llir/llvm/ir/types"
	"github.com/samber/lo"
)

// Lower maps a Layout to a target basic type (§4.1 "Operation lower(layout)
// -> basic_type"). It is total over finite layout trees: RecursivePointer
// breaks any cycle before Lower ever sees it, so no recursion guard is
// needed here.
func Lower(env *TargetEnv, l Layout) (types.Type, error) {
	switch v := l.(type) {
	case FunctionPointer:
		return lowerFunctionPointer(env, v.Args, nil, v.Ret)

	case Closure:
		closureData, err := Lower(env, v.ClosureData)
		if err != nil {
			return nil, fmt.Errorf("layout: closure data: %w", err)
		}
		fp, err := lowerFunctionPointer(env, v.Args, closureData, v.Ret)
		if err != nil {
			return nil, fmt.Errorf("layout: closure function pointer: %w", err)
		}
		return types.NewStruct(fp, closureData), nil

	case Pointer:
		inner, err := Lower(env, v.Inner)
		if err != nil {
			return nil, fmt.Errorf("layout: pointer inner: %w", err)
		}
		return types.NewPointer(inner), nil

	case PhantomEmptyStruct:
		return types.NewStruct(), nil

	case Struct:
		fieldTypes, err := lowerAll(env, v.Fields)
		if err != nil {
			return nil, fmt.Errorf("layout: struct field: %w", err)
		}
		return types.NewStruct(fieldTypes...), nil

	case Union:
		return lowerUnion(env, v.Variant)

	case RecursivePointer:
		// The pointee is irrelevant here: callers bitcast at use sites.
		// Only the pointer's width matters, so i64 is as good as any type.
		return types.NewPointer(types.I64), nil

	case Builtin:
		return env.basicTypeFromBuiltin(v)

	default:
		return nil, fmt.Errorf("layout: unhandled layout variant %T", l)
	}
}

// lowerAll lowers a field-list in order, the shared step behind Struct,
// Closure argument lists, and union tag field-lists.
func lowerAll(env *TargetEnv, fields []Layout) ([]types.Type, error) {
	out := make([]types.Type, 0, len(fields))
	var lowerErr error
	mapped := lo.Map(fields, func(f Layout, _ int) types.Type {
		if lowerErr != nil {
			return nil
		}
		t, err := Lower(env, f)
		if err != nil {
			lowerErr = err
			return nil
		}
		return t
	})
	if lowerErr != nil {
		return nil, lowerErr
	}
	out = append(out, mapped...)
	return out, nil
}

// lowerFunctionPointer lowers a non-variadic function signature and returns
// a pointer-to-function in the generic address space (§4.1). When
// closureData is non-nil it is appended as the signature's final parameter,
// which is how Closure's two-load encoding stays uniform regardless of what
// a particular closure actually captures.
func lowerFunctionPointer(env *TargetEnv, args []Layout, closureData types.Type, ret Layout) (types.Type, error) {
	retType, err := Lower(env, ret)
	if err != nil {
		return nil, fmt.Errorf("layout: return type: %w", err)
	}

	argTypes, err := lowerAll(env, args)
	if err != nil {
		return nil, fmt.Errorf("layout: argument: %w", err)
	}
	if closureData != nil {
		argTypes = append(argTypes, closureData)
	}

	fnType := types.NewFunc(retType, argTypes...)
	fnType.Variadic = false
	return types.NewPointer(fnType), nil
}
