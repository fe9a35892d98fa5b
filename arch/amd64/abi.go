package amd64

import (
	"errors"
	"math"

	set3 "github.com/TomTonic/Set3"
)

// ErrOutOfStack is returned by SetupStack when the aligned frame size
// overflows an int32 (§7, recoverable).
var ErrOutOfStack = errors.New("Ran out of stack space")

// ErrNotImplemented marks an addressing mode this package does not encode.
// Nothing currently returns it (MovStack32Freg64 is implemented, per the
// REDESIGN FLAGS in SPEC_FULL.md); it is kept so a future encoder gap has a
// sentinel to signal through.
var ErrNotImplemented = errors.New("not yet implemented")

const stackAlignment = 16

// CallingConvention is the capability contract of §4.3: parameter/return/
// free-register vectors for both register files, a shadow-space size, a
// callee-saved predicate per file, and prolog/epilog emitters. System V and
// Windows fastcall each implement it; dispatch is at the call site
// (monomorphic), never dynamic, so the emitter stays branch-free (§9).
type CallingConvention interface {
	GPParamRegs() []GPReg
	GPReturnRegs() []GPReg
	GPDefaultFreeRegs() []GPReg

	FPParamRegs() []FPReg
	FPReturnRegs() []FPReg
	FPDefaultFreeRegs() []FPReg

	ShadowSpaceSize() int

	IsGPCalleeSaved(r GPReg) bool
	IsFPCalleeSaved(r FPReg) bool

	// SetupStack emits the prolog and returns the aligned stack size.
	SetupStack(buf *Buffer, leaf bool, savedGP []GPReg, requestedStackSize int32) (int32, error)
	// CleanupStack emits the epilog matching a prior SetupStack call.
	CleanupStack(buf *Buffer, leaf bool, savedGP []GPReg, alignedStackSize int32) error
}

// genericSetupStack implements the shared prolog algorithm of §4.3,
// parameterized only by which registers get pushed and whether the
// function sets up a frame pointer. Both calling-convention strategies
// delegate to it, mirroring original_source's x86_64_generic_setup_stack.
func genericSetupStack(buf *Buffer, leaf bool, savedGP []GPReg, requestedStackSize int32) (int32, error) {
	if !leaf {
		PushReg64(buf, RBP)
		MovReg64Reg64(buf, RBP, RSP)
	}
	for _, reg := range savedGP {
		PushReg64(buf, reg)
	}

	full := int64(8)*int64(len(savedGP)) + int64(requestedStackSize)
	var alignment int64
	if full > 0 {
		alignment = full % stackAlignment
	}
	var offset int64
	if alignment != 0 {
		offset = stackAlignment - alignment
	}

	aligned64 := int64(requestedStackSize) + offset
	if aligned64 > int64(math.MaxInt32) || aligned64 < int64(math.MinInt32) {
		return 0, ErrOutOfStack
	}
	alignedStackSize := int32(aligned64)

	if alignedStackSize > 0 {
		SubReg64Reg64Imm32(buf, RSP, RSP, alignedStackSize)
	}
	return alignedStackSize, nil
}

// genericCleanupStack implements the shared epilog algorithm of §4.3.
func genericCleanupStack(buf *Buffer, leaf bool, savedGP []GPReg, alignedStackSize int32) error {
	if alignedStackSize > 0 {
		AddReg64Reg64Imm32(buf, RSP, RSP, alignedStackSize)
	}
	for i := len(savedGP) - 1; i >= 0; i-- {
		PopReg64(buf, savedGP[i])
	}
	if !leaf {
		MovReg64Reg64(buf, RSP, RBP)
		PopReg64(buf, RBP)
	}
	return nil
}

// mustBeCompleteGPSet panics at package-init time if regs does not contain
// every register in universe exactly once. This is the generic form of the
// invariant check behind the Windows-fastcall FP fix in §9: a free-register
// list with a duplicate silently steals a slot from whatever register it
// crowds out, and a missing register is simply never allocated.
func mustBeCompleteGPSet(name string, regs []GPReg, universe []GPReg) {
	seen := set3.NewSet3[GPReg]()
	for _, r := range regs {
		if !seen.Add(r) {
			panic("amd64: " + name + " lists " + r.String() + " more than once")
		}
	}
	for _, r := range universe {
		if !seen.Contains(r) {
			panic("amd64: " + name + " is missing " + r.String())
		}
	}
	if seen.Len() != len(universe) {
		panic("amd64: " + name + " has an unexpected register outside its universe")
	}
}

func mustBeCompleteFPSet(name string, regs []FPReg, universe []FPReg) {
	seen := set3.NewSet3[FPReg]()
	for _, r := range regs {
		if !seen.Add(r) {
			panic("amd64: " + name + " lists " + r.String() + " more than once")
		}
	}
	for _, r := range universe {
		if !seen.Contains(r) {
			panic("amd64: " + name + " is missing " + r.String())
		}
	}
	if seen.Len() != len(universe) {
		panic("amd64: " + name + " has an unexpected register outside its universe")
	}
}

// allFPRegs is XMM0..XMM15, the universe every FP_DEFAULT_FREE_REGS vector
// must cover exactly once (§9 Open Question: the original Windows fastcall
// list had this invariant broken).
var allFPRegs = []FPReg{
	XMM0, XMM1, XMM2, XMM3, XMM4, XMM5, XMM6, XMM7,
	XMM8, XMM9, XMM10, XMM11, XMM12, XMM13, XMM14, XMM15,
}
