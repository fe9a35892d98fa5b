package amd64

// WindowsFastcall implements the Windows x64 calling convention (§4.3),
// grounded on original_source's `impl CallConv<...> for
// X86_64WindowsFastcall` — except for its free-FP-register list, which the
// original lists with XMM15 twice and XMM14 missing (§9 Open Question #1).
// This module corrects that: every register XMM0..XMM15 appears exactly
// once, enforced below at package-init time.
type WindowsFastcall struct{}

var (
	winGPParam = []GPReg{RCX, RDX, R8, R9}
	winGPRet   = []GPReg{RAX}

	winGPFree = []GPReg{
		RBX, RSI, RDI, R12, R13, R14, R15, // callee-saved, used last
		RAX, RCX, RDX, R8, R9, R10, R11, // caller-saved, used first
	}

	winFPParam = []FPReg{XMM0, XMM1, XMM2, XMM3}
	winFPRet   = []FPReg{XMM0}

	// Corrected per §9/SPEC_FULL.md REDESIGN FLAGS: XMM14 was missing and
	// XMM15 appeared twice in the original list.
	winFPFree = []FPReg{
		XMM15, XMM14, XMM13, XMM12, XMM11, XMM10, XMM9, XMM8, XMM7, XMM6,
		XMM5, XMM4, XMM3, XMM2, XMM1, XMM0,
	}

	winAllGP = []GPReg{RBX, RSI, RDI, R12, R13, R14, R15, RAX, RCX, RDX, R8, R9, R10, R11}
)

func init() {
	mustBeCompleteGPSet("X86_64WindowsFastcall GP_DEFAULT_FREE_REGS", winGPFree, winAllGP)
	mustBeCompleteFPSet("X86_64WindowsFastcall FP_DEFAULT_FREE_REGS", winFPFree, allFPRegs)
}

func (WindowsFastcall) GPParamRegs() []GPReg      { return winGPParam }
func (WindowsFastcall) GPReturnRegs() []GPReg     { return winGPRet }
func (WindowsFastcall) GPDefaultFreeRegs() []GPReg { return winGPFree }

func (WindowsFastcall) FPParamRegs() []FPReg      { return winFPParam }
func (WindowsFastcall) FPReturnRegs() []FPReg     { return winFPRet }
func (WindowsFastcall) FPDefaultFreeRegs() []FPReg { return winFPFree }

func (WindowsFastcall) ShadowSpaceSize() int { return 32 }

// IsGPCalleeSaved reports RSP as not callee-saved for save/restore purposes
// even though it is, by convention, preserved across calls (§9 Open
// Question #2): the stack pointer is never a candidate for the prolog's
// push/pop set, so treating it as "must be saved like a GPR" is misleading
// rather than merely redundant.
func (WindowsFastcall) IsGPCalleeSaved(r GPReg) bool {
	switch r {
	case RBX, RBP, RSI, RDI, R12, R13, R14, R15:
		return true
	default:
		return false
	}
}

func (WindowsFastcall) IsFPCalleeSaved(r FPReg) bool {
	switch r {
	case XMM0, XMM1, XMM2, XMM3, XMM4, XMM5:
		return true
	default:
		return false
	}
}

func (WindowsFastcall) SetupStack(buf *Buffer, leaf bool, savedGP []GPReg, requestedStackSize int32) (int32, error) {
	return genericSetupStack(buf, leaf, savedGP, requestedStackSize)
}

func (WindowsFastcall) CleanupStack(buf *Buffer, leaf bool, savedGP []GPReg, alignedStackSize int32) error {
	return genericCleanupStack(buf, leaf, savedGP, alignedStackSize)
}
