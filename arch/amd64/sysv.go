package amd64

// SystemV implements the calling convention used on Unix-like AMD64
// targets (§4.3), grounded directly on original_source's
// `impl CallConv<...> for X86_64SystemV`.
type SystemV struct{}

var (
	sysvGPParam = []GPReg{RDI, RSI, RDX, RCX, R8, R9}
	sysvGPRet   = []GPReg{RAX, RDX}

	// Preference order is LIFO (§9): the regs we want to use first sit at
	// the end, since callers pop from the high-index end. Caller-saved
	// registers go first (more preferred), callee-saved last.
	sysvGPFree = []GPReg{
		RBX, R12, R13, R14, R15, // callee-saved, used last
		RAX, RCX, RDX, RSI, RDI, R8, R9, R10, R11, // caller-saved, used first
	}

	sysvFPParam = []FPReg{XMM0, XMM1, XMM2, XMM3, XMM4, XMM5, XMM6, XMM7}
	sysvFPRet   = []FPReg{XMM0, XMM1}

	sysvFPFree = []FPReg{
		XMM15, XMM14, XMM13, XMM12, XMM11, XMM10, XMM9, XMM8,
		XMM7, XMM6, XMM5, XMM4, XMM3, XMM2, XMM1, XMM0,
	}

	sysvAllGP = []GPReg{RBX, R12, R13, R14, R15, RAX, RCX, RDX, RSI, RDI, R8, R9, R10, R11}
)

func init() {
	mustBeCompleteGPSet("X86_64SystemV GP_DEFAULT_FREE_REGS", sysvGPFree, sysvAllGP)
	mustBeCompleteFPSet("X86_64SystemV FP_DEFAULT_FREE_REGS", sysvFPFree, allFPRegs)
}

func (SystemV) GPParamRegs() []GPReg      { return sysvGPParam }
func (SystemV) GPReturnRegs() []GPReg     { return sysvGPRet }
func (SystemV) GPDefaultFreeRegs() []GPReg { return sysvGPFree }

func (SystemV) FPParamRegs() []FPReg      { return sysvFPParam }
func (SystemV) FPReturnRegs() []FPReg     { return sysvFPRet }
func (SystemV) FPDefaultFreeRegs() []FPReg { return sysvFPFree }

func (SystemV) ShadowSpaceSize() int { return 0 }

func (SystemV) IsGPCalleeSaved(r GPReg) bool {
	switch r {
	case RBX, RBP, R12, R13, R14, R15:
		return true
	default:
		return false
	}
}

func (SystemV) IsFPCalleeSaved(FPReg) bool { return false }

func (SystemV) SetupStack(buf *Buffer, leaf bool, savedGP []GPReg, requestedStackSize int32) (int32, error) {
	return genericSetupStack(buf, leaf, savedGP, requestedStackSize)
}

func (SystemV) CleanupStack(buf *Buffer, leaf bool, savedGP []GPReg, alignedStackSize int32) error {
	return genericCleanupStack(buf, leaf, savedGP, alignedStackSize)
}
