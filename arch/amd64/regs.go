// Package amd64 implements the x86-64 instruction emitter and calling
// conventions of §4.2/§4.3: stateless encoders that append raw bytes to a
// caller-owned buffer, and two calling-convention strategies (System V,
// Windows x64 fastcall) built on top of them.
//
// Grounded on the teacher's arch/amd64 package (register constants,
// REX-prefix helpers, stack-slot load/store) and on
// original_source/compiler/gen_dev/src/generic64/x86_64.rs, which fixes the
// exact byte patterns this package reproduces.
package amd64

import "fmt"

// GPReg is one of the 16 general-purpose registers. Its ordinal value is
// the architectural encoding (§3): code depends on ord%8 for the low 3 bits
// and ord>7 for the REX.R/B extension.
type GPReg uint8

const (
	RAX GPReg = iota
	RCX
	RDX
	RBX
	RSP
	RBP
	RSI
	RDI
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
)

func (r GPReg) String() string {
	names := [16]string{
		"RAX", "RCX", "RDX", "RBX", "RSP", "RBP", "RSI", "RDI",
		"R8", "R9", "R10", "R11", "R12", "R13", "R14", "R15",
	}
	if int(r) < len(names) {
		return names[r]
	}
	return fmt.Sprintf("GPReg(%d)", r)
}

// low3 is the ModR/M register-direct low 3 bits.
func (r GPReg) low3() byte { return byte(r) % 8 }

// extBit is 1 when this register needs a REX extension bit, else 0.
func (r GPReg) extBit() byte {
	if r > 7 {
		return 1
	}
	return 0
}

// FPReg is one of the 16 XMM registers, encoded the same way as GPReg.
type FPReg uint8

const (
	XMM0 FPReg = iota
	XMM1
	XMM2
	XMM3
	XMM4
	XMM5
	XMM6
	XMM7
	XMM8
	XMM9
	XMM10
	XMM11
	XMM12
	XMM13
	XMM14
	XMM15
)

func (r FPReg) String() string {
	names := [16]string{
		"XMM0", "XMM1", "XMM2", "XMM3", "XMM4", "XMM5", "XMM6", "XMM7",
		"XMM8", "XMM9", "XMM10", "XMM11", "XMM12", "XMM13", "XMM14", "XMM15",
	}
	if int(r) < len(names) {
		return names[r]
	}
	return fmt.Sprintf("FPReg(%d)", r)
}

func (r FPReg) low3() byte { return byte(r) % 8 }

func (r FPReg) extBit() byte {
	if r > 7 {
		return 1
	}
	return 0
}
