package amd64

import (
	"encoding/binary"
	"math"
)

// AddReg64Reg64Imm32 computes dst = src1 + imm32, reusing src1 as the
// accumulator when it already aliases dst.
func AddReg64Reg64Imm32(buf *Buffer, dst, src1 GPReg, imm int32) {
	if dst == src1 {
		AddReg64Imm32(buf, dst, imm)
		return
	}
	MovReg64Reg64(buf, dst, src1)
	AddReg64Imm32(buf, dst, imm)
}

// AddReg64Reg64Reg64 computes dst = src1 + src2. Addition commutes, so
// either operand may already alias dst without an extra MOV.
func AddReg64Reg64Reg64(buf *Buffer, dst, src1, src2 GPReg) {
	switch dst {
	case src1:
		AddReg64Reg64(buf, dst, src2)
	case src2:
		AddReg64Reg64(buf, dst, src1)
	default:
		MovReg64Reg64(buf, dst, src1)
		AddReg64Reg64(buf, dst, src2)
	}
}

// SubReg64Reg64Imm32 computes dst = src1 - imm32.
func SubReg64Reg64Imm32(buf *Buffer, dst, src1 GPReg, imm int32) {
	if dst == src1 {
		SubReg64Imm32(buf, dst, imm)
		return
	}
	MovReg64Reg64(buf, dst, src1)
	SubReg64Imm32(buf, dst, imm)
}

// SubReg64Reg64Reg64 computes dst = src1 - src2. Subtraction is not
// commutative: unlike the Add composite, a dst==src2 alias gets no
// shortcut and always goes through the MOV+SUB path (§8).
func SubReg64Reg64Reg64(buf *Buffer, dst, src1, src2 GPReg) {
	if dst == src1 {
		SubReg64Reg64(buf, dst, src2)
		return
	}
	MovReg64Reg64(buf, dst, src1)
	SubReg64Reg64(buf, dst, src2)
}

// AbsReg64Reg64 computes dst = |src| via MOV, NEG, CMOVL: negate, then move
// the un-negated value back in whenever the negation made it less than
// zero while the original addition/negation didn't overflow (SF != OF).
func AbsReg64Reg64(buf *Buffer, dst, src GPReg) {
	MovReg64Reg64(buf, dst, src)
	NegReg64(buf, dst)
	CmovlReg64Reg64(buf, dst, src)
}

// MovFreg64Imm64 materializes a float64 constant into an XMM register via a
// RIP-relative load, recording a LocalData relocation for the 8 literal
// bytes the linking layer must place adjacent to the reference.
func MovFreg64Imm64(buf *Buffer, relocs *[]Relocation, dst FPReg, imm float64) {
	MovsdFreg64RipOffset32(buf, dst, 0)

	var data [8]byte
	binary.LittleEndian.PutUint64(data[:], math.Float64bits(imm))
	*relocs = append(*relocs, LocalData{
		Offset: uint64(buf.Len()) - 4,
		Data:   data[:],
	})
}
