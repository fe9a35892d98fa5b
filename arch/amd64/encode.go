package amd64

import (
	"bytes"
	"encoding/binary"
)

// Buffer is the growable byte sequence of §3's Emission buffer: caller-
// owned, appended to only, with no state beyond its bytes. It is a thin
// alias so call sites read as "append to a buffer" rather than threading a
// bespoke type through every encoder.
type Buffer = bytes.Buffer

const (
	rex  byte = 0x40
	rexW byte = rex + 0x08
)

// addRmExtension sets the REX.B bit when a register used in the ModR/M
// r/m (or, for opcode-encoded registers, the opcode low bits) position
// needs the 4th encoding bit.
func addRmExtension(r GPReg, b byte) byte { return b + r.extBit() }

// addOpcodeExtension is identical to addRmExtension: a register whose
// number is folded into the opcode's low 3 bits needs the same REX.B bit.
func addOpcodeExtension(r GPReg, b byte) byte { return addRmExtension(r, b) }

// addRegExtension sets the REX.R bit for a register in the ModR/M reg
// position.
func addRegExtension(r GPReg, b byte) byte {
	if r > 7 {
		return b + 4
	}
	return b
}

func writeLE32(buf *Buffer, v int32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	buf.Write(tmp[:])
}

func writeLE64(buf *Buffer, v int64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], uint64(v))
	buf.Write(tmp[:])
}

// AddReg64Imm32 emits `ADD r/m64, imm32`.
func AddReg64Imm32(buf *Buffer, dst GPReg, imm int32) {
	r := addRmExtension(dst, rexW)
	buf.WriteByte(r)
	buf.WriteByte(0x81)
	buf.WriteByte(0xC0 + dst.low3())
	writeLE32(buf, imm)
}

// AddReg64Reg64 emits `ADD r/m64, r64`.
func AddReg64Reg64(buf *Buffer, dst, src GPReg) {
	r := addRmExtension(dst, rexW)
	r = addRegExtension(src, r)
	buf.WriteByte(r)
	buf.WriteByte(0x01)
	buf.WriteByte(0xC0 + dst.low3() + (src.low3() << 3))
}

// SubReg64Imm32 emits `SUB r/m64, imm32`.
func SubReg64Imm32(buf *Buffer, dst GPReg, imm int32) {
	r := addRmExtension(dst, rexW)
	buf.WriteByte(r)
	buf.WriteByte(0x81)
	buf.WriteByte(0xE8 + dst.low3())
	writeLE32(buf, imm)
}

// SubReg64Reg64 emits `SUB r/m64, r64`.
func SubReg64Reg64(buf *Buffer, dst, src GPReg) {
	r := addRmExtension(dst, rexW)
	r = addRegExtension(src, r)
	buf.WriteByte(r)
	buf.WriteByte(0x29)
	buf.WriteByte(0xC0 + dst.low3() + (src.low3() << 3))
}

// NegReg64 emits `NEG r/m64`.
func NegReg64(buf *Buffer, reg GPReg) {
	r := addRmExtension(reg, rexW)
	buf.WriteByte(r)
	buf.WriteByte(0xF7)
	buf.WriteByte(0xD8 + reg.low3())
}

// CmovlReg64Reg64 emits `CMOVL r64, r/m64` (move if SF != OF).
func CmovlReg64Reg64(buf *Buffer, dst, src GPReg) {
	r := addRegExtension(dst, rexW)
	r = addRmExtension(src, r)
	buf.WriteByte(r)
	buf.WriteByte(0x0F)
	buf.WriteByte(0x4C)
	buf.WriteByte(0xC0 + (dst.low3() << 3) + src.low3())
}

// MovReg64Imm32 emits `MOV r/m64, imm32` (sign-extended to 64 bits).
func MovReg64Imm32(buf *Buffer, dst GPReg, imm int32) {
	r := addRmExtension(dst, rexW)
	buf.WriteByte(r)
	buf.WriteByte(0xC7)
	buf.WriteByte(0xC0 + dst.low3())
	writeLE32(buf, imm)
}

// MovReg64Imm64 emits `MOV r64, imm64`, narrowing to the 7-byte
// MOV-r/m64,imm32 form whenever imm fits in an i32 (§4.2 table).
func MovReg64Imm64(buf *Buffer, dst GPReg, imm int64) {
	if imm >= int64(int32(-1<<31)) && imm <= int64(int32(1<<31-1)) {
		MovReg64Imm32(buf, dst, int32(imm))
		return
	}
	r := addOpcodeExtension(dst, rexW)
	buf.WriteByte(r)
	buf.WriteByte(0xB8 + dst.low3())
	writeLE64(buf, imm)
}

// MovReg64Reg64 emits `MOV r/m64, r64`.
func MovReg64Reg64(buf *Buffer, dst, src GPReg) {
	r := addRmExtension(dst, rexW)
	r = addRegExtension(src, r)
	buf.WriteByte(r)
	buf.WriteByte(0x89)
	buf.WriteByte(0xC0 + dst.low3() + (src.low3() << 3))
}

// MovReg64Stack32 emits `MOV r64, [RSP+disp32]`.
func MovReg64Stack32(buf *Buffer, dst GPReg, offset int32) {
	r := addRegExtension(dst, rexW) // REX.W, conditionally +REX.R
	buf.WriteByte(r)
	buf.WriteByte(0x8B)
	buf.WriteByte(0x84 + (dst.low3() << 3))
	buf.WriteByte(0x24)
	writeLE32(buf, offset)
}

// MovStack32Reg64 emits `MOV [RSP+disp32], r64`.
func MovStack32Reg64(buf *Buffer, offset int32, src GPReg) {
	r := addRegExtension(src, rexW)
	buf.WriteByte(r)
	buf.WriteByte(0x89)
	buf.WriteByte(0x84 + (src.low3() << 3))
	buf.WriteByte(0x24)
	writeLE32(buf, offset)
}

// MovStack32Freg64 emits `MOVSD [RSP+disp32], xmm` — FP spill to the stack.
// The teacher's Rust ancestor leaves this unimplemented (§9 Open Question);
// this module implements it using the exact encoding the spec already
// hands out, rather than carry the not-yet-implemented error (see
// REDESIGN FLAGS in SPEC_FULL.md).
func MovStack32Freg64(buf *Buffer, offset int32, src FPReg) {
	r := byte(0)
	if src > 7 {
		r = 4 // REX.R
	}
	buf.WriteByte(0xF2)
	buf.WriteByte(rex + r)
	buf.WriteByte(0x0F)
	buf.WriteByte(0x11)
	buf.WriteByte(0x84 + (src.low3() << 3))
	buf.WriteByte(0x24)
	writeLE32(buf, offset)
}

// MovsdFreg64Freg64 emits `MOVSD xmm1, xmm2`.
func MovsdFreg64Freg64(buf *Buffer, dst, src FPReg) {
	dstHigh := dst > 7
	srcHigh := src > 7
	if dstHigh || srcHigh {
		var r byte
		if dstHigh {
			r += 4
		}
		if srcHigh {
			r++
		}
		buf.WriteByte(0xF2)
		buf.WriteByte(rex + r)
		buf.WriteByte(0x0F)
		buf.WriteByte(0x10)
		buf.WriteByte(0xC0 + (dst.low3() << 3) + src.low3())
	} else {
		buf.WriteByte(0xF2)
		buf.WriteByte(0x0F)
		buf.WriteByte(0x10)
		buf.WriteByte(0xC0 + (dst.low3() << 3) + src.low3())
	}
}

// MovsdFreg64RipOffset32 emits `MOVSD xmm, [RIP+disp32]`.
func MovsdFreg64RipOffset32(buf *Buffer, dst FPReg, offset uint32) {
	if dst > 7 {
		buf.WriteByte(0xF2)
		buf.WriteByte(0x44)
		buf.WriteByte(0x0F)
		buf.WriteByte(0x10)
		buf.WriteByte(0x05 + (dst.low3() << 3))
	} else {
		buf.WriteByte(0xF2)
		buf.WriteByte(0x0F)
		buf.WriteByte(0x10)
		buf.WriteByte(0x05 + (dst.low3() << 3))
	}
	writeLE32(buf, int32(offset))
}

// PushReg64 emits `PUSH r64`.
func PushReg64(buf *Buffer, reg GPReg) {
	if reg > 7 {
		buf.WriteByte(addOpcodeExtension(reg, rex))
		buf.WriteByte(0x50 + reg.low3())
	} else {
		buf.WriteByte(0x50 + reg.low3())
	}
}

// PopReg64 emits `POP r64`.
func PopReg64(buf *Buffer, reg GPReg) {
	if reg > 7 {
		buf.WriteByte(addOpcodeExtension(reg, rex))
		buf.WriteByte(0x58 + reg.low3())
	} else {
		buf.WriteByte(0x58 + reg.low3())
	}
}

// Ret emits `RET`.
func Ret(buf *Buffer) {
	buf.WriteByte(0xC3)
}
