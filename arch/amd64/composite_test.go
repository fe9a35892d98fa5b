package amd64

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddReg64Reg64Reg64_CommutesWhenDstAliasesEitherOperand(t *testing.T) {
	// dst == src1: no extra MOV, same bytes as the plain two-operand ADD.
	got := emit(func(buf *Buffer) { AddReg64Reg64Reg64(buf, RAX, RAX, RCX) })
	want := emit(func(buf *Buffer) { AddReg64Reg64(buf, RAX, RCX) })
	assert.Equal(t, want, got)

	// dst == src2: commutes to the same shortcut.
	got = emit(func(buf *Buffer) { AddReg64Reg64Reg64(buf, RAX, RCX, RAX) })
	want = emit(func(buf *Buffer) { AddReg64Reg64(buf, RAX, RCX) })
	assert.Equal(t, want, got)
}

func TestAddReg64Reg64Reg64_NoAliasGoesThroughMov(t *testing.T) {
	got := emit(func(buf *Buffer) { AddReg64Reg64Reg64(buf, RAX, RCX, RDX) })
	var want []byte
	want = append(want, emit(func(buf *Buffer) { MovReg64Reg64(buf, RAX, RCX) })...)
	want = append(want, emit(func(buf *Buffer) { AddReg64Reg64(buf, RAX, RDX) })...)
	assert.Equal(t, want, got)
}

func TestSubReg64Reg64Reg64_DstAliasesSrc1Shortcuts(t *testing.T) {
	got := emit(func(buf *Buffer) { SubReg64Reg64Reg64(buf, RAX, RAX, RCX) })
	want := emit(func(buf *Buffer) { SubReg64Reg64(buf, RAX, RCX) })
	assert.Equal(t, want, got)
}

// Subtraction is not commutative: dst aliasing src2 (but not src1) must NOT
// take a shortcut — it has to go through the MOV+SUB path, unlike the Add
// composite's symmetric case.
func TestSubReg64Reg64Reg64_DstAliasesSrc2DoesNotShortcut(t *testing.T) {
	got := emit(func(buf *Buffer) { SubReg64Reg64Reg64(buf, RAX, RCX, RAX) })
	var want []byte
	want = append(want, emit(func(buf *Buffer) { MovReg64Reg64(buf, RAX, RCX) })...)
	want = append(want, emit(func(buf *Buffer) { SubReg64Reg64(buf, RAX, RAX) })...)
	assert.Equal(t, want, got)
	assert.NotEqual(t, emit(func(buf *Buffer) { SubReg64Reg64(buf, RAX, RAX) }), got)
}

func TestAbsReg64Reg64_EmitsMovNegCmovl(t *testing.T) {
	got := emit(func(buf *Buffer) { AbsReg64Reg64(buf, RAX, RCX) })
	var want []byte
	want = append(want, emit(func(buf *Buffer) { MovReg64Reg64(buf, RAX, RCX) })...)
	want = append(want, emit(func(buf *Buffer) { NegReg64(buf, RAX) })...)
	want = append(want, emit(func(buf *Buffer) { CmovlReg64Reg64(buf, RAX, RCX) })...)
	assert.Equal(t, want, got)
}

func TestMovFreg64Imm64_RecordsRelocationAtCorrectOffset(t *testing.T) {
	var buf Buffer
	var relocs []Relocation

	MovFreg64Imm64(&buf, &relocs, XMM0, 3.25)

	require := assert.New(t)
	require.Len(relocs, 1)

	ld, ok := relocs[0].(LocalData)
	require.True(ok)
	require.Equal(uint64(buf.Len())-4, ld.Offset)

	var wantData [8]byte
	binary.LittleEndian.PutUint64(wantData[:], math.Float64bits(3.25))
	require.Equal(wantData[:], ld.Data)
}

func TestMovFreg64Imm64_MultipleCallsAccumulateRelocations(t *testing.T) {
	var buf Buffer
	var relocs []Relocation

	MovFreg64Imm64(&buf, &relocs, XMM0, 1.5)
	MovFreg64Imm64(&buf, &relocs, XMM1, -2.5)

	assert.Len(t, relocs, 2)
	for _, r := range relocs {
		ld := r.(LocalData)
		assert.Len(t, ld.Data, 8)
	}
}
