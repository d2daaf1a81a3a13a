package isa

import "fmt"

// MXCUWidth is the bit width of a packed MXCU instruction word.
const MXCUWidth uint = 27

// MXCU ALU opcodes: the same small arithmetic/logic set as the LCU, used to
// update the MXCU's own registers (notably R0, the VWR slice cursor).
const (
	MXCUNop Op = iota
	MXCUSAdd
	MXCUSSub
	MXCUSLL
	MXCUSRL
	MXCUSRA
	MXCULAnd
	MXCULOr
	MXCULXor
)

var mxcuAluNames = map[Op]string{
	MXCUNop: "NOP", MXCUSAdd: "SADD", MXCUSSub: "SSUB", MXCUSLL: "SLL", MXCUSRL: "SRL",
	MXCUSRA: "SRA", MXCULAnd: "LAND", MXCULOr: "LOR", MXCULXor: "LXOR",
}

// MXCUMuxSel selects one of the MXCU's own 8 registers as an ALU operand.
type MXCUMuxSel uint32

const (
	MXCUMuxR0 MXCUMuxSel = iota
	MXCUMuxR1
	MXCUMuxR2
	MXCUMuxR3
	MXCUMuxR4
	MXCUMuxR5
	MXCUMuxR6
	MXCUMuxR7
)

// mxcuFieldWidths lists the MXCU word's fields, MSB first: muxa_sel,
// muxb_sel, alu_op, rf_we, rf_wsel, imm, srf_sel, srf_we, vwr_sel,
// vwr_row_we (one bit per row).
var mxcuFieldWidths = []uint{3, 3, 4, 1, 3, 3, 3, 1, 2, 4}

// MXCUWord is the decoded form of a packed 27-bit MXCU instruction word.
// It carries both the MXCU's own ALU/register update and the per-cycle
// control signals (agreed SRF index/write-enable, VWR letter/per-row
// write-enable) that the assembler derives from the rest of the column.
type MXCUWord struct {
	MuxASel MXCUMuxSel
	MuxBSel MXCUMuxSel
	AluOp   Op
	RFWe    bool
	RFWSel  uint32 // destination register R0-R7
	Imm     uint32 // 3-bit immediate; the engine does not read it and asm.ParseMXCU leaves it zero

	SRFSel   uint32 // agreed SRF register index for the cycle (0-7)
	SRFWe    bool
	VWRSel   uint32 // agreed VWR letter: 0=A, 1=B, 2=C
	VWRRowWe uint32 // bit r set iff RC row r writes its result to the VWR
}

// Encode packs w into its 27-bit wire representation.
func (w MXCUWord) Encode() (uint32, error) {
	rfWe := uint32(0)
	if w.RFWe {
		rfWe = 1
	}
	srfWe := uint32(0)
	if w.SRFWe {
		srfWe = 1
	}
	values := []uint32{
		uint32(w.MuxASel), uint32(w.MuxBSel), uint32(w.AluOp), rfWe, w.RFWSel, w.Imm,
		w.SRFSel, srfWe, w.VWRSel, w.VWRRowWe,
	}
	return pack(values, mxcuFieldWidths)
}

// DecodeMXCUHex parses a hex-string MXCU word (zero-extended to MXCUWidth)
// into its fields.
func DecodeMXCUHex(hexWord string) (MXCUWord, error) {
	word, err := decodeHex(hexWord, MXCUWidth)
	if err != nil {
		return MXCUWord{}, err
	}
	return DecodeMXCU(word), nil
}

// DecodeMXCU splits a packed 27-bit word into its fields.
func DecodeMXCU(word uint32) MXCUWord {
	v := unpack(word, mxcuFieldWidths)
	return MXCUWord{
		MuxASel:  MXCUMuxSel(v[0]),
		MuxBSel:  MXCUMuxSel(v[1]),
		AluOp:    Op(v[2]),
		RFWe:     v[3] != 0,
		RFWSel:   v[4],
		Imm:      v[5],
		SRFSel:   v[6],
		SRFWe:    v[7] != 0,
		VWRSel:   v[8],
		VWRRowWe: v[9],
	}
}

// HexString renders w's packed word as a "0x"-prefixed hex string.
func (w MXCUWord) HexString() (string, error) {
	word, err := w.Encode()
	if err != nil {
		return "", err
	}
	return hexString(word, MXCUWidth), nil
}

// VWRLetterName renders the agreed VWR letter (A/B/C) for this cycle.
func (w MXCUWord) VWRLetterName() string {
	switch w.VWRSel {
	case 0:
		return "A"
	case 1:
		return "B"
	case 2:
		return "C"
	default:
		return "?"
	}
}

// String disassembles the MXCU's own ALU/register update. The control
// signals (SRFSel, SRFWe, VWRSel, VWRRowWe) are synthesized by the
// assembler from the rest of the cycle and have no mnemonic of their own;
// callers render them alongside (e.g. as a trailing comment) when needed.
func (w MXCUWord) String() string {
	op := mxcuAluNames[w.AluOp]
	if w.AluOp == MXCUNop {
		return op
	}
	dest := "-"
	if w.RFWe {
		dest = fmt.Sprintf("R%d", w.RFWSel)
	}
	return fmt.Sprintf("%s %s, R%d, R%d", op, dest, w.MuxASel, w.MuxBSel)
}
