package isa

import "fmt"

// LSUWidth is the bit width of a packed LSU instruction word.
const LSUWidth uint = 20

// LSU opcodes: NOP and the LCU-style arithmetic ops for address computation,
// plus the four memory operations.
const (
	LSUNop Op = iota
	LSUSAdd
	LSUSSub
	LSUSLL
	LSUSRL
	LSUSRA
	LSULAnd
	LSULOr
	LSULXor
	LSULwd // load next SPM word via the auto-incrementing input cursor
	LSUSwd // store to the auto-incrementing output cursor
	LSULwi // load SPM[Rx+imm] (indexed)
	LSUSwi // store to SPM[Rx+imm] (indexed)
)

var lsuAluNames = map[Op]string{
	LSUNop: "NOP", LSUSAdd: "SADD", LSUSSub: "SSUB", LSUSLL: "SLL", LSUSRL: "SRL",
	LSUSRA: "SRA", LSULAnd: "LAND", LSULOr: "LOR", LSULXor: "LXOR",
	LSULwd: "LWD", LSUSwd: "SWD", LSULwi: "LWI", LSUSwi: "SWI",
}

// LSUMuxASel selects the LSU ALU's A input, mirroring LCUMuxASel over the
// LSU's general-purpose registers R0-R3.
type LSUMuxASel uint32

const (
	LSUMuxAR0 LSUMuxASel = iota
	LSUMuxAR1
	LSUMuxAR2
	LSUMuxAR3
	LSUMuxASRF
	LSUMuxALast
	LSUMuxAZero
	LSUMuxAImm
)

// LSUMuxBSel selects the LSU ALU's B input.
type LSUMuxBSel uint32

const (
	LSUMuxBR0 LSUMuxBSel = iota
	LSUMuxBR1
	LSUMuxBR2
	LSUMuxBR3
	LSUMuxBSRF
	LSUMuxBLast
	LSUMuxBZero
	LSUMuxBOne
)

var lsuMuxANames = map[LSUMuxASel]string{
	LSUMuxAR0: "R0", LSUMuxAR1: "R1", LSUMuxAR2: "R2", LSUMuxAR3: "R3",
	LSUMuxASRF: "SRF", LSUMuxALast: "LAST", LSUMuxAZero: "ZERO", LSUMuxAImm: "IMM",
}

var lsuMuxBNames = map[LSUMuxBSel]string{
	LSUMuxBR0: "R0", LSUMuxBR1: "R1", LSUMuxBR2: "R2", LSUMuxBR3: "R3",
	LSUMuxBSRF: "SRF", LSUMuxBLast: "LAST", LSUMuxBZero: "ZERO", LSUMuxBOne: "ONE",
}

// lsuFieldWidths lists the LSU word's fields, MSB first: muxa_sel, muxb_sel,
// alu_op, rf_we, rf_wsel, imm.
var lsuFieldWidths = []uint{3, 3, 4, 1, 3, 6}

// LSUWord is the decoded form of a packed 20-bit LSU instruction word.
type LSUWord struct {
	MuxASel LSUMuxASel
	MuxBSel LSUMuxBSel
	AluOp   Op
	RFWe    bool
	RFWSel  uint32 // destination register R0-R7
	Imm     uint32 // address offset or ALU immediate, 6 bits unsigned
}

// Encode packs w into its 20-bit wire representation.
func (w LSUWord) Encode() (uint32, error) {
	rfWe := uint32(0)
	if w.RFWe {
		rfWe = 1
	}
	values := []uint32{uint32(w.MuxASel), uint32(w.MuxBSel), uint32(w.AluOp), rfWe, w.RFWSel, w.Imm}
	return pack(values, lsuFieldWidths)
}

// DecodeLSUHex parses a hex-string LSU word (zero-extended to LSUWidth) into
// its fields.
func DecodeLSUHex(hexWord string) (LSUWord, error) {
	word, err := decodeHex(hexWord, LSUWidth)
	if err != nil {
		return LSUWord{}, err
	}
	return DecodeLSU(word), nil
}

// DecodeLSU splits a packed 20-bit word into its fields.
func DecodeLSU(word uint32) LSUWord {
	v := unpack(word, lsuFieldWidths)
	return LSUWord{
		MuxASel: LSUMuxASel(v[0]),
		MuxBSel: LSUMuxBSel(v[1]),
		AluOp:   Op(v[2]),
		RFWe:    v[3] != 0,
		RFWSel:  v[4],
		Imm:     v[5],
	}
}

// HexString renders w's packed word as a "0x"-prefixed hex string.
func (w LSUWord) HexString() (string, error) {
	word, err := w.Encode()
	if err != nil {
		return "", err
	}
	return hexString(word, LSUWidth), nil
}

// String disassembles w into its mnemonic form. srfSel is the MXCU-agreed
// SRF index for the cycle.
func (w LSUWord) String(srfSel int) string {
	op := lsuAluNames[w.AluOp]
	muxa := lsuOperand(lsuMuxANames[w.MuxASel], srfSel, int(w.Imm))
	muxb := lsuOperand(lsuMuxBNames[w.MuxBSel], srfSel, 0)

	switch w.AluOp {
	case LSUNop:
		return op
	case LSULwd:
		return fmt.Sprintf("%s %s", op, lsuDest(w))
	case LSUSwd:
		return fmt.Sprintf("%s %s", op, muxa)
	case LSULwi:
		return fmt.Sprintf("%s %s, %s+%d", op, lsuDest(w), muxa, w.Imm)
	case LSUSwi:
		return fmt.Sprintf("%s %s+%d, %s", op, muxa, w.Imm, muxb)
	default:
		return fmt.Sprintf("%s %s, %s, %s", op, lsuDest(w), muxb, muxa)
	}
}

func lsuDest(w LSUWord) string {
	if !w.RFWe {
		return "-"
	}
	return fmt.Sprintf("R%d", w.RFWSel)
}

func lsuOperand(name string, srfSel, imm int) string {
	switch name {
	case "SRF":
		return fmt.Sprintf("SRF(%d)", srfSel)
	case "IMM":
		return fmt.Sprintf("%d", imm)
	default:
		return name
	}
}
