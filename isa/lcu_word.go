package isa

import "fmt"

// LCUWidth is the bit width of a packed LCU instruction word.
const LCUWidth uint = 20

// LCU ALU opcodes. Numbering is fixed by the hardware and must not change.
const (
	LCUNop Op = iota
	LCUSAdd
	LCUSSub
	LCUSLL
	LCUSRL
	LCUSRA
	LCULAnd
	LCULOr
	LCULXor
	LCUBeq
	LCUBne
	LCUBgepd
	LCUBlt
	LCUJump
	LCUExit
)

// Op is a raw per-slot opcode value as carried on the wire.
type Op uint32

// LCUMuxASel selects the LCU ALU's A input.
type LCUMuxASel uint32

const (
	LCUMuxAR0 LCUMuxASel = iota
	LCUMuxAR1
	LCUMuxAR2
	LCUMuxAR3
	LCUMuxASRF
	LCUMuxALast
	LCUMuxAZero
	LCUMuxAImm
)

// LCUMuxBSel selects the LCU ALU's B input.
type LCUMuxBSel uint32

const (
	LCUMuxBR0 LCUMuxBSel = iota
	LCUMuxBR1
	LCUMuxBR2
	LCUMuxBR3
	LCUMuxBSRF
	LCUMuxBLast
	LCUMuxBZero
	LCUMuxBOne
)

var lcuMuxANames = map[LCUMuxASel]string{
	LCUMuxAR0: "R0", LCUMuxAR1: "R1", LCUMuxAR2: "R2", LCUMuxAR3: "R3",
	LCUMuxASRF: "SRF", LCUMuxALast: "LAST", LCUMuxAZero: "ZERO", LCUMuxAImm: "IMM",
}

var lcuMuxBNames = map[LCUMuxBSel]string{
	LCUMuxBR0: "R0", LCUMuxBR1: "R1", LCUMuxBR2: "R2", LCUMuxBR3: "R3",
	LCUMuxBSRF: "SRF", LCUMuxBLast: "LAST", LCUMuxBZero: "ZERO", LCUMuxBOne: "ONE",
}

var lcuAluNames = map[Op]string{
	LCUNop: "NOP", LCUSAdd: "SADD", LCUSSub: "SSUB", LCUSLL: "SLL", LCUSRL: "SRL",
	LCUSRA: "SRA", LCULAnd: "LAND", LCULOr: "LOR", LCULXor: "LXOR",
	LCUBeq: "BEQ", LCUBne: "BNE", LCUBgepd: "BGEPD", LCUBlt: "BLT",
	LCUJump: "JUMP", LCUExit: "EXIT",
}

// lcuFieldWidths lists the LCU word's fields, MSB first: muxa_sel, muxb_sel,
// br_mode, alu_op, rf_we, rf_wsel, imm.
var lcuFieldWidths = []uint{3, 3, 1, 4, 1, 2, 6}

// LCUWord is the decoded form of a packed 20-bit LCU instruction word.
type LCUWord struct {
	MuxASel LCUMuxASel
	MuxBSel LCUMuxBSel
	BrMode  uint32 // 0: loop control, 1: RC-flag branch control
	AluOp   Op
	RFWe    bool
	RFWSel  uint32 // destination register R0-R3; meaningless when RFWe is false
	Imm     uint32 // branch target or ALU immediate, 6 bits unsigned
}

// Encode packs w into its 20-bit wire representation.
func (w LCUWord) Encode() (uint32, error) {
	rfWe := uint32(0)
	if w.RFWe {
		rfWe = 1
	}
	values := []uint32{uint32(w.MuxASel), uint32(w.MuxBSel), w.BrMode, uint32(w.AluOp), rfWe, w.RFWSel, w.Imm}
	return pack(values, lcuFieldWidths)
}

// DecodeLCUHex parses a hex-string LCU word (zero-extended to LCUWidth) into
// its fields.
func DecodeLCUHex(hexWord string) (LCUWord, error) {
	word, err := decodeHex(hexWord, LCUWidth)
	if err != nil {
		return LCUWord{}, err
	}
	return DecodeLCU(word), nil
}

// DecodeLCU splits a packed 20-bit word into its fields.
func DecodeLCU(word uint32) LCUWord {
	v := unpack(word, lcuFieldWidths)
	return LCUWord{
		MuxASel: LCUMuxASel(v[0]),
		MuxBSel: LCUMuxBSel(v[1]),
		BrMode:  v[2],
		AluOp:   Op(v[3]),
		RFWe:    v[4] != 0,
		RFWSel:  v[5],
		Imm:     v[6],
	}
}

// HexString renders w's packed word as a "0x"-prefixed hex string.
func (w LCUWord) HexString() (string, error) {
	word, err := w.Encode()
	if err != nil {
		return "", err
	}
	return hexString(word, LCUWidth), nil
}

// String disassembles w into its mnemonic form. srfSel is the MXCU-agreed
// SRF index for the cycle, substituted into any SRF(n) operand.
func (w LCUWord) String(srfSel int) string {
	muxa := lcuOperand(lcuMuxANames[w.MuxASel], srfSel, int(w.Imm))
	muxb := lcuOperand(lcuMuxBNames[w.MuxBSel], srfSel, 0)
	op := lcuAluNames[w.AluOp]

	var body string
	switch w.AluOp {
	case LCUNop:
		body = op
	case LCUBeq, LCUBne, LCUBgepd, LCUBlt:
		body = fmt.Sprintf("%s %s, %s, %d", op, muxb, muxa, w.Imm)
	case LCUJump:
		body = fmt.Sprintf("%s %s, %s", op, muxb, muxa)
	case LCUExit:
		body = op
	default:
		body = fmt.Sprintf("%s %s, %s, %s", op, dest(w), muxb, muxa)
	}
	return body
}

func dest(w LCUWord) string {
	if !w.RFWe {
		return "-"
	}
	return fmt.Sprintf("R%d", w.RFWSel)
}

func lcuOperand(name string, srfSel, imm int) string {
	switch name {
	case "SRF":
		return fmt.Sprintf("SRF(%d)", srfSel)
	case "IMM":
		return fmt.Sprintf("%d", imm)
	default:
		return name
	}
}
