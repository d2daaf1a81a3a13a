package isa

import "fmt"

// RCWidth is the bit width of a packed RC instruction word.
const RCWidth uint = 18

// RC ALU opcodes. Numbering is fixed by the hardware and must not change.
const (
	RCNop Op = iota
	RCSAdd
	RCSSub
	RCSMul
	RCSDiv
	RCSLL
	RCSRL
	RCSRA
	RCLAnd
	RCLOr
	RCLXor
	RCInbSFInA // SFGA: output A if flag source's sign flag is set, else B
	RCInbZFInA // ZFGA: output A if flag source's zero flag is set, else B
	RCFxpMul
	RCFxpDiv
)

// RCMuxSel selects an RC ALU input (shared enumeration for muxa_sel and
// muxb_sel, both 4 bits wide).
type RCMuxSel uint32

const (
	RCMuxVWRA RCMuxSel = iota
	RCMuxVWRB
	RCMuxVWRC
	RCMuxSRF
	RCMuxR0
	RCMuxR1
	RCMuxRCT
	RCMuxRCB
	RCMuxRCL
	RCMuxRCR
	RCMuxZero
	RCMuxOne
	RCMuxMaxInt
	RCMuxMinInt
)

var rcMuxNames = map[RCMuxSel]string{
	RCMuxVWRA: "VWR_A", RCMuxVWRB: "VWR_B", RCMuxVWRC: "VWR_C", RCMuxSRF: "SRF",
	RCMuxR0: "R0", RCMuxR1: "R1", RCMuxRCT: "RCT", RCMuxRCB: "RCB",
	RCMuxRCL: "RCL", RCMuxRCR: "RCR", RCMuxZero: "ZERO", RCMuxOne: "ONE",
	RCMuxMaxInt: "MAX_INT", RCMuxMinInt: "MIN_INT",
}

// RCMuxFSel selects the source of the sign/zero flag consulted by SFGA/ZFGA:
// the cell's own ALU (OWN) or one of its four neighbours.
type RCMuxFSel uint32

const (
	RCMuxFOwn RCMuxFSel = iota
	RCMuxFRCT
	RCMuxFRCB
	RCMuxFRCL
	RCMuxFRCR
)

var rcMuxFNames = map[RCMuxFSel]string{
	RCMuxFOwn: "OWN", RCMuxFRCT: "RCT", RCMuxFRCB: "RCB", RCMuxFRCL: "RCL", RCMuxFRCR: "RCR",
}

var rcAluNames = map[Op]string{
	RCNop: "NOP", RCSAdd: "SADD", RCSSub: "SSUB", RCSMul: "SMUL", RCSDiv: "SDIV",
	RCSLL: "SLL", RCSRL: "SRL", RCSRA: "SRA", RCLAnd: "LAND", RCLOr: "LOR", RCLXor: "LXOR",
	RCInbSFInA: "SFGA", RCInbZFInA: "ZFGA", RCFxpMul: "MUL.FP", RCFxpDiv: "DIV.FP",
}

// rcFieldWidths lists the RC word's fields, MSB first: muxa_sel, muxb_sel,
// op_mode, alu_op, muxf_sel, rf_we, rf_wsel.
var rcFieldWidths = []uint{4, 4, 1, 4, 3, 1, 1}

// RCWord is the decoded form of a packed 18-bit RC instruction word.
//
// rf_we/rf_wsel are only wide enough to select between the cell's two local
// registers (R0/R1): when the destination is the column SRF or a VWR, RFWe
// is false here and the write is instead signaled by the MXCU's srf write
// enable / per-row VWR write-enable bitmap, which the assembler derives from
// the parsed mnemonic's destination operand (see package asm).
type RCWord struct {
	MuxASel RCMuxSel
	MuxBSel RCMuxSel
	OpMode  uint32 // 0: 32-bit, 1: 16-bit ("half precision")
	AluOp   Op
	MuxFSel RCMuxFSel
	RFWe    bool
	RFWSel  uint32 // 0 -> R0, 1 -> R1; meaningless when RFWe is false
}

// Encode packs w into its 18-bit wire representation.
func (w RCWord) Encode() (uint32, error) {
	rfWe := uint32(0)
	if w.RFWe {
		rfWe = 1
	}
	values := []uint32{uint32(w.MuxASel), uint32(w.MuxBSel), w.OpMode, uint32(w.AluOp), uint32(w.MuxFSel), rfWe, w.RFWSel}
	return pack(values, rcFieldWidths)
}

// DecodeRCHex parses a hex-string RC word (zero-extended to RCWidth) into
// its fields.
func DecodeRCHex(hexWord string) (RCWord, error) {
	word, err := decodeHex(hexWord, RCWidth)
	if err != nil {
		return RCWord{}, err
	}
	return DecodeRC(word), nil
}

// DecodeRC splits a packed 18-bit word into its fields.
func DecodeRC(word uint32) RCWord {
	v := unpack(word, rcFieldWidths)
	return RCWord{
		MuxASel: RCMuxSel(v[0]),
		MuxBSel: RCMuxSel(v[1]),
		OpMode:  v[2],
		AluOp:   Op(v[3]),
		MuxFSel: RCMuxFSel(v[4]),
		RFWe:    v[5] != 0,
		RFWSel:  v[6],
	}
}

// HexString renders w's packed word as a "0x"-prefixed hex string.
func (w RCWord) HexString() (string, error) {
	word, err := w.Encode()
	if err != nil {
		return "", err
	}
	return hexString(word, RCWidth), nil
}

// Dest names the cell's destination for disassembly. Exactly one of
// RFWe (a local register), srfWrite, or vwrWrite should be true/non-empty;
// the caller (engine/asm) derives these from the MXCU's per-cycle signals
// since the RC word alone cannot distinguish them (see RCWord doc).
func (w RCWord) Dest(srfSel int, srfWrite bool, vwrLetter string, vwrWrite bool) string {
	switch {
	case vwrWrite:
		return fmt.Sprintf("VWR_%s", vwrLetter)
	case srfWrite:
		return fmt.Sprintf("SRF(%d)", srfSel)
	case w.RFWe:
		return fmt.Sprintf("R%d", w.RFWSel)
	default:
		return "-"
	}
}

// String disassembles w into its mnemonic form. srfSel is the MXCU-agreed
// SRF index for the cycle; srfWrite/vwrLetter/vwrWrite carry the externally
// resolved destination (see Dest).
func (w RCWord) String(srfSel int, srfWrite bool, vwrLetter string, vwrWrite bool) string {
	dest := w.Dest(srfSel, srfWrite, vwrLetter, vwrWrite)
	op := rcAluNames[w.AluOp]

	if w.AluOp == RCNop {
		return op
	}
	if w.AluOp == RCInbSFInA || w.AluOp == RCInbZFInA {
		return fmt.Sprintf("%s %s, %s, %s, %s", op, dest, rcOperand(w.MuxASel, srfSel), rcOperand(w.MuxBSel, srfSel), rcMuxFNames[w.MuxFSel])
	}

	precision := ""
	if w.OpMode == 1 && w.AluOp != RCFxpMul && w.AluOp != RCFxpDiv {
		precision = ".H"
	}
	return fmt.Sprintf("%s%s %s, %s, %s", op, precision, dest, rcOperand(w.MuxASel, srfSel), rcOperand(w.MuxBSel, srfSel))
}

func rcOperand(mux RCMuxSel, srfSel int) string {
	name := rcMuxNames[mux]
	if name == "SRF" {
		return fmt.Sprintf("SRF(%d)", srfSel)
	}
	return name
}
