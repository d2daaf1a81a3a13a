package asm

import "github.com/vwr2a/sim/isa"

var mxcuArithOps = map[string]isa.Op{
	"SADD": isa.MXCUSAdd, "SSUB": isa.MXCUSSub, "SLL": isa.MXCUSLL, "SRL": isa.MXCUSRL,
	"SRA": isa.MXCUSRA, "LAND": isa.MXCULAnd, "LOR": isa.MXCULOr, "LXOR": isa.MXCULXor,
}

// ParseMXCU parses the MXCU's own ALU/register-update mnemonic:
//
//	OP dest, ra, rb    dest, ra, rb all name one of the MXCU's 8 registers
//	NOP
//
// This updates only MXCUWord's own fields (MuxASel, MuxBSel, AluOp, RFWe,
// RFWSel); the cycle's shared control fields (SRFSel, SRFWe, VWRSel,
// VWRRowWe) are not mnemonic-driven and are filled in separately during
// cycle-wide reconciliation (see AssembleCycle).
func ParseMXCU(line string) (isa.MXCUWord, error) {
	toks := Tokenize(line)
	if len(toks) == 0 {
		return isa.MXCUWord{}, newErr(SlotMXCU, ErrUnknownMnemonic, "empty instruction")
	}
	op, args := toks[0], toks[1:]

	if op == "NOP" {
		return isa.MXCUWord{}, nil
	}
	aluOp, ok := mxcuArithOps[op]
	if !ok {
		return isa.MXCUWord{}, newErr(SlotMXCU, ErrUnknownMnemonic, "unknown MXCU mnemonic %q", op)
	}
	if len(args) != 3 {
		return isa.MXCUWord{}, newErr(SlotMXCU, ErrOperandCount, "%s: expected 3 operands", op)
	}
	dest, ok := mxcuReg(args[0])
	if !ok {
		return isa.MXCUWord{}, newErr(SlotMXCU, ErrBadOperand, "%s: bad destination %q", op, args[0])
	}
	ra, ok := mxcuReg(args[1])
	if !ok {
		return isa.MXCUWord{}, newErr(SlotMXCU, ErrBadOperand, "%s: bad operand %q", op, args[1])
	}
	rb, ok := mxcuReg(args[2])
	if !ok {
		return isa.MXCUWord{}, newErr(SlotMXCU, ErrBadOperand, "%s: bad operand %q", op, args[2])
	}
	return isa.MXCUWord{
		MuxASel: isa.MXCUMuxSel(ra),
		MuxBSel: isa.MXCUMuxSel(rb),
		AluOp:   aluOp,
		RFWe:    true,
		RFWSel:  uint32(dest),
	}, nil
}

func mxcuReg(tok string) (int, bool) {
	o, ok := parseOperand(tok)
	if !ok || o.Kind != OperandReg || o.Reg > 7 {
		return 0, false
	}
	return o.Reg, true
}
