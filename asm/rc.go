package asm

import (
	"strings"

	"github.com/vwr2a/sim/isa"
	"github.com/vwr2a/sim/machine"
)

var rcArithOps = map[string]isa.Op{
	"SADD": isa.RCSAdd, "SSUB": isa.RCSSub, "SMUL": isa.RCSMul, "SDIV": isa.RCSDiv,
	"SLL": isa.RCSLL, "SRL": isa.RCSRL, "SRA": isa.RCSRA,
	"LAND": isa.RCLAnd, "LOR": isa.RCLOr, "LXOR": isa.RCLXor,
}

var rcFlagOps = map[string]isa.Op{
	"SFGA": isa.RCInbSFInA, "ZFGA": isa.RCInbZFInA,
}

var rcFlagSources = map[string]isa.RCMuxFSel{
	"OWN": isa.RCMuxFOwn, "RCT": isa.RCMuxFRCT, "RCB": isa.RCMuxFRCB, "RCL": isa.RCMuxFRCL, "RCR": isa.RCMuxFRCR,
}

// parsedRC is the asm-time result of one RC mnemonic: the decoded word, the
// SRF index it reads/writes (-1 for none), and the VWR letter it writes
// (meaningful only when VWRWe is set), used by cycle-wide SRF/VWR
// reconciliation.
type parsedRC struct {
	Word     isa.RCWord
	SRFRead  int
	SRFWrite int
	VWRWrite machine.VWRLetter
	VWRWe    bool
}

func rcMux(o Operand) (isa.RCMuxSel, int, bool) {
	switch o.Kind {
	case OperandVWR:
		switch o.VWRLetter {
		case machine.VWRA:
			return isa.RCMuxVWRA, -1, true
		case machine.VWRB:
			return isa.RCMuxVWRB, -1, true
		case machine.VWRC:
			return isa.RCMuxVWRC, -1, true
		}
		return 0, -1, false
	case OperandSRF:
		return isa.RCMuxSRF, o.SRFIndex, true
	case OperandReg:
		if o.Reg == 0 {
			return isa.RCMuxR0, -1, true
		}
		if o.Reg == 1 {
			return isa.RCMuxR1, -1, true
		}
		return 0, -1, false
	case OperandNeighbour:
		switch o.Neighbour {
		case "RCT":
			return isa.RCMuxRCT, -1, true
		case "RCB":
			return isa.RCMuxRCB, -1, true
		case "RCL":
			return isa.RCMuxRCL, -1, true
		case "RCR":
			return isa.RCMuxRCR, -1, true
		}
		return 0, -1, false
	case OperandZero:
		return isa.RCMuxZero, -1, true
	case OperandOne:
		return isa.RCMuxOne, -1, true
	case OperandMaxInt:
		return isa.RCMuxMaxInt, -1, true
	case OperandMinInt:
		return isa.RCMuxMinInt, -1, true
	default:
		return 0, -1, false
	}
}

// rcDest parses an RC destination operand: a local register (R0/R1), an SRF
// slot, or a VWR letter, the three destination kinds rc.py's parseDestArith
// recognizes (unlike the LCU/LSU, which cannot target a VWR).
func rcDest(tok string) (rfWe bool, rfWSel uint32, srfIdx int, vwrLetter machine.VWRLetter, vwrWe bool, ok bool) {
	o, valid := parseOperand(tok)
	if !valid {
		return false, 0, -1, 0, false, false
	}
	switch o.Kind {
	case OperandReg:
		if o.Reg > 1 {
			return false, 0, -1, 0, false, false
		}
		return true, uint32(o.Reg), -1, 0, false, true
	case OperandSRF:
		return false, 0, o.SRFIndex, 0, false, true
	case OperandVWR:
		return false, 0, -1, o.VWRLetter, true, true
	default:
		return false, 0, -1, 0, false, false
	}
}

// ParseRC parses one RC mnemonic line. Grammar (from rc.py's asmToHex):
//
//	OP dest, rs, rt           arithmetic: dest = rs OP rt (32-bit)
//	OP.H dest, rs, rt         arithmetic, 16-bit ("half precision")
//	MUL.FP dest, rs, rt       fixed-point multiply
//	DIV.FP dest, rs, rt       fixed-point divide (reserved; rejected at runtime)
//	SFGA dest, rs, rt, flag   dest = flag's sign flag ? rs : rt
//	ZFGA dest, rs, rt, flag   dest = flag's zero flag ? rs : rt
//	NOP
//
// dest may name a local register, SRF(n), or VWR_{A,B,C}; rs/rt may
// additionally name a neighbour cell (RCT/RCB/RCL/RCR). flag selects which
// cell's flag is consulted: OWN or one of the four neighbours.
func ParseRC(line string) (parsedRC, error) {
	toks := Tokenize(line)
	if len(toks) == 0 {
		return parsedRC{}, newErr(SlotRC, ErrUnknownMnemonic, "empty instruction")
	}
	op, args := toks[0], toks[1:]

	if op == "NOP" {
		return parsedRC{SRFRead: -1, SRFWrite: -1}, nil
	}
	if aluOp, ok := rcFlagOps[op]; ok {
		return parseRCFlag(op, aluOp, args)
	}

	opMode := uint32(0)
	mnemonic := op
	switch {
	case op == "MUL.FP":
		return parseRCArith(op, isa.RCFxpMul, args, 0)
	case op == "DIV.FP":
		return parseRCArith(op, isa.RCFxpDiv, args, 0)
	case strings.HasSuffix(op, ".H"):
		mnemonic = strings.TrimSuffix(op, ".H")
		opMode = 1
	}
	if aluOp, ok := rcArithOps[mnemonic]; ok {
		return parseRCArith(op, aluOp, args, opMode)
	}
	return parsedRC{}, newErr(SlotRC, ErrUnknownMnemonic, "unknown RC mnemonic %q", op)
}

func parseRCArith(mnemonic string, aluOp isa.Op, args []string, opMode uint32) (parsedRC, error) {
	if len(args) != 3 {
		return parsedRC{}, newErr(SlotRC, ErrOperandCount, "%s: expected 3 operands", mnemonic)
	}
	rfWe, rfWSel, srfWrite, vwrLetter, vwrWe, ok := rcDest(args[0])
	if !ok {
		return parsedRC{}, newErr(SlotRC, ErrBadOperand, "%s: bad destination %q", mnemonic, args[0])
	}
	aOperand, aok := parseOperand(args[1])
	bOperand, bok := parseOperand(args[2])
	if !aok || !bok {
		return parsedRC{}, newErr(SlotRC, ErrBadOperand, "%s: bad operands", mnemonic)
	}
	muxA, srfA, ok := rcMux(aOperand)
	if !ok {
		return parsedRC{}, newErr(SlotRC, ErrBadOperand, "%s: bad second operand %q", mnemonic, args[1])
	}
	muxB, srfB, ok := rcMux(bOperand)
	if !ok {
		return parsedRC{}, newErr(SlotRC, ErrBadOperand, "%s: bad third operand %q", mnemonic, args[2])
	}
	srfRead := srfA
	if srfRead == -1 {
		srfRead = srfB
	}
	w := isa.RCWord{MuxASel: muxA, MuxBSel: muxB, OpMode: opMode, AluOp: aluOp, RFWe: rfWe, RFWSel: rfWSel}
	return parsedRC{Word: w, SRFRead: srfRead, SRFWrite: srfWrite, VWRWrite: vwrLetter, VWRWe: vwrWe}, nil
}

func parseRCFlag(mnemonic string, aluOp isa.Op, args []string) (parsedRC, error) {
	if len(args) != 4 {
		return parsedRC{}, newErr(SlotRC, ErrOperandCount, "%s: expected 4 operands", mnemonic)
	}
	rfWe, rfWSel, srfWrite, vwrLetter, vwrWe, ok := rcDest(args[0])
	if !ok {
		return parsedRC{}, newErr(SlotRC, ErrBadOperand, "%s: bad destination %q", mnemonic, args[0])
	}
	aOperand, aok := parseOperand(args[1])
	bOperand, bok := parseOperand(args[2])
	if !aok || !bok {
		return parsedRC{}, newErr(SlotRC, ErrBadOperand, "%s: bad operands", mnemonic)
	}
	muxA, srfA, ok := rcMux(aOperand)
	if !ok {
		return parsedRC{}, newErr(SlotRC, ErrBadOperand, "%s: bad second operand %q", mnemonic, args[1])
	}
	muxB, srfB, ok := rcMux(bOperand)
	if !ok {
		return parsedRC{}, newErr(SlotRC, ErrBadOperand, "%s: bad third operand %q", mnemonic, args[2])
	}
	flagSel, ok := rcFlagSources[args[3]]
	if !ok {
		return parsedRC{}, newErr(SlotRC, ErrBadOperand, "%s: bad flag source %q", mnemonic, args[3])
	}
	srfRead := srfA
	if srfRead == -1 {
		srfRead = srfB
	}
	w := isa.RCWord{MuxASel: muxA, MuxBSel: muxB, AluOp: aluOp, MuxFSel: flagSel, RFWe: rfWe, RFWSel: rfWSel}
	return parsedRC{Word: w, SRFRead: srfRead, SRFWrite: srfWrite, VWRWrite: vwrLetter, VWRWe: vwrWe}, nil
}
