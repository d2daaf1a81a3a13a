package asm

import (
	"strings"

	"github.com/vwr2a/sim/isa"
)

var lsuArithOps = map[string]isa.Op{
	"SADD": isa.LSUSAdd, "SSUB": isa.LSUSSub, "SLL": isa.LSUSLL, "SRL": isa.LSUSRL,
	"SRA": isa.LSUSRA, "LAND": isa.LSULAnd, "LOR": isa.LSULOr, "LXOR": isa.LSULXor,
}

type parsedLSU struct {
	Word     isa.LSUWord
	SRFRead  int
	SRFWrite int
}

func lsuMuxA(o Operand) (isa.LSUMuxASel, int, bool) {
	switch o.Kind {
	case OperandReg:
		if o.Reg > 3 {
			return 0, -1, false
		}
		return isa.LSUMuxASel(o.Reg), -1, true
	case OperandSRF:
		return isa.LSUMuxASRF, o.SRFIndex, true
	case OperandZero:
		return isa.LSUMuxAZero, -1, true
	case OperandLast:
		return isa.LSUMuxALast, -1, true
	default:
		return 0, -1, false
	}
}

func lsuMuxB(o Operand) (isa.LSUMuxBSel, int, bool) {
	switch o.Kind {
	case OperandReg:
		if o.Reg > 3 {
			return 0, -1, false
		}
		return isa.LSUMuxBSel(o.Reg), -1, true
	case OperandSRF:
		return isa.LSUMuxBSRF, o.SRFIndex, true
	case OperandZero:
		return isa.LSUMuxBZero, -1, true
	case OperandOne:
		return isa.LSUMuxBOne, -1, true
	case OperandLast:
		return isa.LSUMuxBLast, -1, true
	default:
		return 0, -1, false
	}
}

func lsuDest(tok string) (rfWe bool, rfWSel uint32, srfIdx int, ok bool) {
	o, valid := parseOperand(tok)
	if !valid {
		return false, 0, -1, false
	}
	switch o.Kind {
	case OperandReg:
		if o.Reg > 7 {
			return false, 0, -1, false
		}
		return true, uint32(o.Reg), -1, true
	case OperandSRF:
		return false, 0, o.SRFIndex, true
	default:
		return false, 0, -1, false
	}
}

// ParseLSU parses one LSU mnemonic line:
//
//	OP dest, rs, rt | OPI dest, rs, imm    arithmetic (address computation)
//	LWD dest                                load next SPM word (input cursor)
//	SWD src                                 store next SPM word (output cursor)
//	LWI dest, muxa+imm                      indexed load, address = muxa+imm
//	SWI muxa+imm, src                       indexed store
//	NOP
func ParseLSU(line string) (parsedLSU, error) {
	toks := Tokenize(line)
	if len(toks) == 0 {
		return parsedLSU{}, newErr(SlotLSU, ErrUnknownMnemonic, "empty instruction")
	}
	op, args := toks[0], toks[1:]

	switch op {
	case "NOP":
		return parsedLSU{SRFRead: -1, SRFWrite: -1}, nil
	case "LWD":
		if len(args) != 1 {
			return parsedLSU{}, newErr(SlotLSU, ErrOperandCount, "LWD: expected 1 operand")
		}
		rfWe, rfWSel, srfWrite, ok := lsuDest(args[0])
		if !ok {
			return parsedLSU{}, newErr(SlotLSU, ErrBadOperand, "LWD: bad destination %q", args[0])
		}
		return parsedLSU{Word: isa.LSUWord{AluOp: isa.LSULwd, RFWe: rfWe, RFWSel: rfWSel}, SRFRead: -1, SRFWrite: srfWrite}, nil
	case "SWD":
		if len(args) != 1 {
			return parsedLSU{}, newErr(SlotLSU, ErrOperandCount, "SWD: expected 1 operand")
		}
		o, valid := parseOperand(args[0])
		if !valid {
			return parsedLSU{}, newErr(SlotLSU, ErrBadOperand, "SWD: bad operand %q", args[0])
		}
		muxA, srfA, ok := lsuMuxA(o)
		if !ok {
			return parsedLSU{}, newErr(SlotLSU, ErrBadOperand, "SWD: bad operand %q", args[0])
		}
		return parsedLSU{Word: isa.LSUWord{AluOp: isa.LSUSwd, MuxASel: muxA}, SRFRead: srfA, SRFWrite: -1}, nil
	case "LWI":
		return parseLWI(args)
	case "SWI":
		return parseSWI(args)
	}
	if aluOp, ok := lsuArithOps[op]; ok {
		return parseLSUArith(op, aluOp, args, false)
	}
	if strings.HasSuffix(op, "I") {
		if aluOp, ok := lsuArithOps[strings.TrimSuffix(op, "I")]; ok {
			return parseLSUArith(op, aluOp, args, true)
		}
	}
	return parsedLSU{}, newErr(SlotLSU, ErrUnknownMnemonic, "unknown LSU mnemonic %q", op)
}

func parseLSUArith(mnemonic string, aluOp isa.Op, args []string, immediate bool) (parsedLSU, error) {
	if len(args) != 3 {
		return parsedLSU{}, newErr(SlotLSU, ErrOperandCount, "%s: expected 3 operands", mnemonic)
	}
	rfWe, rfWSel, srfWrite, ok := lsuDest(args[0])
	if !ok {
		return parsedLSU{}, newErr(SlotLSU, ErrBadOperand, "%s: bad destination %q", mnemonic, args[0])
	}
	bOperand, bok := parseOperand(args[1])
	if !bok {
		return parsedLSU{}, newErr(SlotLSU, ErrBadOperand, "%s: bad operand %q", mnemonic, args[1])
	}
	muxB, srfB, ok := lsuMuxB(bOperand)
	if !ok {
		return parsedLSU{}, newErr(SlotLSU, ErrBadOperand, "%s: bad second operand %q", mnemonic, args[1])
	}
	w := isa.LSUWord{AluOp: aluOp, MuxBSel: muxB, RFWe: rfWe, RFWSel: rfWSel}
	srfRead := srfB
	if immediate {
		imm, ok := parseOperand(args[2])
		if !ok || imm.Kind != OperandImm {
			return parsedLSU{}, newErr(SlotLSU, ErrBadOperand, "%s: expected immediate third operand", mnemonic)
		}
		w.MuxASel = isa.LSUMuxAImm
		w.Imm = uint32(imm.Imm)
	} else {
		aOperand, aok := parseOperand(args[2])
		if !aok {
			return parsedLSU{}, newErr(SlotLSU, ErrBadOperand, "%s: bad third operand %q", mnemonic, args[2])
		}
		muxA, srfA, ok := lsuMuxA(aOperand)
		if !ok {
			return parsedLSU{}, newErr(SlotLSU, ErrBadOperand, "%s: bad third operand %q", mnemonic, args[2])
		}
		w.MuxASel = muxA
		if srfA != -1 {
			srfRead = srfA
		}
	}
	return parsedLSU{Word: w, SRFRead: srfRead, SRFWrite: srfWrite}, nil
}

// parseIndexed splits a "base+imm" token into its base operand and integer
// offset, as used by LWI/SWI's address operand.
func parseIndexed(tok string) (Operand, int64, bool) {
	idx := strings.IndexByte(tok, '+')
	if idx < 0 {
		return Operand{}, 0, false
	}
	base, imm := tok[:idx], tok[idx+1:]
	baseOperand, ok := parseOperand(base)
	if !ok {
		return Operand{}, 0, false
	}
	immOperand, ok := parseOperand(imm)
	if !ok || immOperand.Kind != OperandImm {
		return Operand{}, 0, false
	}
	return baseOperand, immOperand.Imm, true
}

func parseLWI(args []string) (parsedLSU, error) {
	if len(args) != 2 {
		return parsedLSU{}, newErr(SlotLSU, ErrOperandCount, "LWI: expected 2 operands")
	}
	rfWe, rfWSel, srfWrite, ok := lsuDest(args[0])
	if !ok {
		return parsedLSU{}, newErr(SlotLSU, ErrBadOperand, "LWI: bad destination %q", args[0])
	}
	base, imm, ok := parseIndexed(args[1])
	if !ok {
		return parsedLSU{}, newErr(SlotLSU, ErrBadOperand, "LWI: expected base+imm address, got %q", args[1])
	}
	muxA, srfA, ok := lsuMuxA(base)
	if !ok {
		return parsedLSU{}, newErr(SlotLSU, ErrBadOperand, "LWI: bad address base %q", args[1])
	}
	w := isa.LSUWord{AluOp: isa.LSULwi, MuxASel: muxA, RFWe: rfWe, RFWSel: rfWSel, Imm: uint32(imm)}
	return parsedLSU{Word: w, SRFRead: srfA, SRFWrite: srfWrite}, nil
}

func parseSWI(args []string) (parsedLSU, error) {
	if len(args) != 2 {
		return parsedLSU{}, newErr(SlotLSU, ErrOperandCount, "SWI: expected 2 operands")
	}
	base, imm, ok := parseIndexed(args[0])
	if !ok {
		return parsedLSU{}, newErr(SlotLSU, ErrBadOperand, "SWI: expected base+imm address, got %q", args[0])
	}
	muxA, srfA, ok := lsuMuxA(base)
	if !ok {
		return parsedLSU{}, newErr(SlotLSU, ErrBadOperand, "SWI: bad address base %q", args[0])
	}
	valOperand, vok := parseOperand(args[1])
	if !vok {
		return parsedLSU{}, newErr(SlotLSU, ErrBadOperand, "SWI: bad value operand %q", args[1])
	}
	muxB, srfB, ok := lsuMuxB(valOperand)
	if !ok {
		return parsedLSU{}, newErr(SlotLSU, ErrBadOperand, "SWI: bad value operand %q", args[1])
	}
	srfRead := srfA
	if srfRead == -1 {
		srfRead = srfB
	}
	w := isa.LSUWord{AluOp: isa.LSUSwi, MuxASel: muxA, MuxBSel: muxB, Imm: uint32(imm)}
	return parsedLSU{Word: w, SRFRead: srfRead, SRFWrite: -1}, nil
}
