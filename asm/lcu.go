package asm

import (
	"strings"

	"github.com/vwr2a/sim/isa"
)

var lcuArithOps = map[string]isa.Op{
	"SADD": isa.LCUSAdd, "SSUB": isa.LCUSSub, "SLL": isa.LCUSLL, "SRL": isa.LCUSRL,
	"SRA": isa.LCUSRA, "LAND": isa.LCULAnd, "LOR": isa.LCULOr, "LXOR": isa.LCULXor,
}

var lcuBranchOps = map[string]isa.Op{
	"BEQ": isa.LCUBeq, "BNE": isa.LCUBne, "BGEPD": isa.LCUBgepd, "BLT": isa.LCUBlt,
}

// parsedLCU is the asm-time result of one LCU mnemonic: the decoded word
// plus the SRF index it reads and/or writes, if any (-1 for none), used by
// cycle-wide SRF reconciliation.
type parsedLCU struct {
	Word        isa.LCUWord
	SRFRead     int
	SRFWrite    int
}

// ParseLCU parses one LCU mnemonic line. Grammar (mirroring the original
// assembler, except that an RC-mode branch is spelled as the full condition
// name plus an R suffix, and only that trailing R is stripped):
//
//	OP dest, rs, rt          arithmetic: dest = rt OP rs
//	OPI dest, rs, imm        arithmetic-immediate: dest = imm OP rs
//	BEQ|BNE|BGEPD|BLT rs, rt, imm    branch, br_mode=0
//	BEQR|BNER|BGEPDR|BLTR imm        branch, br_mode=1 (RC flags)
//	JUMP rs, rt|imm
//	NOP | EXIT
func ParseLCU(line string) (parsedLCU, error) {
	toks := Tokenize(line)
	if len(toks) == 0 {
		return parsedLCU{}, newErr(SlotLCU, ErrUnknownMnemonic, "empty instruction")
	}
	op := toks[0]
	args := toks[1:]

	switch op {
	case "NOP":
		return parsedLCU{SRFRead: -1, SRFWrite: -1}, nil
	case "EXIT":
		return parsedLCU{Word: isa.LCUWord{AluOp: isa.LCUExit}, SRFRead: -1, SRFWrite: -1}, nil
	case "JUMP":
		return parseLCUJump(args)
	}
	if aluOp, ok := lcuArithOps[op]; ok {
		return parseLCUArith(op, aluOp, args, false)
	}
	if aluOp, ok := lcuBranchOps[op]; ok {
		return parseLCUBranch(op, aluOp, args)
	}
	if strings.HasSuffix(op, "I") {
		if aluOp, ok := lcuArithOps[strings.TrimSuffix(op, "I")]; ok {
			return parseLCUArith(op, aluOp, args, true)
		}
	}
	if strings.HasSuffix(op, "R") {
		if aluOp, ok := lcuBranchOps[strings.TrimSuffix(op, "R")]; ok {
			return parseLCURCBranch(aluOp, args)
		}
	}
	return parsedLCU{}, newErr(SlotLCU, ErrUnknownMnemonic, "unknown LCU mnemonic %q", op)
}

func parseLCUDest(tok string) (rfWe bool, rfWSel uint32, srfIdx int, ok bool) {
	o, valid := parseOperand(tok)
	if !valid {
		return false, 0, -1, false
	}
	switch o.Kind {
	case OperandReg:
		if o.Reg > 3 {
			return false, 0, -1, false
		}
		return true, uint32(o.Reg), -1, true
	case OperandSRF:
		return false, 0, o.SRFIndex, true
	default:
		return false, 0, -1, false
	}
}

func lcuMuxA(o Operand) (isa.LCUMuxASel, int, bool) {
	switch o.Kind {
	case OperandReg:
		if o.Reg > 3 {
			return 0, -1, false
		}
		return isa.LCUMuxASel(o.Reg), -1, true
	case OperandSRF:
		return isa.LCUMuxASRF, o.SRFIndex, true
	case OperandZero:
		return isa.LCUMuxAZero, -1, true
	case OperandLast:
		return isa.LCUMuxALast, -1, true
	default:
		return 0, -1, false
	}
}

func lcuMuxB(o Operand) (isa.LCUMuxBSel, int, bool) {
	switch o.Kind {
	case OperandReg:
		if o.Reg > 3 {
			return 0, -1, false
		}
		return isa.LCUMuxBSel(o.Reg), -1, true
	case OperandSRF:
		return isa.LCUMuxBSRF, o.SRFIndex, true
	case OperandZero:
		return isa.LCUMuxBZero, -1, true
	case OperandOne:
		return isa.LCUMuxBOne, -1, true
	case OperandLast:
		return isa.LCUMuxBLast, -1, true
	default:
		return 0, -1, false
	}
}

func parseLCUArith(mnemonic string, aluOp isa.Op, args []string, immediate bool) (parsedLCU, error) {
	if len(args) != 3 {
		return parsedLCU{}, newErr(SlotLCU, ErrOperandCount, "%s: expected 3 operands", mnemonic)
	}
	rfWe, rfWSel, srfWrite, ok := parseLCUDest(args[0])
	if !ok {
		return parsedLCU{}, newErr(SlotLCU, ErrBadOperand, "%s: bad destination %q", mnemonic, args[0])
	}
	bOperand, bok := parseOperand(args[1])
	if !bok {
		return parsedLCU{}, newErr(SlotLCU, ErrBadOperand, "%s: bad operand %q", mnemonic, args[1])
	}
	muxB, srfB, ok := lcuMuxB(bOperand)
	if !ok {
		return parsedLCU{}, newErr(SlotLCU, ErrBadOperand, "%s: bad second operand %q", mnemonic, args[1])
	}

	w := isa.LCUWord{AluOp: aluOp, MuxBSel: muxB, RFWe: rfWe, RFWSel: rfWSel}
	srfRead := srfB
	if immediate {
		imm, ok := parseOperand(args[2])
		if !ok || imm.Kind != OperandImm {
			return parsedLCU{}, newErr(SlotLCU, ErrBadOperand, "%s: expected immediate third operand", mnemonic)
		}
		w.MuxASel = isa.LCUMuxAImm
		w.Imm = uint32(imm.Imm)
	} else {
		aOperand, aok := parseOperand(args[2])
		if !aok {
			return parsedLCU{}, newErr(SlotLCU, ErrBadOperand, "%s: bad third operand %q", mnemonic, args[2])
		}
		muxA, srfA, ok := lcuMuxA(aOperand)
		if !ok {
			return parsedLCU{}, newErr(SlotLCU, ErrBadOperand, "%s: bad third operand %q", mnemonic, args[2])
		}
		w.MuxASel = muxA
		if srfA != -1 {
			srfRead = srfA
		}
	}
	return parsedLCU{Word: w, SRFRead: srfRead, SRFWrite: srfWrite}, nil
}

func parseLCUBranch(mnemonic string, aluOp isa.Op, args []string) (parsedLCU, error) {
	if len(args) != 3 {
		return parsedLCU{}, newErr(SlotLCU, ErrOperandCount, "%s: expected 3 operands", mnemonic)
	}
	bOperand, bok := parseOperand(args[0])
	aOperand, aok := parseOperand(args[1])
	immOperand, iok := parseOperand(args[2])
	if !bok || !aok || !iok || immOperand.Kind != OperandImm {
		return parsedLCU{}, newErr(SlotLCU, ErrBadOperand, "%s: bad operands", mnemonic)
	}
	muxB, srfB, ok := lcuMuxB(bOperand)
	if !ok {
		return parsedLCU{}, newErr(SlotLCU, ErrBadOperand, "%s: bad first operand %q", mnemonic, args[0])
	}
	muxA, srfA, ok := lcuMuxA(aOperand)
	if !ok {
		return parsedLCU{}, newErr(SlotLCU, ErrBadOperand, "%s: bad second operand %q", mnemonic, args[1])
	}
	w := isa.LCUWord{AluOp: aluOp, MuxASel: muxA, MuxBSel: muxB, Imm: uint32(immOperand.Imm)}
	srfRead := srfA
	if srfRead == -1 {
		srfRead = srfB
	}
	srfWrite := -1
	if aluOp == isa.LCUBgepd {
		srfWrite = srfB
		w.RFWe = srfB == -1
		if w.RFWe && bOperand.Kind == OperandReg {
			w.RFWSel = uint32(bOperand.Reg)
		}
	}
	return parsedLCU{Word: w, SRFRead: srfRead, SRFWrite: srfWrite}, nil
}

func parseLCURCBranch(aluOp isa.Op, args []string) (parsedLCU, error) {
	if len(args) != 1 {
		return parsedLCU{}, newErr(SlotLCU, ErrOperandCount, "RC-mode branch: expected 1 operand")
	}
	imm, ok := parseOperand(args[0])
	if !ok || imm.Kind != OperandImm {
		return parsedLCU{}, newErr(SlotLCU, ErrBadOperand, "RC-mode branch: expected an immediate operand")
	}
	return parsedLCU{
		Word:     isa.LCUWord{AluOp: aluOp, BrMode: 1, Imm: uint32(imm.Imm)},
		SRFRead:  -1,
		SRFWrite: -1,
	}, nil
}

func parseLCUJump(args []string) (parsedLCU, error) {
	if len(args) != 2 {
		return parsedLCU{}, newErr(SlotLCU, ErrOperandCount, "JUMP: expected 2 operands")
	}
	bOperand, bok := parseOperand(args[0])
	if !bok {
		return parsedLCU{}, newErr(SlotLCU, ErrBadOperand, "JUMP: bad first operand %q", args[0])
	}
	muxB, srfB, ok := lcuMuxB(bOperand)
	if !ok {
		return parsedLCU{}, newErr(SlotLCU, ErrBadOperand, "JUMP: bad first operand %q", args[0])
	}
	w := isa.LCUWord{AluOp: isa.LCUJump, MuxBSel: muxB}
	srfRead := srfB

	aOperand, aok := parseOperand(args[1])
	if !aok {
		return parsedLCU{}, newErr(SlotLCU, ErrBadOperand, "JUMP: bad second operand %q", args[1])
	}
	if muxA, srfA, ok := lcuMuxA(aOperand); ok {
		w.MuxASel = muxA
		if srfA != -1 {
			srfRead = srfA
		}
	} else if aOperand.Kind == OperandImm {
		w.MuxASel = isa.LCUMuxAImm
		w.Imm = uint32(aOperand.Imm)
	} else {
		return parsedLCU{}, newErr(SlotLCU, ErrBadOperand, "JUMP: bad second operand %q", args[1])
	}
	return parsedLCU{Word: w, SRFRead: srfRead, SRFWrite: -1}, nil
}
