package engine

import (
	"fmt"

	"github.com/vwr2a/sim/alu"
	"github.com/vwr2a/sim/isa"
	"github.com/vwr2a/sim/machine"
)

// lsuReads carries the pre-cycle values an LSU may reference: the agreed
// SRF register and the bank-relative SPM view for this kernel run.
type lsuReads struct {
	SRF      int32
	SPM      *machine.SPM
	BankBase int
}

// lsuOutput is the new state an LSU produces this cycle.
type lsuOutput struct {
	RegWe      bool
	RegIdx     int
	RegVal     int32
	SPMWrite   bool
	SPMAddr    int
	SPMVal     int32
	InCursor   int // next cursor positions, always returned
	OutCursor  int
}

var lsuArithOpMap = map[isa.Op]alu.Op{
	isa.LSUSAdd: alu.SADD, isa.LSUSSub: alu.SSUB, isa.LSUSLL: alu.SLL,
	isa.LSUSRL: alu.SRL, isa.LSUSRA: alu.SRA, isa.LSULAnd: alu.LAND,
	isa.LSULOr: alu.LOR, isa.LSULXor: alu.LXOR,
}

// runLSU executes one LSU for one cycle. It validates SPM addresses but
// defers the actual array mutation to the caller's commit step, since reads
// this cycle must still observe pre-cycle SPM contents.
func runLSU(state LSUState, w isa.LSUWord, in lsuReads) (lsuOutput, error) {
	out := lsuOutput{InCursor: state.InCursor, OutCursor: state.OutCursor}
	muxa := lsuMuxAValue(w.MuxASel, w.Imm, state, in)
	muxb := lsuMuxBValue(w.MuxBSel, state, in)

	switch w.AluOp {
	case isa.LSUNop:
		return out, nil

	case isa.LSULwd:
		addr := in.BankBase + state.InCursor
		val, err := in.SPM.At(addr)
		if err != nil {
			return lsuOutput{}, err
		}
		out.InCursor = state.InCursor + 1
		out.RegWe = true
		out.RegIdx = int(w.RFWSel)
		out.RegVal = val
		return out, nil

	case isa.LSUSwd:
		// Output lands one line past the kernel's input bank, so a
		// straight LWD/SWD loop copies bank line N to line N+1.
		addr := in.BankBase + machine.SPMWords + state.OutCursor
		if addr < 0 || addr >= len(in.SPM.Words) {
			return lsuOutput{}, fmt.Errorf("%w: spm address %d", machine.ErrOutOfRange, addr)
		}
		out.OutCursor = state.OutCursor + 1
		out.SPMWrite = true
		out.SPMAddr = addr
		out.SPMVal = muxa
		return out, nil

	case isa.LSULwi:
		addr := int(muxa) + int(w.Imm)
		val, err := in.SPM.At(addr)
		if err != nil {
			return lsuOutput{}, err
		}
		out.RegWe = true
		out.RegIdx = int(w.RFWSel)
		out.RegVal = val
		return out, nil

	case isa.LSUSwi:
		addr := int(muxa) + int(w.Imm)
		if addr < 0 || addr >= len(in.SPM.Words) {
			return lsuOutput{}, fmt.Errorf("%w: spm address %d", machine.ErrOutOfRange, addr)
		}
		out.SPMWrite = true
		out.SPMAddr = addr
		out.SPMVal = muxb
		return out, nil

	default:
		op, ok := lsuArithOpMap[w.AluOp]
		if !ok {
			return lsuOutput{}, ErrUnknownOpcode
		}
		var result alu.ALU
		if err := result.Exec(op, muxa, muxb, alu.Precision32, false); err != nil {
			return lsuOutput{}, err
		}
		out.RegVal = result.Result
		if w.RFWe {
			out.RegWe = true
			out.RegIdx = int(w.RFWSel)
		}
		return out, nil
	}
}

func lsuMuxAValue(sel isa.LSUMuxASel, imm uint32, state LSUState, in lsuReads) int32 {
	switch sel {
	case isa.LSUMuxAR0:
		return state.Regs[0]
	case isa.LSUMuxAR1:
		return state.Regs[1]
	case isa.LSUMuxAR2:
		return state.Regs[2]
	case isa.LSUMuxAR3:
		return state.Regs[3]
	case isa.LSUMuxASRF:
		return in.SRF
	case isa.LSUMuxALast:
		return int32(machine.LastLaneIndex)
	case isa.LSUMuxAZero:
		return 0
	default: // LSUMuxAImm
		return int32(imm)
	}
}

func lsuMuxBValue(sel isa.LSUMuxBSel, state LSUState, in lsuReads) int32 {
	switch sel {
	case isa.LSUMuxBR0:
		return state.Regs[0]
	case isa.LSUMuxBR1:
		return state.Regs[1]
	case isa.LSUMuxBR2:
		return state.Regs[2]
	case isa.LSUMuxBR3:
		return state.Regs[3]
	case isa.LSUMuxBSRF:
		return in.SRF
	case isa.LSUMuxBLast:
		return int32(machine.LastLaneIndex)
	case isa.LSUMuxBZero:
		return 0
	default: // LSUMuxBOne
		return 1
	}
}
