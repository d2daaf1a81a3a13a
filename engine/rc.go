package engine

import (
	"github.com/vwr2a/sim/alu"
	"github.com/vwr2a/sim/isa"
)

// rcReads carries the pre-cycle values one RC may reference this cycle: the
// VWR lane at the column's agreed index (one value per letter), the agreed
// SRF register, and a snapshot of every cell's ALU for mesh neighbour reads.
type rcReads struct {
	VWR        [3]int32
	SRF        int32
	Neighbours neighbourSnapshot
	Row, Col   int
}

// rcOutput is the new state an RC produces this cycle, staged for the
// engine's end-of-cycle commit.
type rcOutput struct {
	ALU      alu.ALU
	RegWe    bool
	RegIdx   int
	RegVal   int32
}

var rcOpMap = map[isa.Op]alu.Op{
	isa.RCNop: alu.NOP, isa.RCSAdd: alu.SADD, isa.RCSSub: alu.SSUB,
	isa.RCSMul: alu.SMUL, isa.RCSDiv: alu.SDIV, isa.RCSLL: alu.SLL,
	isa.RCSRL: alu.SRL, isa.RCSRA: alu.SRA, isa.RCLAnd: alu.LAND,
	isa.RCLOr: alu.LOR, isa.RCLXor: alu.LXOR, isa.RCInbSFInA: alu.SFGA,
	isa.RCInbZFInA: alu.ZFGA, isa.RCFxpMul: alu.FXPMUL, isa.RCFxpDiv: alu.FXPDIV,
}

// runRC executes one RC for one cycle. state is the cell's pre-cycle
// register/ALU state (read-only here); the caller applies the returned
// output at the cycle's end-of-cycle commit.
func runRC(state RCState, w isa.RCWord, in rcReads) (rcOutput, error) {
	muxa := rcOperandValue(w.MuxASel, state, in)
	muxb := rcOperandValue(w.MuxBSel, state, in)

	precision := alu.Precision32
	if w.OpMode == 1 {
		precision = alu.Precision16
	}

	flag := rcFlagValue(w.AluOp, w.MuxFSel, state, in)

	op, ok := rcOpMap[w.AluOp]
	if !ok {
		return rcOutput{}, ErrUnknownOpcode
	}

	result := state.ALU
	if err := result.Exec(op, muxa, muxb, precision, flag); err != nil {
		return rcOutput{}, err
	}

	out := rcOutput{ALU: result, RegVal: result.Result}
	if w.RFWe {
		out.RegWe = true
		out.RegIdx = int(w.RFWSel)
	}
	return out, nil
}

func rcOperandValue(sel isa.RCMuxSel, state RCState, in rcReads) int32 {
	switch sel {
	case isa.RCMuxVWRA:
		return in.VWR[0]
	case isa.RCMuxVWRB:
		return in.VWR[1]
	case isa.RCMuxVWRC:
		return in.VWR[2]
	case isa.RCMuxSRF:
		return in.SRF
	case isa.RCMuxR0:
		return state.Regs[0]
	case isa.RCMuxR1:
		return state.Regs[1]
	case isa.RCMuxZero:
		return 0
	case isa.RCMuxOne:
		return 1
	case isa.RCMuxMaxInt:
		return 0x7fffffff
	case isa.RCMuxMinInt:
		return -0x80000000
	default:
		if dir, ok := muxSelDir(sel); ok {
			row, col := neighbourCoord(dir, in.Row, in.Col)
			return in.Neighbours[col][row].Result
		}
		return 0
	}
}

// rcFlagValue resolves the predicate consulted by SFGA (sign flag) and ZFGA
// (zero flag), from either the cell's own pre-cycle ALU (OWN) or a named
// neighbour's pre-cycle ALU.
func rcFlagValue(op isa.Op, sel isa.RCMuxFSel, state RCState, in rcReads) bool {
	src := state.ALU
	if dir, ok := muxFSelDir(sel); ok {
		row, col := neighbourCoord(dir, in.Row, in.Col)
		src = in.Neighbours[col][row]
	}
	if op == isa.RCInbZFInA {
		return src.ZeroFlag
	}
	return src.SignFlag
}
