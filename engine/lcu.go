package engine

import (
	"github.com/vwr2a/sim/alu"
	"github.com/vwr2a/sim/isa"
	"github.com/vwr2a/sim/machine"
)

// lcuReads carries the pre-cycle values an LCU may reference: the agreed
// SRF register and, for br_mode=1, this cycle's freshly computed RC ALU
// states (not the pre-cycle neighbour snapshot: spec.md's ordering
// guarantee explicitly lets the LCU observe flags produced this cycle).
type lcuReads struct {
	SRF    int32
	RCFlag [machine.Rows]alu.ALU
}

// lcuOutput is the new state an LCU produces this cycle.
type lcuOutput struct {
	RegWe       bool
	RegIdx      int
	RegVal      int32 // writeback value; for BGEPD this is the decremented A operand, not the ALU comparison result
	BranchTaken bool
	BranchPC    uint32
	Exit        bool
}

var lcuArithOpMap = map[isa.Op]alu.Op{
	isa.LCUSAdd: alu.SADD, isa.LCUSSub: alu.SSUB, isa.LCUSLL: alu.SLL,
	isa.LCUSRL: alu.SRL, isa.LCUSRA: alu.SRA, isa.LCULAnd: alu.LAND,
	isa.LCULOr: alu.LOR, isa.LCULXor: alu.LXOR,
}

// runLCU executes one LCU for one cycle.
func runLCU(state LCUState, w isa.LCUWord, in lcuReads) (lcuOutput, error) {
	muxa := lcuMuxAValue(w.MuxASel, w.Imm, state, in)
	muxb := lcuMuxBValue(w.MuxBSel, state, in)

	switch w.AluOp {
	case isa.LCUNop:
		return lcuOutput{}, nil

	case isa.LCUJump:
		return lcuOutput{BranchTaken: true, BranchPC: uint32(muxa + muxb)}, nil

	case isa.LCUExit:
		return lcuOutput{Exit: true}, nil

	case isa.LCUBeq, isa.LCUBne, isa.LCUBgepd, isa.LCUBlt:
		taken, err := lcuBranchTaken(w.AluOp, w.BrMode, muxa, muxb, state, in)
		if err != nil {
			return lcuOutput{}, err
		}
		out := lcuOutput{BranchTaken: taken, BranchPC: w.Imm}
		if w.AluOp == isa.LCUBgepd {
			out.RegWe = w.RFWe
			out.RegIdx = int(w.RFWSel)
			out.RegVal = muxa - 1
		}
		return out, nil

	default:
		op, ok := lcuArithOpMap[w.AluOp]
		if !ok {
			return lcuOutput{}, ErrUnknownOpcode
		}
		result := state.ALU
		if err := result.Exec(op, muxa, muxb, alu.Precision32, false); err != nil {
			return lcuOutput{}, err
		}
		out := lcuOutput{RegVal: result.Result}
		if w.RFWe {
			out.RegWe = true
			out.RegIdx = int(w.RFWSel)
		}
		return out, nil
	}
}

// lcuBranchTaken evaluates BEQ/BNE/BGEPD/BLT. When br_mode=0 it runs the
// LCU's own SSUB(muxa, muxb) and reads the resulting flags; when br_mode=1
// it ORs the condition across the column's four RCs this cycle (spec.md §9
// Open Question, resolved in favor of any-true-wins).
func lcuBranchTaken(op isa.Op, brMode uint32, muxa, muxb int32, state LCUState, in lcuReads) (bool, error) {
	if brMode == 0 {
		var cmp alu.ALU
		if err := cmp.Exec(alu.SSUB, muxa, muxb, alu.Precision32, false); err != nil {
			return false, err
		}
		return branchCondition(op, cmp.SignFlag, cmp.ZeroFlag), nil
	}
	for r := 0; r < machine.Rows; r++ {
		if branchCondition(op, in.RCFlag[r].SignFlag, in.RCFlag[r].ZeroFlag) {
			return true, nil
		}
	}
	return false, nil
}

func branchCondition(op isa.Op, sign, zero bool) bool {
	switch op {
	case isa.LCUBeq:
		return zero
	case isa.LCUBne:
		return !zero
	case isa.LCUBlt:
		return sign && !zero
	case isa.LCUBgepd:
		return !sign || zero
	default:
		return false
	}
}

func lcuMuxAValue(sel isa.LCUMuxASel, imm uint32, state LCUState, in lcuReads) int32 {
	switch sel {
	case isa.LCUMuxAR0:
		return state.Regs[0]
	case isa.LCUMuxAR1:
		return state.Regs[1]
	case isa.LCUMuxAR2:
		return state.Regs[2]
	case isa.LCUMuxAR3:
		return state.Regs[3]
	case isa.LCUMuxASRF:
		return in.SRF
	case isa.LCUMuxALast:
		return int32(machine.LastLaneIndex)
	case isa.LCUMuxAZero:
		return 0
	default: // LCUMuxAImm
		return int32(imm)
	}
}

func lcuMuxBValue(sel isa.LCUMuxBSel, state LCUState, in lcuReads) int32 {
	switch sel {
	case isa.LCUMuxBR0:
		return state.Regs[0]
	case isa.LCUMuxBR1:
		return state.Regs[1]
	case isa.LCUMuxBR2:
		return state.Regs[2]
	case isa.LCUMuxBR3:
		return state.Regs[3]
	case isa.LCUMuxBSRF:
		return in.SRF
	case isa.LCUMuxBLast:
		return int32(machine.LastLaneIndex)
	case isa.LCUMuxBZero:
		return 0
	default: // LCUMuxBOne
		return 1
	}
}
