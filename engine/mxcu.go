package engine

import (
	"github.com/vwr2a/sim/alu"
	"github.com/vwr2a/sim/isa"
)

// mxcuOutput is the new state an MXCU produces this cycle. The per-cycle
// control fields (SRFSel, SRFWe, VWRSel, VWRRowWe) are read directly off the
// decoded isa.MXCUWord by the engine; only the MXCU's own ALU/register
// update is computed here.
type mxcuOutput struct {
	RegWe  bool
	RegIdx int
	RegVal int32
}

var mxcuOpMap = map[isa.Op]alu.Op{
	isa.MXCUSAdd: alu.SADD, isa.MXCUSSub: alu.SSUB, isa.MXCUSLL: alu.SLL,
	isa.MXCUSRL: alu.SRL, isa.MXCUSRA: alu.SRA, isa.MXCULAnd: alu.LAND,
	isa.MXCULOr: alu.LOR, isa.MXCULXor: alu.LXOR,
}

func runMXCU(state MXCUState, w isa.MXCUWord) (mxcuOutput, error) {
	if w.AluOp == isa.MXCUNop {
		return mxcuOutput{}, nil
	}
	op, ok := mxcuOpMap[w.AluOp]
	if !ok {
		return mxcuOutput{}, ErrUnknownOpcode
	}
	var result alu.ALU
	if err := result.Exec(op, state.Regs[w.MuxASel], state.Regs[w.MuxBSel], alu.Precision32, false); err != nil {
		return mxcuOutput{}, err
	}
	out := mxcuOutput{}
	if w.RFWe {
		out.RegWe = true
		out.RegIdx = int(w.RFWSel)
		out.RegVal = result.Result
	}
	return out, nil
}

// vwrMaskReg maps a VWR letter (0=A,1=B,2=C) to the MXCU register holding
// its address mask (R5/R6/R7, per machine's local-register layout).
func vwrMaskReg(letter uint32) int {
	return 5 + int(letter)
}

// vwrLaneIndex computes the column-agreed VWR lane for this cycle:
// MXCU.R0 AND mask_letter.
func vwrLaneIndex(state MXCUState, letter uint32) int {
	mask := state.Regs[vwrMaskReg(letter)]
	return int(state.Regs[0] & mask)
}
