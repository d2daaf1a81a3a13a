// Package engine implements the per-slot execution semantics (LCU, LSU,
// MXCU, RC) and the lockstep cycle engine that drives a column through an
// assembled kernel.
package engine

import (
	"github.com/vwr2a/sim/alu"
	"github.com/vwr2a/sim/isa"
	"github.com/vwr2a/sim/machine"
)

// LCUState is the Loop Control Unit's persistent state: its local registers
// and the ALU it uses for address arithmetic and branch comparisons.
type LCUState struct {
	Regs [machine.LCURegs]int32
	ALU  alu.ALU
}

// LSUState is the Load/Store Unit's persistent state. InCursor/OutCursor are
// the auto-incrementing SPM cursors driven by LWD/SWD.
type LSUState struct {
	Regs      [machine.LSURegs]int32
	InCursor  int
	OutCursor int
}

// MXCUState is the Multiplexer Control Unit's persistent state.
type MXCUState struct {
	Regs [machine.MXCURegs]int32
}

// RCState is one Reconfigurable Cell's persistent state: its two local
// registers and ALU. The ALU's Result is what neighbouring cells observe
// through the RCT/RCB/RCL/RCR mesh links.
type RCState struct {
	Regs [machine.RCRegs]int32
	ALU  alu.ALU
}

// ColumnState bundles one column's slots together with the shared resources
// (VWRs, SRF) and the instruction window for the kernel currently running.
type ColumnState struct {
	LCU    LCUState
	LSU    LSUState
	MXCU   MXCUState
	RCs    [machine.Rows]RCState
	Shared *machine.Column

	Active bool
	IMEM   []isa.CycleLine // the kernel's [base, base+n_instr) window
}

// NewColumnState returns an inactive, zeroed column state.
func NewColumnState() *ColumnState {
	return &ColumnState{Shared: machine.NewColumn()}
}

// neighbourSnapshot is a read-only view of every RC's committed ALU state,
// captured at the start of a cycle, used to resolve RCT/RCB/RCL/RCR mux and
// flag-source selections without letting an RC observe another RC's write
// from the same cycle. Indexed [col][row].
type neighbourSnapshot [machine.Cols][machine.Rows]alu.ALU

func (e *Engine) snapshotNeighbours() neighbourSnapshot {
	var snap neighbourSnapshot
	for c := 0; c < machine.Cols; c++ {
		for r := 0; r < machine.Rows; r++ {
			snap[c][r] = e.Columns[c].RCs[r].ALU
		}
	}
	return snap
}

// meshDir is one of the four toroidal mesh directions, independent of
// whether it was selected via an RCMuxSel (data) or RCMuxFSel (flag) field.
type meshDir int

const (
	dirTop meshDir = iota
	dirBottom
	dirLeft
	dirRight
)

// neighbourCoord resolves a mesh direction from (row, col). Top/bottom wrap
// within the column's R rows; left/right wrap across the C columns (see
// DESIGN.md "RC neighbour topology").
func neighbourCoord(dir meshDir, row, col int) (int, int) {
	switch dir {
	case dirTop:
		return (row - 1 + machine.Rows) % machine.Rows, col
	case dirBottom:
		return (row + 1) % machine.Rows, col
	case dirLeft:
		return row, (col - 1 + machine.Cols) % machine.Cols
	case dirRight:
		return row, (col + 1) % machine.Cols
	default:
		return row, col
	}
}

// muxSelDir maps a data-mux neighbour selection to a mesh direction.
func muxSelDir(sel isa.RCMuxSel) (meshDir, bool) {
	switch sel {
	case isa.RCMuxRCT:
		return dirTop, true
	case isa.RCMuxRCB:
		return dirBottom, true
	case isa.RCMuxRCL:
		return dirLeft, true
	case isa.RCMuxRCR:
		return dirRight, true
	default:
		return 0, false
	}
}

// muxFSelDir maps a flag-source neighbour selection to a mesh direction.
func muxFSelDir(sel isa.RCMuxFSel) (meshDir, bool) {
	switch sel {
	case isa.RCMuxFRCT:
		return dirTop, true
	case isa.RCMuxFRCB:
		return dirBottom, true
	case isa.RCMuxFRCL:
		return dirLeft, true
	case isa.RCMuxFRCR:
		return dirRight, true
	default:
		return 0, false
	}
}
