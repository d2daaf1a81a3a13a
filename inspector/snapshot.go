// Package inspector is a read-only terminal viewer over a completed or
// step-limited engine.Engine run: a recorded per-cycle trace, paged through
// with a tcell/tview TUI. Record runs the engine to completion through Step
// before the TUI opens; the TUI itself never drives the engine and never
// mutates engine state; see the teacher's interactive debugger/tui.go for
// the live-stepping counterpart this package deliberately does not attempt.
package inspector

import (
	"github.com/vwr2a/sim/asm"
	"github.com/vwr2a/sim/engine"
	"github.com/vwr2a/sim/machine"
)

// ColumnSnapshot is one column's full visible state at the start of a cycle,
// before that cycle's instruction runs.
type ColumnSnapshot struct {
	Active bool

	LCURegs  [machine.LCURegs]int32
	LSURegs  [machine.LSURegs]int32
	MXCURegs [machine.MXCURegs]int32
	RCRegs   [machine.Rows][machine.RCRegs]int32

	SRF [machine.SRFRegs]int32
	VWR [3][machine.VWRLanes]int32

	// Mnemonics is the about-to-execute cycle's seven decoded slot mnemonics,
	// in asm.DisassembleCycle's [LCU, LSU, MXCU, RC0..RC3] order. Zero value
	// (all empty strings) once the column has fallen off the end of its
	// instruction window.
	Mnemonics [7]string
}

// Snapshot is one recorded cycle: the shared pc plus every active column's
// state at that point.
type Snapshot struct {
	Cycle   int
	PC      int
	Columns [machine.Cols]ColumnSnapshot
}

// Trace is a full recorded run: one Snapshot per executed cycle plus the
// engine's final outcome.
type Trace struct {
	Snapshots []Snapshot
	Result    engine.RunResult
}

// Record drives e to completion exactly as e.Run would, but captures a
// Snapshot of every active column before each cycle executes. The resulting
// Trace is what the inspector TUI pages through; recording never touches e's
// fields beyond calling Step, matching e.Run's own loop structure.
func Record(e *engine.Engine) (*Trace, error) {
	tr := &Trace{}
	steps := 0
	for e.PC < e.NInstr {
		if e.MaxSteps > 0 && steps >= e.MaxSteps {
			tr.Result = engine.RunResult{Reason: engine.ExitStepLimit, Cycles: steps, PC: e.PC}
			return tr, nil
		}
		tr.Snapshots = append(tr.Snapshots, snapshot(e, steps))

		exited, err := e.Step()
		if err != nil {
			tr.Result = engine.RunResult{Reason: engine.ExitEOF, Cycles: steps, PC: e.PC}
			return tr, err
		}
		steps++
		if exited {
			tr.Result = engine.RunResult{Reason: engine.ExitNormal, Cycles: steps, PC: e.PC}
			return tr, nil
		}
	}
	tr.Result = engine.RunResult{Reason: engine.ExitEOF, Cycles: steps, PC: e.PC}
	return tr, nil
}

func snapshot(e *engine.Engine, cycle int) Snapshot {
	snap := Snapshot{Cycle: cycle, PC: e.PC}
	for c := 0; c < machine.Cols; c++ {
		cs := e.Columns[c]
		col := ColumnSnapshot{Active: cs.Active}
		if !cs.Active {
			snap.Columns[c] = col
			continue
		}

		copy(col.LCURegs[:], cs.LCU.Regs[:])
		copy(col.LSURegs[:], cs.LSU.Regs[:])
		copy(col.MXCURegs[:], cs.MXCU.Regs[:])
		for r := 0; r < machine.Rows; r++ {
			copy(col.RCRegs[r][:], cs.RCs[r].Regs[:])
		}
		col.SRF = cs.Shared.SRF.Regs
		for letter := 0; letter < 3; letter++ {
			col.VWR[letter] = cs.Shared.VWR(machine.VWRLetter(letter)).Words
		}

		if e.PC < len(cs.IMEM) {
			col.Mnemonics = asm.DisassembleCycle(cs.IMEM[e.PC])
		}
		snap.Columns[c] = col
	}
	return snap
}

// spmLine returns the numbered SPM line (0 to machine.SPMLines-1) from e's final
// state, for the inspector's SPM panel. It reads through to the live engine
// rather than the trace because the SPM is global rather than per-column,
// and a kernel's working set is typically inspected after the run completes
// rather than cycle-by-cycle.
func spmLine(e *engine.Engine, line int) ([]int32, error) {
	return e.SPM.Line(line)
}
